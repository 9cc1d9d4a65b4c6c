// Package depot provides the data-access layer of a research data
// repository backed by a SPARQL endpoint.
//
// # Architecture
//
// The module is organized as a stack of small packages:
//
//	┌─────────────────────────────────────┐
//	│          repository                 │  Typed read/write API,
//	│  (readers, writers, updates)        │  cache-and-invalidate policy
//	└─────────────────────────────────────┘
//	           ↓ queries via
//	┌─────────────────────────────────────┐
//	│       sparql  +  cache              │  HTTP client, value coercion,
//	│  (client, rows, result cache)       │  prefix-invalidated results
//	└─────────────────────────────────────┘
//	           ↓ built from
//	┌─────────────────────────────────────┐
//	│        rdf  +  counters             │  IRIs, filters, graph
//	│  (query building, id allocation)    │  serialization, id state
//	└─────────────────────────────────────┘
//
// Every record lives as a set of triples in one state graph. The repository
// renders parameterized query templates, coerces the endpoint's typed
// literals into Go values, and caches result sets per query text. Mutations
// invalidate the cache prefixes whose data they could have affected,
// synchronously with the write's success.
//
// Identifier allocation is in-process: the counters package holds one
// atomic counter per record kind, reconciled against the store's maxima at
// startup. Running more than one writing process against the same state
// graph requires marking all but one as secondary workers.
//
// The cmd/depotd entry point wires configuration, structured logging,
// Prometheus metrics and the data layer into a runnable service.
package depot
