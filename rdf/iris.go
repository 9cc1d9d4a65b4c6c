// Package rdf provides IRI construction, SPARQL filter building and triple
// graph serialization for the depot state graph. All free-text values pass
// through a single escaping utility before they are embedded in query text.
package rdf

import (
	"fmt"
	"strings"
)

// Base IRI constants for the depot vocabulary.
const (
	DepotBase = "https://depot.scidepot.org"

	// RowNamespace prefixes subject IRIs for individual records.
	RowNamespace = DepotBase + "/row/"

	// ColNamespace prefixes predicate IRIs for record fields.
	ColNamespace = DepotBase + "/column/"

	// TypeNamespace prefixes class IRIs for entity kinds.
	TypeNamespace = DepotBase + "/type/"

	// ContainerNamespace prefixes IRIs for UUID-addressed containers.
	ContainerNamespace = DepotBase + "/container/"

	// RDFType is the rdf:type predicate IRI.
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	// XSD datatype IRIs as reported by the store in typed literals.
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	XSDDateTime = "http://www.w3.org/2001/XMLSchema#dateTime"
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
)

// Row returns the subject IRI for a record, e.g. Row("article_12") for the
// twelfth article version.
func Row(name string) string {
	return RowNamespace + name
}

// Col returns the predicate IRI for a record field.
func Col(name string) string {
	return ColNamespace + name
}

// Type returns the class IRI for an entity kind, e.g. Type("Article").
func Type(name string) string {
	return TypeNamespace + name
}

// UUIDToURI converts a UUID string to a container-scoped IRI, or returns the
// empty string when the UUID is empty. The kind selects the path segment,
// e.g. "container" or "article".
func UUIDToURI(uuid, kind string) string {
	if uuid == "" {
		return ""
	}
	return fmt.Sprintf("%s%s/%s", ContainerNamespace, kind, uuid)
}

// URIToUUID extracts the trailing UUID from a container-scoped IRI. Returns
// the empty string when the IRI is not container-scoped.
func URIToUUID(uri string) string {
	if !strings.HasPrefix(uri, ContainerNamespace) {
		return ""
	}
	idx := strings.LastIndex(uri, "/")
	if idx < 0 || idx == len(uri)-1 {
		return ""
	}
	return uri[idx+1:]
}
