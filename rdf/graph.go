package rdf

import (
	"fmt"
	"strings"
)

// Literal is an object term: either a typed literal or an IRI reference.
type Literal struct {
	Value    string
	Datatype string // empty for plain literals
	IsURI    bool
}

// IntLiteral returns an xsd:integer literal.
func IntLiteral(value int64) Literal {
	return Literal{Value: fmt.Sprintf("%d", value), Datatype: XSDInteger}
}

// StringLiteral returns an xsd:string literal. The value is escaped during
// serialization, not here.
func StringLiteral(value string) Literal {
	return Literal{Value: value, Datatype: XSDString}
}

// BoolLiteral returns an xsd:boolean literal.
func BoolLiteral(value bool) Literal {
	if value {
		return Literal{Value: "true", Datatype: XSDBoolean}
	}
	return Literal{Value: "false", Datatype: XSDBoolean}
}

// DateTimeLiteral returns an xsd:dateTime literal.
func DateTimeLiteral(value string) Literal {
	return Literal{Value: value, Datatype: XSDDateTime}
}

// URIRef returns an IRI reference object.
func URIRef(uri string) Literal {
	return Literal{Value: uri, IsURI: true}
}

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   string
	Predicate string
	Object    Literal
}

// Graph accumulates triples for a single insert subgraph.
type Graph struct {
	triples []Triple
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// AddType states the rdf:type of a subject.
func (g *Graph) AddType(subject, class string) {
	g.triples = append(g.triples, Triple{
		Subject:   subject,
		Predicate: RDFType,
		Object:    URIRef(class),
	})
}

// AddLiteral states a triple with an explicit object term.
func (g *Graph) AddLiteral(subject, predicate string, object Literal) {
	g.triples = append(g.triples, Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	})
}

// Add states a triple for an optional scalar, eliding absent values. Absent
// means nil or a nil pointer. Plain integers carry xsd:integer, booleans the
// store's 0/1 integer encoding, strings xsd:string.
func (g *Graph) Add(subject, predicate string, value any) {
	switch v := value.(type) {
	case nil:
		return
	case Literal:
		g.AddLiteral(subject, predicate, v)
	case string:
		g.AddLiteral(subject, predicate, StringLiteral(v))
	case *string:
		if v == nil {
			return
		}
		g.AddLiteral(subject, predicate, StringLiteral(*v))
	case int:
		g.AddLiteral(subject, predicate, IntLiteral(int64(v)))
	case int64:
		g.AddLiteral(subject, predicate, IntLiteral(v))
	case *int64:
		if v == nil {
			return
		}
		g.AddLiteral(subject, predicate, IntLiteral(*v))
	case bool:
		// Boolean record fields use the 0/1 integer encoding so that
		// result coercion stays uniform across the data model.
		if v {
			g.AddLiteral(subject, predicate, IntLiteral(1))
		} else {
			g.AddLiteral(subject, predicate, IntLiteral(0))
		}
	case *bool:
		if v == nil {
			return
		}
		g.Add(subject, predicate, *v)
	}
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the accumulated statements in insertion order.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// serialize renders one triple in N-Triples form.
func (t Triple) serialize() string {
	var object string
	switch {
	case t.Object.IsURI:
		object = "<" + t.Object.Value + ">"
	case t.Object.Datatype != "":
		object = fmt.Sprintf("\"%s\"^^<%s>", EscapeString(t.Object.Value), t.Object.Datatype)
	default:
		object = `"` + EscapeString(t.Object.Value) + `"`
	}
	return fmt.Sprintf("<%s> <%s> %s .", t.Subject, t.Predicate, object)
}

// InsertQuery serializes the graph into a single INSERT against the state
// graph. Each write operation issues exactly one such query; there is no
// multi-statement transaction.
func InsertQuery(stateGraph string, g *Graph) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO GRAPH <%s> {\n", stateGraph)
	for _, triple := range g.Triples() {
		sb.WriteString("  ")
		sb.WriteString(triple.serialize())
		sb.WriteString("\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
