package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphAddElidesAbsentValues(t *testing.T) {
	g := NewGraph()
	subject := Row("author_7")

	g.Add(subject, Col("first_name"), (*string)(nil))
	g.Add(subject, Col("institution_id"), (*int64)(nil))
	g.Add(subject, Col("is_public"), nil)
	assert.Equal(t, 0, g.Len())

	name := "Ada"
	g.Add(subject, Col("first_name"), &name)
	assert.Equal(t, 1, g.Len())
}

func TestGraphLiteralForms(t *testing.T) {
	g := NewGraph()
	subject := Row("file_3")

	g.AddType(subject, Type("File"))
	g.Add(subject, Col("id"), int64(3))
	g.Add(subject, Col("is_link_only"), true)
	g.Add(subject, Col("name"), `data "set".nc`)
	g.AddLiteral(subject, Col("created_date"), DateTimeLiteral("2021-05-03T10:15:00Z"))

	query := InsertQuery("https://data.example.org/state", g)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO GRAPH <https://data.example.org/state> {\n"))
	assert.True(t, strings.HasSuffix(query, "}\n"))
	assert.Contains(t, query, "<"+subject+"> <"+RDFType+"> <"+Type("File")+"> .")
	assert.Contains(t, query, `"3"^^<`+XSDInteger+">")
	assert.Contains(t, query, `"1"^^<`+XSDInteger+">", "booleans use the 0/1 record encoding")
	assert.Contains(t, query, `"data \"set\".nc"^^<`+XSDString+">")
	assert.Contains(t, query, `"2021-05-03T10:15:00Z"^^<`+XSDDateTime+">")
}

func TestGraphPreservesInsertionOrder(t *testing.T) {
	g := NewGraph()
	s := Row("tag_1")
	g.Add(s, Col("a"), int64(1))
	g.Add(s, Col("b"), int64(2))
	g.Add(s, Col("c"), int64(3))

	triples := g.Triples()
	require.Len(t, triples, 3)
	assert.Equal(t, Col("a"), triples[0].Predicate)
	assert.Equal(t, Col("c"), triples[2].Predicate)
}

func TestUUIDToURI(t *testing.T) {
	uri := UUIDToURI("0f1b3c4d", "container")
	assert.Equal(t, ContainerNamespace+"container/0f1b3c4d", uri)
	assert.Equal(t, "0f1b3c4d", URIToUUID(uri))

	assert.Equal(t, "", UUIDToURI("", "container"))
	assert.Equal(t, "", URIToUUID("https://elsewhere.example/x"))
}
