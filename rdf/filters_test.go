package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "hello", "hello"},
		{"double quote", `say "hi"`, `say \"hi\"`},
		{"backslash", `a\b`, `a\\b`},
		{"backslash before quote", `a\"b`, `a\\\"b`},
		{"newline", "a\nb", `a\nb`},
		{"injection attempt", `") } DELETE { ?s ?p ?o`, `\") } DELETE { ?s ?p ?o`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeString(tt.input))
		})
	}
}

func TestFilter(t *testing.T) {
	title := "Sea level \"measurements\""
	id := int64(42)
	active := true

	assert.Equal(t, "", Filter("doi", nil), "absent value renders no constraint")
	assert.Equal(t, "", Filter("doi", (*string)(nil)))
	assert.Equal(t, "", Filter("id", (*int64)(nil)))

	assert.Equal(t,
		"FILTER (?title = \"Sea level \\\"measurements\\\"\")\n",
		Filter("title", &title))
	assert.Equal(t, "FILTER (?id = 42)\n", Filter("id", &id))
	assert.Equal(t, "FILTER (?is_active = 1)\n", Filter("is_active", &active))
	assert.Equal(t, "FILTER (?is_public = 0)\n", Filter("is_public", false))

	uri := Row("article_5")
	assert.Equal(t,
		"FILTER (?article = <"+uri+">)\n",
		Filter("article", uri, AsURI()))
	assert.Equal(t, "", Filter("article", "", AsURI()), "empty URI renders no constraint")
}

func TestBoundFilter(t *testing.T) {
	assert.Equal(t, "FILTER (BOUND(?published_date))\n", BoundFilter("published_date"))
}

func TestInFilter(t *testing.T) {
	assert.Equal(t,
		"FILTER (?group_id IN (1, 2, 3))\n",
		InFilter("group_id", []int64{1, 2, 3}, false))
	assert.Equal(t,
		"FILTER (?article_id NOT IN (9))\n",
		InFilter("article_id", []int64{9}, true))
	assert.Equal(t,
		"FILTER (?status IN (\"public\", \"dra\\\"ft\"))\n",
		InFilter("status", []string{"public", `dra"ft`}, false))

	// The empty set renders no constraint, in both directions.
	assert.Equal(t, "", InFilter("group_id", []int64(nil), false))
	assert.Equal(t, "", InFilter("group_id", []int64{}, true))
	assert.Equal(t, "", InFilter("status", []string(nil), true))
}

func TestContainsFilter(t *testing.T) {
	fragment := ContainsFilter(`ocean "deep"`, "title", "description")
	assert.Contains(t, fragment, `CONTAINS(STR(?title), "ocean \"deep\"")`)
	assert.Contains(t, fragment, `CONTAINS(STR(?description), "ocean \"deep\"")`)
	assert.Equal(t, "", ContainsFilter("", "title"))
}

func TestPrefixAndSuffixFilters(t *testing.T) {
	assert.Equal(t,
		"FILTER (STRSTARTS(STR(?download_url), \"https://a\") OR STRSTARTS(STR(?download_url), \"https://b\"))\n",
		PrefixFilter("download_url", "https://a", "https://b"))
	assert.Equal(t, "", PrefixFilter("download_url"))

	assert.Equal(t,
		"FILTER (STRENDS(STR(?download_url), \".nc\"))\n",
		SuffixFilter("download_url", ".nc"))
}

func TestAfterFilter(t *testing.T) {
	assert.Equal(t,
		"FILTER (?published_date > \"2021-05-03T10:15:00\"^^<"+XSDDateTime+">)\n",
		AfterFilter("published_date", "2021-05-03T10:15:00"))
	assert.Equal(t, "", AfterFilter("published_date", ""))
}

func TestSuffix(t *testing.T) {
	assert.Equal(t, "ORDER BY DESC(?id)\n", Suffix("", "", 0, 0))
	assert.Equal(t,
		"ORDER BY ASC(?order_index)\nLIMIT 10\n",
		Suffix("order_index", "asc", 10, 0))
	assert.Equal(t,
		"ORDER BY DESC(?published_date)\nLIMIT 25\nOFFSET 50\n",
		Suffix("published_date", "desc", 25, 50))
}
