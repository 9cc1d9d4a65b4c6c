package sparql

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scidepot/depot/rdf"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

func TestNormalizeBindingTypedLiterals(t *testing.T) {
	tests := []struct {
		name     string
		binding  wireBinding
		expected Value
	}{
		{"integer", wireBinding{Type: "typed-literal", Datatype: rdf.XSDInteger, Value: "42"}, Int(42)},
		{"decimal truncates", wireBinding{Type: "typed-literal", Datatype: rdf.XSDDecimal, Value: "12.9"}, Int(12)},
		{"negative decimal truncates toward zero", wireBinding{Type: "typed-literal", Datatype: rdf.XSDDecimal, Value: "-3.7"}, Int(-3)},
		{"boolean zero", wireBinding{Type: "typed-literal", Datatype: rdf.XSDBoolean, Value: "0"}, Bool(false)},
		{"boolean one", wireBinding{Type: "typed-literal", Datatype: rdf.XSDBoolean, Value: "1"}, Bool(true)},
		{"boolean word", wireBinding{Type: "typed-literal", Datatype: rdf.XSDBoolean, Value: "true"}, Bool(true)},
		{"dateTime", wireBinding{Type: "typed-literal", Datatype: rdf.XSDDateTime, Value: "2021-05-03T10:15:00"}, String("2021-05-03 10:15:00")},
		{"dateTime with marker", wireBinding{Type: "typed-literal", Datatype: rdf.XSDDateTime, Value: "2021-05-03T10:15:00Z"}, String("2021-05-03 10:15:00")},
		{"string", wireBinding{Type: "typed-literal", Datatype: rdf.XSDString, Value: "hello"}, String("hello")},
		{"null sentinel", wireBinding{Type: "typed-literal", Datatype: rdf.XSDString, Value: "NULL"}, Null()},
		{"unrecognized datatype passes through", wireBinding{Type: "typed-literal", Datatype: "http://example.org/custom", Value: "raw"}, String("raw")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := normalizeBinding("field", tt.binding, discardLogger())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestNormalizeBindingFailures(t *testing.T) {
	for _, binding := range []wireBinding{
		{Type: "typed-literal", Datatype: rdf.XSDInteger, Value: "not-a-number"},
		{Type: "typed-literal", Datatype: rdf.XSDBoolean, Value: "2"},
		{Type: "typed-literal", Datatype: rdf.XSDDateTime, Value: "2021-05-03"},
	} {
		_, err := normalizeBinding("field", binding, discardLogger())
		assert.Error(t, err, "binding %+v", binding)
	}
}

func TestNormalizeRow(t *testing.T) {
	row, raw, err := normalizeRow(map[string]wireBinding{
		"id":        {Type: "typed-literal", Datatype: rdf.XSDInteger, Value: "7"},
		"container": {Type: "uri", Value: rdf.Row("article_7")},
		"doi":       {Type: "typed-literal", Datatype: rdf.XSDString, Value: "NULL"},
	}, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, raw)

	assert.Equal(t, int64(7), row.Int("id"))
	assert.Equal(t, rdf.Row("article_7"), row.Text("container"))
	assert.True(t, row["doi"].IsNull())
	assert.False(t, row.Has("doi"))
	assert.True(t, row.Has("id"))
}

func TestNormalizeRowRawLiteral(t *testing.T) {
	row, raw, err := normalizeRow(map[string]wireBinding{
		"callret-0": {Type: "literal", Value: "Insert into <g>, 14 (or less) triples -- done"},
	}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "Insert into <g>, 14 (or less) triples -- done", raw)
	assert.Empty(t, row)
}

func TestNormalizeRowLiteralWithDatatype(t *testing.T) {
	// Standard SPARQL JSON tags typed values as "literal" with a datatype.
	row, raw, err := normalizeRow(map[string]wireBinding{
		"id": {Type: "literal", Datatype: rdf.XSDInteger, Value: "3"},
	}, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, raw)
	assert.Equal(t, int64(3), row.Int("id"))
}

func TestValueJSONRoundTrip(t *testing.T) {
	original := Row{
		"id":       Int(9),
		"title":    String("measurements"),
		"uri":      URI(rdf.Row("article_9")),
		"public":   Bool(true),
		"canceled": Null(),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Row
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)

	// Integers must survive without the float64 detour.
	assert.Equal(t, int64(9), decoded.Int("id"))
	assert.Equal(t, KindURI, decoded["uri"].Kind())
}
