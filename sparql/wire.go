package sparql

import (
	"log/slog"

	"github.com/scidepot/depot/errors"
	"github.com/scidepot/depot/pkg/timefmt"
	"github.com/scidepot/depot/rdf"
)

// wireBinding is one tagged cell of the endpoint's JSON result format:
// a typed literal with datatype, a plain literal, or a URI.
type wireBinding struct {
	Type     string `json:"type"`
	Datatype string `json:"datatype,omitempty"`
	Value    string `json:"value"`
}

// wireResults is the row-oriented result document returned by the endpoint.
type wireResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]wireBinding `json:"bindings"`
	} `json:"results"`
}

// nullSentinel is the reserved string literal meaning "no value".
const nullSentinel = "NULL"

// normalizeBinding coerces one tagged cell into a native value. Unrecognized
// datatypes are tolerated: logged and passed through as strings.
func normalizeBinding(name string, binding wireBinding, logger *slog.Logger) (Value, error) {
	switch binding.Datatype {
	case rdf.XSDInteger, rdf.XSDDecimal:
		i, err := parseIntegerLiteral(binding.Value)
		if err != nil {
			return Value{}, errors.WrapInvalid(err, "sparql", "normalizeBinding", "parse integer")
		}
		return Int(i), nil
	case rdf.XSDBoolean:
		b, err := parseBooleanLiteral(binding.Value)
		if err != nil {
			return Value{}, errors.WrapInvalid(err, "sparql", "normalizeBinding", "parse boolean")
		}
		return Bool(b), nil
	case rdf.XSDDateTime:
		display, err := timefmt.StoreToDisplay(binding.Value)
		if err != nil {
			return Value{}, errors.WrapInvalid(err, "sparql", "normalizeBinding", "parse dateTime")
		}
		return String(display), nil
	case rdf.XSDString:
		if binding.Value == nullSentinel {
			return Null(), nil
		}
		return String(binding.Value), nil
	default:
		logger.Info("unrecognized datatype in binding",
			"field", name, "datatype", binding.Datatype)
		return String(binding.Value), nil
	}
}

// normalizeRow coerces one wire row. When the row contains a plain literal
// binding (the raw status message shape of mutation responses), its value is
// returned separately; Update is the only operation that consumes it.
func normalizeRow(binding map[string]wireBinding, logger *slog.Logger) (Row, string, error) {
	row := make(Row, len(binding))
	var raw string

	for name, cell := range binding {
		switch cell.Type {
		case "typed-literal":
			value, err := normalizeBinding(name, cell, logger)
			if err != nil {
				return nil, "", err
			}
			row[name] = value
		case "literal":
			if cell.Datatype != "" {
				value, err := normalizeBinding(name, cell, logger)
				if err != nil {
					return nil, "", err
				}
				row[name] = value
				continue
			}
			raw = cell.Value
		case "uri":
			row[name] = URI(cell.Value)
		default:
			logger.Info("not a typed literal", "field", name, "type", cell.Type)
		}
	}

	return row, raw, nil
}
