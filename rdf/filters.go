package rdf

import (
	"fmt"
	"strings"
)

// EscapeString neutralizes characters that would break out of a quoted
// SPARQL string literal. This is the system's sole injection defense; every
// free-text filter value must pass through it before embedding.
func EscapeString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	value = strings.ReplaceAll(value, "\r", `\r`)
	return value
}

// FilterOption adjusts how Filter renders a constraint.
type FilterOption func(*filterOptions)

type filterOptions struct {
	isURI bool
}

// AsURI renders the value as an IRI reference instead of a literal.
func AsURI() FilterOption {
	return func(o *filterOptions) {
		o.isURI = true
	}
}

// Filter renders an equality constraint on a query variable, or the empty
// string when value is absent. Absent means nil, a nil pointer, or an empty
// string for URI values. Supported value types: string, *string, bool,
// *bool, int, int64, *int64. Booleans render as the store's 0/1 encoding.
// String values are always escaped and quoted.
func Filter(field string, value any, opts ...FilterOption) string {
	var options filterOptions
	for _, opt := range opts {
		opt(&options)
	}

	literal, ok := renderValue(value, options.isURI)
	if !ok {
		return ""
	}
	return fmt.Sprintf("FILTER (?%s = %s)\n", field, literal)
}

// RenderTerm converts a scalar to its query-text literal form, with the
// same absence and escaping rules as Filter. The second return value is
// false when the value is absent.
func RenderTerm(value any) (string, bool) {
	return renderValue(value, false)
}

// renderValue converts a scalar to its query-text form. The second return
// value is false when the value is absent and no constraint should render.
func renderValue(value any, isURI bool) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if isURI {
			if v == "" {
				return "", false
			}
			return "<" + v + ">", true
		}
		return `"` + EscapeString(v) + `"`, true
	case *string:
		if v == nil {
			return "", false
		}
		return renderValue(*v, isURI)
	case bool:
		if v {
			return "1", true
		}
		return "0", true
	case *bool:
		if v == nil {
			return "", false
		}
		return renderValue(*v, isURI)
	case int:
		return fmt.Sprintf("%d", v), true
	case int64:
		return fmt.Sprintf("%d", v), true
	case *int64:
		if v == nil {
			return "", false
		}
		return fmt.Sprintf("%d", *v), true
	default:
		return "", false
	}
}

// BoundFilter asserts that an optional field is present. It must precede any
// inequality comparison on an optional field, because absent fields must not
// participate in comparisons.
func BoundFilter(field string) string {
	return fmt.Sprintf("FILTER (BOUND(?%s))\n", field)
}

// InFilter renders a set-membership constraint, or its complement when
// negate is true. An empty value set renders no constraint: membership in
// the empty set is never asserted, and excluding nothing constrains nothing.
// This choice is deliberate and relied upon by all call sites.
func InFilter[T int64 | string](field string, values []T, negate bool) string {
	if len(values) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(values))
	for _, value := range values {
		switch v := any(value).(type) {
		case string:
			rendered = append(rendered, `"`+EscapeString(v)+`"`)
		case int64:
			rendered = append(rendered, fmt.Sprintf("%d", v))
		}
	}

	operator := "IN"
	if negate {
		operator = "NOT IN"
	}
	return fmt.Sprintf("FILTER (?%s %s (%s))\n", field, operator, strings.Join(rendered, ", "))
}

// ContainsFilter renders a disjunctive substring search over the given
// fields. The needle passes through the escaping utility.
func ContainsFilter(needle string, fields ...string) string {
	if needle == "" || len(fields) == 0 {
		return ""
	}

	escaped := EscapeString(needle)
	clauses := make([]string, 0, len(fields))
	for _, field := range fields {
		clauses = append(clauses, fmt.Sprintf(`CONTAINS(STR(?%s), "%s")`, field, escaped))
	}
	return "FILTER (" + strings.Join(clauses, " OR\n        ") + ")\n"
}

// PrefixFilter renders a string-prefix constraint over a field, matching any
// of the given prefixes.
func PrefixFilter(field string, prefixes ...string) string {
	if len(prefixes) == 0 {
		return ""
	}

	clauses := make([]string, 0, len(prefixes))
	for _, prefix := range prefixes {
		clauses = append(clauses, fmt.Sprintf(`STRSTARTS(STR(?%s), "%s")`, field, EscapeString(prefix)))
	}
	return "FILTER (" + strings.Join(clauses, " OR ") + ")\n"
}

// SuffixFilter renders a string-suffix constraint over a field.
func SuffixFilter(field, suffix string) string {
	if suffix == "" {
		return ""
	}
	return fmt.Sprintf("FILTER (STRENDS(STR(?%s), \"%s\"))\n", field, EscapeString(suffix))
}

// AfterFilter renders a strict greater-than comparison against a dateTime
// literal. Callers must emit BoundFilter for the field first.
func AfterFilter(field, timestamp string) string {
	if timestamp == "" {
		return ""
	}
	return fmt.Sprintf("FILTER (?%s > \"%s\"^^<%s>)\n", field, EscapeString(timestamp), XSDDateTime)
}

// Suffix appends the shared ordering and pagination clause. Order defaults
// to the stable "id" field and direction to descending. A limit or offset of
// zero means the clause is omitted; the application-level default limit of
// 10 is applied by callers, not here.
func Suffix(order, direction string, limit, offset int) string {
	if order == "" {
		order = "id"
	}
	if direction == "" {
		direction = "desc"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ORDER BY %s(?%s)\n", strings.ToUpper(direction), order)
	if limit > 0 {
		fmt.Fprintf(&sb, "LIMIT %d\n", limit)
	}
	if offset > 0 {
		fmt.Fprintf(&sb, "OFFSET %d\n", offset)
	}
	return sb.String()
}
