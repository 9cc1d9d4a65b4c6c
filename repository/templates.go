package repository

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/scidepot/depot/errors"
	"github.com/scidepot/depot/rdf"
)

// Query templates live as versioned text assets so the injection-safety
// property stays auditable in one place: every free-text value reaching a
// template passes through the escape function, and numeric parameters are
// rendered by Go code before substitution.
//
//go:embed templates/*.sparql
var templateFS embed.FS

var queryTemplates = template.Must(
	template.New("sparql").
		Funcs(template.FuncMap{"escape": rdf.EscapeString}).
		ParseFS(templateFS, "templates/*.sparql"),
)

// render executes the named template. Params carry the operation-specific
// values; the caller has already injected the graph scope under
// "state_graph" and the IRI base under "base".
func render(name string, params map[string]any) (string, error) {
	var sb strings.Builder
	if err := queryTemplates.ExecuteTemplate(&sb, name+".sparql", params); err != nil {
		return "", errors.WrapInvalid(errors.ErrMalformedQuery, component, "render",
			fmt.Sprintf("template %s: %v", name, err))
	}
	return sb.String(), nil
}

// propertyConstraints renders triple-pattern constraints on ?row for the
// generic row-matching templates. Values render the same way filter values
// do; absent values contribute nothing. Fields render in sorted order so a
// given parameter set always produces identical query text, which the cache
// key derivation depends on.
func propertyConstraints(fields map[string]any) string {
	var sb strings.Builder
	for _, field := range sortedKeys(fields) {
		literal, ok := rdf.RenderTerm(fields[field])
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "  ?row col:%s %s .\n", field, literal)
	}
	return sb.String()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
