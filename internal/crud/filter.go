package crud

import (
	"net/url"
	"strings"
)

// All is the facet sentinel meaning "no filter"
const All = "all"

// Filter keeps the items whose search fields contain the term (case-insensitive)
// and whose facet values equal every selected option. An empty term and no
// selected facets return every item.
func Filter[V any](items []V, q Query, search []func(V) string, facets []Facet[V]) []V {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]V, 0, len(items))
	for _, item := range items {
		if matchesSearch(item, term, search) && matchesFacets(item, q.Filters, facets) {
			out = append(out, item)
		}
	}
	return out
}

func matchesSearch[V any](item V, term string, search []func(V) string) bool {
	if term == "" {
		return true
	}
	for _, field := range search {
		if strings.Contains(strings.ToLower(field(item)), term) {
			return true
		}
	}
	return false
}

func matchesFacets[V any](item V, selected map[string]string, facets []Facet[V]) bool {
	for _, f := range facets {
		want := selected[f.Key]
		if want == "" || want == All {
			continue
		}
		if f.Value(item) != want {
			return false
		}
	}
	return true
}

// serverParams turns a query into list parameters for server-side search
func serverParams[V any](q Query, facets []Facet[V]) url.Values {
	params := url.Values{}
	if term := strings.TrimSpace(q.Search); term != "" {
		params.Set("search", term)
	}
	for _, f := range facets {
		want := q.Filters[f.Key]
		if want == "" || want == All {
			continue
		}
		param := f.Param
		if param == "" {
			param = f.Key
		}
		params.Set(param, want)
	}
	return params
}
