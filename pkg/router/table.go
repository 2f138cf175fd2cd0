package router

import (
	"fmt"
	"sort"
)

// Table is the immutable, specificity-ordered route table. It is built
// once at startup and never mutated while serving, which makes it safe for
// unsynchronized concurrent reads from any number of in-flight requests.
type Table struct {
	routes []*RouteDescriptor
}

// NewTable sorts descriptors into matching order and verifies pattern
// uniqueness. Order: specificity descending (count of literal segments),
// ties broken ascending lexicographically on the rendered pattern. A
// request matching both /product/featured and /product/:id therefore
// deterministically resolves to the static route, and "first match wins"
// is correct without look-ahead.
func NewTable(routes []*RouteDescriptor) (*Table, error) {
	sorted := make([]*RouteDescriptor, len(routes))
	copy(sorted, routes)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].specificity != sorted[j].specificity {
			return sorted[i].specificity > sorted[j].specificity
		}
		return sorted[i].path < sorted[j].path
	})

	var errs []ConfigError
	for i := 1; i < len(sorted); i++ {
		if sorted[i].path == sorted[i-1].path {
			errs = append(errs, ConfigError{
				Type:    ErrorDuplicateRoute,
				Message: fmt.Sprintf("duplicate route at %s", sorted[i].path),
				Path:    sorted[i].path,
				Files:   []string{sorted[i-1].SourcePath, sorted[i].SourcePath},
			})
		}
	}
	if len(errs) > 0 {
		return nil, &MultiConfigError{Errors: errs}
	}

	return &Table{routes: sorted}, nil
}

// Routes returns the descriptors in matching order. The returned slice is
// shared; callers must treat it as read-only.
func (t *Table) Routes() []*RouteDescriptor {
	return t.routes
}

// Len returns the number of routes in the table.
func (t *Table) Len() int {
	return len(t.routes)
}
