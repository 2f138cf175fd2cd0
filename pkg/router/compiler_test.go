package router

import (
	"errors"
	"io/fs"
	"net/http"
	"testing"
)

func okHandler(status int) HandlerFunc {
	return func(c *Ctx) (*Response, error) {
		return JSON(status, map[string]any{"ok": true}), nil
	}
}

func simpleModule(methods ...Method) *RouteModule {
	m := &RouteModule{Handlers: map[Method]HandlerFunc{}}
	for _, method := range methods {
		m.Handlers[method] = okHandler(http.StatusOK)
	}
	return m
}

func compileRegistry(t *testing.T, reg *Registry, opts CompileOptions) *Table {
	t.Helper()
	table, err := Compile(reg.FS(), reg, opts)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return table
}

func configErrors(t *testing.T, err error) []ConfigError {
	t.Helper()
	var multi *MultiConfigError
	if !errors.As(err, &multi) {
		t.Fatalf("error = %v, want *MultiConfigError", err)
	}
	return multi.Errors
}

func TestCompileDirectoryConventions(t *testing.T) {
	reg := NewRegistry()
	reg.Register("route.go", simpleModule(MethodGET))
	reg.Register("users/route.go", simpleModule(MethodGET, MethodPOST))
	reg.Register("users/[id]/route.go", simpleModule(MethodGET))
	reg.Register("(admin)/audit/route.go", simpleModule(MethodGET))
	reg.Register("users/[id]/posts/route.go", simpleModule(MethodGET))

	table := compileRegistry(t, reg, CompileOptions{})

	want := map[string]bool{
		"/":                true,
		"/users":           true,
		"/users/:id":       true,
		"/users/:id/posts": true,
		"/audit":           true,
	}
	if table.Len() != len(want) {
		t.Fatalf("table has %d routes, want %d", table.Len(), len(want))
	}
	for _, route := range table.Routes() {
		if !want[route.Path()] {
			t.Errorf("unexpected route %q", route.Path())
		}
	}
}

func TestCompilePrefix(t *testing.T) {
	reg := NewRegistry()
	reg.Register("users/route.go", simpleModule(MethodGET))

	table := compileRegistry(t, reg, CompileOptions{Prefix: "/api/v1"})

	if got := table.Routes()[0].Path(); got != "/api/v1/users" {
		t.Errorf("route path = %q, want %q", got, "/api/v1/users")
	}
}

func TestCompileEmptyTree(t *testing.T) {
	table := compileRegistry(t, NewRegistry(), CompileOptions{})
	if table.Len() != 0 {
		t.Errorf("table has %d routes, want 0", table.Len())
	}

	result := table.Match(MethodGET, "/anything")
	if result.Kind != MatchNotFound {
		t.Errorf("Match on empty table = %v, want MatchNotFound", result.Kind)
	}
}

func TestCompileAmbiguousDynamicSiblings(t *testing.T) {
	reg := NewRegistry()
	reg.Register("product/[id]/route.go", simpleModule(MethodGET))
	reg.Register("product/[sku]/route.go", simpleModule(MethodGET))

	_, err := Compile(reg.FS(), reg, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), err)
	}
	if errs[0].Type != ErrorAmbiguousDynamic {
		t.Errorf("error type = %v, want %v", errs[0].Type, ErrorAmbiguousDynamic)
	}
	if len(errs[0].Files) != 2 {
		t.Errorf("error names %d directories, want both siblings: %v", len(errs[0].Files), errs[0].Files)
	}
}

func TestCompileAmbiguousSiblingsStillScansRest(t *testing.T) {
	// A conflict in one subtree must not suppress errors elsewhere.
	reg := NewRegistry()
	reg.Register("a/[x]/route.go", simpleModule(MethodGET))
	reg.Register("a/[y]/route.go", simpleModule(MethodGET))
	reg.Register("b/route.go", &RouteModule{Handlers: map[Method]HandlerFunc{}})

	_, err := Compile(reg.FS(), reg, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
}

func TestCompileDuplicatePatternAcrossGroups(t *testing.T) {
	// Grouping directories contribute no URL segment, so two files in
	// different groups can collide on the same pattern.
	reg := NewRegistry()
	reg.Register("(v1)/users/route.go", simpleModule(MethodGET))
	reg.Register("(v2)/users/route.go", simpleModule(MethodGET))

	_, err := Compile(reg.FS(), reg, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), err)
	}
	if errs[0].Type != ErrorDuplicateRoute {
		t.Errorf("error type = %v, want %v", errs[0].Type, ErrorDuplicateRoute)
	}
	if len(errs[0].Files) != 2 {
		t.Errorf("error names %d files, want both sources: %v", len(errs[0].Files), errs[0].Files)
	}
}

func TestCompileModuleWithoutHandlers(t *testing.T) {
	reg := NewRegistry()
	reg.Register("users/route.go", &RouteModule{Handlers: map[Method]HandlerFunc{}})

	_, err := Compile(reg.FS(), reg, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) != 1 || errs[0].Type != ErrorInvalidModule {
		t.Fatalf("got %v, want one %v error", err, ErrorInvalidModule)
	}
}

func TestCompileEmptyDynamicName(t *testing.T) {
	reg := NewRegistry()
	reg.Register("users/[]/route.go", simpleModule(MethodGET))

	_, err := Compile(reg.FS(), reg, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) == 0 {
		t.Fatal("expected an error for [] directory")
	}
}

// failLoader reports an error for every file.
type failLoader struct{}

func (failLoader) Load(string) (*RouteModule, error) {
	return nil, errors.New("boom")
}

func TestCompileLoaderError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("users/route.go", simpleModule(MethodGET))

	_, err := Compile(reg.FS(), failLoader{}, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) != 1 || errs[0].Type != ErrorInvalidModule {
		t.Fatalf("got %v, want one %v error", err, ErrorInvalidModule)
	}
}

// brokenFS fails ReadDir below the root.
type brokenFS struct {
	fs.FS
}

func (b brokenFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if name != "." {
		return nil, errors.New("permission denied")
	}
	return fs.ReadDir(b.FS, name)
}

func TestCompileUnreadableDirectory(t *testing.T) {
	reg := NewRegistry()
	reg.Register("users/route.go", simpleModule(MethodGET))

	_, err := Compile(brokenFS{reg.FS()}, reg, CompileOptions{})
	errs := configErrors(t, err)

	if len(errs) != 1 || errs[0].Type != ErrorUnreadableDir {
		t.Fatalf("got %v, want one %v error", err, ErrorUnreadableDir)
	}
}
