package router

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRouteFile(t *testing.T, root, rel, src string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestASTLoaderDetectsHandlers(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "users/route.go", `package users

func GET() {}

func POST() {}

func helper() {}
`)

	loader := &ASTLoader{Root: root}
	m, err := loader.Load("users/route.go")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m == nil {
		t.Fatal("Load() = nil, want module")
	}
	if len(m.Handlers) != 2 {
		t.Errorf("handlers = %d, want GET and POST", len(m.Handlers))
	}
	if _, ok := m.Handlers[MethodGET]; !ok {
		t.Error("missing GET handler")
	}
}

func TestASTLoaderDetectsMiddleware(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "users/route.go", `package users

var Middleware = "placeholder"

func GET() {}
`)

	loader := &ASTLoader{Root: root}
	m, err := loader.Load("users/route.go")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(m.Middleware) != 1 {
		t.Errorf("middleware = %d, want 1", len(m.Middleware))
	}
}

func TestASTLoaderSkips(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "users/route_test.go", `package users

func GET() {}
`)
	writeRouteFile(t, root, "users/README.md", "docs")
	writeRouteFile(t, root, "users/helpers.go", `package users

func internalThing() {}
`)

	loader := &ASTLoader{Root: root}
	for _, rel := range []string{"users/route_test.go", "users/README.md", "users/helpers.go"} {
		m, err := loader.Load(rel)
		if err != nil {
			t.Errorf("Load(%q) error = %v", rel, err)
		}
		if m != nil {
			t.Errorf("Load(%q) = %+v, want nil (skipped)", rel, m)
		}
	}
}

func TestASTLoaderParseError(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "users/route.go", `package users

func GET( {`)

	loader := &ASTLoader{Root: root}
	if _, err := loader.Load("users/route.go"); err == nil {
		t.Error("Load() accepted unparseable source")
	}
}

func TestASTLoaderFeedsCompiler(t *testing.T) {
	root := t.TempDir()
	writeRouteFile(t, root, "users/route.go", `package users

func GET() {}
`)
	writeRouteFile(t, root, "users/[id]/route.go", `package user

func GET() {}

func DELETE() {}
`)

	table, err := Compile(os.DirFS(root), &ASTLoader{Root: root}, CompileOptions{})
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("table has %d routes, want 2", table.Len())
	}

	result := table.Match(MethodDELETE, "/users/9")
	if result.Kind != MatchFound {
		t.Fatalf("Match kind = %v, want MatchFound", result.Kind)
	}
}
