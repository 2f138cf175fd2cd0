package router

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"net/http"
	"path/filepath"
	"strings"
)

// ASTLoader inspects route files by parsing their Go source instead of
// executing them. It backs the CLI's structural commands: exported
// handler functions become stub handlers so the compiler can build a
// table for listing routes and generating documentation, without
// compiling the application.
type ASTLoader struct {
	// Root is the route directory on disk. Paths handed to Load are
	// resolved relative to it.
	Root string
}

// Load parses a Go source file and builds a structural RouteModule from
// its exported declarations: method-named functions (GET, POST, ...)
// become handlers, a Middleware variable marks the middleware slot, and a
// Summary constant feeds route metadata. Non-Go and test files report
// (nil, nil) and are skipped.
func (l *ASTLoader) Load(path string) (*RouteModule, error) {
	if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
		return nil, nil
	}

	full := filepath.Join(l.Root, filepath.FromSlash(path))
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, full, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	m := &RouteModule{Handlers: map[Method]HandlerFunc{}}
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Name == nil || !d.Name.IsExported() || d.Recv != nil {
				continue
			}
			if method, ok := ParseMethod(d.Name.Name); ok {
				m.Handlers[method] = stubHandler(method, path)
			}
		case *ast.GenDecl:
			if d.Tok != token.VAR {
				continue
			}
			for _, spec := range d.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for _, ident := range vs.Names {
					if ident.Name == "Middleware" && ident.IsExported() {
						m.Middleware = append(m.Middleware, stubMiddleware())
					}
				}
			}
		}
	}

	if len(m.Handlers) == 0 {
		return nil, nil
	}
	return m, nil
}

// stubHandler stands in for a handler found by source inspection. It is
// never meant to serve traffic; a table built from stubs exists for its
// structure only.
func stubHandler(method Method, path string) HandlerFunc {
	return func(c *Ctx) (*Response, error) {
		return JSON(http.StatusNotImplemented, map[string]any{
			"error":  "handler inspected from source, not loaded",
			"method": string(method),
			"source": path,
		}), nil
	}
}

func stubMiddleware() Middleware {
	return func(c *Ctx) (Result, error) {
		return Continue(), nil
	}
}
