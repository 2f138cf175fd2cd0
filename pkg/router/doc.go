// Package router implements file-convention routing and request dispatch
// for Strada.
//
// The router provides:
//   - Directory-convention route compilation via an injected module loader
//   - A specificity-ordered, immutable route table built once at startup
//   - Request matching with dynamic parameter extraction
//   - Precomputed middleware pipelines with a three-outcome control contract
//   - A validation adapter over opaque params/query/body schemas
//   - OpenAPI document generation from the compiled table
//
// # Directory Convention
//
// Routes are defined by the directory structure under a root:
//
//	routes/
//	├── api/
//	│   ├── users/
//	│   │   ├── route.go        → /api/users
//	│   │   └── [id]/
//	│   │       └── route.go    → /api/users/:id
//	│   ├── (admin)/
//	│   │   └── stats/
//	│   │       └── route.go    → /api/stats
//	│   └── health/
//	│       └── route.go        → /api/health
//
// A directory named [name] contributes a dynamic segment bound to the
// parameter "name"; a directory named (name) groups files on disk without
// contributing a URL segment; any other directory is a literal segment.
// At most one dynamic directory may exist per parent; a second dynamic
// sibling is a fatal configuration error detected at compile time.
//
// # Middleware Contract
//
// Every middleware returns exactly one of three outcomes:
//
//	ShortCircuit(resp) — stop immediately, return resp, skip all transforms
//	Continue()         — proceed to the next middleware
//	Transform(fn)      — proceed; fn post-processes the handler's response,
//	                     applied in reverse registration order
//
// # Usage
//
//	reg := router.NewRegistry()
//	reg.Register("api/users/[id]/route.go", &router.RouteModule{
//	    Handlers: map[router.Method]router.HandlerFunc{
//	        router.MethodGET: showUser,
//	    },
//	})
//
//	table, err := router.Compile(reg.FS(), reg, router.CompileOptions{})
//	engine := router.NewEngine(table, router.EngineConfig{})
//
//	resp := engine.Dispatch(req)
package router
