// Command example is a small product API built on the route registry.
// Modules are registered in code, compiled into a table, and served with
// logging, metrics, and generated documentation.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/strada-dev/strada/pkg/middleware"
	"github.com/strada-dev/strada/pkg/router"
	"github.com/strada-dev/strada/pkg/schema"
	"github.com/strada-dev/strada/pkg/server"
)

type product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// store is an in-memory product store.
type store struct {
	mu     sync.RWMutex
	nextID int
	items  map[int]product
}

func newStore() *store {
	return &store{
		nextID: 3,
		items: map[int]product{
			1: {ID: 1, Name: "kettle", Price: 39.90},
			2: {ID: 2, Name: "toaster", Price: 24.50},
		},
	}
}

func (s *store) list() []product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]product, 0, len(s.items))
	for id := 1; id < s.nextID; id++ {
		if p, ok := s.items[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *store) get(id int) (product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.items[id]
	return p, ok
}

func (s *store) create(name string, price float64) product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := product{ID: s.nextID, Name: name, Price: price}
	s.items[p.ID] = p
	s.nextID++
	return p
}

func (s *store) delete(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok
}

var createProductSchema = schema.MustCompile(map[string]any{
	"type":     "object",
	"required": []any{"name", "price"},
	"properties": map[string]any{
		"name":  map[string]any{"type": "string", "minLength": 1},
		"price": map[string]any{"type": "number", "minimum": 0},
	},
})

var productParamsSchema = schema.MustCompile(map[string]any{
	"type":     "object",
	"required": []any{"id"},
	"properties": map[string]any{
		"id": map[string]any{"type": "string", "pattern": "^[0-9]+$"},
	},
})

var listQuerySchema = schema.MustCompile(map[string]any{
	"type": "object",
	"properties": map[string]any{
		"limit": map[string]any{"type": "string", "pattern": "^[0-9]+$"},
	},
})

func registerRoutes(reg *router.Registry, db *store) {
	reg.Register("products/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				items := db.list()
				if limit := c.Query().Get("limit"); limit != "" {
					if n, err := strconv.Atoi(limit); err == nil && n < len(items) {
						items = items[:n]
					}
				}
				return router.JSON(http.StatusOK, items), nil
			},
			router.MethodPOST: func(c *router.Ctx) (*router.Response, error) {
				body, _ := c.Validated().Body.(map[string]any)
				name, _ := body["name"].(string)
				price, _ := body["price"].(float64)
				return router.JSON(http.StatusCreated, db.create(name, price)), nil
			},
		},
		Schemas: map[router.Method]*router.MethodSchema{
			router.MethodGET:  {Query: listQuerySchema},
			router.MethodPOST: {Body: createProductSchema},
		},
		Meta: &router.RouteMeta{
			Summary: "Product collection",
			Tags:    []string{"products"},
		},
	})

	reg.Register("products/[id]/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				id, err := strconv.Atoi(c.Param("id"))
				if err != nil {
					return router.JSON(http.StatusNotFound, map[string]any{"error": "not found"}), nil
				}
				p, ok := db.get(id)
				if !ok {
					return router.JSON(http.StatusNotFound, map[string]any{"error": "not found"}), nil
				}
				return router.JSON(http.StatusOK, p), nil
			},
			router.MethodDELETE: func(c *router.Ctx) (*router.Response, error) {
				id, _ := strconv.Atoi(c.Param("id"))
				if !db.delete(id) {
					return router.JSON(http.StatusNotFound, map[string]any{"error": "not found"}), nil
				}
				return nil, nil
			},
		},
		Schemas: map[router.Method]*router.MethodSchema{
			router.MethodGET: {Params: productParamsSchema},
		},
		Meta: &router.RouteMeta{
			Summary: "Single product",
			Tags:    []string{"products"},
		},
	})

	// The (admin) group keeps admin routes together on disk without
	// adding a URL segment: this serves at /audit.
	reg.Register("(admin)/audit/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				return router.JSON(http.StatusOK, map[string]any{
					"products": len(db.list()),
				}), nil
			},
		},
		Middleware: []router.Middleware{requireAdmin},
		Meta: &router.RouteMeta{
			Summary: "Inventory audit",
			Tags:    []string{"admin"},
		},
	})

	reg.Register("healthz/route.go", &router.RouteModule{
		Handlers: map[router.Method]router.HandlerFunc{
			router.MethodGET: func(c *router.Ctx) (*router.Response, error) {
				return router.JSON(http.StatusOK, map[string]any{"status": "ok"}), nil
			},
		},
	})
}

// requireAdmin short-circuits requests without the admin header.
func requireAdmin(c *router.Ctx) (router.Result, error) {
	if c.Header().Get("X-Admin-Token") != "letmein" {
		return router.ShortCircuit(router.JSON(http.StatusForbidden, map[string]any{
			"error": "admin token required",
		})), nil
	}
	return router.Continue(), nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	reg := router.NewRegistry()
	registerRoutes(reg, newStore())

	table, err := router.Compile(reg.FS(), reg, router.CompileOptions{Prefix: "/api"})
	if err != nil {
		logger.Error("route compilation failed", "error", err)
		os.Exit(1)
	}

	cfg := server.DefaultServerConfig().
		WithAddress(":8080").
		WithLogger(logger).
		WithGlobal(middleware.Logging(middleware.WithLogger(logger)))
	cfg.Docs.Title = "Product API"

	srv, err := server.New(table, cfg)
	if err != nil {
		logger.Error("server construction failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
