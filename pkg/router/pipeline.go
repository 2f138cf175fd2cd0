package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/strada-dev/strada/pkg/routepath"
)

// EngineConfig configures the dispatch engine. It is an immutable value
// constructed once at startup and threaded explicitly into the pipeline
// builder; there is no process-wide middleware registry.
type EngineConfig struct {
	// Global is the global middleware, applied to every route in
	// registration order, ahead of validation and route-specific
	// middleware.
	Global []Middleware

	// Logger receives dispatch-boundary error logs. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Debug enriches 500 responses with request context and logs stack
	// traces for recovered panics.
	Debug bool
}

// Engine dispatches requests against a compiled route table. The per-route
// middleware chains are precomputed once at construction: for every
// (route, method) pair the chain is
//
//	global → validation (iff a schema is declared for the method) → route-specific
//
// with the method's handler as the terminal stage. Chains are read-only
// after construction and safe for concurrent use.
type Engine struct {
	table  *Table
	chains map[*RouteDescriptor]map[Method][]Middleware
	logger *slog.Logger
	debug  bool
}

// NewEngine builds the dispatch engine and its middleware pipelines.
func NewEngine(table *Table, cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		table:  table,
		chains: make(map[*RouteDescriptor]map[Method][]Middleware, table.Len()),
		logger: logger,
		debug:  cfg.Debug,
	}

	for _, route := range table.Routes() {
		byMethod := make(map[Method][]Middleware, len(route.Handlers))
		for method := range route.Handlers {
			size := len(cfg.Global) + len(route.Middleware)
			if route.Schemas[method] != nil {
				size++
			}
			chain := make([]Middleware, 0, size)
			chain = append(chain, cfg.Global...)
			if ms := route.Schemas[method]; ms != nil {
				chain = append(chain, validationMiddleware(ms))
			}
			chain = append(chain, route.Middleware...)
			byMethod[method] = chain
		}
		e.chains[route] = byMethod
	}

	return e
}

// Table returns the engine's route table.
func (e *Engine) Table() *Table {
	return e.table
}

// Chain returns the precomputed middleware chain for a (route, method)
// pair. The returned slice is read-only.
func (e *Engine) Chain(route *RouteDescriptor, method Method) []Middleware {
	return e.chains[route][method]
}

// Dispatch resolves and executes one request, always producing a response:
//
//	matched, handler succeeds  → handler-chosen response
//	path matched, method absent → 405
//	no path match               → 404
//	validation failure          → 400 (from the validation middleware)
//	middleware/handler failure  → 500
//
// Errors and panics are contained to this request; they never escape the
// dispatch boundary.
func (e *Engine) Dispatch(req *http.Request) *Response {
	canonical, err := routepath.CanonicalizePath(req.URL.EscapedPath())
	if err != nil {
		return e.errorResponse(http.StatusNotFound, "not found", req)
	}

	method, ok := ParseMethod(req.Method)
	if !ok {
		return e.errorResponse(http.StatusMethodNotAllowed, "method not allowed", req)
	}

	match := e.table.Match(method, canonical.Path)
	switch match.Kind {
	case MatchNotFound:
		return e.errorResponse(http.StatusNotFound, "not found", req)
	case MatchMethodNotAllowed:
		resp := e.errorResponse(http.StatusMethodNotAllowed, "method not allowed", req)
		return resp.WithHeader("Allow", joinMethods(match.Allowed))
	}

	c := NewCtx(req, match.Route, match.Params)
	return e.Run(c)
}

// Run executes the precomputed pipeline for an already-matched request
// context: forward cursor over the middleware array, then the terminal
// handler, then collected transforms in reverse order. A short-circuit
// returns immediately and skips every collected transform, including those
// registered before the short-circuiting middleware.
func (e *Engine) Run(c *Ctx) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logPanic(c, r)
			resp = e.errorResponse(http.StatusInternalServerError, "internal server error", c.request)
		}
	}()

	chain := e.chains[c.route][c.method]
	handler := c.route.Handlers[c.method]

	var transforms []TransformFunc
	for _, mw := range chain {
		result, err := mw(c)
		if err != nil {
			e.logError(c, err)
			return e.errorResponse(http.StatusInternalServerError, "internal server error", c.request)
		}
		switch result.kind {
		case kindShortCircuit:
			return result.response
		case kindTransform:
			transforms = append(transforms, result.transform)
		}
	}

	out, err := handler(c)
	if err != nil {
		e.logError(c, err)
		return e.errorResponse(http.StatusInternalServerError, "internal server error", c.request)
	}
	if out == nil {
		out = &Response{Status: http.StatusNoContent, Header: http.Header{}}
	}

	// Last-registered transform runs first; the first global middleware's
	// transform gets the final word on the outgoing response.
	for i := len(transforms) - 1; i >= 0; i-- {
		out, err = transforms[i](c, out)
		if err != nil {
			e.logError(c, err)
			return e.errorResponse(http.StatusInternalServerError, "internal server error", c.request)
		}
		if out == nil {
			out = &Response{Status: http.StatusNoContent, Header: http.Header{}}
		}
	}

	return out
}

func (e *Engine) errorResponse(status int, message string, req *http.Request) *Response {
	body := map[string]any{"error": message}
	if e.debug && status == http.StatusInternalServerError && req != nil {
		body["method"] = req.Method
		body["path"] = req.URL.Path
	}
	return JSON(status, body)
}

func (e *Engine) logError(c *Ctx, err error) {
	e.logger.Error("request failed",
		"method", string(c.method),
		"path", c.path,
		"route", c.route.Path(),
		"error", err,
	)
}

func (e *Engine) logPanic(c *Ctx, v any) {
	attrs := []any{
		"method", string(c.method),
		"path", c.path,
		"route", c.route.Path(),
		"panic", v,
	}
	if e.debug {
		attrs = append(attrs, "stack", string(debug.Stack()))
	}
	e.logger.Error("panic in pipeline", attrs...)
}

func joinMethods(methods []Method) string {
	parts := make([]string, len(methods))
	for i, m := range methods {
		parts[i] = string(m)
	}
	return strings.Join(parts, ", ")
}
