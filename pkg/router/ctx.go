package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/strada-dev/strada/pkg/routepath"
)

// Ctx is the per-request context: the resolved route, the extracted
// parameter map, and the validated namespace. A Ctx is owned exclusively
// by its request's execution and is never shared across requests, so none
// of its state is synchronized.
type Ctx struct {
	request *http.Request
	path    string
	method  Method
	route   *RouteDescriptor
	params  map[string]string

	query       url.Values
	queryParsed bool

	validated Validated

	values map[any]any

	rawBody  []byte
	bodyRead bool
	bodyErr  error

	parsedBody    any
	parsedBodySet bool
}

// Validated is the request's validated namespace, populated at most once
// by the validation adapter. Each field holds the corresponding
// validator's parsed output.
type Validated struct {
	Params any
	Query  any
	Body   any

	populated bool
}

// Populated reports whether the validation adapter has already run for
// this request.
func (v *Validated) Populated() bool {
	return v.populated
}

// NewCtx creates a request context for a matched route. params may be nil
// for routes without dynamic segments.
func NewCtx(req *http.Request, route *RouteDescriptor, params map[string]string) *Ctx {
	path := req.URL.Path
	if res, err := routepath.CanonicalizePath(req.URL.EscapedPath()); err == nil {
		path = res.Path
	}
	method, _ := ParseMethod(req.Method)
	if params == nil {
		params = map[string]string{}
	}
	return &Ctx{
		request: req,
		path:    path,
		method:  method,
		route:   route,
		params:  params,
	}
}

// Request returns the underlying HTTP request.
func (c *Ctx) Request() *http.Request {
	return c.request
}

// Context returns the request's context.
func (c *Ctx) Context() context.Context {
	return c.request.Context()
}

// Method returns the request method.
func (c *Ctx) Method() Method {
	return c.method
}

// Path returns the canonicalized request path.
func (c *Ctx) Path() string {
	return c.path
}

// Route returns the matched route descriptor.
func (c *Ctx) Route() *RouteDescriptor {
	return c.route
}

// Param returns the percent-decoded value bound to a dynamic segment.
func (c *Ctx) Param(name string) string {
	return c.params[name]
}

// Params returns the full parameter map. Callers must treat it as
// read-only.
func (c *Ctx) Params() map[string]string {
	return c.params
}

// Query returns the parsed query values. Parsing happens once per request.
func (c *Ctx) Query() url.Values {
	if !c.queryParsed {
		c.query, _ = url.ParseQuery(c.request.URL.RawQuery)
		c.queryParsed = true
	}
	return c.query
}

// Header returns the request headers.
func (c *Ctx) Header() http.Header {
	return c.request.Header
}

// Validated returns the request's validated namespace.
func (c *Ctx) Validated() *Validated {
	return &c.validated
}

// Set stores a request-scoped value for later middleware or the handler.
func (c *Ctx) Set(key, value any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = value
}

// Value retrieves a request-scoped value stored with Set.
func (c *Ctx) Value(key any) any {
	return c.values[key]
}

// BodyBytes reads and caches the raw request body. The underlying stream
// is consumed at most once; repeated calls return the cached bytes.
func (c *Ctx) BodyBytes() ([]byte, error) {
	if c.bodyRead {
		return c.rawBody, c.bodyErr
	}
	c.bodyRead = true
	if c.request.Body == nil {
		return nil, nil
	}
	c.rawBody, c.bodyErr = io.ReadAll(c.request.Body)
	return c.rawBody, c.bodyErr
}

// Body returns the parsed JSON request body. If the validation adapter has
// already parsed the body, the validated value is returned without
// re-reading the exhausted input stream; otherwise the raw body is decoded
// and cached. An absent body yields nil.
func (c *Ctx) Body() (any, error) {
	if c.validated.populated && c.validated.Body != nil {
		return c.validated.Body, nil
	}
	if c.parsedBodySet {
		return c.parsedBody, nil
	}
	raw, err := c.BodyBytes()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	c.parsedBody = v
	c.parsedBodySet = true
	return v, nil
}

// cacheParsedBody stores the validation adapter's parsed body so later
// reads inside the handler observe the already-parsed value.
func (c *Ctx) cacheParsedBody(v any) {
	c.parsedBody = v
	c.parsedBodySet = true
}
