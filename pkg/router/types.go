package router

import (
	"net/http"
	"strings"
)

// Method is an HTTP method name from the closed set the router dispatches.
type Method string

// The fixed set of dispatchable HTTP methods. Handler lookup is a closed
// map over this enumeration; anything else is never dispatched.
const (
	MethodGET     Method = "GET"
	MethodPOST    Method = "POST"
	MethodPUT     Method = "PUT"
	MethodDELETE  Method = "DELETE"
	MethodPATCH   Method = "PATCH"
	MethodHEAD    Method = "HEAD"
	MethodOPTIONS Method = "OPTIONS"
)

// Methods lists all dispatchable methods in canonical order.
var Methods = []Method{
	MethodGET,
	MethodPOST,
	MethodPUT,
	MethodDELETE,
	MethodPATCH,
	MethodHEAD,
	MethodOPTIONS,
}

// ParseMethod maps a method string to the closed enumeration.
// Unknown names report false and are ignored by the dispatcher.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(s))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// SegmentKind distinguishes literal from dynamic pattern segments.
type SegmentKind uint8

const (
	// SegmentLiteral matches a request segment byte-for-byte.
	SegmentLiteral SegmentKind = iota

	// SegmentParam matches any request segment and binds its
	// percent-decoded value under the segment's name.
	SegmentParam
)

// Segment is one element of a route pattern.
type Segment struct {
	Kind SegmentKind

	// Value is the literal text for SegmentLiteral, or the parameter
	// name for SegmentParam.
	Value string
}

// Literal returns a literal pattern segment.
func Literal(text string) Segment {
	return Segment{Kind: SegmentLiteral, Value: text}
}

// Param returns a dynamic pattern segment bound to name.
func Param(name string) Segment {
	return Segment{Kind: SegmentParam, Value: name}
}

// Pattern is an ordered sequence of segments describing one URL shape.
type Pattern []Segment

// String renders the pattern in :name notation, e.g. "/api/product/:id".
func (p Pattern) String() string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte('/')
		if seg.Kind == SegmentParam {
			sb.WriteByte(':')
		}
		sb.WriteString(seg.Value)
	}
	return sb.String()
}

// Specificity is the count of literal segments; dynamic segments
// contribute zero. Higher specificity routes are matched first.
func (p Pattern) Specificity() int {
	n := 0
	for _, seg := range p {
		if seg.Kind == SegmentLiteral {
			n++
		}
	}
	return n
}

// ParsePattern parses :name notation back into a Pattern.
// "/api/product/:id" → [Literal(api) Literal(product) Param(id)].
func ParsePattern(s string) Pattern {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	p := make(Pattern, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, ":") {
			p = append(p, Param(part[1:]))
		} else {
			p = append(p, Literal(part))
		}
	}
	return p
}

// HandlerFunc is the terminal stage of a route's pipeline.
type HandlerFunc func(c *Ctx) (*Response, error)

// TransformFunc post-processes the response produced by the terminal
// handler. Transforms run in reverse order of registration.
type TransformFunc func(c *Ctx, resp *Response) (*Response, error)

// Middleware processes a request before the handler runs. It must return
// exactly one of the three outcomes (see Result); a non-nil error aborts
// the request with a 500 response.
type Middleware func(c *Ctx) (Result, error)

// resultKind tags the middleware outcome variant.
type resultKind uint8

const (
	kindContinue resultKind = iota
	kindShortCircuit
	kindTransform
)

// Result is the tagged three-outcome return value of a Middleware.
// Construct it with Continue, ShortCircuit, or Transform; the zero value
// is Continue.
type Result struct {
	kind      resultKind
	response  *Response
	transform TransformFunc
}

// Continue signals "proceed to the next middleware" with no further effect.
func Continue() Result {
	return Result{kind: kindContinue}
}

// ShortCircuit stops pipeline traversal immediately and returns resp as-is.
// No further middleware, validation, or handler executes, and no collected
// transform runs.
func ShortCircuit(resp *Response) Result {
	return Result{kind: kindShortCircuit, response: resp}
}

// Transform registers fn to post-process the eventual response and lets
// traversal continue. Transforms collected along the pipeline apply after
// the handler, in reverse order of registration.
func Transform(fn TransformFunc) Result {
	return Result{kind: kindTransform, transform: fn}
}

// Response is the dispatch engine's product: a status, headers, and a body
// that the transport layer serializes (JSON for arbitrary values, verbatim
// for []byte and string).
type Response struct {
	Status int
	Header http.Header
	Body   any
}

// JSON builds a response whose body is serialized as JSON.
func JSON(status int, body any) *Response {
	return &Response{Status: status, Header: http.Header{}, Body: body}
}

// Raw builds a response with a verbatim byte body and content type.
func Raw(status int, contentType string, data []byte) *Response {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	return &Response{Status: status, Header: h, Body: data}
}

// WithHeader sets a header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = http.Header{}
	}
	r.Header.Set(key, value)
	return r
}

// Schema is the opaque validation capability attached to a route method.
// Parse validates value and returns the parsed (possibly coerced) output,
// or an error; structured per-field detail is exposed when the error is a
// *schema.Error.
type Schema interface {
	Parse(value any) (any, error)
}

// SchemaDoc is optionally implemented by schemas that can expose their
// raw schema document for OpenAPI generation.
type SchemaDoc interface {
	Doc() any
}

// MethodSchema declares up to three independent validators for one
// (route, method) pair.
type MethodSchema struct {
	Params Schema
	Query  Schema
	Body   Schema
}

// RouteMeta carries documentation metadata, opaque to the routing core.
// It is consumed only by the OpenAPI generator.
type RouteMeta struct {
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
}

// RouteModule is the structural content of one route file: per-method
// handlers from the closed method set, optional route-specific middleware
// in declaration order, optional per-method schemas, and optional
// documentation metadata.
type RouteModule struct {
	Handlers   map[Method]HandlerFunc
	Middleware []Middleware
	Schemas    map[Method]*MethodSchema
	Meta       *RouteMeta
}

// RouteDescriptor is the compiled, immutable representation of one
// resolvable endpoint family. Descriptors are created during compilation
// and never mutated afterwards; concurrent reads are safe.
type RouteDescriptor struct {
	// Pattern is the ordered segment sequence.
	Pattern Pattern

	// SourcePath is the route file this descriptor was compiled from.
	SourcePath string

	// Handlers maps methods to their handler; methods not present are
	// "not implemented" for this path.
	Handlers map[Method]HandlerFunc

	// Middleware is the route-specific middleware, in declaration order.
	Middleware []Middleware

	// Schemas holds the optional per-method validators.
	Schemas map[Method]*MethodSchema

	// Meta is optional documentation metadata, opaque to the core.
	Meta *RouteMeta

	path        string
	specificity int
}

// newDescriptor compiles a module into a descriptor for the given pattern.
func newDescriptor(pattern Pattern, sourcePath string, m *RouteModule) *RouteDescriptor {
	return &RouteDescriptor{
		Pattern:     pattern,
		SourcePath:  sourcePath,
		Handlers:    m.Handlers,
		Middleware:  m.Middleware,
		Schemas:     m.Schemas,
		Meta:        m.Meta,
		path:        pattern.String(),
		specificity: pattern.Specificity(),
	}
}

// Path returns the rendered pattern string, e.g. "/api/product/:id".
func (d *RouteDescriptor) Path() string {
	return d.path
}

// Specificity returns the count of literal segments in the pattern.
func (d *RouteDescriptor) Specificity() int {
	return d.specificity
}

// Allowed lists the methods this descriptor implements, in canonical order.
func (d *RouteDescriptor) Allowed() []Method {
	var out []Method
	for _, m := range Methods {
		if _, ok := d.Handlers[m]; ok {
			out = append(out, m)
		}
	}
	return out
}
