package router

import (
	"encoding/json"
	"sort"
	"strings"
)

// OpenAPIInfo contains API metadata for the generated document.
type OpenAPIInfo struct {
	Title       string
	Description string
	Version     string
}

// OpenAPISpec is the root of an OpenAPI 3.0 document.
type OpenAPISpec struct {
	OpenAPI string                 `json:"openapi"`
	Info    OpenAPISpecInfo        `json:"info"`
	Paths   map[string]OpenAPIPath `json:"paths"`
}

// OpenAPISpecInfo is the document's info block.
type OpenAPISpecInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// OpenAPIPath maps lowercase method names to operations.
type OpenAPIPath map[string]*OpenAPIOperation

// OpenAPIOperation describes one (path, method) operation.
type OpenAPIOperation struct {
	Summary     string                     `json:"summary,omitempty"`
	Description string                     `json:"description,omitempty"`
	Tags        []string                   `json:"tags,omitempty"`
	Deprecated  bool                       `json:"deprecated,omitempty"`
	Parameters  []OpenAPIParameter         `json:"parameters,omitempty"`
	RequestBody *OpenAPIRequestBody        `json:"requestBody,omitempty"`
	Responses   map[string]OpenAPIResponse `json:"responses"`
}

// OpenAPIParameter describes a path or query parameter.
type OpenAPIParameter struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Required bool   `json:"required,omitempty"`
	Schema   any    `json:"schema,omitempty"`
}

// OpenAPIRequestBody describes a JSON request body.
type OpenAPIRequestBody struct {
	Required bool                        `json:"required,omitempty"`
	Content  map[string]OpenAPIMediaType `json:"content"`
}

// OpenAPIResponse describes one response status.
type OpenAPIResponse struct {
	Description string                      `json:"description"`
	Content     map[string]OpenAPIMediaType `json:"content,omitempty"`
}

// OpenAPIMediaType wraps a schema for one media type.
type OpenAPIMediaType struct {
	Schema any `json:"schema,omitempty"`
}

// GenerateOpenAPI renders a compiled route table as an indented OpenAPI
// 3.0 JSON document. Dynamic segments become {name} path parameters, and
// schemas that expose their source document (SchemaDoc) are embedded
// verbatim as parameter and request body schemas. Output is
// deterministic for a given table.
func GenerateOpenAPI(table *Table, info OpenAPIInfo) ([]byte, error) {
	if info.Title == "" {
		info.Title = "API"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}

	spec := OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: OpenAPISpecInfo{
			Title:       info.Title,
			Description: info.Description,
			Version:     info.Version,
		},
		Paths: make(map[string]OpenAPIPath),
	}

	for _, route := range table.Routes() {
		path := openAPIPath(route.Pattern)
		item, ok := spec.Paths[path]
		if !ok {
			item = make(OpenAPIPath)
			spec.Paths[path] = item
		}
		for _, method := range route.Allowed() {
			item[strings.ToLower(string(method))] = routeOperation(route, method)
		}
	}

	return json.MarshalIndent(&spec, "", "  ")
}

// openAPIPath renders a pattern with {name} placeholders.
func openAPIPath(p Pattern) string {
	if len(p) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte('/')
		if seg.Kind == SegmentParam {
			sb.WriteByte('{')
			sb.WriteString(seg.Value)
			sb.WriteByte('}')
			continue
		}
		sb.WriteString(seg.Value)
	}
	return sb.String()
}

func routeOperation(route *RouteDescriptor, method Method) *OpenAPIOperation {
	op := &OpenAPIOperation{
		Responses: map[string]OpenAPIResponse{
			"200": {Description: "Successful response"},
		},
	}
	if route.Meta != nil {
		op.Summary = route.Meta.Summary
		op.Description = route.Meta.Description
		op.Tags = route.Meta.Tags
		op.Deprecated = route.Meta.Deprecated
	}

	ms := route.Schemas[method]

	for _, seg := range route.Pattern {
		if seg.Kind != SegmentParam {
			continue
		}
		param := OpenAPIParameter{
			Name:     seg.Value,
			In:       "path",
			Required: true,
			Schema:   map[string]any{"type": "string"},
		}
		if ms != nil {
			if s := propertySchema(ms.Params, seg.Value); s != nil {
				param.Schema = s
			}
		}
		op.Parameters = append(op.Parameters, param)
	}

	if ms != nil {
		op.Parameters = append(op.Parameters, queryParameters(ms.Query)...)
		if doc := schemaDoc(ms.Body); doc != nil {
			op.RequestBody = &OpenAPIRequestBody{
				Required: true,
				Content: map[string]OpenAPIMediaType{
					"application/json": {Schema: doc},
				},
			}
		}
		if len(op.Parameters) > 0 || op.RequestBody != nil {
			op.Responses["400"] = OpenAPIResponse{Description: "Validation failure"}
		}
	}

	return op
}

// schemaDoc extracts the raw schema document when the validator exposes one.
func schemaDoc(s Schema) any {
	if s == nil {
		return nil
	}
	if d, ok := s.(SchemaDoc); ok {
		return d.Doc()
	}
	return nil
}

// propertySchema digs the sub-schema of one named property out of an
// object schema document.
func propertySchema(s Schema, name string) any {
	doc, ok := schemaDoc(s).(map[string]any)
	if !ok {
		return nil
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil
	}
	return props[name]
}

// queryParameters expands an object query schema into per-property
// parameters, sorted by name for deterministic output.
func queryParameters(s Schema) []OpenAPIParameter {
	doc, ok := schemaDoc(s).(map[string]any)
	if !ok {
		return nil
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		return nil
	}

	required := map[string]bool{}
	if list, ok := doc["required"].([]any); ok {
		for _, v := range list {
			if name, ok := v.(string); ok {
				required[name] = true
			}
		}
	}
	if list, ok := doc["required"].([]string); ok {
		for _, name := range list {
			required[name] = true
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]OpenAPIParameter, 0, len(names))
	for _, name := range names {
		out = append(out, OpenAPIParameter{
			Name:     name,
			In:       "query",
			Required: required[name],
			Schema:   props[name],
		})
	}
	return out
}

// SwaggerUIHTML renders a minimal Swagger UI page pointed at specURL.
func SwaggerUIHTML(title, specURL string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	sb.WriteString("  <title>" + title + "</title>\n")
	sb.WriteString(`  <meta charset="utf-8">` + "\n")
	sb.WriteString(`  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">` + "\n")
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(`  <div id="swagger-ui"></div>` + "\n")
	sb.WriteString(`  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>` + "\n")
	sb.WriteString("  <script>\n")
	sb.WriteString("    SwaggerUIBundle({ url: " + jsString(specURL) + ", dom_id: '#swagger-ui' });\n")
	sb.WriteString("  </script>\n</body>\n</html>\n")
	return sb.String()
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
