// Package schema provides JSON Schema backed validators for route inputs.
//
// A Schema is compiled once at startup and is safe for concurrent use. Its
// Parse method validates a decoded JSON value and reports every failing
// field at once, so callers can surface the complete failure list in a
// single response.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

// FieldError is one validation failure attributed to a field path.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is the aggregate validation failure for one value. Fields holds
// every failing field discovered in the pass, never just the first.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if f.Path == "" {
			parts[i] = f.Message
			continue
		}
		parts[i] = f.Path + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Schema is a compiled JSON Schema validator. It retains the source
// document so API documentation can embed it verbatim.
type Schema struct {
	compiled *jsonschema.Schema
	doc      any
}

// Compile compiles a schema document, given as the decoded JSON form
// (maps, slices, primitives). Compilation failures are configuration
// errors and surface at startup, not per request.
func Compile(doc any) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled, doc: doc}, nil
}

// CompileJSON compiles a schema from its JSON text.
func CompileJSON(data []byte) (*Schema, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid schema JSON: %w", err)
	}
	return Compile(doc)
}

// MustCompile is Compile that panics on error, for package-level schema
// declarations.
func MustCompile(doc any) *Schema {
	s, err := Compile(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse validates value and returns it unchanged on success. On failure
// the returned error is a *Error carrying one entry per failing field.
func (s *Schema) Parse(value any) (any, error) {
	if err := s.compiled.Validate(value); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, &Error{Fields: []FieldError{{Message: err.Error()}}}
		}
		out := &Error{}
		collectErrors(verr, out)
		if len(out.Fields) == 0 {
			out.Fields = append(out.Fields, FieldError{Message: verr.Error()})
		}
		return nil, out
	}
	return value, nil
}

// Doc returns the schema's source document for embedding in generated
// API documentation.
func (s *Schema) Doc() any {
	return s.doc
}

// collectErrors walks the validation error tree and flattens leaf errors
// into per-field entries. A required-properties failure names several
// fields in one node, so it expands to one entry per missing property.
func collectErrors(verr *jsonschema.ValidationError, out *Error) {
	if verr == nil {
		return
	}

	if req, ok := verr.ErrorKind.(*kind.Required); ok {
		base := fieldPath(verr.InstanceLocation)
		for _, missing := range req.Missing {
			path := missing
			if base != "" {
				path = base + "." + missing
			}
			out.Fields = append(out.Fields, FieldError{Path: path, Message: "required field is missing"})
		}
		return
	}

	if len(verr.Causes) == 0 {
		out.Fields = append(out.Fields, FieldError{
			Path:    fieldPath(verr.InstanceLocation),
			Message: verr.Error(),
		})
		return
	}

	for _, cause := range verr.Causes {
		collectErrors(cause, out)
	}
}

func fieldPath(location []string) string {
	return strings.Join(location, ".")
}
