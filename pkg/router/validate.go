package router

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"

	"github.com/strada-dev/strada/pkg/schema"
)

// FieldFailure is one entry in a 400 validation response. Field names the
// failing input field; Detail carries the validator's message for it.
type FieldFailure struct {
	Field  string `json:"field"`
	Detail any    `json:"error"`
}

// validationMiddleware adapts a method's declared schemas into a pipeline
// stage. All declared input slices are checked in one pass and every
// failure is collected before responding, so a client sees the complete
// list instead of fixing errors one round-trip at a time. On success the
// parsed outputs are attached to the context's validated namespace and
// the raw body is never re-read downstream.
func validationMiddleware(ms *MethodSchema) Middleware {
	return func(c *Ctx) (Result, error) {
		// Re-entry is a no-op: validation runs at most once per request
		// even if the chain is re-executed.
		if c.Validated().Populated() {
			return Continue(), nil
		}

		var failures []FieldFailure
		var params, query, body any

		if ms.Params != nil {
			out, err := ms.Params.Parse(paramsValue(c.Params()))
			if err != nil {
				failures = appendFailures(failures, "params", err)
			} else {
				params = out
			}
		}

		if ms.Query != nil {
			out, err := ms.Query.Parse(queryValue(c.Query()))
			if err != nil {
				failures = appendFailures(failures, "query", err)
			} else {
				query = out
			}
		}

		if ms.Body != nil {
			out, checked, err := parseBody(c)
			if err != nil {
				failures = appendFailures(failures, "body", err)
			} else if checked {
				parsed, perr := ms.Body.Parse(out)
				if perr != nil {
					failures = appendFailures(failures, "body", perr)
				} else {
					body = parsed
					c.cacheParsedBody(parsed)
				}
			}
		}

		if len(failures) > 0 {
			return ShortCircuit(JSON(http.StatusBadRequest, map[string]any{
				"errors": failures,
			})), nil
		}

		v := c.Validated()
		v.Params = params
		v.Query = query
		v.Body = body
		v.populated = true
		return Continue(), nil
	}
}

// parseBody reads and decodes the request body for validation. A request
// with no body reports checked=false: a declared body schema validates
// what is present, it does not require presence. Content-type and JSON
// decode failures surface as body field failures, not transport errors.
func parseBody(c *Ctx) (value any, checked bool, err error) {
	raw, readErr := c.BodyBytes()
	if readErr != nil {
		return nil, false, errors.New("body could not be read")
	}
	if len(raw) == 0 {
		return nil, false, nil
	}

	if !jsonContentType(c.Header().Get("Content-Type")) {
		return nil, false, errors.New("expected content-type application/json")
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false, errors.New("body is not valid JSON")
	}
	return out, true, nil
}

func jsonContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	// Structured syntax suffix, e.g. application/merge-patch+json.
	for i := len(mediaType) - 1; i >= 0; i-- {
		if mediaType[i] == '+' {
			return mediaType[i+1:] == "json"
		}
	}
	return false
}

// appendFailures flattens a validator error into response entries. A
// structured schema error contributes one entry per failing inner field;
// anything else is attributed to the input slice as a whole.
func appendFailures(failures []FieldFailure, slice string, err error) []FieldFailure {
	var serr *schema.Error
	if errors.As(err, &serr) && len(serr.Fields) > 0 {
		for _, f := range serr.Fields {
			field := f.Path
			if field == "" {
				field = slice
			}
			failures = append(failures, FieldFailure{Field: field, Detail: f.Message})
		}
		return failures
	}
	return append(failures, FieldFailure{Field: slice, Detail: err.Error()})
}

// paramsValue widens bound path parameters into a generic JSON-shaped map.
func paramsValue(params map[string]string) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// queryValue flattens url.Values: a single occurrence binds as a string,
// repeats bind as a list.
func queryValue(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, vs := range values {
		if len(vs) == 1 {
			out[k] = vs[0]
			continue
		}
		list := make([]any, len(vs))
		for i, v := range vs {
			list[i] = v
		}
		out[k] = list
	}
	return out
}
