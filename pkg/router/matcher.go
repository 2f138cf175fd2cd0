package router

import (
	"github.com/strada-dev/strada/pkg/routepath"
)

// MatchKind classifies the outcome of matching a request against the table.
// NotFound and MethodNotAllowed are plain classification values, not
// errors; callers use them to choose between 404 and 405.
type MatchKind uint8

const (
	// MatchFound means a descriptor matched and implements the method.
	MatchFound MatchKind = iota

	// MatchNotFound means no descriptor matched the path.
	MatchNotFound

	// MatchMethodNotAllowed means a descriptor matched the path but has
	// no handler for the request method.
	MatchMethodNotAllowed
)

// MatchResult is the outcome of one match attempt.
type MatchResult struct {
	Kind MatchKind

	// Route is the matched descriptor (set unless Kind is MatchNotFound).
	Route *RouteDescriptor

	// Params maps parameter names to percent-decoded segment values
	// (set when Kind is MatchFound).
	Params map[string]string

	// Allowed lists the methods the matched descriptor implements
	// (set when Kind is MatchMethodNotAllowed, for the Allow header).
	Allowed []Method
}

// Match scans the specificity-ordered table for the first descriptor whose
// pattern fully matches path, then classifies the method. path must
// already be canonical (see routepath.CanonicalizePath).
//
// Matching walks segments pairwise: a literal segment must equal the raw
// request segment byte-for-byte (literals are not percent-decoded); a
// dynamic segment always matches and binds the percent-decoded value.
// A candidate whose segment count differs is rejected outright — there is
// no catch-all support.
//
// Matching is method-independent: once a descriptor matches the path, a
// missing handler for the method classifies as MatchMethodNotAllowed and
// never falls through to a less specific route.
func (t *Table) Match(method Method, path string) MatchResult {
	segments := routepath.Split(path)

	for _, route := range t.routes {
		params, ok := matchPattern(route.Pattern, segments)
		if !ok {
			continue
		}
		if _, exists := route.Handlers[method]; !exists {
			return MatchResult{
				Kind:    MatchMethodNotAllowed,
				Route:   route,
				Allowed: route.Allowed(),
			}
		}
		return MatchResult{
			Kind:   MatchFound,
			Route:  route,
			Params: params,
		}
	}

	return MatchResult{Kind: MatchNotFound}
}

// matchPattern matches a pattern against raw request segments, returning
// the bound parameters. Parameter binding fails (rejecting the candidate)
// if the segment cannot be safely percent-decoded.
func matchPattern(pattern Pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range pattern {
		switch seg.Kind {
		case SegmentLiteral:
			if seg.Value != segments[i] {
				return nil, false
			}
		case SegmentParam:
			decoded, err := routepath.DecodeSegment(segments[i])
			if err != nil {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, len(pattern))
			}
			params[seg.Value] = decoded
		}
	}
	if params == nil {
		params = map[string]string{}
	}
	return params, true
}
