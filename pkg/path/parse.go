package path

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"
)

// ErrNotSingular is returned by Parse for JSONPath queries that may select
// more than one value (wildcards, slices, filters, unions, descendants).
var ErrNotSingular = errors.New("path: query is not a singular path")

// ErrSyntax is returned by Parse for malformed expressions.
var ErrSyntax = errors.New("path: invalid path expression")

// Parse converts a textual path into a Path.
//
// Expressions starting with '$' are parsed as RFC 9535 JSONPath and must be
// singular: only name and index child segments are allowed. Anything else is
// read as dot-separated keys ("a.b.0"), with the same numeric normalization
// as Builder.Get. The empty string and "$" both address the root.
func Parse(expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Path{}, nil
	}
	if strings.HasPrefix(expr, "$") {
		return parseJSONPath(expr)
	}
	return parseDotted(expr)
}

// MustParse is like Parse but panics on error. It is meant for package-level
// path declarations.
func MustParse(expr string) Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func parseJSONPath(expr string) (Path, error) {
	jp, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrSyntax, expr, err)
	}

	segments := jp.Query().Segments()
	out := make(Path, 0, len(segments))
	for _, seg := range segments {
		if seg.IsDescendant() {
			return nil, fmt.Errorf("%w: %q uses a descendant segment", ErrNotSingular, expr)
		}
		sels := seg.Selectors()
		if len(sels) != 1 {
			return nil, fmt.Errorf("%w: %q selects a union", ErrNotSingular, expr)
		}
		switch sel := sels[0].(type) {
		case spec.Name:
			out = append(out, Normalize(string(sel)))
		case spec.Index:
			if sel < 0 {
				return nil, fmt.Errorf("%w: %q uses negative index %d", ErrNotSingular, expr, int(sel))
			}
			out = append(out, Index(int(sel)))
		default:
			return nil, fmt.Errorf("%w: %q uses selector %v", ErrNotSingular, expr, sel)
		}
	}
	return out, nil
}

func parseDotted(expr string) (Path, error) {
	parts := strings.Split(expr, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: %q has an empty key", ErrSyntax, expr)
		}
		out = append(out, Normalize(part))
	}
	return out, nil
}
