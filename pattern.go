package routekit

import (
	"fmt"
	"strings"
)

type segmentKind uint8

const (
	segLiteral segmentKind = iota
	segParam
)

// segment is one compiled piece of a route path: a literal string or a named
// capture. The trailing wildcard is tracked on the Pattern itself.
type segment struct {
	kind  segmentKind
	value string
}

// Pattern is the compiled, immutable form of a route path. A pattern is
// total over the space of URL paths: every path either matches, yielding a
// param-name to captured-string mapping, or does not. Matching is anchored
// at both ends unless the pattern ends in a wildcard, in which case the tail
// is unanchored.
type Pattern struct {
	raw      string
	segments []segment
	wildcard bool
	optSlash bool
}

// compilePattern builds a Pattern from a normalized router prefix and a
// route path. Invalid patterns are a configuration error reported here, at
// registration time, never at match time.
func compilePattern(prefix, path string) (*Pattern, error) {
	raw := joinPath(prefix, path)
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, raw)
	}

	p := &Pattern{raw: raw}

	// A pattern ending in "/" (the base-path case) also matches the same
	// path without the trailing slash.
	trimmed := raw
	if len(trimmed) > 1 && strings.HasSuffix(trimmed, "/") {
		p.optSlash = true
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	seen := make(map[string]struct{})
	parts := strings.Split(trimmed[1:], "/")
	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: %q", ErrWildcardPosition, raw)
			}
			p.wildcard = true
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyParamName, raw)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParam, name, raw)
			}
			seen[name] = struct{}{}
			p.segments = append(p.segments, segment{kind: segParam, value: name})
		default:
			p.segments = append(p.segments, segment{kind: segLiteral, value: part})
		}
	}

	return p, nil
}

// String returns the raw pattern the route was registered with.
func (p *Pattern) String() string {
	return p.raw
}

// Match checks path against the pattern, byte for byte and case-sensitive.
// The query string must already be stripped. On success it returns the
// captured params, which is nil when the pattern has no named captures.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	if p.optSlash && len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}

	parts := strings.Split(path[1:], "/")
	if p.wildcard {
		// The wildcard consumes everything past the fixed segments,
		// including further slashes, but the slash before it must exist.
		if len(parts) < len(p.segments)+1 {
			return nil, false
		}
	} else if len(parts) != len(p.segments) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range p.segments {
		switch seg.kind {
		case segLiteral:
			if parts[i] != seg.value {
				return nil, false
			}
		case segParam:
			// Named captures match one-or-more non-slash characters.
			if parts[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.value] = parts[i]
		}
	}

	return params, true
}

// normalizePrefix guarantees a prefix that starts and ends with "/", with
// "/" itself as the degenerate case.
func normalizePrefix(prefix string) string {
	if prefix == "" || prefix == "/" {
		return "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}

// joinPath concatenates a normalized prefix with a route path. An empty path
// registers against exactly the prefix.
func joinPath(prefix, path string) string {
	prefix = normalizePrefix(prefix)
	return prefix + strings.TrimPrefix(path, "/")
}
