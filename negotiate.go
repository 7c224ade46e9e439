package routekit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// mimeShorthand expands short candidate names to canonical type/subtype.
var mimeShorthand = map[string]string{
	"json":      "application/json",
	"html":      "text/html",
	"text":      "text/plain",
	"txt":       "text/plain",
	"xml":       "application/xml",
	"form":      "application/x-www-form-urlencoded",
	"multipart": "multipart/form-data",
	"js":        "text/javascript",
	"css":       "text/css",
	"csv":       "text/csv",
	"bin":       "application/octet-stream",
}

type acceptEntry struct {
	mime    string
	quality float64
}

// parseAccept splits an Accept header into entries ordered by descending
// quality. Entries without a q parameter default to 1.0; ties preserve
// header order (the sort is stable).
func parseAccept(header string) []acceptEntry {
	var entries []acceptEntry
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(part, ";")
		mime := strings.ToLower(strings.TrimSpace(fields[0]))
		if mime == "" {
			continue
		}
		e := acceptEntry{mime: mime, quality: 1.0}
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if rest, ok := strings.CutPrefix(param, "q="); ok {
				if q, err := strconv.ParseFloat(rest, 64); err == nil {
					e.quality = q
				}
			}
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].quality > entries[j].quality
	})
	return entries
}

func expandType(candidate string) string {
	if full, ok := mimeShorthand[candidate]; ok {
		return full
	}
	return candidate
}

// Accepts selects the first candidate type acceptable to the client. The
// request's Accept entries are walked in quality order; for each, candidates
// are scanned in the order given, matching on exact major type and exact or
// wildcard subtype. A universal */* entry selects the first candidate
// immediately, as does a missing Accept header. Returns false when no entry
// matches any candidate, or when no candidates were given.
func (m *Message) Accepts(candidates ...string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	header := strings.TrimSpace(m.req.Header.Get("Accept"))
	if header == "" {
		return candidates[0], true
	}

	for _, e := range parseAccept(header) {
		if e.mime == "*/*" {
			return candidates[0], true
		}
		wantType, wantSub, ok := strings.Cut(e.mime, "/")
		if !ok {
			continue
		}
		for _, candidate := range candidates {
			haveType, haveSub, ok := strings.Cut(strings.ToLower(expandType(candidate)), "/")
			if !ok {
				continue
			}
			if haveType == wantType && (haveSub == wantSub || wantSub == "*") {
				return candidate, true
			}
		}
	}
	return "", false
}

// Offer pairs a candidate content type with the handler to run when the
// type is selected. Use Else for the mandatory fallback offer.
type Offer struct {
	Type   string
	Handle Handler
}

// Else builds the fallback offer invoked when no candidate type matches.
func Else(h Handler) Offer {
	return Offer{Handle: h}
}

// Accepting negotiates over the offers' types in the order given and
// invokes the matching handler, or the Else handler when nothing matches.
// Omitting the Else offer is a configuration error.
func (m *Message) Accepting(offers ...Offer) (Result, error) {
	var fallback Handler
	candidates := make([]string, 0, len(offers))
	for _, o := range offers {
		if o.Handle == nil {
			return nil, fmt.Errorf("%w: offer %q", ErrNilHandler, o.Type)
		}
		if o.Type == "" {
			fallback = o.Handle
			continue
		}
		candidates = append(candidates, o.Type)
	}
	if fallback == nil {
		return nil, ErrMissingElse
	}

	if matched, ok := m.Accepts(candidates...); ok {
		for _, o := range offers {
			if o.Type == matched {
				return o.Handle(m)
			}
		}
	}
	return fallback(m)
}
