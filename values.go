package routekit

import (
	"net/url"
	"strings"
)

// Values is an order-preserving multi-value string mapping, used for query
// parameters. Unlike url.Values, iteration order follows first appearance of
// each key in the raw query.
type Values struct {
	keys []string
	vals map[string][]string
}

// Pair is one key/value entry produced by Entries.
type Pair struct {
	Key   string
	Value string
}

// NewValues returns an empty container.
func NewValues() *Values {
	return &Values{vals: make(map[string][]string)}
}

// parseQuery decodes a raw query string. Pairs that fail to unescape are
// skipped rather than failing the whole query.
func parseQuery(raw string) *Values {
	v := NewValues()
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		key, val, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(key)
		if err != nil {
			continue
		}
		val, err = url.QueryUnescape(val)
		if err != nil {
			continue
		}
		v.Add(key, val)
	}
	return v
}

// Get returns the first value for key, or "" if absent.
func (v *Values) Get(key string) string {
	if vs := v.vals[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// GetAll returns all values for key in appearance order.
func (v *Values) GetAll(key string) []string {
	return v.vals[key]
}

// Has reports whether key is present.
func (v *Values) Has(key string) bool {
	_, ok := v.vals[key]
	return ok
}

// Set replaces all values for key with a single value. A new key is
// appended to the iteration order.
func (v *Values) Set(key, value string) {
	if !v.Has(key) {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = []string{value}
}

// Add appends a value for key, keeping existing values.
func (v *Values) Add(key, value string) {
	if !v.Has(key) {
		v.keys = append(v.keys, key)
	}
	v.vals[key] = append(v.vals[key], value)
}

// Del removes all values for key.
func (v *Values) Del(key string) {
	if !v.Has(key) {
		return
	}
	delete(v.vals, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in first-appearance order.
func (v *Values) Keys() []string {
	keys := make([]string, len(v.keys))
	copy(keys, v.keys)
	return keys
}

// Entries flattens the container into ordered key/value pairs.
func (v *Values) Entries() []Pair {
	var entries []Pair
	for _, k := range v.keys {
		for _, val := range v.vals[k] {
			entries = append(entries, Pair{Key: k, Value: val})
		}
	}
	return entries
}

// Len returns the number of distinct keys.
func (v *Values) Len() int {
	return len(v.keys)
}
