package models

import (
	"strconv"
	"strings"
)

// Raw is an untyped vendor record as decoded from a vendor API response.
// Field access uses dotted paths into the nested structure.
type Raw map[string]interface{}

// Get resolves a dotted path ("location.city") into the record. The second
// return value is false when any segment along the path is absent or not an
// object.
func (r Raw) Get(path string) (interface{}, bool) {
	var cur interface{} = map[string]interface{}(r)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString resolves a dotted path and renders the value as a string.
// Numbers decoded from JSON are formatted without an exponent; nil and
// missing values report absent.
func (r Raw) GetString(path string) (string, bool) {
	v, ok := r.Get(path)
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// GetFloat resolves a dotted path as a float64. String values that parse as
// floats are accepted, matching vendors that serialize coordinates as
// strings.
func (r Raw) GetFloat(path string) (float64, bool) {
	v, ok := r.Get(path)
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// GetSlice resolves a dotted path as a JSON array.
func (r Raw) GetSlice(path string) ([]interface{}, bool) {
	v, ok := r.Get(path)
	if !ok {
		return nil, false
	}
	s, ok := v.([]interface{})
	return s, ok
}

// GetMap resolves a dotted path as a JSON object.
func (r Raw) GetMap(path string) (map[string]interface{}, bool) {
	v, ok := r.Get(path)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	return m, ok
}

// Set writes a value at a dotted path, creating intermediate objects as
// needed. Existing non-object segments are overwritten.
func (r Raw) Set(path string, value interface{}) {
	segs := strings.Split(path, ".")
	cur := map[string]interface{}(r)
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			cur[seg] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}
