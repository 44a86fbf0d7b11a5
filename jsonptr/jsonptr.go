// Package jsonptr implements the subset of JSON Pointer (RFC 6901) used for
// setting keys. Settings files are flat objects, so most keys have a single
// segment ("/initialZoom"), but nested paths work the same way.
//
// Reference: https://tools.ietf.org/html/rfc6901
package jsonptr

import (
	"errors"
	"strings"
)

// ErrInvalidPointer is returned by Parse for pointers that do not start with "/".
var ErrInvalidPointer = errors.New("invalid JSON Pointer: must start with '/' or be empty")

var (
	escaper   = strings.NewReplacer("~", "~0", "/", "~1")
	unescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// Escape encodes a single key segment ("~" -> "~0", "/" -> "~1").
func Escape(key string) string {
	return escaper.Replace(key)
}

// Unescape reverses Escape.
func Unescape(key string) string {
	return unescaper.Replace(key)
}

// Build joins key segments into a pointer.
//
//	Build("initialZoom")       -> "/initialZoom"
//	Build("presets", "a/b")    -> "/presets/a~1b"
func Build(keys ...string) string {
	if len(keys) == 0 {
		return ""
	}
	var b strings.Builder
	for _, k := range keys {
		b.WriteByte('/')
		b.WriteString(Escape(k))
	}
	return b.String()
}

// Parse splits a pointer into unescaped key segments. The empty pointer
// refers to the whole document and yields no segments.
func Parse(pointer string) ([]string, error) {
	if pointer == "" {
		return []string{}, nil
	}
	if pointer[0] != '/' {
		return nil, ErrInvalidPointer
	}
	parts := strings.Split(pointer[1:], "/")
	for i, p := range parts {
		parts[i] = Unescape(p)
	}
	return parts, nil
}

// Get returns the value stored at pointer inside nested maps.
func Get(data map[string]any, pointer string) (any, bool) {
	keys, err := Parse(pointer)
	if err != nil {
		return nil, false
	}
	var cur any = data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores value at pointer, creating (or replacing non-map) intermediate
// nodes. It reports whether the final key was newly created; ok is false when
// the pointer is invalid or refers to the whole document.
func Set(data map[string]any, pointer string, value any) (created bool, ok bool) {
	keys, err := Parse(pointer)
	if err != nil || len(keys) == 0 || data == nil {
		return false, false
	}
	parent := data
	for _, k := range keys[:len(keys)-1] {
		next, isMap := parent[k].(map[string]any)
		if !isMap {
			next = map[string]any{}
			parent[k] = next
		}
		parent = next
	}
	last := keys[len(keys)-1]
	_, existed := parent[last]
	parent[last] = value
	return !existed, true
}

// Delete removes the value at pointer and reports whether anything was removed.
func Delete(data map[string]any, pointer string) bool {
	keys, err := Parse(pointer)
	if err != nil || len(keys) == 0 {
		return false
	}
	parent := data
	for _, k := range keys[:len(keys)-1] {
		next, ok := parent[k].(map[string]any)
		if !ok {
			return false
		}
		parent = next
	}
	last := keys[len(keys)-1]
	if _, ok := parent[last]; !ok {
		return false
	}
	delete(parent, last)
	return true
}
