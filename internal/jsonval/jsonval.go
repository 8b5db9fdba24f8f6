// Package jsonval decodes arbitrary JSON into plain Go values while keeping
// object key order, which encoding/json maps throw away.
//
// Decoded values are one of: nil, bool, json.Number, string, []any, *Object.
package jsonval

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the input is not a single valid JSON document.
var ErrInvalidJSON = errors.New("invalid JSON")

// Object is a JSON object that remembers the order keys were first seen in.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores value under key. A repeated key keeps its first position.
func (o *Object) Set(key string, value any) *Object {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get returns the value for key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Keys returns keys in first-seen order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON writes keys in their stored order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Parse decodes data into ordered Go values.
func Parse(data []byte) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return convert(gjson.ParseBytes(data)), nil
}

// ParseString is Parse for strings.
func ParseString(s string) (any, error) {
	return Parse([]byte(s))
}

// Decode reads r fully and parses it.
func Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func convert(r gjson.Result) any {
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return json.Number(strings.TrimSpace(r.Raw))
	case gjson.String:
		return r.Str
	}

	if r.IsArray() {
		arr := make([]any, 0)
		r.ForEach(func(_, value gjson.Result) bool {
			arr = append(arr, convert(value))
			return true
		})
		return arr
	}

	obj := NewObject()
	r.ForEach(func(key, value gjson.Result) bool {
		obj.Set(key.Str, convert(value))
		return true
	})
	return obj
}

// Entry is one key/value pair of an object.
type Entry struct {
	Key   string
	Value any
}

// IsObject reports whether v is a JSON object (*Object or map[string]any).
func IsObject(v any) bool {
	switch v.(type) {
	case *Object, map[string]any:
		return true
	}
	return false
}

// IsArray reports whether v is a JSON array.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// Lookup returns v[key] when v is an object.
func Lookup(v any, key string) (any, bool) {
	switch obj := v.(type) {
	case *Object:
		return obj.Get(key)
	case map[string]any:
		val, ok := obj[key]
		return val, ok
	}
	return nil, false
}

// Entries returns the pairs of an object in order. Plain maps have no order,
// so their keys are sorted to keep results deterministic.
func Entries(v any) ([]Entry, bool) {
	switch obj := v.(type) {
	case *Object:
		out := make([]Entry, 0, obj.Len())
		for _, k := range obj.keys {
			out = append(out, Entry{Key: k, Value: obj.values[k]})
		}
		return out, true
	case map[string]any:
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Entry, 0, len(keys))
		for _, k := range keys {
			out = append(out, Entry{Key: k, Value: obj[k]})
		}
		return out, true
	}
	return nil, false
}
