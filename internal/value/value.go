// Package value models the structured data a shell procedure hands back to
// the completion engine: scalars, ordered lists and keyed records.
package value

import (
	"sort"
	"strconv"
	"strings"
)

// Type represents the type of a value
type Type int

const (
	// TypeNull represents a null value
	TypeNull Type = iota
	// TypeNumber represents a number value
	TypeNumber
	// TypeString represents a string value
	TypeString
	// TypeBool represents a boolean value
	TypeBool
	// TypeList represents an ordered collection
	TypeList
	// TypeRecord represents a keyed record
	TypeRecord
)

// String returns the string representation of the value type
func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBool:
		return "boolean"
	case TypeList:
		return "list"
	case TypeRecord:
		return "record"
	default:
		return "unknown"
	}
}

// Value represents a structured value
type Value interface {
	Type() Type
	String() string
	Equals(other Value) bool
}

// Null represents a null value
type Null struct{}

func (n *Null) Type() Type     { return TypeNull }
func (n *Null) String() string { return "null" }
func (n *Null) Equals(other Value) bool {
	_, ok := other.(*Null)
	return ok
}

// Number represents a number value
type Number struct {
	Value float64
}

func (n *Number) Type() Type { return TypeNumber }
func (n *Number) String() string {
	if n.Value == float64(int64(n.Value)) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
func (n *Number) Equals(other Value) bool {
	if o, ok := other.(*Number); ok {
		return n.Value == o.Value
	}
	return false
}

// String represents a string value
type String struct {
	Value string
}

func (s *String) Type() Type     { return TypeString }
func (s *String) String() string { return s.Value }
func (s *String) Equals(other Value) bool {
	if o, ok := other.(*String); ok {
		return s.Value == o.Value
	}
	return false
}

// Bool represents a boolean value
type Bool struct {
	Value bool
}

func (b *Bool) Type() Type { return TypeBool }
func (b *Bool) String() string {
	return strconv.FormatBool(b.Value)
}
func (b *Bool) Equals(other Value) bool {
	if o, ok := other.(*Bool); ok {
		return b.Value == o.Value
	}
	return false
}

// List represents an ordered collection
type List struct {
	Elements []Value
}

func (l *List) Type() Type { return TypeList }
func (l *List) String() string {
	var out strings.Builder
	out.WriteString("[")
	for i, elem := range l.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		writeNested(&out, elem)
	}
	out.WriteString("]")
	return out.String()
}
func (l *List) Equals(other Value) bool {
	o, ok := other.(*List)
	if !ok || len(l.Elements) != len(o.Elements) {
		return false
	}
	for i := range l.Elements {
		if !l.Elements[i].Equals(o.Elements[i]) {
			return false
		}
	}
	return true
}

// Record represents a keyed record
type Record struct {
	Fields map[string]Value
}

// Get returns the field stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r.Fields == nil {
		return nil, false
	}
	v, ok := r.Fields[key]
	return v, ok
}

func (r *Record) Type() Type { return TypeRecord }
func (r *Record) String() string {
	keys := make([]string, 0, len(r.Fields))
	for key := range r.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out strings.Builder
	out.WriteString("{")
	for i, key := range keys {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(key)
		out.WriteString(": ")
		writeNested(&out, r.Fields[key])
	}
	out.WriteString("}")
	return out.String()
}
func (r *Record) Equals(other Value) bool {
	o, ok := other.(*Record)
	if !ok || len(r.Fields) != len(o.Fields) {
		return false
	}
	for key, v := range r.Fields {
		ov, exists := o.Fields[key]
		if !exists || !v.Equals(ov) {
			return false
		}
	}
	return true
}

// writeNested quotes strings so nested collections stay readable.
func writeNested(out *strings.Builder, v Value) {
	if v.Type() == TypeString {
		out.WriteString(strconv.Quote(v.String()))
		return
	}
	out.WriteString(v.String())
}

// AsText converts scalars to text. Strings, numbers and booleans convert;
// null, lists and records do not.
func AsText(v Value) (string, bool) {
	switch v := v.(type) {
	case *String:
		return v.Value, true
	case *Number, *Bool:
		return v.String(), true
	default:
		return "", false
	}
}

// Strings builds a list of string values.
func Strings(items ...string) *List {
	elements := make([]Value, len(items))
	for i, item := range items {
		elements[i] = &String{Value: item}
	}
	return &List{Elements: elements}
}
