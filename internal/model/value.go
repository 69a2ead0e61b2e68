package model

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the typed payload of a Value
type ValueKind string

const (
	ValueNumber ValueKind = "number" // Numeric claim (count, cost, ratio)
	ValueText   ValueKind = "text"   // Free-text claim (product name, version)
	ValueStruct ValueKind = "struct" // Structured claim (named fields)
)

// Value is the typed, domain-specific payload of a fact
type Value struct {
	Kind   ValueKind         `json:"kind" yaml:"kind"`
	Number float64           `json:"number,omitempty" yaml:"number,omitempty"`
	Text   string            `json:"text,omitempty" yaml:"text,omitempty"`
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// NumberValue builds a numeric value
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Number: n}
}

// TextValue builds a text value
func TextValue(s string) Value {
	return Value{Kind: ValueText, Text: s}
}

// StructValue builds a structured value from named fields
func StructValue(fields map[string]string) Value {
	return Value{Kind: ValueStruct, Fields: fields}
}

// Clone returns a deep copy of the value
func (v Value) Clone() Value {
	c := v
	if v.Fields != nil {
		c.Fields = make(map[string]string, len(v.Fields))
		for k, val := range v.Fields {
			c.Fields[k] = val
		}
	}
	return c
}

// Empty reports whether the value carries no payload
func (v Value) Empty() bool {
	switch v.Kind {
	case ValueNumber:
		return math.IsNaN(v.Number)
	case ValueText:
		return strings.TrimSpace(v.Text) == ""
	case ValueStruct:
		return len(v.Fields) == 0
	}
	return true
}

// valueEpsilon absorbs float noise when comparing recomputed numbers
const valueEpsilon = 1e-9

// Equal compares two values, tolerating float rounding on numbers
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueNumber:
		return math.Abs(v.Number-o.Number) <= valueEpsilon
	case ValueText:
		return v.Text == o.Text
	case ValueStruct:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for k, val := range v.Fields {
			if o.Fields[k] != val {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value for display, evidence matching, and audit entries
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueText:
		return v.Text
	case ValueStruct:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, v.Fields[k]))
		}
		return strings.Join(parts, " ")
	}
	return ""
}
