package udmf

import (
	"strconv"
	"strings"
)

type ValueKind uint8

const (
	NumberValue ValueKind = iota
	StringValue
	IdentValue
)

// Value is the right hand side of an assignment. Raw keeps the source text,
// without the quotes for strings.
type Value struct {
	Kind ValueKind
	Num  float64
	Raw  string
}

func Number(f float64) Value {
	return Value{Kind: NumberValue, Num: f, Raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

func String(s string) Value {
	return Value{Kind: StringValue, Raw: s}
}

func Ident(s string) Value {
	return Value{Kind: IdentValue, Raw: s}
}

func (v Value) Float() float64 {
	if v.Kind == NumberValue {
		return v.Num
	}
	f, _ := strconv.ParseFloat(strings.TrimSpace(v.Raw), 64)
	return f
}

func (v Value) Int() int {
	return int(v.Float())
}

// Bool reports the boolean reading of an identifier "true" or "false".
func (v Value) Bool() (b bool, ok bool) {
	if v.Kind == NumberValue {
		return false, false
	}
	switch v.Raw {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func (v Value) String() string {
	return v.Raw
}

// Fields is the flat key/value object of one block.
type Fields map[string]Value

func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f Fields) Float(key string, def float64) float64 {
	v, ok := f[key]
	if !ok {
		return def
	}
	return v.Float()
}

func (f Fields) Int(key string, def int) int {
	v, ok := f[key]
	if !ok {
		return def
	}
	return v.Int()
}

// OptFloat returns nil when the key is absent.
func (f Fields) OptFloat(key string) *float64 {
	v, ok := f[key]
	if !ok {
		return nil
	}
	x := v.Float()
	return &x
}

// Bool is false for absent keys and for values that are not "true".
func (f Fields) Bool(key string) bool {
	v, ok := f[key]
	if !ok {
		return false
	}
	b, _ := v.Bool()
	return b
}

func (f Fields) String(key string) string {
	return f[key].Raw
}
