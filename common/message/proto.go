// Package message holds small helpers for hand laid out protobuf wire messages.
package message

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

var ErrBadWire = errors.New("message: malformed wire data")

// AppendInt appends a zigzag varint field. Zero is omitted.
func AppendInt(b []byte, num protowire.Number, v int) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(int64(v)))
}

// AppendInts appends a packed zigzag varint field. An empty slice is omitted.
func AppendInts(b []byte, num protowire.Number, vs []int) []byte {
	if len(vs) == 0 {
		return b
	}
	var packed []byte
	for _, v := range vs {
		packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(int64(v)))
	}
	return AppendBytes(b, num, packed)
}

// AppendBytes appends a length delimited field, used for embedded messages.
func AppendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

// Field is one decoded field. Varint is set for varint fields, Bytes for
// length delimited ones.
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	Varint uint64
	Bytes  []byte
}

// Int decodes a zigzag varint field.
func (f Field) Int() int {
	return int(protowire.DecodeZigZag(f.Varint))
}

// Ints decodes a packed zigzag varint field.
func (f Field) Ints() ([]int, error) {
	if f.Type != protowire.BytesType {
		return nil, fmt.Errorf("%w: field %d is not packed", ErrBadWire, f.Num)
	}
	var out []int
	b := f.Bytes
	for len(b) > 0 {
		v, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", ErrBadWire, f.Num, protowire.ParseError(n))
		}
		out = append(out, int(protowire.DecodeZigZag(v)))
		b = b[n:]
	}
	return out, nil
}

// Fields splits a message into its fields in wire order. Fixed width fields
// are skipped.
func Fields(b []byte) ([]Field, error) {
	var out []Field
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrBadWire, protowire.ParseError(n))
		}
		b = b[n:]
		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			f.Varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.Bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", ErrBadWire, num, protowire.ParseError(n))
		}
		b = b[n:]
		if typ == protowire.VarintType || typ == protowire.BytesType {
			out = append(out, f)
		}
	}
	return out, nil
}
