// Package wire encodes sequences of tagged fields in the length-prefixed
// tag/value format: each field is a varint key combining field number and
// wire type, followed by a varint, fixed-width, or length-delimited payload.
package wire

import (
	"encoding/binary"
	"fmt"
)

// Type is the low three bits of a field key.
type Type uint8

const (
	TypeVarint          Type = 0
	TypeFixed64         Type = 1
	TypeLengthDelimited Type = 2
	TypeFixed32         Type = 5
)

// Field is one tagged value. Only the payload field matching Type is used.
type Field struct {
	Number  int
	Type    Type
	Uint    uint64 // varint, fixed64, or fixed32 payload
	Payload []byte // length-delimited payload
}

// Message is an ordered field sequence. Repeated fields appear as multiple
// entries with the same number; emission order is preserved on the wire.
type Message []Field

func VarintField(number int, v uint64) Field {
	return Field{Number: number, Type: TypeVarint, Uint: v}
}

func Fixed32Field(number int, v uint32) Field {
	return Field{Number: number, Type: TypeFixed32, Uint: uint64(v)}
}

func Fixed64Field(number int, v uint64) Field {
	return Field{Number: number, Type: TypeFixed64, Uint: v}
}

func BytesField(number int, b []byte) Field {
	return Field{Number: number, Type: TypeLengthDelimited, Payload: b}
}

func StringField(number int, s string) Field {
	return Field{Number: number, Type: TypeLengthDelimited, Payload: []byte(s)}
}

// MessageField embeds a sub-message as a length-delimited payload of its
// serialized form. There is no special casing versus strings or bytes.
func MessageField(number int, m Message) (Field, error) {
	data, err := m.Encode()
	if err != nil {
		return Field{}, err
	}
	return BytesField(number, data), nil
}

// Encode serializes the message. A field number below 1 is a caller defect
// and fails the whole encode.
func (m Message) Encode() ([]byte, error) {
	var buf []byte
	for i, f := range m {
		if f.Number < 1 {
			return nil, fmt.Errorf("wire: field %d: number %d out of range", i, f.Number)
		}
		switch f.Type {
		case TypeVarint, TypeFixed32, TypeFixed64, TypeLengthDelimited:
		default:
			return nil, fmt.Errorf("wire: field %d: unknown wire type %d", i, f.Type)
		}
		// Field numbers above 15 spill the key into continuation bytes.
		buf = AppendUvarint(buf, uint64(f.Number)<<3|uint64(f.Type))
		switch f.Type {
		case TypeVarint:
			buf = AppendUvarint(buf, f.Uint)
		case TypeFixed32:
			var tmp [4]byte
			binary.LittleEndian.PutUint32(tmp[:], uint32(f.Uint))
			buf = append(buf, tmp[:]...)
		case TypeFixed64:
			var tmp [8]byte
			binary.LittleEndian.PutUint64(tmp[:], f.Uint)
			buf = append(buf, tmp[:]...)
		case TypeLengthDelimited:
			buf = AppendUvarint(buf, uint64(len(f.Payload)))
			buf = append(buf, f.Payload...)
		}
	}
	return buf, nil
}

// AppendUvarint appends v in base-128 groups, least significant first, high
// bit set on every byte except the last. The encoding is always minimal and
// never exceeds ten bytes.
func AppendUvarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}
