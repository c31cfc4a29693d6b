package bsondoc

// Type discriminates the closed set of value variants the encoder accepts.
type Type uint8

const (
	TypeNull Type = iota
	TypeBool
	TypeInt32
	TypeInt64
	TypeDouble
	TypeString
	TypeBinary
	TypeDocument
	TypeArray
)

// Element type bytes as they appear on the wire.
const (
	tagDouble   = 0x01
	tagString   = 0x02
	tagDocument = 0x03
	tagArray    = 0x04
	tagBinary   = 0x05
	tagBool     = 0x08
	tagNull     = 0x0A
	tagInt32    = 0x10
	tagInt64    = 0x12
)

// Value is one node of a document tree. Only the field matching Type is
// meaningful; construct values through the helpers below.
type Value struct {
	Type    Type
	Bool    bool
	I32     int32
	I64     int64
	F64     float64
	Str     string
	Bin     []byte
	Subtype byte
	Doc     *Document
	Arr     []Value
}

func Null() Value                      { return Value{Type: TypeNull} }
func Bool(v bool) Value                { return Value{Type: TypeBool, Bool: v} }
func Int32(v int32) Value              { return Value{Type: TypeInt32, I32: v} }
func Int64(v int64) Value              { return Value{Type: TypeInt64, I64: v} }
func Double(v float64) Value           { return Value{Type: TypeDouble, F64: v} }
func String(v string) Value            { return Value{Type: TypeString, Str: v} }
func Binary(subtype byte, b []byte) Value {
	return Value{Type: TypeBinary, Subtype: subtype, Bin: b}
}
func Embed(d *Document) Value { return Value{Type: TypeDocument, Doc: d} }
func Array(vs ...Value) Value { return Value{Type: TypeArray, Arr: vs} }

// element is a single key/value pair. Order of elements is part of the
// encoded byte layout, not just semantics.
type element struct {
	key string
	val Value
}

// Document is an ordered mapping of string keys to values.
type Document struct {
	elems []element
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Append adds a key/value pair, preserving insertion order. Duplicate keys
// are rejected at encode time.
func (d *Document) Append(key string, v Value) *Document {
	d.elems = append(d.elems, element{key: key, val: v})
	return d
}

// Len returns the number of elements.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.elems)
}
