package bsondoc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
)

func TestEncodeEmptyDocument(t *testing.T) {
	got, err := Encode(NewDocument())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x05, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("empty document: got %x, want %x", got, want)
	}
}

func TestEncodeHelloWorld(t *testing.T) {
	doc := NewDocument().Append("hello", String("world"))
	got, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0x16, 0x00, 0x00, 0x00,
		0x02, 'h', 'e', 'l', 'l', 'o', 0x00,
		0x06, 0x00, 0x00, 0x00, 'w', 'o', 'r', 'l', 'd', 0x00,
		0x00,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("hello/world: got %x, want %x", got, want)
	}
}

func TestEncodeSizeField(t *testing.T) {
	docs := []*Document{
		NewDocument(),
		NewDocument().Append("a", Int32(1)),
		NewDocument().Append("s", String("xy")).Append("n", Null()),
		NewDocument().Append("inner", Embed(NewDocument().Append("k", Int64(7)))),
		NewDocument().Append("tags", Array(String("rust"), String("golang"), String("typescript"))),
		NewDocument().Append("data", Binary(0x00, make([]byte, 16))),
	}
	for i, doc := range docs {
		data, err := Encode(doc)
		if err != nil {
			t.Fatalf("doc %d: Encode: %v", i, err)
		}
		declared := binary.LittleEndian.Uint32(data[:4])
		if int(declared) != len(data) {
			t.Fatalf("doc %d: declared size %d, actual %d", i, declared, len(data))
		}
		if data[len(data)-1] != 0x00 {
			t.Fatalf("doc %d: missing terminator", i)
		}
	}
}

func TestEncodeBinaryLayout(t *testing.T) {
	doc := NewDocument().Append("data", Binary(0x00, bytes.Repeat([]byte{0xCC}, 16)))
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	// type byte, key, NUL, then a 4-byte count that excludes the subtype byte.
	payload := data[4:]
	if payload[0] != tagBinary {
		t.Fatalf("tag: got %#x", payload[0])
	}
	lenOff := 1 + len("data") + 1
	if n := binary.LittleEndian.Uint32(payload[lenOff:]); n != 16 {
		t.Fatalf("binary count: got %d, want 16", n)
	}
	if sub := payload[lenOff+4]; sub != 0x00 {
		t.Fatalf("subtype: got %#x", sub)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	doc := NewDocument().
		Append("user", Embed(NewDocument().
			Append("name", String("test")).
			Append("age", Int32(42)))).
		Append("tags", Array(String("rust"), String("golang"), String("typescript"))).
		Append("pi", Double(3.14159)).
		Append("big", Int64(1<<40)).
		Append("ok", Bool(true)).
		Append("none", Null()).
		Append("blob", Binary(0x80, []byte{1, 2, 3}))

	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := parseDocument(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Fatalf("round-trip mismatch:\n got %+v\nwant %+v", got, doc)
	}
}

func TestEncodeRejectsNULInKey(t *testing.T) {
	docs := []*Document{
		NewDocument().Append("a\x00b", Int32(7)),
		NewDocument().Append("\x00", Null()),
		NewDocument().Append("outer", Embed(NewDocument().Append("k\x00", Bool(true)))),
	}
	for i, doc := range docs {
		if _, err := Encode(doc); err == nil {
			t.Fatalf("doc %d: expected NUL-in-key error", i)
		}
	}
	// NUL is fine inside string values, which are length-prefixed.
	data, err := Encode(NewDocument().Append("k", String("a\x00b")))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := parseDocument(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.elems[0].val.Str != "a\x00b" {
		t.Fatalf("string value mangled: %q", got.elems[0].val.Str)
	}
}

func TestFitsU32(t *testing.T) {
	cases := []struct {
		n    int
		want bool
	}{
		{0, true},
		{5, true},
		{math.MaxUint32, true},
		{math.MaxUint32 + 1, false},
	}
	for _, c := range cases {
		if got := fitsU32(c.n); got != c.want {
			t.Fatalf("fitsU32(%d): got %v, want %v", c.n, got, c.want)
		}
	}
}

func TestEncodeDuplicateKey(t *testing.T) {
	doc := NewDocument().Append("k", Int32(1)).Append("k", Int32(2))
	if _, err := Encode(doc); err == nil {
		t.Fatal("expected duplicate key error")
	}
}

func TestEncodeDepthLimit(t *testing.T) {
	inner := NewDocument()
	doc := inner
	for i := 0; i < maxDepth+1; i++ {
		doc = NewDocument().Append("d", Embed(doc))
	}
	if _, err := Encode(doc); !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected ErrDepthExceeded, got %v", err)
	}
}

func TestEncodeNilDocument(t *testing.T) {
	if _, err := Encode(nil); !errors.Is(err, ErrNilDocument) {
		t.Fatalf("expected ErrNilDocument, got %v", err)
	}
}

// parseDocument is a strict test-side decoder. It rejects any size or
// terminator inconsistency so encoder bugs cannot hide behind a lenient
// reader.
func parseDocument(data []byte) (*Document, error) {
	doc, rest, err := readDocument(data)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing bytes: %d", len(rest))
	}
	return doc, nil
}

func readDocument(data []byte) (*Document, []byte, error) {
	if len(data) < 5 {
		return nil, nil, errors.New("short document")
	}
	size := int(binary.LittleEndian.Uint32(data[:4]))
	if size < 5 || size > len(data) {
		return nil, nil, fmt.Errorf("bad size %d for %d bytes", size, len(data))
	}
	body := data[4 : size-1]
	if data[size-1] != 0x00 {
		return nil, nil, errors.New("missing terminator")
	}
	doc := NewDocument()
	for len(body) > 0 {
		tag := body[0]
		nul := bytes.IndexByte(body[1:], 0x00)
		if nul < 0 {
			return nil, nil, errors.New("unterminated key")
		}
		key := string(body[1 : 1+nul])
		body = body[1+nul+1:]
		var (
			val Value
			err error
		)
		val, body, err = readValue(tag, body)
		if err != nil {
			return nil, nil, err
		}
		doc.Append(key, val)
	}
	return doc, data[size:], nil
}

func readValue(tag byte, body []byte) (Value, []byte, error) {
	switch tag {
	case tagNull:
		return Null(), body, nil
	case tagBool:
		if len(body) < 1 {
			return Value{}, nil, errors.New("short bool")
		}
		return Bool(body[0] != 0), body[1:], nil
	case tagInt32:
		if len(body) < 4 {
			return Value{}, nil, errors.New("short int32")
		}
		return Int32(int32(binary.LittleEndian.Uint32(body))), body[4:], nil
	case tagInt64:
		if len(body) < 8 {
			return Value{}, nil, errors.New("short int64")
		}
		return Int64(int64(binary.LittleEndian.Uint64(body))), body[8:], nil
	case tagDouble:
		if len(body) < 8 {
			return Value{}, nil, errors.New("short double")
		}
		return Double(math.Float64frombits(binary.LittleEndian.Uint64(body))), body[8:], nil
	case tagString:
		if len(body) < 4 {
			return Value{}, nil, errors.New("short string length")
		}
		n := int(binary.LittleEndian.Uint32(body))
		if n < 1 || len(body) < 4+n {
			return Value{}, nil, errors.New("short string")
		}
		if body[4+n-1] != 0x00 {
			return Value{}, nil, errors.New("string missing NUL")
		}
		return String(string(body[4 : 4+n-1])), body[4+n:], nil
	case tagBinary:
		if len(body) < 5 {
			return Value{}, nil, errors.New("short binary header")
		}
		n := int(binary.LittleEndian.Uint32(body))
		if len(body) < 5+n {
			return Value{}, nil, errors.New("short binary")
		}
		bin := append([]byte(nil), body[5:5+n]...)
		return Binary(body[4], bin), body[5+n:], nil
	case tagDocument:
		doc, rest, err := readDocument(body)
		if err != nil {
			return Value{}, nil, err
		}
		return Embed(doc), rest, nil
	case tagArray:
		doc, rest, err := readDocument(body)
		if err != nil {
			return Value{}, nil, err
		}
		items := make([]Value, 0, doc.Len())
		for _, e := range doc.elems {
			items = append(items, e.val)
		}
		return Array(items...), rest, nil
	default:
		return Value{}, nil, fmt.Errorf("unknown tag %#x", tag)
	}
}
