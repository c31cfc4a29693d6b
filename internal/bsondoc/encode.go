package bsondoc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxDepth bounds document nesting. The format is defined over finite trees;
// a cyclic value handed in through shared *Document pointers would otherwise
// recurse forever.
const maxDepth = 64

var (
	ErrDepthExceeded = errors.New("bsondoc: document nesting too deep")
	ErrNilDocument   = errors.New("bsondoc: nil document")
)

// Encode serializes a document: 4-byte little-endian total size (including
// the size field and the trailing terminator), the encoded elements, then a
// single 0x00. The size field is always computed from the encoded bytes.
func Encode(d *Document) ([]byte, error) {
	return appendDocument(nil, d, 0)
}

func appendDocument(buf []byte, d *Document, depth int) ([]byte, error) {
	if d == nil {
		return nil, ErrNilDocument
	}
	if depth >= maxDepth {
		return nil, ErrDepthExceeded
	}
	seen := make(map[string]struct{}, len(d.elems))
	for _, e := range d.elems {
		if _, dup := seen[e.key]; dup {
			return nil, fmt.Errorf("bsondoc: duplicate key %q", e.key)
		}
		// Keys are framed as NUL-terminated cstrings; an embedded NUL
		// would truncate the key and desynchronize every reader.
		if strings.IndexByte(e.key, 0x00) >= 0 {
			return nil, fmt.Errorf("bsondoc: key %q contains NUL", e.key)
		}
		seen[e.key] = struct{}{}
	}

	start := len(buf)
	buf = append(buf, 0, 0, 0, 0) // size field, patched below
	var err error
	for _, e := range d.elems {
		buf, err = appendElement(buf, e.key, e.val, depth)
		if err != nil {
			return nil, err
		}
	}
	buf = append(buf, 0x00)
	if !fitsU32(len(buf) - start) {
		return nil, fmt.Errorf("bsondoc: document size %d exceeds size field", len(buf)-start)
	}
	binary.LittleEndian.PutUint32(buf[start:], uint32(len(buf)-start))
	return buf, nil
}

// fitsU32 reports whether a length can be stored in a 4-byte size field.
func fitsU32(n int) bool {
	return int64(n) <= math.MaxUint32
}

func appendElement(buf []byte, key string, v Value, depth int) ([]byte, error) {
	var err error
	switch v.Type {
	case TypeNull:
		buf = appendKey(buf, tagNull, key)
	case TypeBool:
		buf = appendKey(buf, tagBool, key)
		if v.Bool {
			buf = append(buf, 0x01)
		} else {
			buf = append(buf, 0x00)
		}
	case TypeInt32:
		buf = appendKey(buf, tagInt32, key)
		buf = appendU32(buf, uint32(v.I32))
	case TypeInt64:
		buf = appendKey(buf, tagInt64, key)
		buf = appendU64(buf, uint64(v.I64))
	case TypeDouble:
		buf = appendKey(buf, tagDouble, key)
		buf = appendU64(buf, math.Float64bits(v.F64))
	case TypeString:
		if !fitsU32(len(v.Str) + 1) {
			return nil, fmt.Errorf("bsondoc: string value for key %q exceeds size field", key)
		}
		buf = appendKey(buf, tagString, key)
		// Length counts the raw bytes plus the trailing NUL.
		buf = appendU32(buf, uint32(len(v.Str)+1))
		buf = append(buf, v.Str...)
		buf = append(buf, 0x00)
	case TypeBinary:
		if !fitsU32(len(v.Bin)) {
			return nil, fmt.Errorf("bsondoc: binary value for key %q exceeds size field", key)
		}
		buf = appendKey(buf, tagBinary, key)
		// Length excludes the subtype byte.
		buf = appendU32(buf, uint32(len(v.Bin)))
		buf = append(buf, v.Subtype)
		buf = append(buf, v.Bin...)
	case TypeDocument:
		buf = appendKey(buf, tagDocument, key)
		buf, err = appendDocument(buf, v.Doc, depth+1)
		if err != nil {
			return nil, err
		}
	case TypeArray:
		buf = appendKey(buf, tagArray, key)
		// Arrays are documents keyed by decimal indices.
		arr := NewDocument()
		for i, item := range v.Arr {
			arr.Append(strconv.Itoa(i), item)
		}
		buf, err = appendDocument(buf, arr, depth+1)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("bsondoc: unknown value type %d", v.Type)
	}
	return buf, nil
}

func appendKey(buf []byte, tag byte, key string) []byte {
	buf = append(buf, tag)
	buf = append(buf, key...)
	return append(buf, 0x00)
}

func appendU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}
