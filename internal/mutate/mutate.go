// Package mutate derives deliberately malformed byte sequences from valid
// encodings. Each mutation perturbs exactly one byte region; the resulting
// inconsistency between declared and actual structure is the product, never
// an error.
package mutate

import (
	"encoding/binary"
	"fmt"
)

// Kind names the structural invariant a mutation violates.
type Kind uint8

const (
	// OversizedLength rewrites the leading 4-byte size field to declare
	// more bytes than the buffer holds.
	OversizedLength Kind = iota
	// UndersizedLength rewrites the size field to declare fewer bytes,
	// truncating the document early when read.
	UndersizedLength
	// MissingTerminator truncates the buffer so the trailing terminator
	// byte a valid encoding requires is absent.
	MissingTerminator
)

// String returns the file-name-friendly kind label.
func (k Kind) String() string {
	switch k {
	case OversizedLength:
		return "oversized_length"
	case UndersizedLength:
		return "undersized_length"
	case MissingTerminator:
		return "missing_terminator"
	}
	return "unknown"
}

// Mutation describes one perturbation: replace the run at Offset with
// Replacement, or for MissingTerminator cut the buffer at Offset.
type Mutation struct {
	Kind        Kind
	Offset      int
	Replacement []byte
}

// Resize builds a size-field mutation declaring the given magnitude. The
// kind follows from how declared compares to the actual length; declared
// may be any value up to 0xFFFFFFFF, including ones no allocation could
// satisfy. A declared size equal to the actual length would leave the
// buffer well formed, so it is rejected as a caller defect rather than
// classified under either kind.
func Resize(origin []byte, declared uint32) (Mutation, error) {
	if int64(declared) == int64(len(origin)) {
		return Mutation{}, fmt.Errorf("mutate: declared size %d equals actual length, not malformed", declared)
	}
	kind := OversizedLength
	if int64(declared) < int64(len(origin)) {
		kind = UndersizedLength
	}
	var size [4]byte
	binary.LittleEndian.PutUint32(size[:], declared)
	return Mutation{Kind: kind, Offset: 0, Replacement: size[:]}, nil
}

// DropTerminator removes the final terminator byte.
func DropTerminator(origin []byte) Mutation {
	return Mutation{Kind: MissingTerminator, Offset: len(origin) - 1}
}

// TruncateAt cuts the buffer at n, before any terminator is reached.
func TruncateAt(n int) Mutation {
	return Mutation{Kind: MissingTerminator, Offset: n}
}

// Apply returns a copy of origin with the mutation applied. It never fails
// for in-range offsets and never adjusts other bytes to keep the result
// consistent.
func Apply(origin []byte, m Mutation) []byte {
	switch m.Kind {
	case MissingTerminator:
		n := m.Offset
		if n < 0 {
			n = 0
		}
		if n > len(origin) {
			n = len(origin)
		}
		return append([]byte(nil), origin[:n]...)
	default:
		out := append([]byte(nil), origin...)
		end := m.Offset + len(m.Replacement)
		if m.Offset < 0 || end > len(out) {
			return out
		}
		copy(out[m.Offset:end], m.Replacement)
		return out
	}
}
