package corpus

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kk-code-lab/seedforge/internal/bsondoc"
	"github.com/kk-code-lab/seedforge/internal/fixtures"
	"github.com/kk-code-lab/seedforge/internal/mutate"
	"github.com/kk-code-lab/seedforge/internal/wire"
)

// Entry is one seed file: constructed in memory, written once, never
// updated. Regeneration always starts from the logical source values.
type Entry struct {
	RelPath  string
	Category string
	Data     []byte
}

// Catalog builds the full fixed catalog of corpus entries for a layout.
// Output is deterministic: same layout, same bytes, every run.
func Catalog(l Layout) ([]Entry, error) {
	var entries []Entry

	docs, err := documentEntries(l)
	if err != nil {
		return nil, err
	}
	entries = append(entries, docs...)

	malformed, err := malformedEntries(l)
	if err != nil {
		return nil, err
	}
	entries = append(entries, malformed...)

	msgs, err := messageEntries(l)
	if err != nil {
		return nil, err
	}
	entries = append(entries, msgs...)

	text, err := fixtures.TextFixtures()
	if err != nil {
		return nil, err
	}
	for _, fx := range text {
		entries = append(entries, Entry{
			RelPath:  filepath.Join(l.TextDir, fx.Name),
			Category: l.TextDir,
			Data:     fx.Data,
		})
	}
	for _, fx := range fixtures.PatternFixtures() {
		entries = append(entries, Entry{
			RelPath:  filepath.Join(l.PatternsDir, fx.Name),
			Category: l.PatternsDir,
			Data:     fx.Data,
		})
	}
	return entries, nil
}

// minimalDocument and simpleDocument are shared between the valid catalog
// and the malformed variants, which are always derived by mutating a valid
// encoding so exactly one byte region is wrong.
func minimalDocument() *bsondoc.Document {
	return bsondoc.NewDocument()
}

func simpleDocument() *bsondoc.Document {
	return bsondoc.NewDocument().Append("hello", bsondoc.String("world"))
}

func nestedDocument() *bsondoc.Document {
	return bsondoc.NewDocument().
		Append("user", bsondoc.Embed(bsondoc.NewDocument().
			Append("name", bsondoc.String("test")).
			Append("age", bsondoc.Int32(42)))).
		Append("tags", bsondoc.Array(
			bsondoc.String("rust"),
			bsondoc.String("golang"),
			bsondoc.String("typescript")))
}

func largeDocument() *bsondoc.Document {
	doc := bsondoc.NewDocument()
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("field_%d", i)
		doc.Append(key, bsondoc.String(strings.Repeat(fmt.Sprintf("value_%d", i), 100)))
	}
	return doc
}

func binaryDocument() *bsondoc.Document {
	return bsondoc.NewDocument().Append("data", bsondoc.Binary(0x00, make([]byte, 16)))
}

func documentEntries(l Layout) ([]Entry, error) {
	cases := []struct {
		name string
		doc  *bsondoc.Document
	}{
		{"minimal.bson", minimalDocument()},
		{"simple.bson", simpleDocument()},
		{"nested.bson", nestedDocument()},
		{"large.bson", largeDocument()},
		{"binary.bson", binaryDocument()},
	}
	entries := make([]Entry, 0, len(cases))
	for _, c := range cases {
		data, err := bsondoc.Encode(c.doc)
		if err != nil {
			return nil, fmt.Errorf("corpus: %s: %w", c.name, err)
		}
		entries = append(entries, Entry{
			RelPath:  filepath.Join(l.DocumentsDir, c.name),
			Category: l.DocumentsDir,
			Data:     data,
		})
	}
	return entries, nil
}

func malformedEntries(l Layout) ([]Entry, error) {
	minimal, err := bsondoc.Encode(minimalDocument())
	if err != nil {
		return nil, err
	}
	simple, err := bsondoc.Encode(simpleDocument())
	if err != nil {
		return nil, err
	}
	nested, err := bsondoc.Encode(nestedDocument())
	if err != nil {
		return nil, err
	}

	oversize, err := mutate.Resize(simple, 0xFFFFFFFF)
	if err != nil {
		return nil, err
	}
	undersize, err := mutate.Resize(nested, 5)
	if err != nil {
		return nil, err
	}

	cases := []struct {
		name string
		data []byte
	}{
		// Declared size far beyond any real allocation.
		{"oversized_length.bson", mutate.Apply(simple, oversize)},
		// Declared size cuts the document off mid-element.
		{"undersized_length.bson", mutate.Apply(nested, undersize)},
		// Terminator byte removed, size field still counts it.
		{"missing_terminator.bson", mutate.Apply(minimal, mutate.DropTerminator(minimal))},
		// Buffer cut mid-element, before any terminator.
		{"truncated_early.bson", mutate.Apply(simple, mutate.TruncateAt(10))},
	}
	entries := make([]Entry, 0, len(cases))
	for _, c := range cases {
		entries = append(entries, Entry{
			RelPath:  filepath.Join(l.MalformedDir, c.name),
			Category: l.MalformedDir,
			Data:     c.data,
		})
	}
	return entries, nil
}

func messageEntries(l Layout) ([]Entry, error) {
	minimalDoc, err := bsondoc.Encode(minimalDocument())
	if err != nil {
		return nil, err
	}

	clockEntry1, err := wire.MessageField(1, wire.Message{
		wire.StringField(1, "node1"),
		wire.VarintField(2, 1000),
	})
	if err != nil {
		return nil, err
	}
	clockEntry2, err := wire.MessageField(1, wire.Message{
		wire.StringField(1, "node2"),
		wire.VarintField(2, 2000),
	})
	if err != nil {
		return nil, err
	}
	clockField, err := wire.MessageField(3, wire.Message{
		wire.StringField(1, "node1"),
		wire.VarintField(2, 1000),
	})
	if err != nil {
		return nil, err
	}
	metadataPair, err := wire.MessageField(4, wire.Message{
		wire.StringField(1, "key"),
		wire.StringField(2, "value"),
	})
	if err != nil {
		return nil, err
	}

	cases := []struct {
		name string
		msg  wire.Message
	}{
		// Request-shaped: a node id and an embedded document payload.
		{"write_diff_minimal.pb", wire.Message{
			wire.StringField(1, "test"),
			wire.BytesField(2, minimalDoc),
		}},
		// Varint-heavy, including a field number past the single-byte key
		// range.
		{"read_snapshot.pb", wire.Message{
			wire.StringField(1, "snapshot"),
			wire.VarintField(2, 1<<32),
			wire.VarintField(3, 0),
			wire.VarintField(16, 300),
		}},
		// Repeated field number 1.
		{"subscribe.pb", wire.Message{
			wire.StringField(1, "*.log"),
			wire.StringField(1, "*.error"),
			wire.VarintField(3, 1),
		}},
		// Repeated nested sub-messages.
		{"vector_clock.pb", wire.Message{
			clockEntry1,
			clockEntry2,
		}},
		// Every wire type in one message.
		{"complex.pb", wire.Message{
			wire.StringField(1, "complex_node"),
			wire.BytesField(2, make([]byte, 32)),
			clockField,
			metadataPair,
			wire.Fixed32Field(5, 0xDEADBEEF),
			wire.Fixed64Field(6, 0x0102030405060708),
			wire.VarintField(7, 1),
		}},
	}
	entries := make([]Entry, 0, len(cases))
	for _, c := range cases {
		data, err := c.msg.Encode()
		if err != nil {
			return nil, fmt.Errorf("corpus: %s: %w", c.name, err)
		}
		entries = append(entries, Entry{
			RelPath:  filepath.Join(l.MessagesDir, c.name),
			Category: l.MessagesDir,
			Data:     data,
		})
	}
	return entries, nil
}
