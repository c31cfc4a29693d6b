package fixtures

import (
	"bytes"
	"encoding/json"
	"testing"
	"unicode/utf8"
)

func TestTextFixturesValidJSON(t *testing.T) {
	fixtures, err := TextFixtures()
	if err != nil {
		t.Fatalf("TextFixtures: %v", err)
	}
	if len(fixtures) != 7 {
		t.Fatalf("fixture count: got %d, want 7", len(fixtures))
	}
	seen := make(map[string]struct{})
	for _, fx := range fixtures {
		if _, dup := seen[fx.Name]; dup {
			t.Fatalf("duplicate fixture name %q", fx.Name)
		}
		seen[fx.Name] = struct{}{}
		var v any
		if err := json.Unmarshal(fx.Data, &v); err != nil {
			t.Fatalf("%s: invalid JSON: %v", fx.Name, err)
		}
	}
}

func TestTextFixturesDeterministic(t *testing.T) {
	a, err := TextFixtures()
	if err != nil {
		t.Fatalf("TextFixtures: %v", err)
	}
	b, err := TextFixtures()
	if err != nil {
		t.Fatalf("TextFixtures: %v", err)
	}
	for i := range a {
		if a[i].Name != b[i].Name || !bytes.Equal(a[i].Data, b[i].Data) {
			t.Fatalf("fixture %s differs between runs", a[i].Name)
		}
	}
}

func TestPatternFixtures(t *testing.T) {
	fixtures := PatternFixtures()
	byName := make(map[string][]byte, len(fixtures))
	for _, fx := range fixtures {
		if len(fx.Data) == 0 {
			t.Fatalf("%s: empty", fx.Name)
		}
		byName[fx.Name] = fx.Data
	}

	zeros := byName["zeros.bin"]
	if len(zeros) != 1024 || !bytes.Equal(zeros, make([]byte, 1024)) {
		t.Fatal("zeros.bin wrong content")
	}
	ones := byName["ones.bin"]
	if len(ones) != 1024 || ones[0] != 0xFF || ones[1023] != 0xFF {
		t.Fatal("ones.bin wrong content")
	}
	alt := byName["alternating.bin"]
	if len(alt) != 1024 || alt[0] != 0xAA || alt[1] != 0x55 {
		t.Fatal("alternating.bin wrong content")
	}
	if !utf8.Valid(byName["utf8_stress.bin"]) {
		t.Fatal("utf8_stress.bin not valid UTF-8")
	}
}

func TestDerivedBlockStable(t *testing.T) {
	a := derivedBlock(64)
	b := derivedBlock(64)
	if !bytes.Equal(a, b) {
		t.Fatal("derived block differs between runs")
	}
	if len(a) != 64*32 {
		t.Fatalf("derived block length: got %d", len(a))
	}
	// Chained digests should not repeat.
	if bytes.Equal(a[:32], a[32:64]) {
		t.Fatal("consecutive digests identical")
	}
}
