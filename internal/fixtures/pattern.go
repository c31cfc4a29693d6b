package fixtures

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// derivedSeed keys the pseudorandom pattern. Changing it changes corpus
// bytes, so it is part of the output contract.
const derivedSeed = "seedforge_derived_pattern"

// PatternFixtures returns the raw-byte seed blobs: uniform fills, an
// alternating pattern, a seeded pseudorandom block, UTF-8 stress text, and
// classic attack payloads.
func PatternFixtures() []Fixture {
	return []Fixture{
		{Name: "zeros.bin", Data: make([]byte, 1024)},
		{Name: "ones.bin", Data: bytes.Repeat([]byte{0xFF}, 1024)},
		{Name: "alternating.bin", Data: bytes.Repeat([]byte{0xAA, 0x55}, 512)},
		{Name: "random.bin", Data: derivedBlock(64)},
		{Name: "utf8_stress.bin", Data: []byte(strings.Repeat("\U0001F680 Test 测试 テスト ", 100))},
		{Name: "attack_0.bin", Data: bytes.Repeat([]byte{'A'}, 10000)},
		{Name: "attack_1.bin", Data: bytes.Repeat([]byte("%s"), 100)},
		{Name: "attack_2.bin", Data: make([]byte, 1024)},
		{Name: "attack_3.bin", Data: []byte("../../../../etc/passwd\x00")},
	}
}

// derivedBlock chains blake3 over the fixed seed plus a counter, the same
// construction for every run.
func derivedBlock(rounds int) []byte {
	out := make([]byte, 0, rounds*32)
	for i := 0; i < rounds; i++ {
		sum := blake3.Sum256([]byte(derivedSeed + strconv.Itoa(i)))
		out = append(out, sum[:]...)
	}
	return out
}
