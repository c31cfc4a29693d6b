// Package fixtures produces the plain-text and raw-byte seed files that fill
// out the corpus alongside the structured encoders. Everything here is
// deterministic: fixed literals, fixed seeds, no clock or entropy input.
package fixtures

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fixture is a named blob ready for assembly.
type Fixture struct {
	Name string
	Data []byte
}

// TextFixtures returns the JSON request fixtures, valid shapes first, then
// edge cases and hostile inputs.
func TextFixtures() ([]Fixture, error) {
	cases := []struct {
		name string
		data any
	}{
		{
			name: "write_diff_request.json",
			data: map[string]any{
				"node_id": "users/123",
				"diff": map[string]any{
					"op":    "update",
					"path":  "/profile/name",
					"value": "Test User",
				},
				"metadata": map[string]any{
					"user_id":   "user123",
					"timestamp": "2025-06-30T12:00:00Z",
				},
			},
		},
		{
			name: "subscribe_request.json",
			data: map[string]any{
				"patterns":        []string{"users/*", "posts/*"},
				"filter":          "type == 'update'",
				"include_initial": true,
			},
		},
		{
			name: "conflict_resolution.json",
			data: map[string]any{
				"node_id": "doc/456",
				"local_version": map[string]any{
					"vector_clock": map[string]int{"node1": 100, "node2": 50},
					"data":         map[string]string{"title": "Local Version"},
				},
				"remote_version": map[string]any{
					"vector_clock": map[string]int{"node1": 90, "node2": 60},
					"data":         map[string]string{"title": "Remote Version"},
				},
				"strategy": "vector_clock",
			},
		},
		{
			name: "empty_request.json",
			data: map[string]any{},
		},
		{
			name: "large_metadata.json",
			data: map[string]any{
				"node_id":  "test",
				"metadata": largeMetadata(100),
			},
		},
		{
			name: "invalid_node_id.json",
			data: map[string]any{
				"node_id": "../../../etc/passwd",
				"diff":    map[string]any{},
			},
		},
		{
			name: "sql_injection.json",
			data: map[string]any{
				"node_id": "'; DROP TABLE users; --",
				"filter":  "1=1",
			},
		},
	}

	out := make([]Fixture, 0, len(cases))
	for _, c := range cases {
		data, err := json.MarshalIndent(c.data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("fixtures: %s: %w", c.name, err)
		}
		out = append(out, Fixture{Name: c.name, Data: data})
	}
	return out, nil
}

func largeMetadata(n int) map[string]string {
	meta := make(map[string]string, n)
	for i := 0; i < n; i++ {
		meta[fmt.Sprintf("key_%d", i)] = strings.Repeat(fmt.Sprintf("value_%d", i), 10)
	}
	return meta
}
