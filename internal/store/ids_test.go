package store

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := newID("task")
		if err != nil {
			t.Fatalf("newID: %v", err)
		}
		if !strings.HasPrefix(id, "task-") {
			t.Fatalf("expected task prefix, got %q", id)
		}
		suffix := strings.TrimPrefix(id, "task-")
		if got, want := len(suffix), 8; got != want {
			t.Fatalf("expected suffix len %d, got %d (%q)", want, got, suffix)
		}
		if suffix != strings.ToLower(suffix) {
			t.Fatalf("expected lowercase suffix, got %q", suffix)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
