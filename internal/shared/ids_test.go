package shared

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID("job_")
	if !strings.HasPrefix(id, "job_") {
		t.Errorf("expected prefix 'job_', got %s", id)
	}
	if len(id) != len("job_")+32 {
		t.Errorf("expected 32 hex chars after prefix, got %d", len(id)-len("job_"))
	}
	if strings.Contains(id, "-") {
		t.Errorf("expected no dashes in id, got %s", id)
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID("")
		if seen[id] {
			t.Fatalf("duplicate id generated: %s", id)
		}
		seen[id] = true
	}
}
