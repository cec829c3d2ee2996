package roster_test

import (
	"testing"

	"github.com/nyashahama/attendance-reminder-backend/internal/roster"
)

func TestDefault(t *testing.T) {
	r := roster.Default()
	if len(r) != 5 {
		t.Fatalf("expected 5 employees, got %d", len(r))
	}
	for i, e := range r {
		if e.ID != i+1 {
			t.Errorf("position %d: id=%d, want %d", i, e.ID, i+1)
		}
		if e.Name == "" {
			t.Errorf("position %d: empty name", i)
		}
	}
}

func TestNames_PreservesRosterOrder(t *testing.T) {
	r := roster.Default()
	names := r.Names()
	if len(names) != len(r) {
		t.Fatalf("expected %d names, got %d", len(r), len(names))
	}
	for i, e := range r {
		if names[i] != e.Name {
			t.Errorf("position %d: got %q, want %q", i, names[i], e.Name)
		}
	}
}
