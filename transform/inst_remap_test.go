package transform

import (
	"testing"

	"github.com/pkg/errors"
)

func TestRegistryDedup(t *testing.T) {
	r := NewRegistry()
	refs := []int{7, 3, 7, 0xFF, 3, 0, 7}
	want := []int{1, 2, 1, 3, 2, 4, 1}

	for i, id := range refs {
		got, err := r.Resolve(id)
		if err != nil {
			t.Fatal(err)
		}
		if got != want[i] {
			t.Errorf("ref %d (id %d): got %d, want %d", i, id, got, want[i])
		}
	}
	if r.Len() != 4 {
		t.Errorf("Len: got %d, want 4", r.Len())
	}
	ids := r.IDs()
	for i, id := range []int{7, 3, 0xFF, 0} {
		if ids[i] != id {
			t.Errorf("IDs[%d]: got %d, want %d", i, ids[i], id)
		}
	}
}

func TestRegistryCap(t *testing.T) {
	r := NewRegistry()
	for id := 0; id < MaxInstruments; id++ {
		got, err := r.Resolve(id)
		if err != nil {
			t.Fatalf("id %d: %v", id, err)
		}
		if got != id+1 {
			t.Fatalf("id %d: got %d, want %d", id, got, id+1)
		}
	}
	if r.Len() != MaxInstruments {
		t.Fatalf("Len: got %d, want %d", r.Len(), MaxInstruments)
	}

	if _, err := r.Resolve(MaxInstruments); errors.Cause(err) != ErrTooManyInstruments {
		t.Errorf("overflow: got %v, want ErrTooManyInstruments", err)
	}
	if r.Len() != MaxInstruments {
		t.Errorf("overflow changed Len to %d", r.Len())
	}

	// Known ids still resolve after an overflow.
	for _, id := range []int{0, 100, MaxInstruments - 1} {
		if got, err := r.Resolve(id); err != nil || got != id+1 {
			t.Errorf("id %d after overflow: got %d, %v, want %d", id, got, err, id+1)
		}
	}
}

func TestFineTune(t *testing.T) {
	tests := []struct {
		effect, param, want byte
	}{
		{0x0E, 0x50, 0x58},
		{0x0E, 0x58, 0x50},
		{0x0E, 0x5F, 0x57},
		{0x0E, 0x53, 0x5B},
		{0x0E, 0x60, 0x60},
		{0x0E, 0x15, 0x15},
		{0x0F, 0x53, 0x53},
		{0x00, 0x50, 0x50},
	}
	for _, tt := range tests {
		if got := FineTune(tt.effect, tt.param); got != tt.want {
			t.Errorf("FineTune(%X, %02X): got %02X, want %02X", tt.effect, tt.param, got, tt.want)
		}
	}
}
