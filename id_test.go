package tether

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("ids collide")
	}
	rest, ok := strings.CutPrefix(a, "tip-")
	if !ok {
		t.Fatalf("id %q lacks prefix", a)
	}
	if _, err := uuid.Parse(rest); err != nil {
		t.Errorf("id suffix %q is not a uuid: %v", rest, err)
	}
}
