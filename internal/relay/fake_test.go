package relay

import (
	"errors"
	"testing"
)

func TestFakeControllerRecordsSets(t *testing.T) {
	f := NewFakeController()

	f.Set(true)
	f.Set(false)
	f.Set(true)

	want := []bool{true, false, true}
	if len(f.Sets) != len(want) {
		t.Fatalf("expected %d sets, got %d", len(want), len(f.Sets))
	}
	for i, w := range want {
		if f.Sets[i] != w {
			t.Errorf("set %d: got %v, want %v", i, f.Sets[i], w)
		}
	}
	if !f.On() {
		t.Error("On() should report the last commanded state")
	}
}

func TestFakeControllerDefaultsOff(t *testing.T) {
	f := NewFakeController()
	if f.On() {
		t.Error("controller with no sets should report off")
	}
}

func TestFakeControllerSetError(t *testing.T) {
	f := NewFakeController()
	f.SetError = errors.New("line fault")

	if err := f.Set(true); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Sets) != 0 {
		t.Error("failed Set should not be recorded")
	}
}

func TestFakeControllerClose(t *testing.T) {
	f := NewFakeController()

	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}
