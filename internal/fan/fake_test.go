package fan

import (
	"errors"
	"testing"
)

func TestFakeActuatorSet(t *testing.T) {
	f := NewFakeActuator()

	for _, on := range []bool{false, true, false} {
		if err := f.Set(on); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := f.Calls()
	want := []bool{false, true, false}
	if len(got) != len(want) {
		t.Fatalf("expected %d calls, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFakeActuatorError(t *testing.T) {
	f := NewFakeActuator()
	f.SetError = errors.New("simulated error")

	if err := f.Set(true); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Calls()) != 0 {
		t.Errorf("expected no calls recorded on error, got %d", len(f.Calls()))
	}
}

func TestFakeActuatorClose(t *testing.T) {
	f := NewFakeActuator()

	if f.Closed {
		t.Error("should not be closed initially")
	}
	if err := f.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("should be closed after Close()")
	}
}

func TestFakeActuatorReset(t *testing.T) {
	f := NewFakeActuator()
	f.Set(true)
	f.Close()
	f.Reset()

	if len(f.Calls()) != 0 || f.Closed {
		t.Error("expected clean actuator after reset")
	}
}

func TestNop(t *testing.T) {
	var a Actuator = Nop{}
	if err := a.Set(true); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
