package sensor

import (
	"errors"
	"testing"
)

func TestSawtoothFirstCycle(t *testing.T) {
	s := NewSawtooth()

	want := []int{26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 25, 26}
	for i, w := range want {
		got, err := s.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: got %d, want %d", i, got, w)
		}
	}
}

func TestSawtoothInvariant(t *testing.T) {
	s := NewSawtooth()
	prev := SawtoothMin

	for i := 0; i < 500; i++ {
		next, err := s.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if next < SawtoothMin || next > SawtoothMax {
			t.Fatalf("read %d: %d out of range [%d, %d]", i, next, SawtoothMin, SawtoothMax)
		}
		if prev < SawtoothMax && next != prev+1 {
			t.Fatalf("read %d: after %d expected %d, got %d", i, prev, prev+1, next)
		}
		if prev == SawtoothMax && next != SawtoothMin {
			t.Fatalf("read %d: after %d expected wrap to %d, got %d", i, prev, SawtoothMin, next)
		}
		prev = next
	}
}

func TestSawtoothImplementsSource(t *testing.T) {
	var _ Source = NewSawtooth()
	var _ Source = NewFakeSource()
}

func TestFakeSourceRead(t *testing.T) {
	f := NewFakeSource(25, 30, 35)

	for i, want := range []int{25, 30, 35, 35} {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("read %d: got %d, want %d", i, got, want)
		}
	}
	if f.Reads() != 4 {
		t.Errorf("expected 4 reads, got %d", f.Reads())
	}
}

func TestFakeSourceNoSamples(t *testing.T) {
	f := NewFakeSource()

	if _, err := f.Read(); err == nil {
		t.Error("expected error with no samples")
	}
}

func TestFakeSourceError(t *testing.T) {
	f := NewFakeSource(25)
	f.ReadError = errors.New("simulated error")

	_, err := f.Read()
	if err == nil {
		t.Fatal("expected error to be returned")
	}
	if err.Error() != "simulated error" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFakeSourceReset(t *testing.T) {
	f := NewFakeSource(25, 26)
	f.Read()
	f.Reset()

	got, _ := f.Read()
	if got != 25 {
		t.Errorf("after reset: expected 25, got %d", got)
	}
}
