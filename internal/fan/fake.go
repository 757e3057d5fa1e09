package fan

import "sync"

// FakeActuator is a test double that records every Set call.
type FakeActuator struct {
	mu sync.Mutex

	// States contains the values passed to Set, in order.
	States []bool

	// SetError, if set, will be returned by Set().
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeActuator creates a FakeActuator.
func NewFakeActuator() *FakeActuator {
	return &FakeActuator{}
}

// Set records on.
func (f *FakeActuator) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SetError != nil {
		return f.SetError
	}
	f.States = append(f.States, on)
	return nil
}

// Calls returns a copy of the recorded states.
func (f *FakeActuator) Calls() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.States...)
}

// Close marks the actuator as closed.
func (f *FakeActuator) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// Reset clears recorded calls.
func (f *FakeActuator) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.States = nil
	f.SetError = nil
	f.Closed = false
}
