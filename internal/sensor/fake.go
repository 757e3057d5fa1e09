package sensor

import (
	"errors"
	"sync"
)

// FakeSource is a test double that returns scripted samples.
type FakeSource struct {
	mu sync.Mutex

	// Samples contains scripted values to return.
	// Each call to Read() consumes the next sample.
	Samples []int

	// index tracks current position in Samples
	index int

	// reads counts calls to Read
	reads int

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeSource creates a FakeSource with the given samples.
func NewFakeSource(samples ...int) *FakeSource {
	return &FakeSource{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeSource) Read() (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.ReadError != nil {
		return 0, f.ReadError
	}

	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Reads returns how many times Read has been called.
func (f *FakeSource) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Reset resets the source to the beginning of samples.
func (f *FakeSource) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
	f.reads = 0
}
