// Package sensor provides temperature sample sources.
// The sawtooth source simulates a slowly rising temperature; a hardware
// driver can be substituted by implementing Source.
package sensor

// Source produces temperature samples in whole degrees Celsius.
type Source interface {
	// Read returns the next sample.
	Read() (int, error)
}

// Sawtooth range (inclusive). The counter starts at SawtoothMin.
const (
	SawtoothMin = 25
	SawtoothMax = 35
)

// Sawtooth is a simulated sensor that rises by one degree per read and
// wraps from SawtoothMax back to SawtoothMin. It never decrements.
type Sawtooth struct {
	current int
}

// NewSawtooth creates a sawtooth source with its counter at SawtoothMin.
// The first Read therefore returns SawtoothMin+1.
func NewSawtooth() *Sawtooth {
	return &Sawtooth{current: SawtoothMin}
}

// Read advances the counter and returns the new value.
func (s *Sawtooth) Read() (int, error) {
	if s.current < SawtoothMax {
		s.current++
	} else {
		s.current = SawtoothMin
	}
	return s.current, nil
}
