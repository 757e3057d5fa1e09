// Package fan provides the fan actuator output with hardware abstraction.
// The real implementation drives a Linux GPIO character device line.
// The fake implementation allows testing without hardware.
package fan

// Actuator switches the fan.
type Actuator interface {
	// Set drives the fan on (true) or off (false).
	Set(on bool) error

	// Close releases actuator resources.
	Close() error
}

// NoPin disables the hardware output.
const NoPin = -1

// Nop is an Actuator that does nothing. Used when no output pin is configured.
type Nop struct{}

// Set does nothing.
func (Nop) Set(bool) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }
