//go:build !linux

package fan

import "errors"

// RealActuator is not available on non-Linux platforms.
type RealActuator struct{}

// NewRealActuator returns an error on non-Linux platforms.
func NewRealActuator(pin int) (*RealActuator, error) {
	return nil, errors.New("fan: gpio not supported on this platform (requires Linux)")
}

// Set is not implemented on non-Linux platforms.
func (r *RealActuator) Set(on bool) error {
	return errors.New("fan: gpio not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealActuator) Close() error {
	return nil
}
