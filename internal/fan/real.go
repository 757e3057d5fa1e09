//go:build linux

package fan

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealActuator drives the fan relay from a GPIO output line.
type RealActuator struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealActuator requests pin (BCM numbering) as an output, initially low.
func NewRealActuator(pin int) (*RealActuator, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request fan pin %d: %w", pin, err)
	}

	return &RealActuator{
		chip: chip,
		line: line,
	}, nil
}

// Set drives the line high for on, low for off.
func (r *RealActuator) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set fan pin: %w", err)
	}
	return nil
}

// Close switches the fan off and returns the line to an input with
// pull-down (the Pi boot default) before releasing it.
func (r *RealActuator) Close() error {
	var errs []error

	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("switch fan off: %w", err))
		}
		if err := r.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure fan pin: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close fan pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
