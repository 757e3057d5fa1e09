package logic

import "time"

// Detector turns temperature samples into edge-triggered fan transitions.
// It is owned by a single consumer and is not safe for concurrent use.
type Detector struct {
	threshold     int
	state         State
	startTime     time.Time
	eventCounts   EventCounts
	lastHeartbeat time.Time
}

// NewDetector creates a detector that switches the fan on at or above threshold.
// The startTime is used for calculating uptime in heartbeat events.
func NewDetector(threshold int, startTime time.Time) *Detector {
	return &Detector{
		threshold:     threshold,
		state:         StateUndefined,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Desired returns the state the fan should be in for temp.
func (d *Detector) Desired(temp int) State {
	if temp >= d.threshold {
		return StateOn
	}
	return StateOff
}

// Process applies a sample and returns the transition it caused, or nil
// when the desired state equals the current one. The first sample always
// produces an event because the detector starts Undefined.
func (d *Detector) Process(input Input) *Event {
	d.eventCounts.Samples++

	desired := d.Desired(input.Temp)
	if desired == d.state {
		return nil
	}
	d.state = desired

	event := &Event{
		Timestamp: input.Time,
		State:     desired,
		Temp:      input.Temp,
	}
	if desired == StateOn {
		event.Type = EventFanOn
		d.eventCounts.FanOn++
	} else {
		event.Type = EventFanOff
		d.eventCounts.FanOff++
	}
	return event
}

// Threshold returns the switching temperature.
func (d *Detector) Threshold() int {
	return d.threshold
}

// CurrentState returns the last reported state.
func (d *Detector) CurrentState() State {
	return d.state
}

// EventCountsSnapshot returns a copy of the counters.
func (d *Detector) EventCountsSnapshot() EventCounts {
	return d.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or startup). Returns nil if no sample has been processed yet,
// if the interval has not elapsed, or if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if d.state == StateUndefined {
		return nil
	}

	if now.Sub(d.lastHeartbeat) < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(d.startTime),
		Counts:    d.eventCounts,
	}
}
