// Package logic contains pure business logic for fan state tracking.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// State represents the logical state of the fan.
type State string

const (
	// StateUndefined is held until the first sample is processed.
	// It is never re-entered.
	StateUndefined State = "UNDEFINED"
	StateOn        State = "ON"
	StateOff       State = "OFF"
)

// EventType represents a fan state transition.
type EventType string

const (
	EventFanOn  EventType = "FAN_ON"
	EventFanOff EventType = "FAN_OFF"
)

// DefaultThreshold is the temperature (inclusive) at which the fan turns on.
const DefaultThreshold = 30

// Event represents a fan transition to be reported.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Temp      int // sample that triggered the transition
}

// Input represents a single temperature sample taken off the queue.
type Input struct {
	Temp int
	Time time.Time
}

// EventCounts tracks samples and transitions since startup.
type EventCounts struct {
	Samples int
	FanOn   int
	FanOff  int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
