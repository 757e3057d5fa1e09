// Package status provides a thread-safe status tracker for the fan-controller daemon.
// The producer and consumer write to it; HTTP handlers and MQTT system
// events read snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/fan-controller/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	Capacity    int
	PeriodMs    int64
	Threshold   int
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	FanPin      int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Fan           logic.State
	LastTemp      int
	HasSample     bool // LastTemp is valid
	Produced      int
	QueueLen      int
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Occupancy reports how many samples are waiting in the queue.
type Occupancy interface {
	Len() int
}

// Tracker holds mutable daemon state behind an RWMutex.
// Queue occupancy is not stored; it is read from the queue on every Snapshot.
type Tracker struct {
	mu    sync.RWMutex
	snap  Snapshot
	queue Occupancy
}

// NewTracker creates a Tracker with the given start time and config.
// q may be nil, in which case QueueLen is always zero.
func NewTracker(startTime time.Time, cfg Config, q Occupancy) *Tracker {
	return &Tracker{
		queue: q,
		snap: Snapshot{
			Fan:       logic.StateUndefined,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordProduced notes a sample the producer has enqueued.
func (t *Tracker) RecordProduced(temp int) {
	t.mu.Lock()
	t.snap.Produced++
	t.snap.LastTemp = temp
	t.snap.HasSample = true
	t.mu.Unlock()
}

// Update sets the fan state and counters.
// Called by the consumer after every sample.
func (t *Tracker) Update(fan logic.State, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Fan = fan
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// Now and QueueLen are taken at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	if t.queue != nil {
		s.QueueLen = t.queue.Len()
	}
	return s
}
