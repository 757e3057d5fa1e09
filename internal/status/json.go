package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Fan           string     `json:"fan"`
	TempC         *int       `json:"temp_c"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Queue         QueueJSON  `json:"queue"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// QueueJSON reports sample queue occupancy.
type QueueJSON struct {
	Len      int  `json:"len"`
	Capacity int  `json:"capacity"`
	Free     int  `json:"free"`
	Full     bool `json:"full"` // the producer is, or is about to be, blocked
}

func buildQueue(snap Snapshot) QueueJSON {
	q := QueueJSON{Len: snap.QueueLen, Capacity: snap.Config.Capacity}
	if q.Capacity > 0 {
		q.Free = q.Capacity - q.Len
		q.Full = q.Len >= q.Capacity
	}
	return q
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of sample and transition counts.
type CountsJSON struct {
	Produced int `json:"produced"`
	Consumed int `json:"consumed"`
	FanOn    int `json:"fan_on"`
	FanOff   int `json:"fan_off"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Capacity    int    `json:"capacity"`
	PeriodMs    int64  `json:"period_ms"`
	Threshold   int    `json:"threshold_c"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker,omitempty"`
	HTTPAddr    string `json:"http_addr,omitempty"`
	FanPin      int    `json:"fan_pin"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Fan:           string(snap.Fan),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Queue:         buildQueue(snap),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Produced: snap.Produced,
			Consumed: snap.Counts.Samples,
			FanOn:    snap.Counts.FanOn,
			FanOff:   snap.Counts.FanOff,
		},
		Config: ConfigJSON{
			Capacity:    snap.Config.Capacity,
			PeriodMs:    snap.Config.PeriodMs,
			Threshold:   snap.Config.Threshold,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			FanPin:      snap.Config.FanPin,
		},
	}
	if inner.Fan == "" {
		inner.Fan = "UNDEFINED"
	}
	if snap.HasSample {
		temp := snap.LastTemp
		inner.TempC = &temp
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatQueueJSON returns the queue occupancy on its own.
func FormatQueueJSON(snap Snapshot) []byte {
	data, _ := json.Marshal(buildQueue(snap))
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
