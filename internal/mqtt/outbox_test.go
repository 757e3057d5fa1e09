package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/fan-controller/internal/logic"
)

func transition(t *testing.T, typ logic.EventType, temp int) message {
	t.Helper()
	state := logic.StateOff
	if typ == logic.EventFanOn {
		state = logic.StateOn
	}
	m, err := fanMessage(logic.Event{
		Timestamp: time.Date(2026, 1, 1, 12, 0, temp, 0, time.UTC),
		Type:      typ,
		State:     state,
		Temp:      temp,
	})
	if err != nil {
		t.Fatalf("fanMessage: %v", err)
	}
	return m
}

func decodeFan(t *testing.T, m message) FanPayload {
	t.Helper()
	var p Payload
	if err := json.Unmarshal(m.payload, &p); err != nil {
		t.Fatalf("invalid fan payload %s: %v", m.payload, err)
	}
	return p.Fan
}

func TestFanMessage(t *testing.T) {
	m := transition(t, logic.EventFanOn, 30)
	if m.topic != Topic {
		t.Errorf("topic: got %s, want %s", m.topic, Topic)
	}
	if m.qos != 0 || m.retained {
		t.Errorf("fan transitions are QoS 0 and not retained, got qos=%d retained=%v", m.qos, m.retained)
	}
	if fp := decodeFan(t, m); fp.Event != "FAN_ON" || fp.Temp != 30 {
		t.Errorf("unexpected payload: %+v", fp)
	}
}

func TestSystemMessage(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	m, err := systemMessage(SystemEvent{Event: "STARTUP", Retained: true, RawPayload: raw})
	if err != nil {
		t.Fatalf("systemMessage: %v", err)
	}
	if m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("unexpected message: topic=%s qos=%d retained=%v", m.topic, m.qos, m.retained)
	}
	if string(m.payload) != string(raw) {
		t.Errorf("payload: got %s, want %s", m.payload, raw)
	}

	hb, err := systemMessage(SystemEvent{Event: "HEARTBEAT"})
	if err != nil {
		t.Fatalf("systemMessage: %v", err)
	}
	if hb.retained {
		t.Error("heartbeat should not be retained")
	}
}

func TestOutboxReplaysInPublishOrder(t *testing.T) {
	o := newOutbox(10)

	startup, err := systemMessage(SystemEvent{
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Event:     "STARTUP",
		Retained:  true,
	})
	if err != nil {
		t.Fatalf("systemMessage: %v", err)
	}
	o.add(startup)
	o.add(transition(t, logic.EventFanOff, 26))
	o.add(transition(t, logic.EventFanOn, 30))

	if o.len() != 3 {
		t.Fatalf("len: got %d, want 3", o.len())
	}

	var replayed []message
	sent := o.flush(func(m message) error {
		replayed = append(replayed, m)
		return nil
	})
	if sent != 3 || len(replayed) != 3 {
		t.Fatalf("replayed %d (sent=%d), want 3", len(replayed), sent)
	}

	if replayed[0].topic != TopicSystem || !replayed[0].retained || replayed[0].qos != 1 {
		t.Errorf("first replay should be the retained STARTUP event, got %+v", replayed[0])
	}
	var sys SystemPayload
	if err := json.Unmarshal(replayed[0].payload, &sys); err != nil {
		t.Fatalf("invalid system payload: %v", err)
	}
	if sys.System.Event != "STARTUP" {
		t.Errorf("system event: got %s, want STARTUP", sys.System.Event)
	}

	if fp := decodeFan(t, replayed[1]); fp.Event != "FAN_OFF" || fp.Temp != 26 {
		t.Errorf("second replay: got %+v, want FAN_OFF at 26", fp)
	}
	if fp := decodeFan(t, replayed[2]); fp.Event != "FAN_ON" || fp.Temp != 30 {
		t.Errorf("third replay: got %+v, want FAN_ON at 30", fp)
	}

	if o.len() != 0 {
		t.Errorf("outbox should be empty after flush, got %d", o.len())
	}
}

func TestOutboxDiscardsOldestWhenFull(t *testing.T) {
	o := newOutbox(3)

	// Two full sawtooth edges while offline: OFF 25, ON 30, OFF 25, ON 30, OFF 25.
	temps := []int{25, 30, 25, 30, 25}
	for i, temp := range temps {
		typ := logic.EventFanOff
		if i%2 == 1 {
			typ = logic.EventFanOn
		}
		o.add(transition(t, typ, temp))
	}

	msgs, dropped := o.take()
	if dropped != 2 {
		t.Errorf("dropped: got %d, want 2", dropped)
	}
	if len(msgs) != 3 {
		t.Fatalf("pending: got %d, want 3", len(msgs))
	}
	want := []string{"FAN_OFF", "FAN_ON", "FAN_OFF"}
	for i, m := range msgs {
		if fp := decodeFan(t, m); fp.Event != want[i] {
			t.Errorf("message %d: got %s, want %s", i, fp.Event, want[i])
		}
	}

	// The newest transition is the one the broker must see last.
	if fp := decodeFan(t, msgs[2]); fp.Timestamp != "2026-01-01T12:00:25Z" {
		t.Errorf("last message timestamp: got %s", fp.Timestamp)
	}

	if _, dropped := o.take(); dropped != 0 {
		t.Errorf("drop count should reset after take, got %d", dropped)
	}
}

func TestOutboxFlushContinuesAfterError(t *testing.T) {
	o := newOutbox(10)
	o.add(transition(t, logic.EventFanOff, 25))
	o.add(transition(t, logic.EventFanOn, 30))
	o.add(transition(t, logic.EventFanOff, 25))

	var attempts int
	sent := o.flush(func(m message) error {
		attempts++
		if attempts == 1 {
			return errors.New("broker went away")
		}
		return nil
	})
	if attempts != 3 {
		t.Errorf("attempts: got %d, want 3", attempts)
	}
	if sent != 2 {
		t.Errorf("sent: got %d, want 2", sent)
	}
}

func TestOutboxEmpty(t *testing.T) {
	o := newOutbox(0)

	msgs, dropped := o.take()
	if msgs != nil || dropped != 0 {
		t.Errorf("empty take: got %d messages, %d dropped", len(msgs), dropped)
	}
	if sent := o.flush(func(message) error {
		t.Error("send called on empty outbox")
		return nil
	}); sent != 0 {
		t.Errorf("sent: got %d, want 0", sent)
	}

	// A non-positive limit still holds the latest message.
	o.add(transition(t, logic.EventFanOn, 30))
	o.add(transition(t, logic.EventFanOff, 25))
	msgs, dropped = o.take()
	if len(msgs) != 1 || dropped != 1 {
		t.Fatalf("got %d messages, %d dropped; want 1, 1", len(msgs), dropped)
	}
	if fp := decodeFan(t, msgs[0]); fp.Event != "FAN_OFF" {
		t.Errorf("kept %s, want FAN_OFF", fp.Event)
	}
}
