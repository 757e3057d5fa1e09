package mqtt

import (
	"fmt"
	"log"
	"sync"

	"github.com/sweeney/fan-controller/internal/logic"
)

// message is one serialized publish.
type message struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// fanMessage builds the publish for a fan transition: QoS 0, not retained.
func fanMessage(event logic.Event) (message, error) {
	payload, err := FormatPayload(event)
	if err != nil {
		return message{}, fmt.Errorf("format payload: %w", err)
	}
	return message{topic: Topic, payload: payload}, nil
}

// systemMessage builds the publish for a lifecycle event: QoS 1, retained
// when the event asks for it.
func systemMessage(event SystemEvent) (message, error) {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return message{}, fmt.Errorf("format system payload: %w", err)
	}
	return message{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained}, nil
}

// outbox keeps messages published while the broker is unreachable and hands
// them back in publish order on reconnect. Unlike the sample queue it never
// blocks: once limit messages are pending the oldest is discarded.
type outbox struct {
	mu      sync.Mutex
	pending []message
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	if limit < 1 {
		limit = 1
	}
	return &outbox{limit: limit}
}

func (o *outbox) add(m message) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.pending) == o.limit {
		if o.dropped == 0 {
			log.Printf("mqtt: offline outbox full (%d messages), discarding oldest", o.limit)
		}
		o.dropped++
		o.pending = append(o.pending[:0], o.pending[1:]...)
	}
	o.pending = append(o.pending, m)
}

// take empties the outbox. It returns the pending messages, oldest first,
// and how many were discarded since the last take.
func (o *outbox) take() ([]message, int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	msgs, dropped := o.pending, o.dropped
	o.pending = nil
	o.dropped = 0
	return msgs, dropped
}

func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// flush sends every pending message in order and returns how many were
// accepted. A failed send is logged; the rest are still attempted.
func (o *outbox) flush(send func(message) error) int {
	msgs, dropped := o.take()
	if dropped > 0 {
		log.Printf("mqtt: %d messages discarded while offline", dropped)
	}

	sent := 0
	for _, m := range msgs {
		if err := send(m); err != nil {
			log.Printf("mqtt: replay to %s: %v", m.topic, err)
			continue
		}
		sent++
	}
	return sent
}
