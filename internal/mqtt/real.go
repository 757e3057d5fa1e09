package mqtt

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/fan-controller/internal/logic"
)

// bufferCapacity bounds the number of messages kept while disconnected.
const bufferCapacity = 100

// publishTimeout bounds how long a single publish waits for the broker.
const publishTimeout = 5 * time.Second

// RealPublisher publishes to an actual MQTT broker.
// Messages published while the connection is down go to an outbox and are
// replayed, oldest first, when the client reconnects.
type RealPublisher struct {
	client  paho.Client
	offline *outbox
}

// NewRealPublisher creates a publisher for the given broker. Connection is
// attempted in the background; it does not block startup.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{offline: newOutbox(bufferCapacity)}

	will, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "MQTT_DISCONNECT",
	})
	if err != nil {
		log.Printf("mqtt: format will payload: %v", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("fan-controller").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})
	if will != nil {
		opts.SetBinaryWill(TopicSystem, will, 1, true)
	}

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

func (p *RealPublisher) onConnect(c paho.Client) {
	pending := p.offline.len()
	sent := p.offline.flush(func(m message) error { return publishWait(c, m) })
	log.Printf("mqtt: connected, replayed %d/%d offline messages", sent, pending)
}

func publishWait(c paho.Client, m message) error {
	token := c.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s: timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", m.topic, err)
	}
	return nil
}

// IsConnected reports whether the client currently holds a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

func (p *RealPublisher) send(m message) error {
	if !p.client.IsConnectionOpen() {
		p.offline.add(m)
		return nil
	}
	return publishWait(p.client, m)
}

// Publish sends a fan transition to the MQTT broker.
func (p *RealPublisher) Publish(event logic.Event) error {
	m, err := fanMessage(event)
	if err != nil {
		return err
	}
	return p.send(m)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	m, err := systemMessage(event)
	if err != nil {
		return err
	}
	if err := p.send(m); err != nil {
		return fmt.Errorf("system: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
