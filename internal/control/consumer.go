package control

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/fan-controller/internal/fan"
	"github.com/sweeney/fan-controller/internal/logic"
	"github.com/sweeney/fan-controller/internal/mqtt"
	"github.com/sweeney/fan-controller/internal/queue"
	"github.com/sweeney/fan-controller/internal/status"
)

// Consumer takes samples off the queue and switches the fan on transitions.
type Consumer struct {
	queue    *queue.Queue[int]
	detector *logic.Detector
	out      *log.Logger

	// Actuator is driven on every reported transition. Defaults to fan.Nop.
	Actuator fan.Actuator

	// Publisher, if set, receives every transition and heartbeats.
	// Publish failures are logged, not fatal.
	Publisher mqtt.Publisher

	// MQTTStatus, if set, is copied into the tracker.
	MQTTStatus mqtt.ConnectionStatus

	// Tracker, if set, is updated after every sample.
	Tracker *status.Tracker

	// Heartbeat is the heartbeat interval (0 disables).
	Heartbeat time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewConsumer creates a consumer reading q and deciding with detector.
func NewConsumer(q *queue.Queue[int], detector *logic.Detector, out *log.Logger) *Consumer {
	return &Consumer{
		queue:    q,
		detector: detector,
		out:      out,
		Actuator: fan.Nop{},
		Now:      time.Now,
	}
}

// Run consumes samples until ctx is done or a queue or actuator call fails.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		temp, err := c.queue.Get(ctx)
		if err != nil {
			return fmt.Errorf("dequeue sample: %w", err)
		}
		// A sample taken after cancellation is not reported.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("dequeue sample: %w", err)
		}

		now := c.Now()
		if event := c.detector.Process(logic.Input{Temp: temp, Time: now}); event != nil {
			if err := c.report(*event); err != nil {
				return err
			}
		}

		if c.Tracker != nil {
			c.Tracker.Update(c.detector.CurrentState(), c.detector.EventCountsSnapshot())
			if c.MQTTStatus != nil {
				c.Tracker.SetMQTTConnected(c.MQTTStatus.IsConnected())
			}
		}

		c.heartbeat(now)
	}
}

func (c *Consumer) report(event logic.Event) error {
	if event.State == logic.StateOn {
		c.out.Printf("[FAN] FAN ON  (Temp = %d C)", event.Temp)
	} else {
		c.out.Printf("[FAN] FAN OFF (Temp = %d C)", event.Temp)
	}

	if err := c.Actuator.Set(event.State == logic.StateOn); err != nil {
		return fmt.Errorf("drive fan: %w", err)
	}

	if c.Publisher != nil {
		if err := c.Publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
	return nil
}

func (c *Consumer) heartbeat(now time.Time) {
	if c.Publisher == nil {
		return
	}
	hb := c.detector.CheckHeartbeat(now, c.Heartbeat)
	if hb == nil {
		return
	}

	log.Printf("heartbeat: uptime=%v samples=%d fan_on=%d fan_off=%d",
		hb.Uptime, hb.Counts.Samples, hb.Counts.FanOn, hb.Counts.FanOff)

	event := mqtt.SystemEvent{
		Timestamp: hb.Timestamp,
		Event:     "HEARTBEAT",
	}
	if c.Tracker != nil {
		event.RawPayload = status.FormatStatusEvent(c.Tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := c.Publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}
