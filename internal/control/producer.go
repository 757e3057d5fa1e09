// Package control runs the sensor producer and fan consumer that make up the
// control loop. They share nothing but the sample queue.
package control

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/fan-controller/internal/queue"
	"github.com/sweeney/fan-controller/internal/sensor"
	"github.com/sweeney/fan-controller/internal/status"
)

// DefaultPeriod is the time between sensor samples.
const DefaultPeriod = time.Second

// Producer reads the sensor once per period and enqueues each sample.
type Producer struct {
	source  sensor.Source
	queue   *queue.Queue[int]
	period  time.Duration
	out     *log.Logger
	tracker *status.Tracker
}

// NewProducer creates a producer. tracker may be nil.
func NewProducer(source sensor.Source, q *queue.Queue[int], period time.Duration, out *log.Logger, tracker *status.Tracker) *Producer {
	return &Producer{
		source:  source,
		queue:   q,
		period:  period,
		out:     out,
		tracker: tracker,
	}
}

// Run produces samples until ctx is done or a sensor or queue call fails.
// A full queue blocks Run; samples are never dropped.
func (p *Producer) Run(ctx context.Context) error {
	for {
		temp, err := p.source.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}

		if err := p.queue.Put(ctx, temp); err != nil {
			return fmt.Errorf("enqueue sample: %w", err)
		}

		p.out.Printf("[TEMP SENSOR] Temp = %d C", temp)
		if p.tracker != nil {
			p.tracker.RecordProduced(temp)
		}

		if err := wait(ctx, p.period); err != nil {
			return err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
