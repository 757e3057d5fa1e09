// Command fan-controller reads a temperature sensor and switches a fan when
// the temperature crosses a threshold. A sensor task and a fan task run
// concurrently and exchange samples through a bounded blocking queue.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sweeney/fan-controller/internal/control"
	"github.com/sweeney/fan-controller/internal/fan"
	"github.com/sweeney/fan-controller/internal/logic"
	"github.com/sweeney/fan-controller/internal/mqtt"
	"github.com/sweeney/fan-controller/internal/queue"
	"github.com/sweeney/fan-controller/internal/sensor"
	"github.com/sweeney/fan-controller/internal/status"
	"github.com/sweeney/fan-controller/internal/web"
)

// DefaultCapacity is the number of samples the queue holds before the
// sensor task blocks.
const DefaultCapacity = 5

// Integration endpoints are fixed when the binary is linked, for example:
//
//	go build -ldflags "-X main.broker=tcp://192.168.1.200:1883 -X main.fanPin=17" ./cmd/fan-controller
//
// Left empty, every integration is off and the binary runs only the
// sensor and fan tasks.
var (
	broker    string // MQTT broker URL
	httpAddr  string // status server listen address
	fanPin    string // BCM pin number driving the fan relay
	heartbeat string // MQTT heartbeat interval, time.ParseDuration syntax
)

type config struct {
	capacity  int
	period    time.Duration
	threshold int
	broker    string
	heartbeat time.Duration
	httpAddr  string
	fanPin    int
}

func main() {
	cfg, err := buildConfig(broker, httpAddr, fanPin, heartbeat)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// buildConfig combines the fixed control-loop parameters with the
// link-time integration settings.
func buildConfig(brokerURL, addr, pin, interval string) (config, error) {
	cfg := config{
		capacity:  DefaultCapacity,
		period:    control.DefaultPeriod,
		threshold: logic.DefaultThreshold,
		broker:    brokerURL,
		httpAddr:  addr,
		fanPin:    fan.NoPin,
	}
	if pin != "" {
		n, err := strconv.Atoi(pin)
		if err != nil || n < 0 {
			return config{}, fmt.Errorf("fan pin %q is not a BCM pin number", pin)
		}
		cfg.fanPin = n
	}
	if interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return config{}, fmt.Errorf("heartbeat: %w", err)
		}
		cfg.heartbeat = d
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if c.period < 0 {
		return fmt.Errorf("period must not be negative, got %v", c.period)
	}
	if c.heartbeat < 0 {
		return fmt.Errorf("heartbeat must not be negative, got %v", c.heartbeat)
	}
	return nil
}

func (c config) status() status.Config {
	return status.Config{
		Capacity:    c.capacity,
		PeriodMs:    c.period.Milliseconds(),
		Threshold:   c.threshold,
		HeartbeatMs: c.heartbeat.Milliseconds(),
		Broker:      c.broker,
		HTTPAddr:    c.httpAddr,
		FanPin:      c.fanPin,
	}
}

func newActuator(pin int) (fan.Actuator, error) {
	if pin == fan.NoPin {
		return fan.Nop{}, nil
	}
	a, err := fan.NewRealActuator(pin)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func run(cfg config) error {
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	samples, err := queue.New[int](cfg.capacity)
	if err != nil {
		return fmt.Errorf("create sample queue: %w", err)
	}

	actuator, err := newActuator(cfg.fanPin)
	if err != nil {
		return fmt.Errorf("init fan: %w", err)
	}
	defer actuator.Close()

	startTime := time.Now()
	tracker := status.NewTracker(startTime, cfg.status(), samples)

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.broker != "" {
		p := mqtt.NewRealPublisher(cfg.broker)
		defer p.Close()
		publisher, mqttStatus = p, p

		snap := tracker.Snapshot()
		startup := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startup); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		} else {
			log.Printf("published startup event")
		}
	} else if cfg.heartbeat > 0 {
		log.Printf("heartbeat ignored: no broker configured")
	}

	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	// Observability lines go to stdout exactly as formatted, without a timestamp.
	out := log.New(os.Stdout, "", 0)

	producer := control.NewProducer(sensor.NewSawtooth(), samples, cfg.period, out, tracker)
	consumer := control.NewConsumer(samples, logic.NewDetector(cfg.threshold, startTime), out)
	consumer.Actuator = actuator
	consumer.Publisher = publisher
	consumer.MQTTStatus = mqttStatus
	consumer.Tracker = tracker
	consumer.Heartbeat = cfg.heartbeat

	log.Printf("started: capacity=%d period=%v threshold=%d broker=%q fan-pin=%d",
		cfg.capacity, cfg.period, cfg.threshold, cfg.broker, cfg.fanPin)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	return runLoop(context.Background(), producer, consumer, publisher, tracker, sigCh)
}

// runLoop runs the control loop until a signal arrives or a unit fails.
// A signal is a clean shutdown; a unit failure is returned and halts the process.
func runLoop(ctx context.Context, producer *control.Producer, consumer *control.Consumer, publisher mqtt.Publisher, tracker *status.Tracker, sig <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- control.Run(ctx, producer, consumer)
	}()

	select {
	case err := <-done:
		return err

	case s := <-sig:
		log.Printf("received %v, shutting down", s)
		cancel()
		err := <-done

		if publisher != nil {
			reason := signalName(s)
			event := mqtt.SystemEvent{
				Timestamp: time.Now(),
				Event:     "SHUTDOWN",
				Reason:    reason,
				Retained:  true,
			}
			if tracker != nil {
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
		}
		return err
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
