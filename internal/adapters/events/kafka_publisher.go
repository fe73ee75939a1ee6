package events

import (
	"context"
	"encoding/json"
	"fmt"
	"ride-sim-service/internal/trip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const source = "ride-sim-service"

// CloudEvent is the envelope every trip event is published in.
type CloudEvent struct {
	SpecVersion string          `json:"specversion"`
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Time        time.Time       `json:"time"`
	Data        json.RawMessage `json:"data"`
}

// TripEventData is the payload of a trip event.
type TripEventData struct {
	TripID   string      `json:"trip_id"`
	Stage    string      `json:"stage"`
	Position []float64   `json:"position,omitempty"`
	Bearing  float64     `json:"bearing,omitempty"`
	Progress float64     `json:"progress,omitempty"`
	Marker   string      `json:"marker,omitempty"`
	Route    [][]float64 `json:"route,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher forwards trip lifecycle events to a Kafka topic. It is a trip.Listener;
// OnTripEvent only enqueues, and Run does the writing off the scheduler.
// Vehicle frames are not published.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	logger *zap.Logger

	queue     chan kafkago.Message
	closeOnce sync.Once
	done      chan struct{}
	running   atomic.Bool
	stopped   chan struct{}
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}
	return newKafkaPublisher(w, topic, 256, logger)
}

func newKafkaPublisher(w messageWriter, topic string, buffer int, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		writer:  w,
		topic:   topic,
		logger:  logger,
		queue:   make(chan kafkago.Message, buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (p *KafkaPublisher) OnTripEvent(e trip.Event) {
	if e.Kind == trip.EventVehicleMoved {
		return
	}

	msg, err := p.encode(e)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", string(e.Kind)),
			zap.Error(err),
		)
		return
	}

	select {
	case p.queue <- msg:
	default:
		p.logger.Warn("event queue full, dropping trip event",
			zap.String("trip_id", e.TripID),
			zap.String("event_type", string(e.Kind)),
		)
	}
}

func (p *KafkaPublisher) encode(e trip.Event) (kafkago.Message, error) {
	data := TripEventData{
		TripID: e.TripID,
		Stage:  e.Stage.String(),
	}
	switch e.Kind {
	case trip.EventDriverArrived, trip.EventArrived, trip.EventDegraded:
		data.Position = e.Vehicle.Position.CoordsToList()
		data.Bearing = e.Vehicle.BearingDegrees
		data.Progress = e.Vehicle.Progress
	}
	if e.Marker != nil {
		data.Marker = string(e.Marker.Kind)
		data.Position = e.Marker.Position.CoordsToList()
	}
	if e.Route != nil {
		for _, c := range e.Route.Path {
			data.Route = append(data.Route, c.CoordsToList())
		}
	}
	if e.Err != nil {
		data.Error = e.Err.Error()
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal event data: %w", err)
	}

	body, err := json.Marshal(CloudEvent{
		SpecVersion: "1.0",
		ID:          uuid.NewString(),
		Source:      source,
		Type:        "trip." + string(e.Kind),
		Time:        e.At.UTC(),
		Data:        raw,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal cloud event: %w", err)
	}

	return kafkago.Message{Key: []byte(e.TripID), Value: body}, nil
}

// Run writes queued events until ctx is done or Close is called. The remaining
// queue is flushed before returning.
func (p *KafkaPublisher) Run(ctx context.Context) {
	p.running.Store(true)
	defer close(p.stopped)

	for {
		select {
		case msg := <-p.queue:
			p.write(ctx, msg)
		case <-ctx.Done():
			p.flush()
			return
		case <-p.done:
			p.flush()
			return
		}
	}
}

func (p *KafkaPublisher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case msg := <-p.queue:
			p.write(ctx, msg)
		default:
			return
		}
	}
}

func (p *KafkaPublisher) write(ctx context.Context, msg kafkago.Message) {
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("key", string(msg.Key)),
			zap.Error(err),
		)
	}
}

// Close stops Run, waits for it to flush and closes the writer. Idempotent.
func (p *KafkaPublisher) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		if p.running.Load() {
			<-p.stopped
		}
		err = p.writer.Close()
	})
	return err
}
