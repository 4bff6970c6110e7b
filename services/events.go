// services/events.go
package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"enorae-backend/models"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	EventAppointmentBooked        = "booking.appointment.booked.v1"
	EventAppointmentStatusChanged = "booking.appointment.status_changed.v1"
)

type BookingEvent struct {
	EventID          string    `json:"eventId"`
	EventType        string    `json:"eventType"`
	OccurredAt       time.Time `json:"occurredAt"`
	AppointmentID    string    `json:"appointmentId"`
	SalonID          string    `json:"salonId"`
	CustomerID       string    `json:"customerId"`
	StaffID          string    `json:"staffId"`
	Status           string    `json:"status"`
	PreviousStatus   string    `json:"previousStatus,omitempty"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	ConfirmationCode string    `json:"confirmationCode"`
}

// MessageWriter is the part of kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventPublisher sends appointment events in the background. Failures are
// logged and never reach the caller. A publisher without a writer drops
// every event.
type EventPublisher struct {
	writer  MessageWriter
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
	wg      sync.WaitGroup
}

func NewEventPublisher(brokers []string, topic string, logger *slog.Logger) *EventPublisher {
	if len(brokers) == 0 {
		logger.Warn("event publisher disabled (no kafka brokers configured)")
		return NewEventPublisherWithWriter(nil, logger)
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewEventPublisherWithWriter(w, logger)
}

func NewEventPublisherWithWriter(w MessageWriter, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{writer: w, logger: logger, timeout: 5 * time.Second, now: time.Now}
}

// AppointmentBooked publishes a booked event.
func (p *EventPublisher) AppointmentBooked(ctx context.Context, a *models.Appointment) {
	if p == nil {
		return
	}
	p.publish(ctx, p.event(EventAppointmentBooked, a, ""))
}

// StatusChanged publishes a status transition. A nil publisher is a no-op.
func (p *EventPublisher) StatusChanged(ctx context.Context, a *models.Appointment, previous string) {
	if p == nil {
		return
	}
	p.publish(ctx, p.event(EventAppointmentStatusChanged, a, previous))
}

func (p *EventPublisher) event(eventType string, a *models.Appointment, previous string) BookingEvent {
	return BookingEvent{
		EventID:          uuid.NewString(),
		EventType:        eventType,
		OccurredAt:       p.now().UTC(),
		AppointmentID:    a.ID.String(),
		SalonID:          a.SalonID.String(),
		CustomerID:       a.CustomerID.String(),
		StaffID:          a.StaffID.String(),
		Status:           a.Status,
		PreviousStatus:   previous,
		StartTime:        a.StartTime,
		EndTime:          a.EndTime,
		ConfirmationCode: a.ConfirmationCode,
	}
}

func (p *EventPublisher) publish(ctx context.Context, evt BookingEvent) {
	if p.writer == nil {
		return
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("event encode failed", "eventType", evt.EventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(evt.AppointmentID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(evt.EventID)},
			{Key: "event_type", Value: []byte(evt.EventType)},
		},
	}
	msg.Headers = InjectTraceHeaders(ctx, msg.Headers)

	// The request may finish before the write does.
	bg := context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		wctx, cancel := context.WithTimeout(bg, p.timeout)
		defer cancel()
		if err := p.writer.WriteMessages(wctx, msg); err != nil {
			p.logger.Error("event publish failed",
				"eventType", evt.EventType, "appointmentId", evt.AppointmentID, "error", err)
		}
	}()
}

// Close waits for in-flight events and closes the writer.
func (p *EventPublisher) Close() error {
	p.wg.Wait()
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// InjectTraceHeaders appends W3C trace context headers to Kafka headers.
func InjectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)
