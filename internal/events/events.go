// Package events publishes placement domain events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"placement-portal-backend/internal/metrics"
	"placement-portal-backend/internal/model"
)

// Event types
const (
	TypeApplicationCreated       = "application.created"
	TypeApplicationStatusChanged = "application.status_changed"
	TypeProfileAudited           = "profile.audited"
)

const publishTimeout = 5 * time.Second

// Event is the envelope written to the queue
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// ApplicationCreated is published after a student applies to a job
type ApplicationCreated struct {
	ApplicationID uint      `json:"application_id"`
	StudentID     uuid.UUID `json:"student_id"`
	JobID         uint      `json:"job_id"`
}

// ApplicationStatusChanged is published after a recruiter or admin moves an application
type ApplicationStatusChanged struct {
	ApplicationID uint      `json:"application_id"`
	StudentID     uuid.UUID `json:"student_id"`
	Status        string    `json:"status"`
	ChangedBy     uuid.UUID `json:"changed_by"`
}

// ProfileAudited is published after an admin edit of another user's profile
type ProfileAudited struct {
	AuditID       uint      `json:"audit_id"`
	AdminID       uuid.UUID `json:"admin_id"`
	TargetUserID  uuid.UUID `json:"target_user_id"`
	ChangedFields []string  `json:"changed_fields"`
}

// NewEvent wraps payload in an envelope of eventType
func NewEvent(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// ApplicationCreatedEvent builds the event for a stored application
func ApplicationCreatedEvent(app *model.Application) Event {
	return NewEvent(TypeApplicationCreated, ApplicationCreated{
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		JobID:         app.JobID,
	})
}

// StatusChangedEvent builds the event for an updated application
func StatusChangedEvent(app *model.Application, changedBy uuid.UUID) Event {
	return NewEvent(TypeApplicationStatusChanged, ApplicationStatusChanged{
		ApplicationID: app.ID,
		StudentID:     app.StudentID,
		Status:        app.Status,
		ChangedBy:     changedBy,
	})
}

// ProfileAuditedEvent builds the event for a written audit entry
func ProfileAuditedEvent(audit *model.AdminAudit) Event {
	return NewEvent(TypeProfileAudited, ProfileAudited{
		AuditID:       audit.ID,
		AdminID:       audit.AdminID,
		TargetUserID:  audit.TargetUserID,
		ChangedFields: audit.ChangedFields,
	})
}

// Publisher delivers domain events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ErrClosed is returned when publishing on a closed publisher
var ErrClosed = errors.New("publisher closed")

// RabbitPublisher publishes JSON events to a durable queue on the default exchange
type RabbitPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	closed  bool
}

// NewRabbitPublisher dials url and declares queueName
func NewRabbitPublisher(url, queueName string) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &RabbitPublisher{conn: conn, channel: ch, queue: q}, nil
}

// Publish writes event as a persistent JSON message
func (r *RabbitPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID,
			Type:         event.Type,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
}

// Close closes the channel and the connection
func (r *RabbitPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return errors.Join(r.channel.Close(), r.conn.Close())
}

// NoopPublisher drops every event
type NoopPublisher struct{}

// Publish implements Publisher
func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// Close implements Publisher
func (NoopPublisher) Close() error { return nil }

// MemoryPublisher keeps published events in memory
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Publisher
func (m *MemoryPublisher) Publish(_ context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Close implements Publisher
func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of everything published so far
func (m *MemoryPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

// Types returns the type of every published event in order
func (m *MemoryPublisher) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// Emitter publishes after a write has been committed. Delivery failures are
// logged and counted but never fail the request that caused them.
type Emitter struct {
	publisher Publisher
	metrics   *metrics.Manager
}

// NewEmitter wraps p. A nil p drops events.
func NewEmitter(p Publisher, m *metrics.Manager) *Emitter {
	if p == nil {
		p = NoopPublisher{}
	}
	return &Emitter{publisher: p, metrics: m}
}

// Emit publishes event and reports whether it was delivered
func (e *Emitter) Emit(ctx context.Context, event Event) bool {
	if e == nil {
		return false
	}
	err := e.publisher.Publish(ctx, event)
	e.metrics.RecordEventPublished(event.Type, err)
	if err != nil {
		slog.WarnContext(ctx, "failed to publish event",
			slog.String("type", event.Type),
			slog.String("id", event.ID),
			slog.Any("error", err),
		)
		return false
	}
	return true
}
