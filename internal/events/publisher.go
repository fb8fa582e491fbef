package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type EventPublisher interface {
	PublishCategoryCreated(categoryID int64, name string, fieldCount int) error
	PublishFormSubmitted(userID int64, name string, fieldCount int) error
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

type CategoryCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  string    `json:"event_type"`
	CategoryID int64     `json:"category_id"`
	Name       string    `json:"name"`
	FieldCount int       `json:"field_count"`
	CreatedAt  time.Time `json:"created_at"`
}

type FormSubmittedEvent struct {
	EventID     uuid.UUID `json:"event_id"`
	EventType   string    `json:"event_type"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	FieldCount  int       `json:"field_count"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (p *NatsPublisher) PublishCategoryCreated(categoryID int64, name string, fieldCount int) error {
	event := CategoryCreatedEvent{
		EventID:    uuid.New(),
		EventType:  "category.created",
		CategoryID: categoryID,
		Name:       name,
		FieldCount: fieldCount,
		CreatedAt:  time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.conn.Publish("category.created", data)
	if err != nil {
		log.Printf("Failed to publish category.created event: %v", err)
		return err
	}

	return nil
}

func (p *NatsPublisher) PublishFormSubmitted(userID int64, name string, fieldCount int) error {
	event := FormSubmittedEvent{
		EventID:     uuid.New(),
		EventType:   "form.submitted",
		UserID:      userID,
		Name:        name,
		FieldCount:  fieldCount,
		SubmittedAt: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.conn.Publish("form.submitted", data)
	if err != nil {
		log.Printf("Failed to publish form.submitted event: %v", err)
		return err
	}

	return nil
}

// NopPublisher is used when no NATS server is configured. Writes still
// succeed; the events are simply not emitted.
type NopPublisher struct{}

func (NopPublisher) PublishCategoryCreated(int64, string, int) error { return nil }
func (NopPublisher) PublishFormSubmitted(int64, string, int) error   { return nil }
