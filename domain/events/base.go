package events

import (
	"time"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const EventTypeRecurringOrderCreated = "recurring_order.created"

// RecurringOrderCreated is raised when a recurring order is stored.
// AggregateID is the order's sort key.
type RecurringOrderCreated struct {
	BaseEvent
	UserID    string `json:"user_id"`
	Currency  string `json:"currency"`
	Frequency string `json:"frequency"`
	Amount    int64  `json:"amount"`
}

// NewRecurringOrderCreated creates a RecurringOrderCreated event
func NewRecurringOrderCreated(sortKey, userID, currency, frequency string, amount int64, timestamp time.Time) RecurringOrderCreated {
	return RecurringOrderCreated{
		BaseEvent: BaseEvent{
			AggregateID: sortKey,
			EventType:   EventTypeRecurringOrderCreated,
			Timestamp:   timestamp,
			Version:     1,
		},
		UserID:    userID,
		Currency:  currency,
		Frequency: frequency,
		Amount:    amount,
	}
}
