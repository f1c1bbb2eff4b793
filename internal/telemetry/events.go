package telemetry

import (
	"context"
	"time"

	"match-service/internal/observability"
)

// Domain event names emitted to the broker.
const (
	EventSwipeRecorded       = "swipe_recorded"
	EventMatchCreated        = "match_created"
	EventMatchEnded          = "match_ended"
	EventMessageSent         = "message_sent"
	EventNotificationCreated = "notification_created"
	EventWSConnect           = "ws_connect"
	EventWSDisconnect        = "ws_disconnect"
)

// Emitter publishes domain events to the message broker. Emission is
// best-effort: a broker outage never affects the request that triggered it.
type Emitter struct {
	routingKey  string
	service     string
	environment string
}

// DomainEvent is the broker-facing envelope for core domain activity.
type DomainEvent struct {
	SchemaVersion int    `json:"schema_version"`
	EventType     string `json:"event_type"`
	EventName     string `json:"event_name"`
	OccurredAt    string `json:"occurred_at"`
	Service       string `json:"service"`
	Environment   string `json:"environment"`
	UserID        int    `json:"user_id,omitempty"`
	Payload       any    `json:"payload,omitempty"`
}

// NewEmitter constructs an Emitter.
func NewEmitter(routingKey, service, environment string) *Emitter {
	return &Emitter{routingKey: routingKey, service: service, environment: environment}
}

// Emit publishes one domain event.
func (e *Emitter) Emit(ctx context.Context, eventName string, userID int, payload any) {
	if e == nil {
		return
	}

	event := DomainEvent{
		SchemaVersion: 1,
		EventType:     "domain_event",
		EventName:     eventName,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		UserID:        userID,
		Payload:       payload,
	}

	_ = observability.PublishEvent(ctx, e.routingKey+"."+eventName, event, observability.EventHeaders(ctx))
}
