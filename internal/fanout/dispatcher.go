package fanout

import (
	"context"
	"encoding/json"
	"log"

	"match-service/internal/models"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
)

// RoomEmitter is the slice of the websocket hub the dispatcher needs.
type RoomEmitter interface {
	EmitToUser(userID int, event models.WSEvent) bool
	Broadcast(event models.WSEvent)
}

// Dispatcher persists notifications and then pushes them to connected
// clients. Persistence always happens first; delivery is best-effort and a
// delivery failure never fails the create.
type Dispatcher struct {
	repo    repositories.NotificationRepository
	hub     RoomEmitter
	emitter *telemetry.Emitter
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(repo repositories.NotificationRepository, hub RoomEmitter, emitter *telemetry.Emitter) *Dispatcher {
	return &Dispatcher{repo: repo, hub: hub, emitter: emitter}
}

// Notify persists a targeted notification and emits it to the recipient's
// room when they are online.
func (d *Dispatcher) Notify(ctx context.Context, userID int, title, body string, payload json.RawMessage) (models.Notification, error) {
	n, err := d.repo.Create(ctx, userID, title, body, payload)
	if err != nil {
		return models.Notification{}, err
	}

	d.emitter.Emit(ctx, telemetry.EventNotificationCreated, userID, n)
	if d.hub != nil {
		d.hub.EmitToUser(userID, models.WSEvent{Event: models.EventReceiveNotif, Data: n})
	}
	return n, nil
}

// NotifyAll persists one notification per known user and broadcasts the
// event to everyone currently connected.
func (d *Dispatcher) NotifyAll(ctx context.Context, title, body string, payload json.RawMessage) (int, error) {
	userIDs, err := d.repo.AllUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, userID := range userIDs {
		if _, err := d.repo.Create(ctx, userID, title, body, payload); err != nil {
			log.Printf("global notification persist failed for user %d: %v", userID, err)
			continue
		}
		created++
	}

	if d.hub != nil {
		d.hub.Broadcast(models.WSEvent{
			Event: models.EventReceiveNotif,
			Data:  models.Notification{Title: title, Body: body, Payload: payload},
		})
	}
	d.emitter.Emit(ctx, telemetry.EventNotificationCreated, 0, map[string]any{
		"scope":   "global",
		"title":   title,
		"created": created,
	})
	return created, nil
}
