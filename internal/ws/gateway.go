package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"match-service/internal/fanout"
	"match-service/internal/models"
	"match-service/internal/observability"
	"match-service/internal/presence"
	"match-service/internal/repositories"
	"match-service/internal/telemetry"
)

// TokenValidator authenticates handshake credentials.
type TokenValidator interface {
	ValidateToken(token string) (int, error)
}

// Gateway bridges persisted state changes to live clients. Each connection
// authenticates during the handshake, joins its user's room, and then reads
// client events in its own goroutine.
type Gateway struct {
	hub        *Hub
	validator  TokenValidator
	matchRepo  repositories.MatchRepository
	msgRepo    repositories.MessageRepository
	dispatcher *fanout.Dispatcher
	tracker    presence.Tracker
	emitter    *telemetry.Emitter
}

// NewGateway constructs a Gateway.
func NewGateway(hub *Hub, validator TokenValidator, matchRepo repositories.MatchRepository, msgRepo repositories.MessageRepository, dispatcher *fanout.Dispatcher, tracker presence.Tracker, emitter *telemetry.Emitter) *Gateway {
	return &Gateway{
		hub:        hub,
		validator:  validator,
		matchRepo:  matchRepo,
		msgRepo:    msgRepo,
		dispatcher: dispatcher,
		tracker:    tracker,
		emitter:    emitter,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// presenceRefreshEvery must stay well under the tracker's online TTL so a
// live but idle connection never falls off the presence view.
const presenceRefreshEvery = 2 * time.Minute

// clientEvent is the inbound websocket frame.
type clientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handle upgrades the connection and runs the read loop.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("match-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	token := bearerToken(c)
	if token == "" || token == "undefined" || token == "null" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing credentials"})
		return
	}

	userID, err := g.validator.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      uuid.NewString(),
		UserID:      userID,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
	client := NewClient(conn, info)
	g.hub.Add(userID, client)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	if err := g.tracker.SetOnline(ctx, userID); err != nil {
		log.Printf("presence set online failed: %v", err)
	}
	g.emitter.Emit(ctx, telemetry.EventWSConnect, userID, client.Info().LifecycleFields(0))

	go g.presenceLoop(client, presenceRefreshEvery)
	go g.readLoop(client)
}

// presenceLoop re-arms the presence key while the connection lives. The
// tracker's TTL then only expires entries left behind by a crashed instance.
func (g *Gateway) presenceLoop(client *Client, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-client.done:
			return
		case <-ticker.C:
			if err := g.tracker.SetOnline(context.Background(), client.info.UserID); err != nil {
				log.Printf("presence refresh failed: %v", err)
			}
		}
	}
}

func (g *Gateway) readLoop(client *Client) {
	userID := client.info.UserID
	defer func() {
		close(client.done)
		g.hub.Remove(userID, client)
		client.conn.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		info := client.Info()
		g.emitter.Emit(context.Background(), telemetry.EventWSDisconnect, userID,
			info.LifecycleFields(time.Since(info.ConnectedAt)))
		if !g.hub.IsOnline(userID) {
			if err := g.tracker.SetOffline(context.Background(), userID); err != nil {
				log.Printf("presence set offline failed: %v", err)
			}
		}
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}

		var event clientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			g.sendError(client, "malformed event")
			continue
		}

		if err := g.dispatch(client, event); err != nil {
			g.sendError(client, err.Error())
		}
	}
}

func (g *Gateway) dispatch(client *Client, event clientEvent) error {
	ctx := context.Background()

	// Only validated names become metric labels; anything else is counted
	// under a fixed label so clients cannot grow the cardinality.
	switch event.Event {
	case models.EventJoinRoom, models.EventSendMessage, models.EventTyping, models.EventGlobalNotification:
		observability.IncWSEvent(event.Event)
	default:
		observability.IncWSEvent("unknown")
		return errors.New("unknown event")
	}

	switch event.Event {
	case models.EventJoinRoom:
		// Connections join their own user room at handshake; a join-room
		// from the client is an idempotent re-join.
		g.hub.Add(client.info.UserID, client)
		return nil
	case models.EventSendMessage:
		return g.handleSendMessage(ctx, client, event.Data)
	case models.EventTyping:
		return g.handleTyping(ctx, client, event.Data)
	case models.EventGlobalNotification:
		return g.handleGlobalNotification(ctx, client, event.Data)
	}
	return errors.New("unknown event")
}

func (g *Gateway) handleSendMessage(ctx context.Context, client *Client, data json.RawMessage) error {
	var req struct {
		MatchID int    `json:"match_id"`
		Content string `json:"content"`
		Type    string `json:"type"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.MatchID == 0 || req.Content == "" {
		return errors.New("match_id and content are required")
	}

	senderID := client.info.UserID
	match, err := g.matchRepo.GetMatch(ctx, req.MatchID)
	if err != nil {
		return errors.New("match not found")
	}
	if !match.HasParticipant(senderID) {
		return errors.New("not a participant of this match")
	}
	if match.Status != models.MatchActive {
		return errors.New("match is no longer active")
	}

	msg, err := g.msgRepo.CreateMessage(ctx, req.MatchID, senderID, req.Content, req.Type)
	if err != nil {
		log.Printf("message persist failed: %v", err)
		return errors.New("failed to store message")
	}
	observability.IncMessageSent()
	g.emitter.Emit(ctx, telemetry.EventMessageSent, senderID, msg)

	// Best-effort delivery: if the recipient is offline the persisted row
	// is the sole record until they fetch unread state over REST.
	recipientID := match.OtherUser(senderID)
	g.hub.EmitToUser(recipientID, models.WSEvent{Event: models.EventReceiveMessage, Data: msg})
	client.Send(models.WSEvent{Event: models.EventMessageSent, Data: msg})
	return nil
}

func (g *Gateway) handleTyping(ctx context.Context, client *Client, data json.RawMessage) error {
	var req struct {
		MatchID int  `json:"match_id"`
		Typing  bool `json:"typing"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.MatchID == 0 {
		return errors.New("match_id is required")
	}

	match, err := g.matchRepo.GetMatch(ctx, req.MatchID)
	if err != nil || !match.HasParticipant(client.info.UserID) {
		// Typing is ephemeral; invalid targets are dropped silently.
		return nil
	}

	g.hub.EmitToUser(match.OtherUser(client.info.UserID), models.WSEvent{
		Event: models.EventUserTyping,
		Data: map[string]any{
			"match_id": req.MatchID,
			"user_id":  client.info.UserID,
			"typing":   req.Typing,
		},
	})
	return nil
}

func (g *Gateway) handleGlobalNotification(ctx context.Context, client *Client, data json.RawMessage) error {
	var req struct {
		Title   string          `json:"title"`
		Body    string          `json:"body"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &req); err != nil || req.Title == "" {
		return errors.New("title is required")
	}

	if _, err := g.dispatcher.NotifyAll(ctx, req.Title, req.Body, req.Payload); err != nil {
		log.Printf("global notification failed: %v", err)
		return errors.New("failed to send notification")
	}

	client.Send(models.WSEvent{Event: models.EventNotificationSent, Data: map[string]any{
		"title": req.Title,
	}})
	return nil
}

// sendError emits an error event without closing the connection.
func (g *Gateway) sendError(client *Client, message string) {
	observability.IncWSEvent("handler_error")
	client.Send(models.WSEvent{Event: models.EventError, Data: map[string]any{"message": message}})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		if len(header) > 7 && (header[:7] == "Bearer " || header[:7] == "bearer ") {
			return header[7:]
		}
		return ""
	}
	return c.Query("token")
}
