package models

// Server-to-client websocket event names.
const (
	EventReceiveMessage   = "receive-message"
	EventMessageSent      = "message-sent"
	EventUserTyping       = "user-typing"
	EventReceiveNotif     = "receive-notification"
	EventNotificationSent = "notification-sent"
	EventError            = "error"
)

// Client-to-server websocket event names.
const (
	EventJoinRoom           = "join-room"
	EventSendMessage        = "send-message"
	EventTyping             = "typing"
	EventGlobalNotification = "send-global-notification"
)

// WSEvent is the envelope exchanged over websocket connections.
type WSEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}
