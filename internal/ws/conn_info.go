package ws

import "time"

// ConnInfo is the metadata captured for one websocket connection during the
// handshake. It travels with the client so lifecycle events can identify the
// device and correlate with the handshake trace.
type ConnInfo struct {
	ConnID      string
	UserID      int
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

// LifecycleFields flattens the metadata into an event payload. Duration is
// zero at connect and the connection's age at disconnect.
func (i ConnInfo) LifecycleFields(duration time.Duration) map[string]any {
	return map[string]any{
		"conn_id":     i.ConnID,
		"device_id":   i.DeviceID,
		"ip":          i.IP,
		"request_id":  i.RequestID,
		"trace_id":    i.TraceID,
		"duration_ms": duration.Milliseconds(),
	}
}
