package service

// Broadcaster pushes live events to builder dashboards watching a form.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastToForm(formID string, msgType string, payload interface{})
}
