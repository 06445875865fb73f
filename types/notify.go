package types

// Notification type constants pushed to the window shell over the bridge.
const (
	NotifyTypeStateChanged  = "state_changed"
	NotifyTypeDecodeResult  = "decode_result"
	NotifyTypeFailure       = "failure"
	NotifyTypeNoticeDismiss = "notice_dismiss"
	NotifyTypeTerminate     = "terminate"
	NotifyTypeShowWindow    = "show_window"
	NotifyTypeRequestFocus  = "request_focus"
)

// Notification is one message pushed to the window shell.
type Notification struct {
	Type      string         `json:"type,omitempty"`
	Title     string         `json:"title,omitempty"`
	Message   string         `json:"message,omitempty"`
	SessionID string         `json:"sessionId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// WindowEvent is one message the window shell sends upstream over the bridge
// WebSocket: a focus transition, a close request or a notice dismissal.
type WindowEvent struct {
	Type string `json:"type"`
}

// Window event types accepted from the shell.
const (
	WindowEventFocus   = "focus"
	WindowEventBlur    = "blur"
	WindowEventClose   = "close"
	WindowEventDismiss = "dismiss"
)
