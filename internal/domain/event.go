package domain

// EventKind discriminates the three inbound event shapes.
type EventKind string

const (
	EventCommand  EventKind = "command"
	EventCallback EventKind = "callback"
	EventText     EventKind = "text"
)

// Event is one inbound interaction from the messaging transport: a slash
// command, a button tap carrying a callback token, or free text.
type Event struct {
	UserID   int64     `json:"user_id"`
	Kind     EventKind `json:"kind"`
	Command  string    `json:"command,omitempty"`
	Callback string    `json:"callback,omitempty"`
	Text     string    `json:"text,omitempty"`
}
