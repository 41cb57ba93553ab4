package outfit

import "github.com/yanqian/outfit-advisor/pkg/retry"

// DefaultUnavailableMessage is the whole answer when no forecast can be used.
const DefaultUnavailableMessage = "I can only look up the next 4 days"

// EventType discriminates stream events.
type EventType string

const (
	EventChunk EventType = "chunk"
	EventDone  EventType = "done"
	EventError EventType = "error"
)

// Event is one unit of the recommendation stream. Zero or more chunk events are
// followed by exactly one done or error event.
type Event struct {
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`
	Message string    `json:"message,omitempty"`
}

// ChunkEvent carries a fragment of generated advice.
func ChunkEvent(text string) Event { return Event{Type: EventChunk, Content: text} }

// DoneEvent terminates a successful stream.
func DoneEvent() Event { return Event{Type: EventDone} }

// ErrorEvent terminates a failed stream.
func ErrorEvent(message string) Event { return Event{Type: EventError, Message: message} }

// Config wires runtime dependencies for the recommendation agent.
type Config struct {
	Model              string
	Temperature        float32
	MaxTokens          int
	Prompt             string
	UnavailableMessage string
	Retry              retry.Policy
}
