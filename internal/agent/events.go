package agent

import (
	"encoding/json"

	"github.com/carmscli/carmscli/internal/sse"
)

// Event is one decoded chat stream event.
type Event interface{ isEvent() }

// TextEvent carries an incremental piece of the assistant response.
type TextEvent struct {
	Text string
}

// ToolEvent signals that the agent invoked a tool.
type ToolEvent struct {
	Tool  string
	Input map[string]any
}

// ErrorEvent carries a server-reported error for this response.
type ErrorEvent struct {
	Message string
}

// ResultEvent terminates a response and carries the session identifier to
// adopt for subsequent requests.
type ResultEvent struct {
	SessionID string
	IsError   bool
}

func (TextEvent) isEvent()   {}
func (ToolEvent) isEvent()   {}
func (ErrorEvent) isEvent()  {}
func (ResultEvent) isEvent() {}

// streamPayload is the union of all fields a data frame may carry.
type streamPayload struct {
	SessionID string         `json:"session_id"`
	IsError   bool           `json:"is_error"`
	Error     string         `json:"error"`
	Text      string         `json:"text"`
	Tool      string         `json:"tool"`
	Input     map[string]any `json:"input"`
}

// interpretFrame maps a decoded frame to a typed event. Interpretation depends
// on the current event name for result and error frames, and on payload shape
// alone for text and tool frames. Malformed payloads and frames that match no
// rule return nil; they are skipped, never fatal to the stream.
func interpretFrame(f sse.Frame) Event {
	var p streamPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return nil
	}
	switch {
	case f.Event == "result" && p.SessionID != "":
		return ResultEvent{SessionID: p.SessionID, IsError: p.IsError}
	case f.Event == "error" && p.Error != "":
		return ErrorEvent{Message: p.Error}
	case p.Text != "":
		return TextEvent{Text: p.Text}
	case p.Tool != "":
		return ToolEvent{Tool: p.Tool, Input: p.Input}
	default:
		return nil
	}
}
