// Package chat owns the client-side application state: the session
// identifier shared by the upload and chat flows, the cached agent
// availability flag, and the single-request-in-flight busy flag. Flows are
// methods on the Controller so the invariants are enforced in one place
// instead of by ambient mutation.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog"

	"github.com/carmscli/carmscli/internal/agent"
	"github.com/carmscli/carmscli/internal/profile"
	"github.com/carmscli/carmscli/internal/transcript"
)

// MaxUploadBytes is the upload size ceiling. A file of exactly this size is
// accepted; one byte more is rejected before any network call.
const MaxUploadBytes = 10 << 20

var (
	// ErrBusy means a chat request is already in flight. Callers drop the
	// attempt silently; nothing was sent.
	ErrBusy = errors.New("a chat request is already in flight")
	// ErrAgentUnavailable means the cached availability flag is false.
	ErrAgentUnavailable = errors.New("agent is not available")
	// ErrNotPDF rejects an upload before any network call.
	ErrNotPDF = errors.New("only PDF files are accepted")
	// ErrFileTooLarge rejects an oversized upload before any network call.
	ErrFileTooLarge = errors.New("file exceeds the upload size limit")
)

// Availability is the outcome of the status probe. Unavailable means the
// server answered but the agent is not configured; Unreachable means the
// server could not be reached at all.
type Availability int

const (
	AgentAvailable Availability = iota
	AgentUnavailable
	AgentUnreachable
)

// StatusText is the human-readable status line for each probe outcome.
func (a Availability) StatusText() string {
	switch a {
	case AgentAvailable:
		return "AI Agent connected"
	case AgentUnavailable:
		return "AI Agent unavailable — set ANTHROPIC_API_KEY on the server to enable chat"
	default:
		return "Cannot reach API server"
	}
}

// Sink receives view updates from the flows. Implementations must be cheap;
// they are called from the flow's goroutine.
type Sink interface {
	// TranscriptChanged fires when entries are appended or finalized.
	TranscriptChanged()
	// ActiveUpdated fires on each re-render of the streaming entry, with
	// the full accumulated text.
	ActiveUpdated(fullText string)
	// IndicatorAdded fires when a tool progress line is added.
	IndicatorAdded(label string)
	// BusyChanged fires when a chat request starts or finishes.
	BusyChanged(busy bool)
	// ProfileChanged fires with the new profile, or nil when it is cleared.
	ProfileChanged(p *profile.Profile)
	// UploadStatus fires with upload progress or error text; empty text
	// clears the status line.
	UploadStatus(text string, isError bool)
}

// NopSink discards all updates. Embed it to implement only part of Sink.
type NopSink struct{}

func (NopSink) TranscriptChanged()              {}
func (NopSink) ActiveUpdated(string)            {}
func (NopSink) IndicatorAdded(string)           {}
func (NopSink) BusyChanged(bool)                {}
func (NopSink) ProfileChanged(*profile.Profile) {}
func (NopSink) UploadStatus(string, bool)       {}

// Controller coordinates the chat, upload, and clear flows against one
// transcript and one session.
type Controller struct {
	client *agent.Client
	tr     *transcript.Transcript
	log    zerolog.Logger

	mu        sync.Mutex
	sessionID string
	available bool
	busy      bool
	prof      *profile.Profile
}

// NewController creates a controller with an empty transcript and no session.
func NewController(client *agent.Client, log zerolog.Logger) *Controller {
	return &Controller{
		client: client,
		tr:     transcript.New(),
		log:    log,
	}
}

// Transcript exposes the conversation for rendering and export.
func (c *Controller) Transcript() *transcript.Transcript { return c.tr }

// SessionID returns the current session identifier, empty when none exists.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Available returns the cached availability flag.
func (c *Controller) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available
}

// Busy reports whether a chat request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Profile returns the last extracted profile, nil when none is set.
func (c *Controller) Profile() *profile.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prof
}

// Probe queries agent availability once and caches the result. It gates the
// chat and upload flows; there is no polling or retry.
func (c *Controller) Probe(ctx context.Context) Availability {
	available, err := c.client.Status(ctx)
	kind := AgentAvailable
	switch {
	case err != nil:
		kind = AgentUnreachable
		c.log.Warn().Err(err).Msg("status probe failed")
	case !available:
		kind = AgentUnavailable
	}
	c.mu.Lock()
	c.available = kind == AgentAvailable
	c.mu.Unlock()
	return kind
}

// Send runs one chat exchange: append the user entry, stream the assistant
// response into the active entry, and finalize it. It returns ErrBusy or
// ErrAgentUnavailable when the guards reject the call (no side effects);
// failures during the exchange itself are rendered into the transcript and
// do not produce an error. Empty messages are ignored.
func (c *Controller) Send(ctx context.Context, message string, sink Sink) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}

	c.mu.Lock()
	if !c.available {
		c.mu.Unlock()
		return ErrAgentUnavailable
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	sessionID := c.sessionID
	c.mu.Unlock()

	sink.BusyChanged(true)
	c.tr.Append(transcript.RoleUser, message)
	if err := c.tr.Begin(); err != nil {
		// Unreachable given the busy guard, but never leave the flag set.
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		sink.BusyChanged(false)
		return err
	}
	sink.TranscriptChanged()

	defer func() {
		c.tr.Finalize()
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
		sink.BusyChanged(false)
		sink.TranscriptChanged()
	}()

	stream, err := c.client.Chat(ctx, message, sessionID)
	if err != nil {
		c.fail(sink, fmt.Sprintf("Connection error: %s", errorText(err)))
		return nil
	}
	defer stream.Close()

	var full strings.Builder
	failed := false
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			if !failed {
				c.fail(sink, fmt.Sprintf("Connection error: %s", errorText(err)))
			}
			return nil
		}

		switch ev := ev.(type) {
		case agent.ResultEvent:
			c.mu.Lock()
			c.sessionID = ev.SessionID
			c.mu.Unlock()
		case agent.ErrorEvent:
			// The error replaces the entry's content for good: later
			// text or tool events must not bury it.
			failed = true
			c.fail(sink, fmt.Sprintf("Error: %s", ev.Message))
		case agent.TextEvent:
			if failed {
				continue
			}
			full.WriteString(ev.Text)
			c.tr.SetActiveText(full.String())
			sink.ActiveUpdated(full.String())
		case agent.ToolEvent:
			if failed {
				continue
			}
			label := agent.ToolLabel(ev.Tool)
			c.tr.AddIndicator(label)
			sink.IndicatorAdded(label)
		}
	}

	if full.Len() == 0 && !failed {
		c.fail(sink, "No response received.")
	}
	return nil
}

func (c *Controller) fail(sink Sink, text string) {
	c.tr.SetActiveText(text)
	sink.ActiveUpdated(text)
}

// Upload runs the profile-extraction flow for the file at path. Precondition
// failures (type, size) are reported through the sink and return before any
// network call. The returned session identifier is always adopted, even when
// it differs from the current one.
func (c *Controller) Upload(ctx context.Context, path string, sink Sink) error {
	data, err := os.ReadFile(path)
	if err != nil {
		sink.UploadStatus(fmt.Sprintf("Cannot read file: %s", errorText(err)), true)
		return err
	}
	if !filetype.Is(data, "pdf") {
		sink.UploadStatus("Only PDF files are accepted.", true)
		return ErrNotPDF
	}
	if len(data) > MaxUploadBytes {
		sink.UploadStatus("File exceeds 10 MB limit.", true)
		return ErrFileTooLarge
	}

	sink.UploadStatus("Analysing document...", false)

	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	result, err := c.client.Upload(ctx, agent.UploadInput{
		Filename:  filepath.Base(path),
		Data:      data,
		SessionID: sessionID,
	})
	if err != nil {
		sink.UploadStatus(uploadErrorText(err), true)
		return err
	}

	// One session per client, last-write-wins.
	c.mu.Lock()
	c.sessionID = result.SessionID
	c.mu.Unlock()
	sink.UploadStatus("", false)

	if !result.HasContent {
		c.setProfile(nil, sink)
		c.tr.Append(transcript.RoleAssistant, profile.NoContentMessage(result))
	} else {
		c.setProfile(profile.FromUpload(result), sink)
		c.tr.Append(transcript.RoleAssistant, profile.WelcomeMessage(result))
	}
	sink.TranscriptChanged()
	return nil
}

// ClearProfile hides the profile immediately, then best-effort deletes the
// session server-side. The session identifier is cleared regardless of the
// delete outcome, and delete failures are never surfaced.
func (c *Controller) ClearProfile(ctx context.Context, sink Sink) {
	c.setProfile(nil, sink)

	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	if sessionID != "" {
		if err := c.client.DeleteSession(ctx, sessionID); err != nil {
			c.log.Debug().Err(err).Str("session_id", sessionID).Msg("session delete failed")
		}
		c.mu.Lock()
		c.sessionID = ""
		c.mu.Unlock()
	}

	c.tr.Append(transcript.RoleAssistant, "Profile cleared. You can upload a new document or continue chatting.")
	sink.TranscriptChanged()
}

func (c *Controller) setProfile(p *profile.Profile, sink Sink) {
	c.mu.Lock()
	c.prof = p
	c.mu.Unlock()
	sink.ProfileChanged(p)
}

// errorText strips the *url.Error boilerplate down to something a status
// line can show.
func errorText(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && i+2 < len(msg) {
		return msg[i+2:]
	}
	return msg
}

func uploadErrorText(err error) string {
	var apiErr *agent.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return "Upload failed"
	}
	return fmt.Sprintf("Upload failed: %s", errorText(err))
}
