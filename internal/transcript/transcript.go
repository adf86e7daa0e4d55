// Package transcript models the conversation as an append-only sequence of
// immutable entries plus one optional active entry: the assistant reply
// currently streaming in, which is mutated in place and becomes immutable
// once finalized.
package transcript

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/carmscli/carmscli/internal/markdown"
)

// Role identifies the author of an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one transcript message. Text holds the raw (markdown-subset)
// content; rendering happens at the view edge. Indicators are transient tool
// progress lines shown inside an assistant entry while it streams.
type Entry struct {
	ID         string
	Role       Role
	Text       string
	Indicators []string
}

// Transcript is safe for concurrent use: flows mutate it from their own
// goroutine while a view snapshots it for rendering.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
	active  *Entry
}

// New creates an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds an immutable entry and returns it.
func (t *Transcript) Append(role Role, text string) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := Entry{ID: uuid.NewString(), Role: role, Text: text}
	t.entries = append(t.entries, e)
	return e
}

// Begin opens the active assistant entry. Only one may be open at a time.
func (t *Transcript) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		return fmt.Errorf("an entry is already streaming")
	}
	t.active = &Entry{ID: uuid.NewString(), Role: RoleAssistant}
	return nil
}

// SetActiveText replaces the active entry's content. No-op when nothing is
// streaming.
func (t *Transcript) SetActiveText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		t.active.Text = text
	}
}

// AddIndicator appends a transient progress line to the active entry without
// disturbing its accumulated text.
func (t *Transcript) AddIndicator(label string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active != nil {
		t.active.Indicators = append(t.active.Indicators, label)
	}
}

// Finalize closes the active entry and appends it to the transcript.
func (t *Transcript) Finalize() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return
	}
	t.entries = append(t.entries, *t.active)
	t.active = nil
}

// Streaming reports whether an active entry is open.
func (t *Transcript) Streaming() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.active != nil
}

// Snapshot returns a copy of all entries, with the active entry last when one
// is streaming.
func (t *Transcript) Snapshot() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, len(t.entries), len(t.entries)+1)
	copy(out, t.entries)
	if t.active != nil {
		a := *t.active
		a.Indicators = append([]string(nil), t.active.Indicators...)
		out = append(out, a)
	}
	return out
}

// HTML renders the transcript as a minimal standalone document. Entry text
// goes through the markdown renderer, so user and agent content is escaped
// before any markup is produced.
func (t *Transcript) HTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Chat transcript</title></head>\n<body>\n")
	for _, e := range t.Snapshot() {
		fmt.Fprintf(&b, "<div class=%q><p>%s</p>", string(e.Role), markdown.RenderHTML(e.Text))
		for _, ind := range e.Indicators {
			fmt.Fprintf(&b, "<div class=\"tool-indicator\">%s</div>", markdown.EscapeHTML(ind))
		}
		b.WriteString("</div>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}
