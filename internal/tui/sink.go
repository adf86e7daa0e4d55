package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/carmscli/carmscli/internal/chat"
	"github.com/carmscli/carmscli/internal/profile"
)

// Messages posted into the program. Controller updates all cause the same
// thing — a resync against the controller's state — so the distinct types
// mostly document who sent what.
type (
	probeDoneMsg  struct{ kind chat.Availability }
	stateChanged  struct{}
	sendDoneMsg   struct{ err error }
	uploadDoneMsg struct{ err error }
	clearDoneMsg  struct{}
)

// programSink bridges controller callbacks into the bubbletea event loop.
// Updates are posted non-blocking: each one only triggers a repaint from the
// controller's current state, so dropping a burst is harmless — the
// completion message delivered by the command itself is never dropped.
type programSink struct {
	chat.NopSink
	events chan<- tea.Msg
}

func (s programSink) post() {
	select {
	case s.events <- stateChanged{}:
	default:
	}
}

func (s programSink) TranscriptChanged()              { s.post() }
func (s programSink) ActiveUpdated(string)            { s.post() }
func (s programSink) IndicatorAdded(string)           { s.post() }
func (s programSink) BusyChanged(bool)                { s.post() }
func (s programSink) ProfileChanged(*profile.Profile) { s.post() }

func (s programSink) UploadStatus(text string, isErr bool) {
	select {
	case s.events <- uploadStatusMsg{text: text, isErr: isErr}:
	default:
	}
}

type uploadStatusMsg struct {
	text  string
	isErr bool
}

// waitEvent hands the next posted update to the program and re-arms itself.
func waitEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
