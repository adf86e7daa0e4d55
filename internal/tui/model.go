// Package tui implements the interactive chat interface.
package tui

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/carmscli/carmscli/internal/chat"
)

const eventBuffer = 128

// Model is the bubbletea model for the chat session. All agent state lives
// in the controller; the model holds only presentation state and resyncs
// from the controller whenever it is told something changed.
type Model struct {
	ctrl      *chat.Controller
	serverURL string
	log       zerolog.Logger

	events chan tea.Msg
	sink   programSink

	probed       bool
	availability chat.Availability
	uploadStatus string
	uploadErr    bool
	notice       string

	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	styles   styles

	width  int
	height int
	ready  bool
}

func New(ctrl *chat.Controller, serverURL string, log zerolog.Logger) Model {
	events := make(chan tea.Msg, eventBuffer)

	ti := textinput.New()
	ti.Placeholder = "Ask about residency programs..."
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := newStyles()
	sp.Style = st.spinner

	return Model{
		ctrl:      ctrl,
		serverURL: serverURL,
		log:       log,
		events:    events,
		sink:      programSink{events: events},
		input:     ti,
		spin:      sp,
		styles:    st,
	}
}

// Run starts the program and blocks until the user exits.
func Run(ctrl *chat.Controller, serverURL string, log zerolog.Logger) error {
	p := tea.NewProgram(New(ctrl, serverURL, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.probeCmd(),
		m.spin.Tick,
		waitEvent(m.events),
		textinput.Blink,
	)
}

func (m Model) probeCmd() tea.Cmd {
	return func() tea.Msg {
		return probeDoneMsg{kind: m.ctrl.Probe(context.Background())}
	}
}

func (m Model) sendCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return sendDoneMsg{err: m.ctrl.Send(context.Background(), message, m.sink)}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		return uploadDoneMsg{err: m.ctrl.Upload(context.Background(), path, m.sink)}
	}
}

func (m Model) clearCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.ClearProfile(context.Background(), m.sink)
		return clearDoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.syncTranscript()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.handleSubmit()
		}
		// Scrolling keys go to the viewport, everything else to the input,
		// so typing j/k does not scroll the transcript.
		var cmd tea.Cmd
		switch msg.Type {
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			m.viewport, cmd = m.viewport.Update(msg)
		default:
			m.input, cmd = m.input.Update(msg)
		}
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case probeDoneMsg:
		m.probed = true
		m.availability = msg.kind
		if msg.kind != chat.AgentAvailable {
			m.input.Blur()
			m.input.Placeholder = "Agent unavailable"
		}
		return m, nil

	case stateChanged:
		m.syncTranscript()
		return m, waitEvent(m.events)

	case uploadStatusMsg:
		m.uploadStatus = msg.text
		m.uploadErr = msg.isErr
		return m, waitEvent(m.events)

	case sendDoneMsg:
		m.syncTranscript()
		if m.ctrl.Available() && !m.ctrl.Busy() {
			m.input.Focus()
		}
		return m, nil

	case uploadDoneMsg:
		if msg.err != nil {
			m.log.Debug().Err(msg.err).Msg("upload rejected")
		}
		m.syncTranscript()
		return m, nil

	case clearDoneMsg:
		m.syncTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		return m, nil
	}

	switch {
	case value == "exit" || value == "quit" || value == "/quit":
		return m, tea.Quit

	case value == "/help":
		m.notice = helpNotice
		m.input.Reset()
		return m, nil

	case value == "/clear":
		m.notice = ""
		m.input.Reset()
		return m, m.clearCmd()

	case strings.HasPrefix(value, "/upload"):
		path := strings.TrimSpace(strings.TrimPrefix(value, "/upload"))
		if path == "" {
			m.notice = "Usage: /upload <path-to-pdf>"
			return m, nil
		}
		m.notice = ""
		m.input.Reset()
		return m, m.uploadCmd(path)

	case strings.HasPrefix(value, "/save"):
		path := strings.TrimSpace(strings.TrimPrefix(value, "/save"))
		if path == "" {
			m.notice = "Usage: /save <path>"
			return m, nil
		}
		if err := os.WriteFile(path, []byte(m.ctrl.Transcript().HTML()), 0o644); err != nil {
			m.notice = "Save failed: " + err.Error()
		} else {
			m.notice = "Transcript saved to " + path
		}
		m.input.Reset()
		return m, nil

	case strings.HasPrefix(value, "/"):
		m.notice = "Unknown command. " + helpNotice
		return m, nil
	}

	// A message while a turn is in flight or the agent is down is dropped;
	// the typed text stays in the input so nothing is lost.
	if !m.ctrl.Available() || m.ctrl.Busy() {
		return m, nil
	}

	m.notice = ""
	m.input.Reset()
	m.input.Blur()
	return m, m.sendCmd(value)
}

const helpNotice = "Commands: /upload <pdf>  /clear  /save <path>  /help  exit"
