package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/carmscli/carmscli/internal/chat"
	"github.com/carmscli/carmscli/internal/markdown"
	"github.com/carmscli/carmscli/internal/transcript"
)

type styles struct {
	header     lipgloss.Style
	serverURL  lipgloss.Style
	statusOK   lipgloss.Style
	statusWarn lipgloss.Style
	statusErr  lipgloss.Style
	profileBar lipgloss.Style
	userLabel  lipgloss.Style
	agentLabel lipgloss.Style
	indicator  lipgloss.Style
	uploadInfo lipgloss.Style
	uploadErr  lipgloss.Style
	notice     lipgloss.Style
	help       lipgloss.Style
	spinner    lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		serverURL:  lipgloss.NewStyle().Faint(true),
		statusOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		statusWarn: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		statusErr:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		profileBar: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		userLabel:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		agentLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		indicator:  lipgloss.NewStyle().Faint(true).Italic(true),
		uploadInfo: lipgloss.NewStyle().Faint(true),
		uploadErr:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		notice:     lipgloss.NewStyle().Faint(true),
		help:       lipgloss.NewStyle().Faint(true),
		spinner:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}

// Rows of chrome around the viewport: header, status, profile bar, upload
// line, notice, input, help.
const chromeRows = 7

func (m *Model) layout() {
	vh := m.height - chromeRows
	if vh < 3 {
		vh = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.width, vh)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vh
	}
	m.input.Width = m.width - 4
}

func (m *Model) syncTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) renderTranscript() string {
	entries := m.ctrl.Transcript().Snapshot()
	if len(entries) == 0 {
		return m.styles.notice.Render("Upload a CV with /upload, or just start typing.")
	}

	body := lipgloss.NewStyle().Width(m.width)
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.Role == transcript.RoleUser {
			b.WriteString(m.styles.userLabel.Render("You"))
		} else {
			b.WriteString(m.styles.agentLabel.Render("Agent"))
		}
		b.WriteString("\n")
		for _, ind := range e.Indicators {
			b.WriteString(m.styles.indicator.Render("· " + ind))
			b.WriteString("\n")
		}
		switch {
		case e.Text != "":
			b.WriteString(body.Render(markdown.RenderANSI(e.Text)))
			b.WriteString("\n")
		case i == len(entries)-1 && m.ctrl.Busy():
			b.WriteString(m.spin.View() + m.styles.indicator.Render("Thinking..."))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	if !m.probed {
		return m.spin.View() + m.styles.notice.Render("Checking agent status...")
	}
	text := m.availability.StatusText()
	switch m.availability {
	case chat.AgentAvailable:
		return m.styles.statusOK.Render("● " + text)
	case chat.AgentUnavailable:
		return m.styles.statusWarn.Render("● " + text)
	default:
		return m.styles.statusErr.Render("● " + text)
	}
}

func (m Model) profileLine() string {
	p := m.ctrl.Profile()
	if p == nil {
		return ""
	}
	return m.styles.profileBar.Render("Profile: " + p.BarText() + "  (/clear to remove)")
}

func (m Model) uploadLine() string {
	if m.uploadStatus == "" {
		return ""
	}
	if m.uploadErr {
		return m.styles.uploadErr.Render(m.uploadStatus)
	}
	return m.styles.uploadInfo.Render(m.uploadStatus)
}

func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	b.WriteString(m.styles.header.Render("CaRMS Assistant"))
	b.WriteString("  ")
	b.WriteString(m.styles.serverURL.Render(m.serverURL))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.profileLine())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.uploadLine())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(m.styles.notice.Render(m.notice))
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(helpNotice))
	return b.String()
}
