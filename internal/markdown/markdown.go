// Package markdown renders the constrained markdown subset used by agent
// responses: bold, inline code, and paragraph/line breaks. Untrusted input is
// neutralized before any substitution is applied, so raw text can never
// inject markup into the output.
package markdown

import (
	"html"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
	codeRe = regexp.MustCompile("`(.*?)`")

	// CSI/OSC escape sequences first, then any remaining control bytes
	// except newline and tab.
	ctrlRe = regexp.MustCompile(`\x1b\][^\x07]*\x07|\x1b\[[0-9;?]*[ -/]*[@-~]|[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)

	ansiBold = lipgloss.NewStyle().Bold(true)
	ansiCode = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Background(lipgloss.Color("236"))
)

// EscapeHTML escapes HTML metacharacters (&, <, >, and quotes) in s.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// RenderHTML converts text to an HTML fragment. Escaping happens before any
// markdown substitution; substitutions are first-match and non-backtracking,
// applied in a fixed order: paragraph breaks, line breaks, bold, inline code.
// Nested or overlapping markdown is not supported.
func RenderHTML(text string) string {
	out := EscapeHTML(text)
	out = strings.ReplaceAll(out, "\n\n", "</p><p>")
	out = strings.ReplaceAll(out, "\n", "<br>")
	out = boldRe.ReplaceAllString(out, "<strong>$1</strong>")
	out = codeRe.ReplaceAllString(out, "<code>$1</code>")
	return out
}

// SanitizeTerminal strips ANSI escape sequences and control bytes (other than
// newline and tab) from s. This is the terminal analog of HTML escaping:
// untrusted text must not be able to move the cursor or restyle the screen.
func SanitizeTerminal(s string) string {
	return ctrlRe.ReplaceAllString(s, "")
}

// RenderANSI converts text to styled terminal output. The pipeline mirrors
// RenderHTML: sanitize first, then bold and inline code substitutions. Line
// structure is preserved as-is since terminals render newlines directly.
func RenderANSI(text string) string {
	out := SanitizeTerminal(text)
	out = boldRe.ReplaceAllStringFunc(out, func(m string) string {
		return ansiBold.Render(m[2 : len(m)-2])
	})
	out = codeRe.ReplaceAllStringFunc(out, func(m string) string {
		return ansiCode.Render(m[1 : len(m)-1])
	})
	return out
}
