package ui

import "fmt"

// RenderUserPrompt returns the styled "You: " prompt
func RenderUserPrompt() string {
	return Color(Bold+Green, "You: ")
}

// RenderAssistantPrefix returns the styled agent reply prefix
func RenderAssistantPrefix() string {
	return Color(Bold+Blue, "Agent: ")
}

// RenderStatus formats the agent availability line; ok selects the success
// or warning color.
func RenderStatus(text string, ok bool) string {
	if ok {
		return Color(Green, text)
	}
	return Color(Yellow, text)
}

// RenderError formats an error message
func RenderError(err error) string {
	return Color(Red, fmt.Sprintf("Error: %v", err))
}

// RenderDim formats text in dim style
func RenderDim(msg string) string {
	return Color(Dim, msg)
}

// RenderSuccess formats a success message
func RenderSuccess(msg string) string {
	return Color(Green, msg)
}
