package agent

import "fmt"

// toolLabels maps known agent tool identifiers to friendly progress labels.
var toolLabels = map[string]string{
	"mcp__carms__search_programs":    "Searching programs...",
	"mcp__carms__filter_programs":    "Filtering programs...",
	"mcp__carms__get_program_detail": "Loading program details...",
	"mcp__carms__compare_programs":   "Comparing programs...",
	"mcp__carms__list_disciplines":   "Loading disciplines...",
	"mcp__carms__list_schools":       "Loading schools...",
	"mcp__carms__get_analytics":      "Loading analytics...",
}

// ToolLabel returns a human-readable progress label for a tool invocation.
// Unknown tools get a generic label built from the identifier.
func ToolLabel(tool string) string {
	if label, ok := toolLabels[tool]; ok {
		return label
	}
	return fmt.Sprintf("Using %s...", tool)
}
