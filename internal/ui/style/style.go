// Package style provides shared UI styling primitives including brand colors,
// icons and text styles for consistent presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Amber  = lipgloss.Color("#FFAE1A")
	Slate  = lipgloss.Color("#667085")
	Ink    = lipgloss.Color("#0B0F19")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Text styles used by the human-readable commands.
var (
	Label   = lipgloss.NewStyle().Foreground(Slate).Width(10)
	Value   = lipgloss.NewStyle().Bold(true)
	Heading = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(Slate)
)

// Field renders a "label value" row.
func Field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, Label.Render(label), Value.Render(value))
}
