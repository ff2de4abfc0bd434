// Package style holds the colors and icons of autoscan's terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Roles map kinds of output onto the palette.
var (
	Debug   = Iris
	Info    = Slate
	Success = Green
	Failure = Red
	Notice  = Yellow
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Bullet  = "-"
)
