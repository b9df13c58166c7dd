// Package style provides consistent terminal styling using Lipgloss.
package style

import "github.com/charmbracelet/lipgloss"

var (
	// Success style for positive outcomes
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Warning style for cautionary messages
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")). // Yellow
		Bold(true)

	// Error style for failures
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	// Info style for informational messages
	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")) // Blue

	// Dim style for secondary information
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	// Title is used for page headings ("Module Management", ...)
	Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color("14")). // Cyan
		Bold(true).
		Underline(true)

	// Section labels menu groups
	Section = lipgloss.NewStyle().
		Foreground(lipgloss.Color("13")). // Magenta
		Bold(true)

	// Admin highlights the admin role
	Admin = lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	// SuccessPrefix is the checkmark prefix for success messages
	SuccessPrefix = Success.Render("✓")

	// WarningPrefix is the warning prefix
	WarningPrefix = Warning.Render("⚠")

	// ErrorPrefix is the error prefix
	ErrorPrefix = Error.Render("✗")

	// ArrowPrefix for action indicators
	ArrowPrefix = Info.Render("→")
)

// Role renders a role name, highlighting admins.
func Role(role string) string {
	if role == "Admin" {
		return Admin.Render(role)
	}
	return Dim.Render(role)
}

// Enabled renders an on/off flag.
func Enabled(on bool) string {
	if on {
		return Success.Render("enabled")
	}
	return Dim.Render("disabled")
}
