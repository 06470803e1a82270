// Package term provides styled terminal output for the release pipeline.
package term

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// Header renders a section header bar around the title.
func Header(title string) string {
	bar := strings.Repeat("=", 60)
	return headerStyle.Render(bar) + "\n" +
		headerStyle.Render(" "+title) + "\n" +
		headerStyle.Render(bar)
}

// Success renders a success line.
func Success(format string, args ...any) string {
	return successStyle.Render("✓ " + fmt.Sprintf(format, args...))
}

// Warn renders a warning line.
func Warn(format string, args ...any) string {
	return warnStyle.Render("! " + fmt.Sprintf(format, args...))
}

// Fail renders a failure line.
func Fail(format string, args ...any) string {
	return failStyle.Render("✗ " + fmt.Sprintf(format, args...))
}

// Step renders an in-progress step line.
func Step(format string, args ...any) string {
	return stepStyle.Render(fmt.Sprintf(format, args...))
}
