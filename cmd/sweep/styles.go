package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatCell shortens numeric cells to four decimals and leaves text as is.
func FormatCell(value string) string {
	number, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	if number == float64(int64(number)) {
		return strconv.FormatInt(int64(number), 10)
	}

	return strconv.FormatFloat(number, 'f', 4, 64)
}
