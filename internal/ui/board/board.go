// Package board renders the three-column task board.
package board

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/ui/styles"
)

// Render renders the entire board
func Render(
	columns []Column,
	cursor Cursor,
	generating map[string]bool,
	spinner string,
	s *styles.Styles,
	width int,
	height int,
) string {
	if len(columns) == 0 {
		return ""
	}

	columnWidth := width / len(columns)

	var columnStrings []string
	for i, col := range columns {
		isActive := i == cursor.Column
		cursorTask := 0
		if isActive {
			cursorTask = cursor.Task
		}

		columnStr := renderColumn(col, cursorTask, isActive, generating, spinner, columnWidth, height, s)

		// Force consistent width using lipgloss Width
		sized := lipgloss.NewStyle().Width(columnWidth).Height(height).Render(columnStr)
		columnStrings = append(columnStrings, sized)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, columnStrings...)
}
