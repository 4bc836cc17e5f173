package board

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/domain"
	"github.com/tamarindhq/tamarind/internal/ui/styles"
)

// renderCard renders a task card
func renderCard(task domain.Task, isCursor bool, generating bool, spinner string, width int, s *styles.Styles) string {
	cardStyle := s.Card
	if isCursor {
		cardStyle = s.CardActive
	}
	cardStyle = cardStyle.Width(width)

	// Title - truncate if needed. Account for padding, border and the
	// cursor indicator.
	maxTitleLen := width - 4
	title := task.Title
	if len(title) > maxTitleLen && maxTitleLen > 1 {
		title = title[:maxTitleLen-1] + "…"
	}

	cursor := ""
	if isCursor {
		cursor = "▶"
	}
	titleLine := cursor + s.TaskTitle.Render(title)

	priorityBadge := s.PriorityBadge(task.Priority).Render(task.Priority.String())
	badgeLine := priorityBadge
	if task.Category != "" {
		badgeLine = lipgloss.JoinHorizontal(lipgloss.Left, badgeLine, " ", s.CategoryBadge.Render(task.Category))
	}

	lines := []string{titleLine, badgeLine}

	if meta := renderMeta(task, s); meta != "" {
		lines = append(lines, meta)
	}

	if generating {
		lines = append(lines, s.Generating.Render(spinner+" generating subtasks"))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(content)
}

// renderMeta renders the due date and subtask progress line
func renderMeta(task domain.Task, s *styles.Styles) string {
	var parts []string

	if task.DueDate != nil {
		due := formatDue(*task.DueDate)
		switch {
		case task.Status != domain.StatusCompleted && task.DueDate.Before(time.Now()):
			parts = append(parts, s.Overdue.Render(due))
		case task.Status != domain.StatusCompleted && time.Until(*task.DueDate) < 48*time.Hour:
			parts = append(parts, s.DueSoon.Render(due))
		default:
			parts = append(parts, s.TaskMeta.Render(due))
		}
	}

	if done, total := task.SubtaskProgress(); total > 0 {
		progress := fmt.Sprintf("☰ %d/%d", done, total)
		if done == total {
			parts = append(parts, s.SubtaskDone.Render(progress))
		} else {
			parts = append(parts, s.TaskMeta.Render(progress))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, joinWithSeparator(parts, s.Separator.Render(" • "))...)
}

func joinWithSeparator(parts []string, sep string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

// formatDue renders a due date relative to today
func formatDue(due time.Time) string {
	now := time.Now()
	days := int(due.Sub(now).Hours() / 24)
	switch {
	case days < 0:
		return fmt.Sprintf("⏰ %dd overdue", -days)
	case days == 0:
		return "⏰ today"
	case days == 1:
		return "⏰ tomorrow"
	case days < 7:
		return fmt.Sprintf("⏰ %dd", days)
	default:
		return "⏰ " + due.Format("Jan 2")
	}
}

// RenderCard is the exported version for testing
func RenderCard(task domain.Task, isCursor bool, generating bool, spinner string, width int, s *styles.Styles) string {
	return renderCard(task, isCursor, generating, spinner, width, s)
}
