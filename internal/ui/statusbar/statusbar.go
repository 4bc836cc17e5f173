// Package statusbar renders the bar at the bottom of the TUI.
package statusbar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/types"
	"github.com/tamarindhq/tamarind/internal/ui/styles"
)

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode      types.Mode
	width     int
	online    bool
	unread    int
	completed int
	total     int
	search    string
	styles    *styles.Styles
}

// New creates a new StatusBar
func New(mode types.Mode, width int, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:   mode,
		width:  width,
		online: true,
		styles: styles,
	}
}

// WithProgress sets the completed/total task counts
func (sb StatusBar) WithProgress(completed, total int) StatusBar {
	sb.completed = completed
	sb.total = total
	return sb
}

// WithOnline sets the connectivity indicator
func (sb StatusBar) WithOnline(online bool) StatusBar {
	sb.online = online
	return sb
}

// WithUnread sets the unread notification count
func (sb StatusBar) WithUnread(unread int) StatusBar {
	sb.unread = unread
	return sb
}

// WithSearch sets the live search query shown in search mode
func (sb StatusBar) WithSearch(query string) StatusBar {
	sb.search = query
	return sb
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")
	separator := sb.styles.StatusHint.Render(" │ ")

	parts := []string{modeBadge}

	if !sb.online {
		parts = append(parts, separator, sb.styles.Offline.Render(" OFFLINE "))
	}

	if sb.total > 0 {
		progress := fmt.Sprintf("%d/%d done", sb.completed, sb.total)
		parts = append(parts, separator, sb.styles.StatusInfo.Render(progress))
	}

	if sb.unread > 0 {
		bell := fmt.Sprintf("🔔 %d", sb.unread)
		parts = append(parts, separator, sb.styles.StatusInfo.Render(bell))
	}

	if sb.mode == types.ModeSearch {
		parts = append(parts, separator, sb.styles.StatusInfo.Render("/"+sb.search))
	}

	if hints := GetHints(sb.mode); hints != "" {
		parts = append(parts, separator, sb.styles.StatusHint.Render(hints))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}
