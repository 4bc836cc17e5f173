package app

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/ui/board"
	"github.com/tamarindhq/tamarind/internal/ui/statusbar"
	"github.com/tamarindhq/tamarind/internal/ui/toast"
)

// View renders the application
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.loading {
		return m.renderLoading()
	}

	columns := m.buildColumns()
	boardHeight := m.height - 2

	generating := make(map[string]bool)
	for _, task := range m.manager.Tasks() {
		if m.manager.Generating(task.ID) {
			generating[task.ID] = true
		}
	}

	boardView := board.Render(columns, m.cursor, generating, m.spinner.View(), m.styles, m.width, boardHeight)

	statusBarView := statusbar.New(m.mode, m.width, m.styles).
		WithProgress(m.manager.CompletedCount(), len(m.manager.Tasks())).
		WithOnline(m.online()).
		WithUnread(m.unread).
		WithSearch(m.filter.SearchQuery).
		Render()

	view := lipgloss.JoinVertical(lipgloss.Left, boardView, statusBarView)

	// If an overlay is open, render it centered on top
	if !m.overlayStack.IsEmpty() {
		current := m.overlayStack.Current()
		overlayView := current.View()
		overlayWidth, overlayHeight := current.Size()

		if title := current.Title(); title != "" {
			titleView := m.styles.OverlayTitle.Render(title)
			overlayView = lipgloss.JoinVertical(lipgloss.Left, titleView, overlayView)
		}
		overlayView = m.styles.Overlay.
			Width(overlayWidth).
			Height(overlayHeight).
			Render(overlayView)

		centeredOverlay := lipgloss.Place(
			m.width,
			m.height,
			lipgloss.Center,
			lipgloss.Center,
			overlayView,
		)

		view = lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, view)
		view = lipgloss.JoinVertical(lipgloss.Left, view, centeredOverlay)
	}

	// Toasts stack in the bottom-right corner
	if len(m.toasts) > 0 {
		toastView := toast.New(m.styles).Render(m.toasts, m.width)
		if toastView != "" {
			view = lipgloss.JoinVertical(lipgloss.Left, view, toastView)
		}
	}

	return view
}

// renderLoading renders the initial loading screen
func (m Model) renderLoading() string {
	message := m.spinner.View() + " Loading tasks..."
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		message,
	)
}
