// Package toast renders transient notification messages.
package toast

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/types"
	"github.com/tamarindhq/tamarind/internal/ui/styles"
)

// Toasts take a third of the terminal, capped so wide terminals do not
// get banner-sized notifications.
const maxWidth = 40

// ToastRenderer draws the notification stack in the corner of the view
type ToastRenderer struct {
	styles *styles.Styles
}

// New creates a renderer over the shared style set
func New(s *styles.Styles) *ToastRenderer {
	return &ToastRenderer{styles: s}
}

// Render stacks the toasts vertically, right-aligned, oldest first.
// An empty slice renders nothing.
func (r *ToastRenderer) Render(toasts []types.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	w := min(width/3, maxWidth)
	lines := make([]string, len(toasts))
	for i, t := range toasts {
		lines[i] = r.levelStyle(t.Level).Width(w).Render(t.Message)
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func (r *ToastRenderer) levelStyle(level types.ToastLevel) lipgloss.Style {
	switch level {
	case types.ToastSuccess:
		return r.styles.ToastSuccess
	case types.ToastWarning:
		return r.styles.ToastWarning
	case types.ToastError:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
