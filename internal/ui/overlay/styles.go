package overlay

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/ui/styles"
)

// Styles holds all overlay-specific styles
type Styles struct {
	Overlay        lipgloss.Style
	Title          lipgloss.Style
	Label          lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style
	MenuKey        lipgloss.Style
	Separator      lipgloss.Style
	Footer         lipgloss.Style
	Error          lipgloss.Style
	Done           lipgloss.Style
	Muted          lipgloss.Style
}

// New creates a new Styles instance using the Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.Surface2).
			Background(styles.Base).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(styles.Text).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(styles.Teal).
			Bold(true),

		MenuItem: lipgloss.NewStyle().
			Foreground(styles.Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(styles.Blue).
			Bold(true),

		MenuKey: lipgloss.NewStyle().
			Foreground(styles.Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(styles.Surface1),

		Footer: lipgloss.NewStyle().
			Foreground(styles.Subtext0).
			MarginTop(1),

		Error: lipgloss.NewStyle().
			Foreground(styles.Red),

		Done: lipgloss.NewStyle().
			Foreground(styles.Green).
			Strikethrough(true),

		Muted: lipgloss.NewStyle().
			Foreground(styles.Overlay0),
	}
}
