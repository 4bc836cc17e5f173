package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Board
	Board              lipgloss.Style
	Column             lipgloss.Style
	ColumnHeader       lipgloss.Style
	ColumnHeaderActive lipgloss.Style

	// Cards
	Card       lipgloss.Style
	CardActive lipgloss.Style
	TaskTitle  lipgloss.Style
	TaskMeta   lipgloss.Style
	DueSoon    lipgloss.Style
	Overdue    lipgloss.Style
	Generating lipgloss.Style

	// Badges
	PriorityBadge func(priority domain.Priority) lipgloss.Style
	CategoryBadge lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style
	Offline    lipgloss.Style

	// Overlays
	Overlay        lipgloss.Style
	OverlayTitle   lipgloss.Style
	FieldLabel     lipgloss.Style
	MenuItem       lipgloss.Style
	MenuItemActive lipgloss.Style
	MenuKey        lipgloss.Style
	Separator      lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// Subtasks
	SubtaskDone    lipgloss.Style
	SubtaskPending lipgloss.Style
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Board: lipgloss.NewStyle().
			Background(Base),

		Column: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		ColumnHeaderActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1).
			MarginBottom(1),

		CardActive: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Lavender).
			Padding(0, 1).
			MarginBottom(1),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Text),

		TaskMeta: lipgloss.NewStyle().
			Foreground(Overlay1),

		DueSoon: lipgloss.NewStyle().
			Foreground(Peach),

		Overdue: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		Generating: lipgloss.NewStyle().
			Foreground(Mauve).
			Italic(true),

		PriorityBadge: func(priority domain.Priority) lipgloss.Style {
			color, ok := PriorityColors[string(priority)]
			if !ok {
				color = Overlay0
			}
			return lipgloss.NewStyle().
				Foreground(Base).
				Background(color).
				Padding(0, 1).
				Bold(true)
		},

		CategoryBadge: lipgloss.NewStyle().
			Foreground(Subtext0).
			Background(Surface1).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Offline: lipgloss.NewStyle().
			Background(Red).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(1, 2),

		OverlayTitle: lipgloss.NewStyle().
			Foreground(Text).
			Bold(true).
			MarginBottom(1),

		FieldLabel: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),

		SubtaskDone: lipgloss.NewStyle().
			Foreground(Green).
			Strikethrough(true),

		SubtaskPending: lipgloss.NewStyle().
			Foreground(Text),
	}
}

// Status returns the accent style for a task status
func (s *Styles) Status(status domain.Status) lipgloss.Style {
	color, ok := StatusColors[string(status)]
	if !ok {
		color = Subtext0
	}
	return lipgloss.NewStyle().Foreground(color)
}
