package overlay

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// HelpOverlay shows the keybinding reference
type HelpOverlay struct {
	styles *Styles
}

// NewHelpOverlay creates the help overlay
func NewHelpOverlay() *HelpOverlay {
	return &HelpOverlay{styles: New()}
}

// Init initializes the overlay
func (h *HelpOverlay) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (h *HelpOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q", "?":
			return h, func() tea.Msg { return CloseOverlayMsg{} }
		}
	}
	return h, nil
}

type binding struct {
	key  string
	desc string
}

var helpSections = []struct {
	header   string
	bindings []binding
}{
	{
		header: "Navigation",
		bindings: []binding{
			{"h/l ←/→", "Move between columns"},
			{"j/k ↑/↓", "Move between tasks"},
			{"enter", "Open task detail"},
		},
	},
	{
		header: "Tasks",
		bindings: []binding{
			{"c", "Create task"},
			{"H/L", "Move task left/right"},
			{"x", "Toggle completed"},
			{"d", "Delete task"},
			{"a", "Generate subtasks with AI"},
		},
	},
	{
		header: "Board",
		bindings: []binding{
			{"/", "Search"},
			{"f", "Cycle priority filter"},
			{"o", "Toggle sort order"},
			{"r", "Reload from server"},
			{"N", "Notes"},
			{"m", "Mark notifications read"},
			{"M", "Clear notifications"},
			{"?", "Help"},
			{"q", "Quit"},
		},
	},
}

// View renders the keybinding reference
func (h *HelpOverlay) View() string {
	var b strings.Builder

	for i, section := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(h.styles.Label.Render(section.header))
		b.WriteString("\n")
		for _, bind := range section.bindings {
			key := h.styles.MenuKey.Render(padRight(bind.key, 10))
			b.WriteString("  " + key + " " + h.styles.MenuItem.Render(bind.desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(h.styles.Footer.Render("Esc: Close"))
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Title returns the overlay title
func (h *HelpOverlay) Title() string {
	return "Help"
}

// Size returns the overlay dimensions
func (h *HelpOverlay) Size() (width, height int) {
	lines := 2
	for _, section := range helpSections {
		lines += len(section.bindings) + 2
	}
	return 50, lines
}
