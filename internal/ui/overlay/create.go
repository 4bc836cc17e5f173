package overlay

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// TaskSubmittedMsg is emitted when the create form is submitted
type TaskSubmittedMsg struct {
	Draft domain.TaskDraft
}

// GenerateDescriptionMsg asks the app to draft a description for the
// given title; the result comes back through SetDescription.
type GenerateDescriptionMsg struct {
	Title string
}

// CreateTaskOverlay provides a form to create a new task
type CreateTaskOverlay struct {
	title       textinput.Model
	description textarea.Model
	due         textinput.Model
	category    textinput.Model
	priority    domain.Priority
	focusIndex  int
	errText     string
	aiEnabled   bool
	styles      *Styles
}

const (
	focusTitle = iota
	focusDescription
	focusDue
	focusCategory
	focusPriority
	focusSubmit
	focusFieldCount
)

// NewCreateTaskOverlay creates a new task creation overlay
func NewCreateTaskOverlay(aiEnabled bool) *CreateTaskOverlay {
	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 56

	ta := textarea.New()
	ta.Placeholder = "Task description (optional)..."
	ta.CharLimit = 2000
	ta.SetWidth(56)
	ta.SetHeight(4)

	due := textinput.New()
	due.Placeholder = "Due date, YYYY-MM-DD (optional)"
	due.CharLimit = 10
	due.Width = 30

	cat := textinput.New()
	cat.Placeholder = "Category (optional)"
	cat.CharLimit = 40
	cat.Width = 30

	return &CreateTaskOverlay{
		title:       ti,
		description: ta,
		due:         due,
		category:    cat,
		priority:    domain.PriorityMedium,
		focusIndex:  focusTitle,
		aiEnabled:   aiEnabled,
		styles:      New(),
	}
}

// Init initializes the overlay
func (c *CreateTaskOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// SetDescription fills the description field, used when an AI draft
// comes back.
func (c *CreateTaskOverlay) SetDescription(text string) {
	c.description.SetValue(text)
}

// Update handles messages
func (c *CreateTaskOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return c, func() tea.Msg { return CloseOverlayMsg{} }

		case "ctrl+s":
			return c, c.submit()

		case "ctrl+g":
			// Ask for an AI-drafted description based on the title.
			if c.aiEnabled {
				title := strings.TrimSpace(c.title.Value())
				if title != "" {
					return c, func() tea.Msg { return GenerateDescriptionMsg{Title: title} }
				}
			}
			return c, nil

		case "tab", "shift+tab":
			if msg.String() == "tab" {
				c.focusIndex = (c.focusIndex + 1) % focusFieldCount
			} else {
				c.focusIndex = (c.focusIndex - 1 + focusFieldCount) % focusFieldCount
			}
			c.applyFocus()
			return c, nil

		case "enter":
			if c.focusIndex == focusSubmit {
				return c, c.submit()
			}
		}

		if c.focusIndex == focusPriority {
			switch msg.String() {
			case "l", "L":
				c.priority = domain.PriorityLow
				return c, nil
			case "m", "M":
				c.priority = domain.PriorityMedium
				return c, nil
			case "h", "H":
				c.priority = domain.PriorityHigh
				return c, nil
			}
		}
	}

	var cmd tea.Cmd
	switch c.focusIndex {
	case focusTitle:
		c.title, cmd = c.title.Update(msg)
	case focusDescription:
		c.description, cmd = c.description.Update(msg)
	case focusDue:
		c.due, cmd = c.due.Update(msg)
	case focusCategory:
		c.category, cmd = c.category.Update(msg)
	}
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

func (c *CreateTaskOverlay) applyFocus() {
	c.title.Blur()
	c.description.Blur()
	c.due.Blur()
	c.category.Blur()

	switch c.focusIndex {
	case focusTitle:
		c.title.Focus()
	case focusDescription:
		c.description.Focus()
	case focusDue:
		c.due.Focus()
	case focusCategory:
		c.category.Focus()
	}
}

// View renders the form
func (c *CreateTaskOverlay) View() string {
	var b strings.Builder

	b.WriteString(c.label("Title", focusTitle))
	b.WriteString("\n")
	b.WriteString(c.title.View())
	b.WriteString("\n\n")

	b.WriteString(c.label("Description", focusDescription))
	b.WriteString("\n")
	b.WriteString(c.description.View())
	b.WriteString("\n\n")

	b.WriteString(c.label("Due", focusDue))
	b.WriteString("  ")
	b.WriteString(c.due.View())
	b.WriteString("\n\n")

	b.WriteString(c.label("Category", focusCategory))
	b.WriteString("  ")
	b.WriteString(c.category.View())
	b.WriteString("\n\n")

	b.WriteString(c.label("Priority", focusPriority))
	b.WriteString("  ")
	b.WriteString(c.renderPrioritySelector())
	b.WriteString("\n\n")

	b.WriteString(c.styles.Separator.Render(strings.Repeat("─", 60)))
	b.WriteString("\n\n")

	submitStyle := c.styles.MenuItem
	if c.focusIndex == focusSubmit {
		submitStyle = c.styles.MenuItemActive
	}
	b.WriteString(submitStyle.Render("[ Create Task ]"))
	b.WriteString("\n")

	if c.errText != "" {
		b.WriteString(c.styles.Error.Render(c.errText))
		b.WriteString("\n")
	}

	hints := []string{
		c.styles.MenuKey.Render("Tab") + " " + c.styles.Footer.Render("Switch fields"),
		c.styles.MenuKey.Render("Ctrl+S") + " " + c.styles.Footer.Render("Submit"),
	}
	if c.aiEnabled {
		hints = append(hints, c.styles.MenuKey.Render("Ctrl+G")+" "+c.styles.Footer.Render("AI description"))
	}
	hints = append(hints, c.styles.MenuKey.Render("Esc")+" "+c.styles.Footer.Render("Cancel"))
	b.WriteString(c.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

func (c *CreateTaskOverlay) label(text string, index int) string {
	if c.focusIndex == index {
		return c.styles.MenuItemActive.Render(text + ":")
	}
	return c.styles.Label.Render(text + ":")
}

// renderPrioritySelector renders the priority selector with current selection
func (c *CreateTaskOverlay) renderPrioritySelector() string {
	priorities := []struct {
		key string
		pri domain.Priority
	}{
		{"L", domain.PriorityLow},
		{"M", domain.PriorityMedium},
		{"H", domain.PriorityHigh},
	}

	var parts []string
	for _, p := range priorities {
		style := c.styles.MenuItem
		indicator := " "
		if p.pri == c.priority {
			style = c.styles.MenuItemActive
			indicator = "●"
		}
		parts = append(parts, style.Render(fmt.Sprintf("[%s%s]", indicator, p.key)))
	}

	return strings.Join(parts, " ")
}

// submit validates the form and emits a TaskSubmittedMsg
func (c *CreateTaskOverlay) submit() tea.Cmd {
	title := strings.TrimSpace(c.title.Value())
	if title == "" {
		c.errText = "Title is required"
		return nil
	}

	draft := domain.TaskDraft{
		Title:       title,
		Description: strings.TrimSpace(c.description.Value()),
		Priority:    c.priority,
		Status:      domain.StatusTodo,
		Category:    strings.TrimSpace(c.category.Value()),
	}

	if raw := strings.TrimSpace(c.due.Value()); raw != "" {
		due, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.errText = "Due date must be YYYY-MM-DD"
			return nil
		}
		draft.DueDate = &due
	}

	return tea.Batch(
		func() tea.Msg { return TaskSubmittedMsg{Draft: draft} },
		func() tea.Msg { return CloseOverlayMsg{} },
	)
}

// Title returns the overlay title
func (c *CreateTaskOverlay) Title() string {
	return "Create New Task"
}

// Size returns the overlay dimensions
func (c *CreateTaskOverlay) Size() (width, height int) {
	return 70, 24
}
