package overlay

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// NoteSubmittedMsg is emitted when a new note is written
type NoteSubmittedMsg struct {
	Draft domain.NoteDraft
}

// NoteUpdatedMsg carries the edited text for an existing note
type NoteUpdatedMsg struct {
	NoteID string
	Draft  domain.NoteDraft
}

// NoteDeleteMsg asks the app to delete a note
type NoteDeleteMsg struct {
	NoteID string
}

// NotesOverlay lists quick notes with add, edit and delete actions
type NotesOverlay struct {
	notes   []domain.Note
	cursor  int
	writing bool
	editing string // note id being edited; empty when writing a new note
	content string // edited note's content, carried through the update
	input   textinput.Model
	styles  *Styles
}

// NewNotesOverlay creates the notes overlay
func NewNotesOverlay(notes []domain.Note) *NotesOverlay {
	ti := textinput.New()
	ti.Placeholder = "Write a note..."
	ti.CharLimit = 500
	ti.Width = 56

	return &NotesOverlay{
		notes:  notes,
		input:  ti,
		styles: New(),
	}
}

// Init initializes the overlay
func (n *NotesOverlay) Init() tea.Cmd {
	return nil
}

// SetNotes refreshes the listing after the underlying state changes
func (n *NotesOverlay) SetNotes(notes []domain.Note) {
	n.notes = notes
	if n.cursor >= len(notes) {
		n.cursor = max(0, len(notes)-1)
	}
}

// Update handles messages
func (n *NotesOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return n, nil
	}

	if n.writing {
		switch keyMsg.String() {
		case "esc":
			n.writing = false
			n.editing = ""
			n.input.SetValue("")
			return n, nil
		case "enter":
			text := strings.TrimSpace(n.input.Value())
			noteID, content := n.editing, n.content
			n.writing = false
			n.editing = ""
			n.input.SetValue("")
			if text == "" {
				return n, nil
			}
			if noteID != "" {
				return n, func() tea.Msg {
					return NoteUpdatedMsg{NoteID: noteID, Draft: domain.NoteDraft{Title: text, Content: content}}
				}
			}
			return n, func() tea.Msg {
				return NoteSubmittedMsg{Draft: domain.NoteDraft{Title: text}}
			}
		}
		var cmd tea.Cmd
		n.input, cmd = n.input.Update(msg)
		return n, cmd
	}

	switch keyMsg.String() {
	case "esc", "q":
		return n, func() tea.Msg { return CloseOverlayMsg{} }

	case "j", "down":
		if n.cursor < len(n.notes)-1 {
			n.cursor++
		}
		return n, nil

	case "k", "up":
		if n.cursor > 0 {
			n.cursor--
		}
		return n, nil

	case "n", "a":
		n.writing = true
		n.input.Focus()
		return n, textinput.Blink

	case "e":
		if n.cursor >= len(n.notes) {
			return n, nil
		}
		note := n.notes[n.cursor]
		n.writing = true
		n.editing = note.ID
		n.content = note.Content
		n.input.SetValue(note.Title)
		n.input.CursorEnd()
		n.input.Focus()
		return n, textinput.Blink

	case "d":
		if n.cursor >= len(n.notes) {
			return n, nil
		}
		noteID := n.notes[n.cursor].ID
		return n, func() tea.Msg { return NoteDeleteMsg{NoteID: noteID} }
	}

	return n, nil
}

// View renders the notes listing
func (n *NotesOverlay) View() string {
	var b strings.Builder

	if n.writing {
		label := "New note:"
		if n.editing != "" {
			label = "Edit note:"
		}
		b.WriteString(n.styles.Label.Render(label))
		b.WriteString("\n")
		b.WriteString(n.input.View())
		b.WriteString("\n")
		b.WriteString(n.styles.Footer.Render("Enter: Save • Esc: Cancel"))
		return b.String()
	}

	if len(n.notes) == 0 {
		b.WriteString(n.styles.Muted.Render("No notes yet"))
		b.WriteString("\n")
	}

	for i, note := range n.notes {
		cursor := "  "
		style := n.styles.MenuItem
		if i == n.cursor {
			cursor = "▶ "
			style = n.styles.MenuItemActive
		}

		line := note.Title
		if note.Content != "" {
			line = fmt.Sprintf("%s — %s", note.Title, note.Content)
		}
		b.WriteString(cursor + style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := []string{
		n.styles.MenuKey.Render("n") + " " + n.styles.Footer.Render("New note"),
		n.styles.MenuKey.Render("e") + " " + n.styles.Footer.Render("Edit"),
		n.styles.MenuKey.Render("d") + " " + n.styles.Footer.Render("Delete"),
		n.styles.MenuKey.Render("Esc") + " " + n.styles.Footer.Render("Close"),
	}
	b.WriteString(n.styles.Footer.Render(strings.Join(hints, " • ")))

	return b.String()
}

// Title returns the overlay title
func (n *NotesOverlay) Title() string {
	return "Notes"
}

// Size returns the overlay dimensions
func (n *NotesOverlay) Size() (width, height int) {
	return 70, max(8, len(n.notes)+6)
}
