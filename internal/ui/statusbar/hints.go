package statusbar

import "github.com/tamarindhq/tamarind/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeNormal:
		return "h/l: columns  j/k: tasks  Enter: detail  c: create  ?: help  q: quit"
	case types.ModeSearch:
		return "Type to search  Enter: confirm  Esc: cancel"
	default:
		return ""
	}
}
