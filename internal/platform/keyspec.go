package platform

import "strings"

// Combo is a parsed platform-neutral key combination.
type Combo struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Super bool // Cmd on macOS, Win key elsewhere

	// Key is the non-modifier key name, upper-cased (e.g. "P", "F5",
	// "ENTER"). Empty for modifier-only specs.
	Key string

	// Unknown holds markers that were not recognized. They are dropped
	// rather than failing the whole combo.
	Unknown []string
}

// ParseCombo splits a spec such as "Ctrl+Alt+P" on '+'. Parsing is
// case-insensitive and never fails; unusable parts end up in Unknown.
func ParseCombo(spec string) Combo {
	var c Combo
	for _, part := range strings.Split(spec, "+") {
		p := strings.ToUpper(strings.TrimSpace(part))
		switch p {
		case "":
			continue
		case "CTRL", "CONTROL":
			c.Ctrl = true
		case "SHIFT":
			c.Shift = true
		case "ALT", "OPT", "OPTION":
			c.Alt = true
		case "CMD", "COMMAND", "WIN", "SUPER", "META":
			c.Super = true
		default:
			if c.Key != "" {
				// Only one non-modifier key per combo; keep the last.
				c.Unknown = append(c.Unknown, c.Key)
			}
			c.Key = p
		}
	}
	return c
}
