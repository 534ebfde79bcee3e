package platform

import "strings"

// All user-supplied strings that end up inside an AppleScript or
// PowerShell snippet must pass through one of these routines. Building
// script text by plain interpolation is an injection hole, since action
// values come straight from the configuration UI.

// escapeAppleScript escapes s for use inside a double-quoted AppleScript
// string literal.
func escapeAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// escapePowerShell escapes s for use inside a single-quoted PowerShell
// string literal.
func escapePowerShell(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// escapeSendKeys escapes literal text for the Windows Forms SendKeys
// grammar, where braces, modifiers and parens are metacharacters.
func escapeSendKeys(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '{', '}', '+', '^', '%', '~', '(', ')', '[', ']':
			b.WriteRune('{')
			b.WriteRune(r)
			b.WriteRune('}')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sendKeysNames maps neutral key names to SendKeys escape names.
var sendKeysNames = map[string]string{
	"ENTER":     "ENTER",
	"RETURN":    "ENTER",
	"TAB":       "TAB",
	"ESC":       "ESC",
	"ESCAPE":    "ESC",
	"SPACE":     " ",
	"BACKSPACE": "BACKSPACE",
	"DELETE":    "DELETE",
	"DEL":       "DELETE",
	"HOME":      "HOME",
	"END":       "END",
	"PAGEUP":    "PGUP",
	"PAGEDOWN":  "PGDN",
	"UP":        "UP",
	"DOWN":      "DOWN",
	"LEFT":      "LEFT",
	"RIGHT":     "RIGHT",
	"F1":        "F1",
	"F2":        "F2",
	"F3":        "F3",
	"F4":        "F4",
	"F5":        "F5",
	"F6":        "F6",
	"F7":        "F7",
	"F8":        "F8",
	"F9":        "F9",
	"F10":       "F10",
	"F11":       "F11",
	"F12":       "F12",
}

// sendKeysCombo renders a parsed combo as a SendKeys sequence, e.g.
// Ctrl+Shift+P -> "^+p". The Win modifier has no SendKeys encoding and is
// dropped by the caller.
func sendKeysCombo(c Combo) string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteByte('^')
	}
	if c.Shift {
		b.WriteByte('+')
	}
	if c.Alt {
		b.WriteByte('%')
	}
	if c.Key == "" {
		return ""
	}
	if name, ok := sendKeysNames[c.Key]; ok {
		if name == " " {
			b.WriteString(name)
		} else {
			b.WriteString("{" + name + "}")
		}
		return b.String()
	}
	if len([]rune(c.Key)) == 1 {
		b.WriteString(escapeSendKeys(strings.ToLower(c.Key)))
		return b.String()
	}
	// Unrecognized multi-character key name; try it as a SendKeys escape
	// so names like "ADD" still have a chance of working.
	b.WriteString("{" + c.Key + "}")
	return b.String()
}
