//go:build darwin

package platform

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// macOS implementation driving System Events through osascript.

type macExecutor struct{}

func newPlatformExecutor() Executor {
	return &macExecutor{}
}

// macKeyCodes maps neutral key names to macOS virtual key codes for keys
// that have no character representation.
var macKeyCodes = map[string]int{
	"ENTER":     36,
	"RETURN":    36,
	"TAB":       48,
	"SPACE":     49,
	"ESC":       53,
	"ESCAPE":    53,
	"BACKSPACE": 51,
	"DELETE":    117,
	"DEL":       117,
	"HOME":      115,
	"END":       119,
	"PAGEUP":    116,
	"PAGEDOWN":  121,
	"LEFT":      123,
	"RIGHT":     124,
	"DOWN":      125,
	"UP":        126,
	"F1":        122,
	"F2":        120,
	"F3":        99,
	"F4":        118,
	"F5":        96,
	"F6":        97,
	"F7":        98,
	"F8":        100,
	"F9":        101,
	"F10":       109,
	"F11":       103,
	"F12":       111,
}

func (e *macExecutor) SendHotkey(ctx context.Context, spec string) error {
	combo := ParseCombo(spec)
	if len(combo.Unknown) > 0 {
		log.Printf("Executor: ignoring unrecognized keys %v in %q", combo.Unknown, spec)
	}

	var using []string
	if combo.Ctrl {
		using = append(using, "control down")
	}
	if combo.Shift {
		using = append(using, "shift down")
	}
	if combo.Alt {
		using = append(using, "option down")
	}
	if combo.Super {
		using = append(using, "command down")
	}

	var stmt string
	switch {
	case combo.Key == "":
		// Modifier-only spec, nothing to press.
		return nil
	default:
		if code, ok := macKeyCodes[combo.Key]; ok {
			stmt = fmt.Sprintf("key code %d", code)
		} else {
			stmt = fmt.Sprintf(`keystroke "%s"`, escapeAppleScript(strings.ToLower(combo.Key)))
		}
	}

	switch len(using) {
	case 0:
	case 1:
		stmt += " using " + using[0]
	default:
		stmt += " using {" + strings.Join(using, ", ") + "}"
	}

	return runOsascript(ctx, `tell application "System Events" to `+stmt)
}

func (e *macExecutor) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	script := fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escapeAppleScript(text))
	return runOsascript(ctx, script)
}

func (e *macExecutor) Open(ctx context.Context, target string) error {
	out, err := exec.CommandContext(ctx, "open", target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("open %q: %v: %s", target, err, bytes.TrimSpace(out))
	}
	return nil
}

func (e *macExecutor) BrowseFile(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "osascript", "-e", "POSIX path of (choose file)").Output()
	if err != nil {
		// Cancelled dialogs exit non-zero; the caller treats that the
		// same as an empty selection.
		log.Printf("Executor: file dialog closed without selection: %v", err)
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

func runOsascript(ctx context.Context, script string) error {
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript: %v: %s", err, bytes.TrimSpace(out))
	}
	return nil
}
