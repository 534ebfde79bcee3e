//go:build !windows && !darwin

package platform

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// Fallback implementation for X11/Wayland desktops: xdotool for injection,
// xdg-open for launching, zenity for the file dialog. Arguments are passed
// as vectors, never through a shell.

type unixExecutor struct{}

func newPlatformExecutor() Executor {
	return &unixExecutor{}
}

// xdotoolNames maps neutral key names to xdotool keysyms where they differ.
var xdotoolNames = map[string]string{
	"ENTER":     "Return",
	"RETURN":    "Return",
	"TAB":       "Tab",
	"SPACE":     "space",
	"ESC":       "Escape",
	"ESCAPE":    "Escape",
	"BACKSPACE": "BackSpace",
	"DELETE":    "Delete",
	"DEL":       "Delete",
	"HOME":      "Home",
	"END":       "End",
	"PAGEUP":    "Page_Up",
	"PAGEDOWN":  "Page_Down",
	"UP":        "Up",
	"DOWN":      "Down",
	"LEFT":      "Left",
	"RIGHT":     "Right",
}

func (e *unixExecutor) SendHotkey(ctx context.Context, spec string) error {
	combo := ParseCombo(spec)
	if len(combo.Unknown) > 0 {
		log.Printf("Executor: ignoring unrecognized keys %v in %q", combo.Unknown, spec)
	}

	var parts []string
	if combo.Ctrl {
		parts = append(parts, "ctrl")
	}
	if combo.Shift {
		parts = append(parts, "shift")
	}
	if combo.Alt {
		parts = append(parts, "alt")
	}
	if combo.Super {
		parts = append(parts, "super")
	}
	if combo.Key != "" {
		name, ok := xdotoolNames[combo.Key]
		if !ok {
			name = strings.ToLower(combo.Key)
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return nil
	}
	return run(ctx, "xdotool", "key", "--clearmodifiers", strings.Join(parts, "+"))
}

func (e *unixExecutor) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return run(ctx, "xdotool", "type", "--clearmodifiers", "--", text)
}

func (e *unixExecutor) Open(ctx context.Context, target string) error {
	return run(ctx, "xdg-open", target)
}

func (e *unixExecutor) BrowseFile(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "zenity", "--file-selection").Output()
	if err != nil {
		// zenity exits 1 on cancel, which the caller treats as an empty
		// selection.
		log.Printf("Executor: file dialog closed without selection: %v", err)
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

func run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %v: %s", name, err, bytes.TrimSpace(out))
	}
	return nil
}
