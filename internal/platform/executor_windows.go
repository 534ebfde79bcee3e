//go:build windows

package platform

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"golang.org/x/sys/windows"
)

// Windows implementation using SendKeys via PowerShell for injection and
// ShellExecute for launching.

type winExecutor struct{}

func newPlatformExecutor() Executor {
	return &winExecutor{}
}

func (e *winExecutor) SendHotkey(ctx context.Context, spec string) error {
	combo := ParseCombo(spec)
	if len(combo.Unknown) > 0 {
		log.Printf("Executor: ignoring unrecognized keys %v in %q", combo.Unknown, spec)
	}
	if combo.Super {
		// SendKeys has no Win-key encoding.
		log.Printf("Executor: Win modifier in %q is not injectable, dropped", spec)
	}

	seq := sendKeysCombo(combo)
	if seq == "" {
		return nil
	}
	return sendKeys(ctx, seq)
}

func (e *winExecutor) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	return sendKeys(ctx, escapeSendKeys(text))
}

func (e *winExecutor) Open(ctx context.Context, target string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	if err := windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL); err != nil {
		return fmt.Errorf("shell open %q: %w", target, err)
	}
	return nil
}

func (e *winExecutor) BrowseFile(ctx context.Context) (string, error) {
	script := `Add-Type -AssemblyName System.Windows.Forms; ` +
		`$d = New-Object System.Windows.Forms.OpenFileDialog; ` +
		`if ($d.ShowDialog() -eq [System.Windows.Forms.DialogResult]::OK) { $d.FileName }`

	out, err := runPowerShell(ctx, script)
	if err != nil {
		log.Printf("Executor: file dialog failed: %v", err)
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

func sendKeys(ctx context.Context, seq string) error {
	script := fmt.Sprintf(
		`Add-Type -AssemblyName System.Windows.Forms; [System.Windows.Forms.SendKeys]::SendWait('%s')`,
		escapePowerShell(seq))
	_, err := runPowerShell(ctx, script)
	if err != nil {
		return fmt.Errorf("sendkeys: %w", err)
	}
	return nil
}

func runPowerShell(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	out, err := cmd.Output()
	if err != nil {
		var stderr []byte
		if ee, ok := err.(*exec.ExitError); ok {
			stderr = bytes.TrimSpace(ee.Stderr)
		}
		return nil, fmt.Errorf("powershell: %v: %s", err, stderr)
	}
	return out, nil
}
