// Package platform provides OS-specific command execution for action trees.
package platform

import "context"

// Executor abstracts the native key-injection, launch and dialog facilities
// that action commands run against.
type Executor interface {
	// SendHotkey injects a key combination described by a neutral spec
	// such as "Ctrl+Shift+P". Unknown modifier markers are ignored.
	SendHotkey(ctx context.Context, spec string) error

	// TypeText injects literal text as keystrokes.
	TypeText(ctx context.Context, text string) error

	// Open opens a URL or launches a file/program via the OS default handler.
	Open(ctx context.Context, target string) error

	// BrowseFile shows a native file-selection dialog. It returns an empty
	// path when the user cancels or the dialog fails; neither is an error
	// to the caller.
	BrowseFile(ctx context.Context) (string, error)
}

// New returns the executor for the current platform.
// Implemented in platform-specific files (executor_darwin.go,
// executor_windows.go, executor_other.go).
func New() Executor {
	return newPlatformExecutor()
}
