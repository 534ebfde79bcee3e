//go:build !windows

package autostart

// Registry access only exists on Windows; these stubs keep the dispatch
// in autostart.go compiling elsewhere. They are unreachable because the
// runtime.GOOS switch never selects them off-Windows.

func enableWindows() error  { return nil }
func disableWindows() error { return nil }
func isEnabledWindows() bool {
	return false
}
