//go:build !windows

package console

// newPlatformAPI reports the native console surface absent; UTF-8 output is
// assumed to work on every non-Windows platform.
func newPlatformAPI() consoleAPI { return nil }
