//go:build !windows

// Package console handles Windows console quirks. Elsewhere it is a no-op.
package console

// LaunchedFromExplorer is always false outside Windows.
func LaunchedFromExplorer() bool {
	return false
}

// SetupConsoleHandler returns a no-op; os/signal works fine on Unix.
func SetupConsoleHandler(shutdown chan struct{}) func() {
	return func() {}
}
