// Package logging builds the slog loggers used by the zpm CLI.
//
// The CLI logs to stderr through [Handler], a compact text handler that
// colors levels and keys when stderr is a terminal. Library packages never
// construct loggers themselves; they accept a *slog.Logger and default to
// a discarding one.
//
// In tests, use [ForTest] so log lines appear only for failing tests:
//
//	mgr, _ := toolchain.NewManager(toolchain.Options{Logger: logging.ForTest(t), ...})
package logging
