// Package logging provides structured, subsystem-tagged logging for toolhub.
//
// The package wraps Go's log/slog with a small set of helpers so call sites
// read the same everywhere:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("ConfigStore", "Saved tool %s", name)
//	logging.Debug("Probe", "Listing tools for %s", name)
//	logging.Warn("Aggregator", "Discovery timed out after %s", timeout)
//	logging.Error("Turn", err, "Failed to persist interaction")
//
// Every entry carries a "subsystem" attribute and, for Error, an "error"
// attribute. Until InitForCLI is called all calls are no-ops, so library
// packages can log freely without forcing tests to configure output.
//
// The logger is safe for concurrent use.
package logging
