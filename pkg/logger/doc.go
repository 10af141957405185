// Package logger provides the structured logging interface used across emojigrab.
//
// It wraps zerolog with:
//   - leveled logging (Debug, Info, Warn, Error)
//   - structured fields via WithField, WithFields and the *WithFields helpers
//   - a pretty console writer on stderr, coloured only on a terminal
//   - optional file output alongside the console
//   - a per-run identifier attached to every entry
//
// Basic usage:
//
//	cfg := &config.LoggingConfig{Level: "info"}
//	if err := logger.Initialize(cfg, logger.StderrColor()); err != nil {
//	    return err
//	}
//
//	log := logger.GetLogger()
//	log.Info("Fetching emoji list")
//	log.WithField("instance", "misskey.io").Info("Emoji list fetched")
//	log.WithError(err).Warn("Download failed")
//
// Tests should use NewNopLogger or NewTestLogger instead of the global logger.
package logger
