// Package logging provides structured logging for folio.
//
// This package wraps Go's log/slog to provide JSON-formatted logs. The TUI
// owns the terminal, so logs go to a size-rotated file in the data
// directory and are the only record of why a resource failed to load or a
// transition was rejected.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger(dataDir, "INFO", logging.DefaultRotationConfig())
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.Info("preload started", "critical", 8)
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	res := logger.WithResource("logo", "image")
//	res.Warn("resource failed", "error", err)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"resource failed","resource":"logo","kind":"image","error":"..."}
//
// The splash controller tags entries with WithPhase, the fog coordinator
// with WithTransition.
package logging
