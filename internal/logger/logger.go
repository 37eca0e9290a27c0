package logger

import "go.uber.org/zap"

// Log is the package-level logger. It is a nop until Initialize is called.
var Log = zap.NewNop()

// Initialize builds the production logger with the given level
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = l
	return nil
}
