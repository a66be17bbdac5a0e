package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局日志，Init 之前为 no-op
var Log = zap.NewNop().Sugar()

// Init replaces Log with a production (or development) zap logger at level.
func Init(level string, development bool) error {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	Log = logger.Sugar()
	return nil
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
