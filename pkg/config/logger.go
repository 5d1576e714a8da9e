package config

import (
	"go.uber.org/zap"
)

// NewLogger builds the console logger used by the resolver: info level, or
// debug when Debug is set. Install it with zap.ReplaceGlobals.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level := zap.InfoLevel
	if c.Debug {
		level = zap.DebugLevel
	}
	lc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      c.Debug,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return lc.Build()
}
