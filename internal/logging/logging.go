// Package logging builds the zap.Logger every other package takes as
// a constructor argument, following nodestorage/core/nstlog's
// level-parsing and JSON-encoder setup and idledungeon/pkg/server's
// habit of passing *zap.Logger explicitly rather than reaching for a
// package-global.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a JSON-encoded zap.Logger writing to stdout at level.
// Recognized levels: debug, info, warn, error; anything else falls
// back to info.
func New(level string) (*zap.Logger, error) {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		parseLevel(level),
	)

	return zap.New(core, zap.AddCaller()), nil
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// MustNew is New, panicking on error — used at program startup in
// cmd/docmoduled, where there is no logger yet to report the error to.
func MustNew(level string) *zap.Logger {
	l, err := New(level)
	if err != nil {
		panic(fmt.Sprintf("logging: %v", err))
	}
	return l
}
