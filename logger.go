package main

import (
	"fmt"

	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// Logger returns the process logger. Until initLogger runs it discards
// everything, which keeps tests quiet.
func Logger() *zap.SugaredLogger {
	return logger
}

// initLogger replaces the process logger. Output goes to stderr so that
// print mode can own stdout.
func initLogger(level string, development bool) error {
	lvl, err := zap.ParseAtomicLevel(level)

	if err != nil {
		return fmt.Errorf("cannot parse log level '%s': %s", level, err)
	}

	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Encoding = "console"
	}
	config.Level = lvl

	l, err := config.Build()

	if err != nil {
		return fmt.Errorf("cannot build logger: %s", err)
	}

	logger = l.Sugar()
	return nil
}
