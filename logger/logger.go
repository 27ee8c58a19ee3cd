// Package logger provides structured logging for lattice.
//
// It wraps Uber's zap logger to provide high-performance, structured
// logging with configurable log levels, and initializes a global logger
// instance for use throughout the application:
//
//	logger.InitLogger("debug") // Options: debug, info, warn, error
//
//	logger.Log.Info("decision resolved",
//	    zap.String("tuple", tuple),
//	    zap.Bool("allowed", allowed),
//	)
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Log *zap.Logger

func InitLogger(level string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Log, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}
