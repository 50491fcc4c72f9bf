package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var L *zap.Logger

func init() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(levelFromEnv())
	var err error
	L, err = config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
}

// LOG_LEVEL is read here rather than through config: the logger must exist
// before configuration loading can report problems.
func levelFromEnv() zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// WithComponent returns a logger tagged with a component field, used by
// handlers, services, the queue and the sweeper.
func WithComponent(component string) *zap.Logger {
	return L.With(zap.String("component", component))
}
