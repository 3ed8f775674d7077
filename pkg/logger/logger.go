package logger

import (
	"go.uber.org/zap"
)

// NewLogger builds the process-wide zap logger. Local/development environments
// get the console encoder, everything else production JSON.
func NewLogger(env string) *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	switch env {
	case "local", "development":
		l, err = zap.NewDevelopment()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return l
}
