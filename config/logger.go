package config

import (
	"os"

	"go.uber.org/zap"
)

var Logger *zap.Logger = zap.NewNop()

// InitLogger builds the global logger. APP_ENV=dev switches to the
// human-readable development config.
func InitLogger() *zap.Logger {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("APP_ENV") == "dev" {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		l = zap.NewNop()
	}
	Logger = l
	return l
}
