package logger

import (
	"sync"

	"dealer-service/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// InitLogger configures the global logger from application config.
// Safe to call once at startup; GetLogger falls back to a production
// logger if InitLogger was never called.
func InitLogger(cfg *config.Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// GetLogger returns the process-wide logger
func GetLogger() *zap.Logger {
	once.Do(func() {
		instance = build(nil)
	})
	return instance
}

func build(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	env := "development"
	if cfg != nil {
		switch cfg.Log.Level {
		case "debug":
			level = zapcore.DebugLevel
		case "info":
			level = zapcore.InfoLevel
		case "warn":
			level = zapcore.WarnLevel
		case "error":
			level = zapcore.ErrorLevel
		}
		env = cfg.Server.Env
	}

	var zapCfg zap.Config
	if env == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stdout"}

	logger, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
