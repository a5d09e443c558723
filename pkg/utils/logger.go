package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "bus-booking.log"

// InitLogger tees every entry to stdout and to a rotated file under
// cfg.LogPath. Each entry carries the app name.
func InitLogger(cfg AppConfig) (*zap.Logger, error) {
	if cfg.LogPath != "" {
		if err := os.MkdirAll(cfg.LogPath, 0755); err != nil {
			return nil, err
		}
	}

	level := zap.InfoLevel
	if cfg.Debug {
		level = zap.DebugLevel
	}

	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogPath, logFileName),
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
		Compress:   true,
	})

	core := zapcore.NewTee(
		// the file always gets JSON so it can be shipped as is
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), fileWriter, level),
		zapcore.NewCore(consoleEncoder(cfg.Debug), zapcore.Lock(os.Stdout), level),
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("app", cfg.Name)),
	), nil
}

func encoderConfig(debug bool) zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	if debug {
		config = zap.NewDevelopmentEncoderConfig()
	}
	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	config.CallerKey = "caller"
	config.EncodeCaller = zapcore.ShortCallerEncoder
	return config
}

// consoleEncoder is human readable in debug, JSON otherwise.
func consoleEncoder(debug bool) zapcore.Encoder {
	if debug {
		return zapcore.NewConsoleEncoder(encoderConfig(true))
	}
	return zapcore.NewJSONEncoder(encoderConfig(false))
}
