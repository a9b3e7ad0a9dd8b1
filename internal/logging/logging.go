package logging

import (
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelProd  = "prod"
)

// New builds the application logger. Level "prod" switches to the JSON
// production encoder; anything else logs human-readable console lines.
// When file is set, a rotating copy of every entry is also written there.
func New(level, file string) *zap.Logger {
	var encCfg zapcore.EncoderConfig
	minLevel := zapcore.InfoLevel
	prod := strings.EqualFold(level, LevelProd)
	switch strings.ToLower(level) {
	case LevelProd:
		encCfg = zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	case LevelDebug:
		encCfg = zap.NewDevelopmentEncoderConfig()
		minLevel = zapcore.DebugLevel
	default:
		encCfg = zap.NewDevelopmentEncoderConfig()
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= minLevel && lvl < zapcore.ErrorLevel
	})

	// Machine-readable output in prod, coloured levels for operators otherwise.
	var consoleEncoder zapcore.Encoder
	if prod {
		consoleEncoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		consoleCfg := encCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		consoleEncoder = zapcore.NewConsoleEncoder(consoleCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), highPriority),
		zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), lowPriority),
	}
	if file != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    20, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			LocalTime:  true,
		})
		fileLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool { return lvl >= minLevel })
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, fileLevel))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}
