package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level     string
	Format    string // console|json
	AddCaller bool
	Env       string
}

func New(opts Options) *zap.SugaredLogger {
	level := parseLevel(opts.Level)

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	if strings.ToLower(strings.TrimSpace(opts.Format)) == "json" {
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Encoding = "json"
		cfg.EncoderConfig = encCfg
	}
	cfg.DisableCaller = !opts.AddCaller

	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}

	s := l.Sugar()

	env := strings.TrimSpace(opts.Env)
	if env != "" {
		s = s.With("env", env)
	}

	return s
}

func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
