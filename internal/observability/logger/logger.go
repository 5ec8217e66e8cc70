package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger del proceso.
type Config struct {
	// Env: "dev" (consola con colores) o "prod" (JSON). Default "dev".
	Env string
	// Level mínimo: "debug", "info", "warn", "error". Default "info".
	Level string
	// ServiceName y Version se agregan como campos base. Opcionales.
	ServiceName string
	Version     string
}

var (
	once     sync.Once
	instance *zap.Logger
)

// Init inicializa el singleton. Idempotente: solo la primera llamada
// tiene efecto. Llamar al inicio del proceso (main).
func Init(cfg Config) {
	once.Do(func() {
		instance = build(cfg)
	})
}

// L retorna el logger singleton. Si Init no fue llamado, crea uno
// default (dev, info).
func L() *zap.Logger {
	if instance == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return instance
}

// Named retorna un logger con nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// With retorna un logger con campos persistentes adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea buffers pendientes. Llamar con defer en main.
func Sync() error {
	if instance != nil {
		return instance.Sync()
	}
	return nil
}

func build(cfg Config) *zap.Logger {
	var zcfg zap.Config
	if strings.EqualFold(cfg.Env, "prod") {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		l, _ = zap.NewProduction()
	}
	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	if cfg.Version != "" {
		l = l.With(zap.String("version", cfg.Version))
	}
	return l
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
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
