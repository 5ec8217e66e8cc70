// Package audit deja traza estructurada de eventos que requieren
// seguimiento fuera de banda (ej: divergencias de migración que hay
// que reconciliar a mano).
package audit

import (
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/nido/internal/observability/logger"
)

// Log escribe un evento de auditoría estructurado.
func Log(event string, fields map[string]any) {
	zf := make([]zap.Field, 0, len(fields)+2)
	zf = append(zf,
		zap.String("event", event),
		zap.String("ts", time.Now().UTC().Format(time.RFC3339Nano)),
	)
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	logger.Named("audit").Info("audit", zf...)
}
