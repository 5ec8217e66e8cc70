package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Into guarda un logger scoped en el contexto (ej: con request_id).
func Into(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From recupera el logger del contexto, o el singleton si no hay.
func From(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return L()
}
