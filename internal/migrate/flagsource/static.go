package flagsource

import (
	"context"

	"github.com/dropDatabas3/nido/internal/migrate"
)

// Static es un source fijo en memoria. Para tests y modo dev.
type Static struct {
	cfg migrate.FlagConfig
}

// NewStatic crea un source que siempre retorna cfg.
func NewStatic(cfg migrate.FlagConfig) *Static {
	return &Static{cfg: cfg}
}

func (s *Static) Fetch(context.Context) (migrate.FlagConfig, error) {
	return s.cfg, nil
}
