// Package flagsource provee los adapters de origen de configuración de
// flags para migrate.FlagManager: estático (tests/dev), archivo YAML,
// redis y servicio HTTP.
//
// Todos comparten el mismo documento de wire (Document), con tags YAML
// y JSON, así el mismo contenido sirve en archivo, en una key de redis
// o como respuesta del servicio de flags.
package flagsource

import (
	"fmt"

	"github.com/dropDatabas3/nido/internal/migrate"
)

// Document es la representación serializable de la config de flags.
type Document struct {
	Version   string                 `yaml:"version" json:"version"`
	Endpoints map[string]EndpointDoc `yaml:"endpoints" json:"endpoints"`
}

// EndpointDoc configuración de rollout de un endpoint lógico.
type EndpointDoc struct {
	Kill  bool      `yaml:"kill" json:"kill"`
	Deny  []string  `yaml:"deny,omitempty" json:"deny,omitempty"`
	Allow []string  `yaml:"allow,omitempty" json:"allow,omitempty"`
	Tiers []TierDoc `yaml:"tiers" json:"tiers"`
}

// TierDoc un escalón de rollout: modo + porcentaje.
type TierDoc struct {
	Mode    string `yaml:"mode" json:"mode"`
	Percent int    `yaml:"percent" json:"percent"`
}

// ToConfig valida y convierte el documento al tipo del manager.
func (d Document) ToConfig() (migrate.FlagConfig, error) {
	cfg := migrate.FlagConfig{
		Version:   d.Version,
		Endpoints: make(map[string]migrate.EndpointConfig, len(d.Endpoints)),
	}
	for name, ep := range d.Endpoints {
		out := migrate.EndpointConfig{
			Kill:  ep.Kill,
			Deny:  ep.Deny,
			Allow: ep.Allow,
		}
		for _, t := range ep.Tiers {
			mode, err := migrate.ParseMode(t.Mode)
			if err != nil {
				return migrate.FlagConfig{}, fmt.Errorf("flagsource: endpoint %q: %w", name, err)
			}
			if t.Percent < 0 || t.Percent > 100 {
				return migrate.FlagConfig{}, fmt.Errorf("flagsource: endpoint %q: percent %d fuera de [0,100]", name, t.Percent)
			}
			out.Tiers = append(out.Tiers, migrate.Tier{Mode: mode, Percent: t.Percent})
		}
		cfg.Endpoints[name] = out
	}
	return cfg, nil
}
