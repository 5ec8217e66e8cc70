package migrate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/nido/internal/metrics"
	"github.com/dropDatabas3/nido/internal/observability/logger"
)

// Tier asocia un modo con su porcentaje de rollout. Los tiers se evalúan
// en el orden declarado: el primero cuyo Percent supera el bucket gana.
// Convención: el tier más agresivo (ej. cutover) va primero con el
// porcentaje más chico.
type Tier struct {
	Mode    RoutingMode
	Percent int // [0,100]
}

// EndpointConfig es la configuración de rollout de un endpoint lógico.
type EndpointConfig struct {
	// Kill fuerza ModePrimaryOnly sin importar el resto. Máxima precedencia.
	Kill bool

	// Deny: routing keys forzadas a ModePrimaryOnly.
	Deny []string

	// Allow: routing keys forzadas al modo objetivo del endpoint.
	Allow []string

	// Tiers de rollout por porcentaje, del más agresivo al más suave.
	Tiers []Tier
}

// TargetMode retorna el modo no-default configurado del endpoint: el del
// primer tier. Es el modo que reciben las keys en la allow-list.
func (e EndpointConfig) TargetMode() RoutingMode {
	if len(e.Tiers) > 0 {
		return e.Tiers[0].Mode
	}
	return ModePrimaryOnly
}

// FlagConfig es una versión completa de la configuración de flags.
type FlagConfig struct {
	// Version identifica la versión de config (para logs y determinismo).
	Version string

	// Endpoints por tag de endpoint lógico (ej. "/api/budget").
	Endpoints map[string]EndpointConfig
}

// Source provee la configuración de flags desde un backend externo
// (archivo, redis, servicio HTTP). Ver internal/migrate/flagsource.
type Source interface {
	Fetch(ctx context.Context) (FlagConfig, error)
}

const cfgCacheKey = "flagconfig"

// FlagManagerOptions tuning del manager.
type FlagManagerOptions struct {
	// TTL de la config cacheada. Default 30s.
	TTL time.Duration
	// FetchTimeout del refresh en background. Default 5s.
	FetchTimeout time.Duration
}

// FlagManager resuelve el RoutingMode por (endpoint, routing key).
//
// La resolución nunca bloquea en red ni falla: usa la config cacheada,
// cae a la última conocida si el cache expiró, y al default seguro
// (ModePrimaryOnly) si nunca hubo config.
type FlagManager struct {
	src   Source
	cache *gocache.Cache
	ttl   time.Duration
	ftout time.Duration
	sf    singleflight.Group
	log   *zap.Logger

	mu       sync.RWMutex
	last     FlagConfig
	haveLast bool
}

// NewFlagManager crea el manager. No hace I/O; llamar Prime para el
// fetch inicial sincrónico.
func NewFlagManager(src Source, opts FlagManagerOptions) *FlagManager {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Second
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 5 * time.Second
	}
	return &FlagManager{
		src:   src,
		cache: gocache.New(opts.TTL, time.Minute),
		ttl:   opts.TTL,
		ftout: opts.FetchTimeout,
		log:   logger.Named("migrate.flags"),
	}
}

// Prime hace un fetch sincrónico inicial. Pensado para el arranque del
// proceso; un error no es fatal (se seguirá intentando en background).
func (m *FlagManager) Prime(ctx context.Context) error {
	cfg, err := m.src.Fetch(ctx)
	if err != nil {
		metrics.FlagRefreshFailures.Inc()
		return err
	}
	m.store(cfg)
	return nil
}

// Current retorna la config vigente (cacheada o última conocida).
func (m *FlagManager) Current() (FlagConfig, bool) {
	return m.config()
}

// Resolve determina el modo para (endpoint, key).
//
// Precedencia: kill switch → deny-list → allow-list → bucket vs tiers →
// ModePrimaryOnly. Determinístico para una misma versión de config.
func (m *FlagManager) Resolve(endpoint, key string) RoutingMode {
	cfg, ok := m.config()
	if !ok {
		return ModePrimaryOnly
	}
	ep, ok := cfg.Endpoints[endpoint]
	if !ok {
		return ModePrimaryOnly
	}
	if ep.Kill {
		return ModePrimaryOnly
	}
	if key != "" {
		for _, d := range ep.Deny {
			if d == key {
				return ModePrimaryOnly
			}
		}
		for _, a := range ep.Allow {
			if a == key {
				return ep.TargetMode()
			}
		}
	}
	b := Bucket(key)
	for _, t := range ep.Tiers {
		if b < t.Percent {
			return t.Mode
		}
	}
	return ModePrimaryOnly
}

func (m *FlagManager) config() (FlagConfig, bool) {
	if v, ok := m.cache.Get(cfgCacheKey); ok {
		return v.(FlagConfig), true
	}
	m.refreshAsync()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.haveLast {
		// Config vencida pero conocida: mejor stale que default.
		return m.last, true
	}
	return FlagConfig{}, false
}

func (m *FlagManager) store(cfg FlagConfig) {
	m.cache.Set(cfgCacheKey, cfg, m.ttl)
	m.mu.Lock()
	m.last = cfg
	m.haveLast = true
	m.mu.Unlock()
}

// refreshAsync dispara un refresh en background. singleflight garantiza
// un solo fetch en vuelo aunque muchas invocaciones encuentren el cache
// vencido a la vez.
func (m *FlagManager) refreshAsync() {
	go func() {
		_, _, _ = m.sf.Do(cfgCacheKey, func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), m.ftout)
			defer cancel()
			cfg, err := m.src.Fetch(ctx)
			if err != nil {
				metrics.FlagRefreshFailures.Inc()
				m.log.Warn("flag refresh falló, usando última config conocida", zap.Error(err))
				return nil, err
			}
			m.store(cfg)
			m.log.Debug("flag config refrescada", zap.String("version", cfg.Version))
			return cfg, nil
		})
	}()
}
