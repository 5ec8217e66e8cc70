package migrate

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropDatabas3/nido/internal/metrics"
	"github.com/dropDatabas3/nido/internal/observability/logger"
)

// Core orquesta el enrutamiento dual-write de un endpoint lógico.
// Los decoradores por-interface de internal/store/dualwrite enrutan
// cada método a través de Do / DoRead / Exec con un Core compartido.
//
// El Core no guarda estado entre invocaciones más allá del cache de
// flags y la cola shadow, ambos propios de sus colaboradores.
type Core struct {
	endpoint string
	flags    *FlagManager
	verifier *Verifier
	reporter Reporter
	pool     *ShadowPool
	stout    time.Duration
	log      *zap.Logger
}

// CoreConfig configuración de un Core.
type CoreConfig struct {
	// Endpoint es el tag lógico para routing y telemetría
	// (ej. "/api/budget"). No es una ruta HTTP.
	Endpoint string

	Flags    *FlagManager
	Verifier *Verifier // nil = verificador default
	Reporter Reporter  // nil = DefaultReporter
	Pool     *ShadowPool

	// SecondaryTimeout presupuesto del secundario en VERIFY_READ.
	// Default 2s. Debe ser menor al SLA del caller.
	SecondaryTimeout time.Duration
}

// NewCore crea el core de migración para un endpoint.
func NewCore(cfg CoreConfig) *Core {
	if cfg.Verifier == nil {
		cfg.Verifier = NewVerifier(VerifierOptions{})
	}
	if cfg.Reporter == nil {
		cfg.Reporter = DefaultReporter()
	}
	if cfg.SecondaryTimeout <= 0 {
		cfg.SecondaryTimeout = 2 * time.Second
	}
	return &Core{
		endpoint: cfg.Endpoint,
		flags:    cfg.Flags,
		verifier: cfg.Verifier,
		reporter: cfg.Reporter,
		pool:     cfg.Pool,
		stout:    cfg.SecondaryTimeout,
		log:      logger.Named("migrate").With(zap.String("endpoint", cfg.Endpoint)),
	}
}

// Endpoint retorna el tag lógico del core.
func (c *Core) Endpoint() string { return c.endpoint }

// Do enruta una operación de escritura (o lectura no verificable).
// Bajo VERIFY_READ las escrituras pasan directo al primario.
func Do[T any](ctx context.Context, c *Core, op, key string, primary, secondary func(context.Context) (T, error)) (T, error) {
	return dispatch(ctx, c, op, key, false, primary, secondary)
}

// DoRead enruta una operación de lectura, elegible para VERIFY_READ.
func DoRead[T any](ctx context.Context, c *Core, op, key string, primary, secondary func(context.Context) (T, error)) (T, error) {
	return dispatch(ctx, c, op, key, true, primary, secondary)
}

// Exec enruta una operación sin valor de retorno (ej. Delete).
func Exec(ctx context.Context, c *Core, op, key string, primary, secondary func(context.Context) error) error {
	wrap := func(fn func(context.Context) error) func(context.Context) (struct{}, error) {
		return func(ctx context.Context) (struct{}, error) { return struct{}{}, fn(ctx) }
	}
	_, err := dispatch(ctx, c, op, key, false, wrap(primary), wrap(secondary))
	return err
}

func dispatch[T any](ctx context.Context, c *Core, op, key string, read bool, primary, secondary func(context.Context) (T, error)) (T, error) {
	inv := Invocation{
		ID:         uuid.NewString(),
		Endpoint:   c.endpoint,
		Op:         op,
		RoutingKey: key,
		StartedAt:  time.Now(),
	}
	mode := c.flags.Resolve(c.endpoint, key)
	if mode == ModeVerifyRead && !read {
		// VERIFY_READ solo aplica a lecturas.
		mode = ModePrimaryOnly
	}
	inv.Mode = mode

	switch mode {
	case ModeCutover:
		// El secundario es autoritativo; su error se propaga intacto.
		out, val := run(ctx, c, StoreSecondary, secondary)
		return val, out.Err

	case ModeShadow:
		return doShadow(ctx, c, inv, primary, secondary)

	case ModeDualSync:
		return doDualSync(ctx, c, inv, primary, secondary)

	case ModeVerifyRead:
		return doVerifyRead(ctx, c, inv, primary, secondary)

	default: // ModePrimaryOnly
		out, val := run(ctx, c, StorePrimary, primary)
		return val, out.Err
	}
}

// doShadow: primario autoritativo, secundario fire-and-forget en el
// pool con su propio timeout. Nada del camino shadow toca al caller.
func doShadow[T any](ctx context.Context, c *Core, inv Invocation, primary, secondary func(context.Context) (T, error)) (T, error) {
	p, val := run(ctx, c, StorePrimary, primary)
	ok := c.pool.Submit(func(bctx context.Context) {
		s, _ := run(bctx, c, StoreSecondary, secondary)
		if s.Err != nil && errors.Is(s.Err, context.DeadlineExceeded) {
			c.reporter.Skipped(inv, "timeout")
			return
		}
		c.report(inv, p, s)
	})
	if !ok {
		metrics.ShadowDroppedTotal.WithLabelValues(c.endpoint).Inc()
		c.reporter.Skipped(inv, "dropped")
	}
	return val, p.Err
}

// doDualSync: primario estrictamente antes que el secundario. Fallo del
// primario es fatal y aborta el secundario; fallo del secundario solo
// se reporta.
func doDualSync[T any](ctx context.Context, c *Core, inv Invocation, primary, secondary func(context.Context) (T, error)) (T, error) {
	p, val := run(ctx, c, StorePrimary, primary)
	if p.Err != nil {
		return val, p.Err
	}
	s, _ := run(ctx, c, StoreSecondary, secondary)
	if s.Err != nil && ctx.Err() != nil {
		// Request cancelado: el resultado del secundario no se observa.
		c.reporter.Skipped(inv, "cancelled")
		return val, nil
	}
	if s.Err != nil {
		c.log.Warn("secondary falló en dual_sync",
			zap.String("op", inv.Op), zap.Error(s.Err))
	}
	c.report(inv, p, s)
	return val, nil
}

// doVerifyRead: ambos stores en paralelo; el primario se retorna apenas
// resuelve. El secundario corre detached con timeout propio y la
// verificación del par queda en el pool.
func doVerifyRead[T any](ctx context.Context, c *Core, inv Invocation, primary, secondary func(context.Context) (T, error)) (T, error) {
	sch := make(chan Outcome, 1)
	sctx, scancel := context.WithTimeout(context.WithoutCancel(ctx), c.stout)
	go func() {
		defer scancel()
		s, _ := run(sctx, c, StoreSecondary, secondary)
		sch <- s
	}()

	p, val := run(ctx, c, StorePrimary, primary)

	ok := c.pool.Submit(func(bctx context.Context) {
		select {
		case s := <-sch:
			if s.Err != nil && errors.Is(s.Err, context.DeadlineExceeded) {
				c.reporter.Skipped(inv, "timeout")
				return
			}
			c.report(inv, p, s)
		case <-bctx.Done():
			c.reporter.Skipped(inv, "timeout")
		}
	})
	if !ok {
		metrics.ShadowDroppedTotal.WithLabelValues(c.endpoint).Inc()
		c.reporter.Skipped(inv, "dropped")
	}
	return val, p.Err
}

func (c *Core) report(inv Invocation, p, s Outcome) {
	rep := c.verifier.Verify(inv, p, s)
	c.reporter.Report(rep)
}

// run ejecuta una llamada a un store midiendo latencia.
func run[T any](ctx context.Context, c *Core, store Store, fn func(context.Context) (T, error)) (Outcome, T) {
	start := time.Now()
	val, err := fn(ctx)
	elapsed := time.Since(start)
	metrics.StoreCallDuration.WithLabelValues(c.endpoint, string(store)).Observe(elapsed.Seconds())
	return Outcome{Store: store, Value: val, Err: err, Elapsed: elapsed}, val
}
