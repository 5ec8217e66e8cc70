package migrate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dropDatabas3/nido/internal/observability/logger"
)

// ShadowPool es el pool acotado de verificación en background.
// Lo comparten SHADOW y VERIFY_READ.
//
// La cola es acotada y el Submit no bloquea: con la cola llena la tarea
// se descarta. La latencia del camino primario vale más que la
// cobertura de verificación.
type ShadowPool struct {
	tasks   chan func(context.Context)
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
	log     *zap.Logger
}

// NewShadowPool arranca workers goroutines con una cola de queueSize.
// timeout es el presupuesto de cada tarea (llamada al secundario +
// verificación); debe ser menor al SLA del caller.
func NewShadowPool(workers, queueSize int, timeout time.Duration) *ShadowPool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 128
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	p := &ShadowPool{
		tasks:   make(chan func(context.Context), queueSize),
		timeout: timeout,
		log:     logger.Named("migrate.shadow"),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *ShadowPool) worker() {
	defer p.wg.Done()
	for fn := range p.tasks {
		// Contexto propio, derivado de Background: la cancelación del
		// request del caller no alcanza a las tareas shadow.
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		p.runTask(ctx, fn)
		cancel()
	}
}

func (p *ShadowPool) runTask(ctx context.Context, fn func(context.Context)) {
	defer func() {
		if rec := recover(); rec != nil {
			p.log.Error("panic en tarea shadow", zap.Any("panic", rec))
		}
	}()
	fn(ctx)
}

// Submit encola una tarea sin bloquear. Retorna false si la cola está
// llena (la tarea se descarta).
func (p *ShadowPool) Submit(fn func(context.Context)) bool {
	select {
	case p.tasks <- fn:
		return true
	default:
		return false
	}
}

// Close cierra la cola y espera que terminen las tareas en vuelo.
// Para el shutdown del proceso.
func (p *ShadowPool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
