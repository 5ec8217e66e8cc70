package migrate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// captureReporter acumula reportes y skips de forma thread-safe.
type captureReporter struct {
	mu      sync.Mutex
	reports []DivergenceReport
	skips   []string
}

func (c *captureReporter) Report(rep DivergenceReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports = append(c.reports, rep)
}

func (c *captureReporter) Skipped(_ Invocation, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.skips = append(c.skips, reason)
}

func (c *captureReporter) snapshot() ([]DivergenceReport, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DivergenceReport(nil), c.reports...), append([]string(nil), c.skips...)
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timeout esperando: %s", msg)
}

// counter cuenta llamadas de forma thread-safe (las shadow corren en
// otras goroutines).
type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func newTestCore(t *testing.T, mode RoutingMode, rep Reporter, timeout time.Duration) *Core {
	t.Helper()
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	m := newTestManager(t, FlagConfig{
		Version: "test",
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: mode, Percent: 100}),
		},
	})
	pool := NewShadowPool(2, 16, timeout)
	t.Cleanup(pool.Close)
	return NewCore(CoreConfig{
		Endpoint:         "/api/budget",
		Flags:            m,
		Reporter:         rep,
		Pool:             pool,
		SecondaryTimeout: timeout,
	})
}

func TestDispatch_PrimaryOnly_NeverTouchesSecondary(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModePrimaryOnly, rep, 0)
	var secCalls counter

	got, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "primario", nil },
		func(context.Context) (string, error) { secCalls.inc(); return "secundario", nil },
	)
	if err != nil || got != "primario" {
		t.Fatalf("got %q, %v", got, err)
	}
	time.Sleep(50 * time.Millisecond)
	if secCalls.get() != 0 {
		t.Fatal("secondary fue llamado bajo primary_only")
	}
}

func TestDispatch_Cutover_NeverTouchesPrimary(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeCutover, rep, 0)
	var primCalls counter
	boom := errors.New("secundario caído")

	got, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { primCalls.inc(); return "primario", nil },
		func(context.Context) (string, error) { return "", boom },
	)
	// Bajo cutover el secundario es autoritativo: su error cruza intacto.
	if err != boom {
		t.Fatalf("esperaba el error exacto del secundario, got %v", err)
	}
	if got != "" {
		t.Fatalf("got %q", got)
	}
	if primCalls.get() != 0 {
		t.Fatal("primary fue llamado bajo cutover")
	}
}

func TestDispatch_DualSync_PrimaryFailureAbortsSecondary(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeDualSync, rep, 0)
	var secCalls counter
	boom := errors.New("primario caído")

	_, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "", boom },
		func(context.Context) (string, error) { secCalls.inc(); return "x", nil },
	)
	if err != boom {
		t.Fatalf("esperaba el error exacto del primario, got %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if secCalls.get() != 0 {
		t.Fatal("secondary fue llamado tras fallo del primario")
	}
	reports, _ := rep.snapshot()
	if len(reports) != 0 {
		t.Fatalf("no debería haber reporte sin par de outcomes: %d", len(reports))
	}
}

func TestDispatch_DualSync_SecondaryFailureIsNonFatal(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeDualSync, rep, 0)

	got, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "primario", nil },
		func(context.Context) (string, error) { return "", errors.New("secundario caído") },
	)
	if err != nil || got != "primario" {
		t.Fatalf("el fallo del secundario no debe tocar al caller: %q, %v", got, err)
	}
	reports, _ := rep.snapshot()
	if len(reports) != 1 {
		t.Fatalf("esperaba exactamente un reporte, got %d", len(reports))
	}
	if reports[0].Severity != SeverityErrorMismatch {
		t.Fatalf("esperaba error_mismatch, got %s", reports[0].Severity)
	}
}

func TestDispatch_DualSync_StrictOrdering(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeDualSync, rep, 0)

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	_, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) {
			record("primary-start")
			time.Sleep(20 * time.Millisecond)
			record("primary-done")
			return "p", nil
		},
		func(context.Context) (string, error) {
			record("secondary-start")
			return "s", nil
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []string{"primary-start", "primary-done", "secondary-start"}
	if len(order) != len(want) {
		t.Fatalf("orden inesperado: %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("el primario debe completar antes de que arranque el secundario: %v", order)
		}
	}
}

func TestDispatch_DualSync_CancelledContextSkipsVerification(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeDualSync, rep, 0)

	ctx, cancel := context.WithCancel(context.Background())
	got, err := Do(ctx, c, "Create", "family-1",
		func(context.Context) (string, error) { return "primario", nil },
		func(sctx context.Context) (string, error) {
			cancel() // el caller se desconecta durante el secundario
			return "", sctx.Err()
		},
	)
	if err != nil || got != "primario" {
		t.Fatalf("got %q, %v", got, err)
	}
	reports, skips := rep.snapshot()
	if len(reports) != 0 {
		t.Fatalf("resultado de secundario cancelado no debe verificarse: %d reportes", len(reports))
	}
	if len(skips) != 1 || skips[0] != "cancelled" {
		t.Fatalf("esperaba skip cancelled, got %v", skips)
	}
}

func TestDispatch_Shadow_PrimaryReturnsImmediately(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeShadow, rep, 0)

	started := time.Now()
	got, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "primario", nil },
		func(context.Context) (string, error) {
			time.Sleep(100 * time.Millisecond)
			return "primario", nil
		},
	)
	if err != nil || got != "primario" {
		t.Fatalf("got %q, %v", got, err)
	}
	if elapsed := time.Since(started); elapsed > 90*time.Millisecond {
		t.Fatalf("el shadow bloqueó el camino primario: %v", elapsed)
	}
	waitFor(t, func() bool {
		reports, _ := rep.snapshot()
		return len(reports) == 1
	}, "reporte shadow")
	reports, _ := rep.snapshot()
	if reports[0].Severity != SeverityIdentical {
		t.Fatalf("esperaba identical, got %s", reports[0].Severity)
	}
}

func TestDispatch_Shadow_SurvivesCallerCancellation(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeShadow, rep, 0)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := Do(ctx, c, "Create", "family-1",
		func(context.Context) (string, error) { return "p", nil },
		func(context.Context) (string, error) { return "p", nil },
	)
	cancel() // el caller se fue; la verificación shadow sigue
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		reports, _ := rep.snapshot()
		return len(reports) == 1
	}, "reporte shadow tras cancelación del caller")
}

func TestDispatch_Shadow_TimeoutIsSkipNotMismatch(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeShadow, rep, 50*time.Millisecond)

	_, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "p", nil },
		func(sctx context.Context) (string, error) {
			select {
			case <-time.After(2 * time.Second):
				return "p", nil
			case <-sctx.Done():
				return "", sctx.Err()
			}
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	waitFor(t, func() bool {
		_, skips := rep.snapshot()
		return len(skips) == 1
	}, "skip por timeout")
	reports, skips := rep.snapshot()
	if skips[0] != "timeout" {
		t.Fatalf("esperaba timeout, got %v", skips)
	}
	if len(reports) != 0 {
		t.Fatalf("un timeout no es una divergencia: %d reportes", len(reports))
	}
}

func TestDispatch_Shadow_DropsWhenQueueFull(t *testing.T) {
	rep := &captureReporter{}
	m := newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: ModeShadow, Percent: 100}),
		},
	})
	pool := NewShadowPool(1, 1, time.Second)
	t.Cleanup(pool.Close)
	c := NewCore(CoreConfig{Endpoint: "/api/budget", Flags: m, Reporter: rep, Pool: pool})

	// Ocupar el worker y llenar la cola.
	block := make(chan struct{})
	running := make(chan struct{})
	pool.Submit(func(context.Context) { close(running); <-block })
	<-running
	pool.Submit(func(context.Context) {})

	_, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "p", nil },
		func(context.Context) (string, error) { return "p", nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	_, skips := rep.snapshot()
	if len(skips) != 1 || skips[0] != "dropped" {
		t.Fatalf("esperaba drop con cola llena, got %v", skips)
	}
	close(block)
}

func TestDispatch_VerifyRead_ReadsVerified(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeVerifyRead, rep, 0)

	got, err := DoRead(context.Background(), c, "GetByID", "family-1",
		func(context.Context) (string, error) { return "valor", nil },
		func(context.Context) (string, error) { return "otro", nil },
	)
	if err != nil || got != "valor" {
		t.Fatalf("el primario es autoritativo en verify_read: %q, %v", got, err)
	}
	waitFor(t, func() bool {
		reports, _ := rep.snapshot()
		return len(reports) == 1
	}, "reporte verify_read")
	reports, _ := rep.snapshot()
	if reports[0].Severity != SeverityMajor {
		t.Fatalf("esperaba major, got %s", reports[0].Severity)
	}
}

func TestDispatch_VerifyRead_WritesGoPrimaryOnly(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeVerifyRead, rep, 0)
	var secCalls counter

	got, err := Do(context.Background(), c, "Create", "family-1",
		func(context.Context) (string, error) { return "p", nil },
		func(context.Context) (string, error) { secCalls.inc(); return "s", nil },
	)
	if err != nil || got != "p" {
		t.Fatalf("got %q, %v", got, err)
	}
	time.Sleep(50 * time.Millisecond)
	if secCalls.get() != 0 {
		t.Fatal("una escritura bajo verify_read no debe tocar el secundario")
	}
}

func TestDispatch_VerifyRead_SecondaryTimeoutIsSkip(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeVerifyRead, rep, 50*time.Millisecond)

	got, err := DoRead(context.Background(), c, "GetByID", "family-1",
		func(context.Context) (string, error) { return "valor", nil },
		func(sctx context.Context) (string, error) {
			select {
			case <-time.After(2 * time.Second):
				return "valor", nil
			case <-sctx.Done():
				return "", sctx.Err()
			}
		},
	)
	if err != nil || got != "valor" {
		t.Fatalf("got %q, %v", got, err)
	}
	waitFor(t, func() bool {
		_, skips := rep.snapshot()
		return len(skips) == 1
	}, "skip por timeout del secundario")
	_, skips := rep.snapshot()
	if skips[0] != "timeout" {
		t.Fatalf("esperaba timeout, got %v", skips)
	}
}

func TestExec_PropagatesAuthoritativeError(t *testing.T) {
	rep := &captureReporter{}
	c := newTestCore(t, ModeDualSync, rep, 0)
	boom := errors.New("delete falló")

	err := Exec(context.Background(), c, "Delete", "family-1",
		func(context.Context) error { return boom },
		func(context.Context) error { return nil },
	)
	if err != boom {
		t.Fatalf("esperaba el error exacto del primario, got %v", err)
	}
}
