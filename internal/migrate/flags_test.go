package migrate

import (
	"context"
	"errors"
	"testing"
	"time"
)

type staticSource struct{ cfg FlagConfig }

func (s staticSource) Fetch(context.Context) (FlagConfig, error) { return s.cfg, nil }

type failingSource struct{}

func (failingSource) Fetch(context.Context) (FlagConfig, error) {
	return FlagConfig{}, errors.New("source caído")
}

func newTestManager(t *testing.T, cfg FlagConfig) *FlagManager {
	t.Helper()
	m := NewFlagManager(staticSource{cfg: cfg}, FlagManagerOptions{})
	if err := m.Prime(context.Background()); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	return m
}

func epWithTiers(tiers ...Tier) EndpointConfig {
	return EndpointConfig{Tiers: tiers}
}

func TestBucket_StableInRange(t *testing.T) {
	keys := []string{"", "family-1", "member-42", "algo-largo-con-ñ"}
	for _, k := range keys {
		b1 := Bucket(k)
		b2 := Bucket(k)
		if b1 != b2 {
			t.Fatalf("bucket inestable para %q: %d vs %d", k, b1, b2)
		}
		if b1 < 0 || b1 >= 100 {
			t.Fatalf("bucket fuera de rango para %q: %d", k, b1)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	m := newTestManager(t, FlagConfig{
		Version: "v1",
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: ModeDualSync, Percent: 50}),
		},
	})
	first := m.Resolve("/api/budget", "member-42")
	for i := 0; i < 10; i++ {
		if got := m.Resolve("/api/budget", "member-42"); got != first {
			t.Fatalf("resolución no determinística: %s vs %s", got, first)
		}
	}
}

func TestResolve_TierBucketing(t *testing.T) {
	key := "family-7"
	b := Bucket(key)

	// Umbral justo por encima del bucket: entra.
	m := newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: ModeDualSync, Percent: b + 1}),
		},
	})
	if got := m.Resolve("/api/budget", key); got != ModeDualSync {
		t.Fatalf("esperaba dual_sync con percent=%d y bucket=%d, got %s", b+1, b, got)
	}

	// Umbral igual al bucket: queda afuera.
	m = newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: ModeDualSync, Percent: b}),
		},
	})
	if got := m.Resolve("/api/budget", key); got != ModePrimaryOnly {
		t.Fatalf("esperaba primary_only con percent=%d y bucket=%d, got %s", b, b, got)
	}
}

func TestResolve_TierOrder(t *testing.T) {
	// Con cutover al 100% en el primer tier, cualquiera entra al
	// primer escalón que lo cubra.
	m := newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/task": epWithTiers(
				Tier{Mode: ModeCutover, Percent: 0},
				Tier{Mode: ModeDualSync, Percent: 100},
			),
		},
	})
	if got := m.Resolve("/api/task", "family-9"); got != ModeDualSync {
		t.Fatalf("esperaba dual_sync, got %s", got)
	}
}

func TestResolve_KillSwitch(t *testing.T) {
	m := newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/devices": {
				Kill:  true,
				Allow: []string{"family-1"},
				Tiers: []Tier{{Mode: ModeCutover, Percent: 100}},
			},
		},
	})
	// Kill gana sobre allow-list y porcentaje.
	for _, key := range []string{"family-1", "family-2", ""} {
		if got := m.Resolve("/api/devices", key); got != ModePrimaryOnly {
			t.Fatalf("kill switch ignorado para %q: %s", key, got)
		}
	}
}

func TestResolve_AllowDenyPrecedence(t *testing.T) {
	m := newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/budget": {
				Deny:  []string{"family-deny"},
				Allow: []string{"family-allow"},
				Tiers: []Tier{{Mode: ModeCutover, Percent: 0}},
			},
		},
	})
	if got := m.Resolve("/api/budget", "family-deny"); got != ModePrimaryOnly {
		t.Fatalf("deny-list ignorada: %s", got)
	}
	// Allow fuerza el modo objetivo aunque el porcentaje sea 0.
	if got := m.Resolve("/api/budget", "family-allow"); got != ModeCutover {
		t.Fatalf("allow-list ignorada: %s", got)
	}
}

func TestResolve_UnknownEndpointAndNoConfig(t *testing.T) {
	m := newTestManager(t, FlagConfig{
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: ModeDualSync, Percent: 100}),
		},
	})
	if got := m.Resolve("/api/otro", "family-1"); got != ModePrimaryOnly {
		t.Fatalf("endpoint desconocido debería resolver primary_only, got %s", got)
	}

	// Sin config alguna: default seguro, nunca error.
	empty := NewFlagManager(failingSource{}, FlagManagerOptions{})
	if got := empty.Resolve("/api/budget", "family-1"); got != ModePrimaryOnly {
		t.Fatalf("sin config debería resolver primary_only, got %s", got)
	}
}

func TestResolve_StaleConfigFallback(t *testing.T) {
	m := NewFlagManager(failingSource{}, FlagManagerOptions{TTL: 10 * time.Millisecond})
	// Sembrar una config como si un fetch anterior hubiera funcionado.
	m.store(FlagConfig{
		Version: "v1",
		Endpoints: map[string]EndpointConfig{
			"/api/budget": epWithTiers(Tier{Mode: ModeShadow, Percent: 100}),
		},
	})
	time.Sleep(50 * time.Millisecond) // cache vencido, source sigue caído

	if got := m.Resolve("/api/budget", "family-1"); got != ModeShadow {
		t.Fatalf("debería usar la última config conocida, got %s", got)
	}
}

func TestParseMode_RoundTrip(t *testing.T) {
	for _, m := range []RoutingMode{ModePrimaryOnly, ModeCutover, ModeShadow, ModeDualSync, ModeVerifyRead} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Fatalf("round trip roto: %s → %s", m, got)
		}
	}
	if _, err := ParseMode("nope"); err == nil {
		t.Fatal("esperaba error para modo desconocido")
	}
}
