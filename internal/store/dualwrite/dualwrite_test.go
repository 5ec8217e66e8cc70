package dualwrite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/nido/internal/domain/repository"
	"github.com/dropDatabas3/nido/internal/migrate"
	"github.com/dropDatabas3/nido/internal/migrate/flagsource"
	"github.com/dropDatabas3/nido/internal/store/dualwrite"
	"github.com/dropDatabas3/nido/internal/store/memory"
)

type nopReporter struct{}

func (nopReporter) Report(migrate.DivergenceReport)   {}
func (nopReporter) Skipped(migrate.Invocation, string) {}

func newCore(t *testing.T, mode migrate.RoutingMode) *migrate.Core {
	t.Helper()
	src := flagsource.NewStatic(migrate.FlagConfig{
		Version: "test",
		Endpoints: map[string]migrate.EndpointConfig{
			"/api/budget": {Tiers: []migrate.Tier{{Mode: mode, Percent: 100}}},
		},
	})
	m := migrate.NewFlagManager(src, migrate.FlagManagerOptions{TTL: time.Minute})
	require.NoError(t, m.Prime(context.Background()))

	pool := migrate.NewShadowPool(2, 16, time.Second)
	t.Cleanup(pool.Close)
	return migrate.NewCore(migrate.CoreConfig{
		Endpoint: "/api/budget",
		Flags:    m,
		Reporter: nopReporter{},
		Pool:     pool,
	})
}

func TestBudgetRepository_DualSyncWritesBoth(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewBudgetRepository()
	secondary := memory.NewBudgetRepository()
	repo := dualwrite.NewBudgetRepository(primary, secondary, newCore(t, migrate.ModeDualSync))

	created, err := repo.Create(ctx, repository.CreateBudgetInput{
		FamilyID: "fam-1", Name: "Supermercado", LimitCents: 40_000,
	})
	require.NoError(t, err)

	// El caller recibe el resultado del primario.
	fromPrimary, err := primary.GetByID(ctx, "fam-1", created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, fromPrimary.ID)

	// El secundario también escribió, con su propio id.
	list, err := secondary.ListByFamily(ctx, "fam-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Supermercado", list[0].Name)
}

func TestBudgetRepository_DualSyncPrimaryFailureLeavesSecondaryUntouched(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewBudgetRepository()
	secondary := memory.NewBudgetRepository()
	repo := dualwrite.NewBudgetRepository(primary, secondary, newCore(t, migrate.ModeDualSync))

	// Input inválido: el primario falla, el secundario no debe ejecutarse.
	_, err := repo.Create(ctx, repository.CreateBudgetInput{FamilyID: "fam-1"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	list, err := secondary.ListByFamily(ctx, "fam-1")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestBudgetRepository_CutoverOnlyTouchesSecondary(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewBudgetRepository()
	secondary := memory.NewBudgetRepository()
	repo := dualwrite.NewBudgetRepository(primary, secondary, newCore(t, migrate.ModeCutover))

	created, err := repo.Create(ctx, repository.CreateBudgetInput{FamilyID: "fam-1", Name: "Ocio"})
	require.NoError(t, err)

	_, err = primary.GetByID(ctx, "fam-1", created.ID)
	require.True(t, errors.Is(err, repository.ErrNotFound), "el primario no debe tener datos bajo cutover")

	got, err := secondary.GetByID(ctx, "fam-1", created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ocio", got.Name)
}

func TestBudgetRepository_PrimaryOnlyDelete(t *testing.T) {
	ctx := context.Background()
	primary := memory.NewBudgetRepository()
	secondary := memory.NewBudgetRepository()
	repo := dualwrite.NewBudgetRepository(primary, secondary, newCore(t, migrate.ModePrimaryOnly))

	created, err := repo.Create(ctx, repository.CreateBudgetInput{FamilyID: "fam-1", Name: "Ropa"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, "fam-1", created.ID))

	_, err = repo.GetByID(ctx, "fam-1", created.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
