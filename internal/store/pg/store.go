// Package pg implementa repositorios de dominio sobre PostgreSQL (el
// store legacy de la migración). Hoy cubre budgets; el resto de las
// entidades sigue en los otros backends.
package pg

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	migrations "github.com/dropDatabas3/nido/migrations/postgres"
)

// PgExecQuerier es la mínima interfaz que cumplen *pgxpool.Pool y pgx.Tx.
type PgExecQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect abre un pool pgx contra el DSN dado y verifica la conexión.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: abriendo pool: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping falló: %w", err)
	}
	return pool, nil
}

// ApplySchema aplica las migraciones SQL embebidas, en orden de nombre.
// Los statements son idempotentes (IF NOT EXISTS); correr dos veces es
// seguro.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := fs.ReadDir(migrations.SchemaFS, migrations.SchemaDir)
	if err != nil {
		return fmt.Errorf("pg: leyendo migraciones embebidas: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		b, err := fs.ReadFile(migrations.SchemaFS, path.Join(migrations.SchemaDir, name))
		if err != nil {
			return err
		}
		if _, err := pool.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("pg: aplicando %s: %w", name, err)
		}
	}
	return nil
}
