package pg

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dropDatabas3/nido/internal/domain/repository"
)

// BudgetPG implementa repository.BudgetRepository sobre Postgres.
type BudgetPG struct {
	db PgExecQuerier
}

func NewBudgetPG(db PgExecQuerier) *BudgetPG {
	return &BudgetPG{db: db}
}

const budgetCols = `id, family_id, member_id, category, name, limit_cents, spent_cents, currency, period_start, period_end, created_at, updated_at`

func scanBudget(row pgx.Row) (repository.Budget, error) {
	var b repository.Budget
	err := row.Scan(&b.ID, &b.FamilyID, &b.MemberID, &b.Category, &b.Name,
		&b.LimitCents, &b.SpentCents, &b.Currency,
		&b.PeriodStart, &b.PeriodEnd, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.Budget{}, repository.ErrNotFound
		}
		return repository.Budget{}, mapPgErr(err)
	}
	return b, nil
}

func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return repository.ErrConflict
	}
	return err
}

func (r *BudgetPG) Create(ctx context.Context, in repository.CreateBudgetInput) (repository.Budget, error) {
	if in.FamilyID == "" || strings.TrimSpace(in.Name) == "" {
		return repository.Budget{}, repository.ErrInvalidInput
	}
	const q = `
INSERT INTO budget (family_id, member_id, category, name, limit_cents, currency, period_start, period_end)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + budgetCols + `;`
	return scanBudget(r.db.QueryRow(ctx, q,
		in.FamilyID, in.MemberID, in.Category, in.Name,
		in.LimitCents, in.Currency, in.PeriodStart, in.PeriodEnd))
}

func (r *BudgetPG) GetByID(ctx context.Context, familyID, id string) (repository.Budget, error) {
	const q = `
SELECT ` + budgetCols + `
FROM budget
WHERE family_id = $1 AND id = $2;`
	return scanBudget(r.db.QueryRow(ctx, q, familyID, id))
}

func (r *BudgetPG) ListByFamily(ctx context.Context, familyID string) ([]repository.Budget, error) {
	const q = `
SELECT ` + budgetCols + `
FROM budget
WHERE family_id = $1
ORDER BY name;`
	rows, err := r.db.Query(ctx, q, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []repository.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BudgetPG) Update(ctx context.Context, familyID, id string, in repository.UpdateBudgetInput) (repository.Budget, error) {
	const q = `
UPDATE budget SET
  name         = COALESCE($3, name),
  limit_cents  = COALESCE($4, limit_cents),
  category     = COALESCE($5, category),
  period_end   = COALESCE($6, period_end),
  updated_at   = now()
WHERE family_id = $1 AND id = $2
RETURNING ` + budgetCols + `;`
	return scanBudget(r.db.QueryRow(ctx, q, familyID, id,
		in.Name, in.LimitCents, in.Category, in.PeriodEnd))
}

func (r *BudgetPG) AddSpend(ctx context.Context, familyID, id string, amountCents int64) (repository.Budget, error) {
	const q = `
UPDATE budget SET
  spent_cents = spent_cents + $3,
  updated_at  = now()
WHERE family_id = $1 AND id = $2
RETURNING ` + budgetCols + `;`
	return scanBudget(r.db.QueryRow(ctx, q, familyID, id, amountCents))
}

func (r *BudgetPG) Delete(ctx context.Context, familyID, id string) error {
	const q = `DELETE FROM budget WHERE family_id = $1 AND id = $2;`
	tag, err := r.db.Exec(ctx, q, familyID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
