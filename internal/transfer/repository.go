package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores transfers in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a transfer repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts one audit record.
func (r *PostgresRepository) Save(ctx context.Context, t Transfer) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transfers
        (id, from_bank_account_id, to_bank_account_id, amount, converted_amount,
         from_currency, to_currency, status, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, t.FromBankAccountID, t.ToBankAccountID, t.Amount, t.ConvertedAmount,
		t.FromCurrency, t.ToCurrency, t.Status, t.Description, t.CreatedAt.UTC())
	return err
}
