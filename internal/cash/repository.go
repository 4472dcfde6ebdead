package cash

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores cash transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a transaction repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save inserts one audit record.
func (r *PostgresRepository) Save(ctx context.Context, tx Transaction) error {
	id, err := uuid.Parse(tx.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions
        (id, bank_account_id, kind, amount, currency, status, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, tx.BankAccountID, string(tx.Kind), tx.Amount, tx.Currency, tx.Status, tx.Description, tx.CreatedAt.UTC())
	return err
}
