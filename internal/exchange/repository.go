package exchange

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository persists exchange rates in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a rate repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts or replaces the quote for a currency.
func (r *PostgresRepository) Upsert(ctx context.Context, rate Rate) error {
	_, err := r.db.Exec(ctx, `INSERT INTO exchange_rates (currency, buy_rate, sell_rate, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (currency) DO UPDATE SET buy_rate = $2, sell_rate = $3, updated_at = $4`,
		rate.Currency, rate.Buy, rate.Sell, rate.UpdatedAt.UTC())
	return err
}

// Find returns the quote for one currency.
func (r *PostgresRepository) Find(ctx context.Context, currency string) (Rate, error) {
	row := r.db.QueryRow(ctx, `SELECT currency, buy_rate, sell_rate, updated_at
        FROM exchange_rates WHERE currency = $1`, currency)
	var rate Rate
	if err := row.Scan(&rate.Currency, &rate.Buy, &rate.Sell, &rate.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rate{}, ErrRateNotFound
		}
		return Rate{}, err
	}
	return rate, nil
}

// List returns every configured quote.
func (r *PostgresRepository) List(ctx context.Context) ([]Rate, error) {
	rows, err := r.db.Query(ctx, `SELECT currency, buy_rate, sell_rate, updated_at
        FROM exchange_rates ORDER BY currency`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rate
	for rows.Next() {
		var rate Rate
		if err := rows.Scan(&rate.Currency, &rate.Buy, &rate.Sell, &rate.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rate)
	}
	return out, rows.Err()
}
