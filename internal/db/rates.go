package db

import (
	"context"
	"fmt"
	"time"

	"github.com/dmoreno/cv-studio/internal/types"
)

// SaveRates mirrors a rate snapshot, one row per (base, target) pair. The
// mirror holds only the latest snapshot; each save overwrites prior pairs.
func (db *DB) SaveRates(ctx context.Context, rates *types.ExchangeRates) error {
	for target, rate := range rates.Rates {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO exchange_rates (base_currency, target_currency, rate, rate_date, fetched_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (base_currency, target_currency)
			 DO UPDATE SET rate = $3, rate_date = $4, fetched_at = $5`,
			rates.Base, target, rate, rates.Date, rates.FetchedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save rate %s/%s: %w", rates.Base, target, err)
		}
	}
	return nil
}

// LoadRates reconstructs the mirrored snapshot, or nil when the mirror is
// empty
func (db *DB) LoadRates(ctx context.Context) (*types.ExchangeRates, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT target_currency, rate, rate_date, fetched_at
		 FROM exchange_rates WHERE base_currency = 'EUR'`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates: %w", err)
	}
	defer rows.Close()

	snapshot := &types.ExchangeRates{Base: "EUR", Rates: make(map[string]float64)}
	for rows.Next() {
		var (
			target    string
			rate      float64
			date      string
			fetchedAt time.Time
		)
		if err := rows.Scan(&target, &rate, &date, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		snapshot.Rates[target] = rate
		snapshot.Date = date
		snapshot.FetchedAt = fetchedAt
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rates: %w", err)
	}
	if len(snapshot.Rates) == 0 {
		return nil, nil
	}
	snapshot.Rates["EUR"] = 1
	return snapshot, nil
}
