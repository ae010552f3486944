package testhelpers

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedViewStat вставляет счетчик с заданными значениями
func SeedViewStat(db *sql.DB, placeID string, count int64, lastViewed time.Time) error {
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO place_stats (place_id, view_count, last_viewed_at) VALUES ($1, $2, $3)`,
		placeID, count, lastViewed)
	if err != nil {
		return fmt.Errorf("seed view stat %s: %w", placeID, err)
	}
	return nil
}

// CountRows возвращает число строк таблицы, удовлетворяющих условию
func CountRows(db *sql.DB, table, where string, args ...interface{}) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if where != "" {
		query += " WHERE " + where
	}

	var n int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
