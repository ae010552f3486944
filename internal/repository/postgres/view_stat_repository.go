package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
)

var _ repository.ViewStatRepository = (*ViewStatRepository)(nil)

type ViewStatRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewViewStatRepository(db *DB, logger *zap.Logger) *ViewStatRepository {
	return &ViewStatRepository{db: db, logger: logger}
}

// Increment - атомарный upsert: первая запись создает счетчик, последующие увеличивают его
func (r *ViewStatRepository) Increment(ctx context.Context, placeID string, at time.Time) error {
	query := `
		INSERT INTO place_stats (place_id, view_count, last_viewed_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (place_id) DO UPDATE
		SET view_count = place_stats.view_count + 1,
		    last_viewed_at = GREATEST(place_stats.last_viewed_at, EXCLUDED.last_viewed_at)`

	if _, err := r.db.ExecContext(ctx, query, placeID, at); err != nil {
		r.logger.Error("Failed to increment view count", zap.String("place_id", placeID), zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}
	return nil
}

func (r *ViewStatRepository) Top(ctx context.Context, n int) ([]domain.ViewStat, error) {
	query := `
		SELECT place_id, view_count, last_viewed_at
		FROM place_stats
		ORDER BY view_count DESC, last_viewed_at DESC
		LIMIT $1`

	stats := make([]domain.ViewStat, 0, n)
	if err := r.db.SelectContext(ctx, &stats, query, n); err != nil {
		r.logger.Error("Failed to read top places", zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return stats, nil
}
