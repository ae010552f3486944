package repository

import (
	"context"
	"time"

	"github.com/place-microservice/internal/domain"
)

// ViewStatRepository - счетчики просмотров. Increment обязан быть атомарным
// на стороне хранилища (upsert или ZINCRBY), без read-modify-write
type ViewStatRepository interface {
	Increment(ctx context.Context, placeID string, at time.Time) error

	// Top возвращает n мест по (view_count desc, last_viewed_at desc)
	Top(ctx context.Context, n int) ([]domain.ViewStat, error)
}
