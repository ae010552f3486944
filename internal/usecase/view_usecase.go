package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/logger"
	"github.com/place-microservice/internal/pkg/metrics"
)

// ViewUseCase ведет счетчики просмотров мест
type ViewUseCase struct {
	repo    repository.ViewStatRepository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewViewUseCase(
	repo repository.ViewStatRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ViewUseCase {
	return &ViewUseCase{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Bump увеличивает счетчик атомарно на стороне хранилища
func (uc *ViewUseCase) Bump(ctx context.Context, placeID string) error {
	if err := uc.repo.Increment(ctx, placeID, uc.now().UTC()); err != nil {
		return err
	}
	uc.metrics.PlaceViewed()
	uc.logger.Debug("Place view recorded", logger.PlaceID(placeID))
	return nil
}

// Top - самые просматриваемые места, n ограничивается [1, 10]
func (uc *ViewUseCase) Top(ctx context.Context, n int) ([]domain.ViewStat, error) {
	n = clampTop(n)

	stats, err := uc.repo.Top(ctx, n)
	if err != nil {
		uc.logger.Error("Failed to load top places", zap.Error(err))
		return nil, err
	}
	return stats, nil
}
