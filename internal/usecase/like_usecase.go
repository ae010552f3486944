package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/logger"
	"github.com/place-microservice/internal/pkg/metrics"
	"github.com/place-microservice/internal/usecase/dto"
)

type LikeUseCase struct {
	likes    repository.LikeRepository
	provider repository.PlaceProvider
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewLikeUseCase(
	likes repository.LikeRepository,
	provider repository.PlaceProvider,
	m *metrics.Metrics,
	logger *zap.Logger,
) *LikeUseCase {
	return &LikeUseCase{
		likes:    likes,
		provider: provider,
		metrics:  m,
		logger:   logger,
	}
}

// Like идемпотентен: существующая связь и гонка на уникальном ключе считаются успехом
func (uc *LikeUseCase) Like(ctx context.Context, viewer domain.Viewer, placeID string) (err error) {
	defer func() { uc.metrics.LikeOperation("like", err) }()

	if !viewer.IsAuthenticated() {
		return errors.ErrUnauthorized
	}
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return errors.ErrInvalidRequest
	}

	exists, err := uc.likes.Exists(ctx, viewer.ID, placeID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	like := &domain.Like{UserID: viewer.ID, PlaceID: placeID}

	// снимок имени и фото для списка "мои места"
	details, err := uc.provider.FetchDetails(ctx, placeID)
	switch {
	case err == nil:
		like.PlaceName = details.Name
		like.PhotoRef = details.FirstPhotoRef()
	case errors.IsKind(err, errors.KindNotFound):
		uc.logger.Warn("Liking place unknown to provider", logger.PlaceID(placeID))
	default:
		return err
	}

	if err := uc.likes.Insert(ctx, like); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		uc.logger.Error("Failed to insert like",
			logger.ViewerID(viewer.ID),
			logger.PlaceID(placeID),
			zap.Error(err),
		)
		return err
	}

	uc.logger.Info("Place liked", logger.ViewerID(viewer.ID), logger.PlaceID(placeID))
	return nil
}

// Unlike удаляет связь, если она есть
func (uc *LikeUseCase) Unlike(ctx context.Context, viewer domain.Viewer, placeID string) (err error) {
	defer func() { uc.metrics.LikeOperation("unlike", err) }()

	if !viewer.IsAuthenticated() {
		return errors.ErrUnauthorized
	}

	removed, err := uc.likes.Delete(ctx, viewer.ID, strings.TrimSpace(placeID))
	if err != nil {
		return err
	}
	if removed {
		uc.logger.Info("Place unliked", logger.ViewerID(viewer.ID), logger.PlaceID(placeID))
	}
	return nil
}

// IsLiked для анонимного пользователя всегда false
func (uc *LikeUseCase) IsLiked(ctx context.Context, viewer domain.Viewer, placeID string) (bool, error) {
	if !viewer.IsAuthenticated() {
		return false, nil
	}
	return uc.likes.Exists(ctx, viewer.ID, placeID)
}

// MyLikes - лайкнутые места пользователя; order "oldest"/"asc" - от старых к новым
func (uc *LikeUseCase) MyLikes(ctx context.Context, viewer domain.Viewer, size int, order string) ([]dto.LikedPlace, error) {
	if !viewer.IsAuthenticated() {
		return nil, errors.ErrUnauthorized
	}

	order = strings.ToLower(strings.TrimSpace(order))
	ascending := order == "oldest" || order == "asc"

	likes, err := uc.likes.ListByUser(ctx, viewer.ID, clampLikes(size), ascending)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LikedPlace, 0, len(likes))
	for _, l := range likes {
		out = append(out, dto.LikedPlace{
			PlaceID:  l.PlaceID,
			Name:     l.PlaceName,
			ImageURL: uc.provider.BuildPhotoURL(l.PhotoRef, cardPhotoWidth),
			LikedAt:  l.CreatedAt,
		})
	}
	return out, nil
}
