package usecase

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/identity"
	"github.com/place-microservice/internal/pkg/logger"
	"github.com/place-microservice/internal/pkg/metrics"
	"github.com/place-microservice/internal/pkg/utils"
	"github.com/place-microservice/internal/pkg/validator"
	"github.com/place-microservice/internal/usecase/dto"
)

// ReviewUseCase объединяет локальные отзывы с отзывами провайдера
type ReviewUseCase struct {
	reviews  repository.ReviewRepository
	provider repository.PlaceProvider
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewReviewUseCase(
	reviews repository.ReviewRepository,
	provider repository.PlaceProvider,
	m *metrics.Metrics,
	logger *zap.Logger,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviews:  reviews,
		provider: provider,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// GetLocal - активные локальные отзывы, новые первыми; средний рейтинг округлен до 0.5
func (uc *ReviewUseCase) GetLocal(ctx context.Context, placeID string, limit int, viewer domain.Viewer) (*dto.ReviewList, error) {
	rows, err := uc.reviews.ListActive(ctx, placeID, clampReviews(limit))
	if err != nil {
		return nil, err
	}

	summary, err := uc.reviews.Summary(ctx, placeID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReviewItem, 0, len(rows))
	for i := range rows {
		items = append(items, uc.localItem(&rows[i], viewer))
	}

	list := &dto.ReviewList{
		PlaceID:     placeID,
		ReviewCount: summary.Count,
		Reviews:     items,
	}
	if summary.Count > 0 && summary.Average != nil {
		avg := roundHalf(*summary.Average)
		list.Rating = &avg
	}
	return list, nil
}

// GetExternal - живые отзывы провайдера, локально не сохраняются
func (uc *ReviewUseCase) GetExternal(ctx context.Context, placeID string, limit int) (*dto.ReviewList, error) {
	feed, err := uc.provider.FetchReviews(ctx, placeID)
	if err != nil {
		return nil, err
	}

	reviews := feed.Reviews
	if n := clampReviews(limit); len(reviews) > n {
		reviews = reviews[:n]
	}

	items := make([]dto.ReviewItem, 0, len(reviews))
	for _, r := range reviews {
		items = append(items, dto.ReviewItem{
			ID:                 externalReviewID(placeID, r),
			Source:             dto.ReviewSourceExternal,
			AuthorName:         r.AuthorName,
			AuthorProfilePhoto: r.AuthorPhoto,
			Rating:             r.Rating,
			Text:               r.Text,
			RelativeTime:       r.RelativeTime,
		})
	}

	return &dto.ReviewList{
		PlaceID:     placeID,
		Rating:      feed.Rating,
		ReviewCount: feed.ReviewCount,
		Reviews:     items,
	}, nil
}

// GetCombined сливает локальные и внешние отзывы со взвешенным средним.
// Внешние отзывы - дополнение: при сбое провайдера отдаются только локальные
func (uc *ReviewUseCase) GetCombined(
	ctx context.Context,
	placeID string,
	limit int,
	pinMine bool,
	viewer domain.Viewer,
) (*dto.ReviewList, error) {
	limit = clampReviews(limit)

	external, err := uc.GetExternal(ctx, placeID, min(maxExternalReviews, limit))
	if err != nil {
		uc.logger.Warn("External reviews unavailable, serving local only",
			logger.PlaceID(placeID),
			zap.Error(err),
		)
		uc.metrics.Degraded("external_reviews")
		external = &dto.ReviewList{PlaceID: placeID, Reviews: []dto.ReviewItem{}}
	}

	local, err := uc.GetLocal(ctx, placeID, limit, viewer)
	if err != nil {
		return nil, err
	}

	out := &dto.ReviewList{
		PlaceID:     placeID,
		ReviewCount: local.ReviewCount + external.ReviewCount,
	}
	out.Rating = weightedAverage(local.Rating, local.ReviewCount, external.Rating, external.ReviewCount)

	merged := make([]dto.ReviewItem, 0, len(local.Reviews)+len(external.Reviews)+1)
	merged = append(merged, local.Reviews...)
	merged = append(merged, external.Reviews...)

	if pinMine && viewer.IsAuthenticated() {
		mine, err := uc.reviews.FindActive(ctx, placeID, viewer.ID)
		if err != nil {
			return nil, err
		}
		if mine != nil {
			merged = pinReview(merged, uc.localItem(mine, viewer))
		}
	}

	if len(merged) > limit {
		merged = merged[:limit]
	}
	out.Reviews = merged
	return out, nil
}

// Create добавляет отзыв; у пользователя может быть только один активный отзыв на место
func (uc *ReviewUseCase) Create(
	ctx context.Context,
	viewer domain.Viewer,
	placeID string,
	req dto.ReviewRequest,
) (item *dto.ReviewItem, err error) {
	defer func() { uc.metrics.ReviewOperation("create", err) }()

	if !viewer.IsAuthenticated() {
		return nil, errors.ErrUnauthorized
	}
	if err := uc.validate(placeID, req); err != nil {
		return nil, err
	}

	exists, err := uc.reviews.ExistsActive(ctx, placeID, viewer.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ErrReviewAlreadyExists
	}

	review := &domain.Review{
		PlaceID:    placeID,
		AuthorID:   viewer.ID,
		AuthorName: viewer.DisplayName(),
		Rating:     req.Rating,
		Text:       req.Text,
	}
	if err := uc.reviews.Create(ctx, review); err != nil {
		// параллельный запрос успел раньше
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errors.ErrReviewAlreadyExists
		}
		return nil, err
	}

	uc.logger.Info("Review created",
		logger.PlaceID(placeID),
		logger.ViewerID(viewer.ID),
		zap.Int64("review_id", review.ID),
	)

	created := uc.localItem(review, viewer)
	return &created, nil
}

// Update меняет свой активный отзыв
func (uc *ReviewUseCase) Update(
	ctx context.Context,
	viewer domain.Viewer,
	placeID string,
	reviewID int64,
	req dto.ReviewRequest,
) (err error) {
	defer func() { uc.metrics.ReviewOperation("update", err) }()

	if !viewer.IsAuthenticated() {
		return errors.ErrUnauthorized
	}
	if err := uc.validate(placeID, req); err != nil {
		return err
	}

	review, err := uc.ownedReview(ctx, viewer, placeID, reviewID)
	if err != nil {
		return err
	}

	review.Rating = req.Rating
	review.Text = req.Text
	review.AuthorName = viewer.DisplayName()

	return uc.reviews.Update(ctx, review)
}

// Delete - мягкое удаление; после него можно оставить новый отзыв
func (uc *ReviewUseCase) Delete(ctx context.Context, viewer domain.Viewer, placeID string, reviewID int64) (err error) {
	defer func() { uc.metrics.ReviewOperation("delete", err) }()

	if !viewer.IsAuthenticated() {
		return errors.ErrUnauthorized
	}

	if _, err := uc.ownedReview(ctx, viewer, placeID, reviewID); err != nil {
		return err
	}

	if err := uc.reviews.SoftDelete(ctx, reviewID); err != nil {
		return err
	}

	uc.logger.Info("Review deleted",
		logger.PlaceID(placeID),
		logger.ViewerID(viewer.ID),
		zap.Int64("review_id", reviewID),
	)
	return nil
}

// ownedReview: удаленный или отсутствующий отзыв - NotFound, чужой - Forbidden
func (uc *ReviewUseCase) ownedReview(ctx context.Context, viewer domain.Viewer, placeID string, reviewID int64) (*domain.Review, error) {
	review, err := uc.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Deleted {
		return nil, errors.ErrReviewNotFound
	}
	if review.PlaceID != placeID || review.AuthorID != viewer.ID {
		return nil, errors.ErrReviewForbidden
	}
	return review, nil
}

func (uc *ReviewUseCase) validate(placeID string, req dto.ReviewRequest) error {
	if strings.TrimSpace(placeID) == "" {
		return errors.ErrInvalidRequest
	}
	return validator.Validate(&req)
}

func (uc *ReviewUseCase) localItem(r *domain.Review, viewer domain.Viewer) dto.ReviewItem {
	id := r.ID
	created := r.CreatedAt
	return dto.ReviewItem{
		ID:           strconv.FormatInt(r.ID, 10),
		ReviewID:     &id,
		Source:       dto.ReviewSourceLocal,
		AuthorName:   r.AuthorName,
		Rating:       r.Rating,
		Text:         r.Text,
		RelativeTime: utils.RelativeTime(r.CreatedAt, uc.now()),
		IsMine:       viewer.IsAuthenticated() && r.AuthorID == viewer.ID,
		CreatedAt:    &created,
	}
}

// pinReview убирает совпадающие по содержимому записи и ставит свой отзыв первым.
// Общего идентификатора у локальных и внешних отзывов нет, поэтому сравнение по автору, тексту и рейтингу
func pinReview(merged []dto.ReviewItem, mine dto.ReviewItem) []dto.ReviewItem {
	out := make([]dto.ReviewItem, 0, len(merged)+1)
	out = append(out, mine)
	for _, r := range merged {
		if r.AuthorName == mine.AuthorName && r.Text == mine.Text && r.Rating == mine.Rating {
			continue
		}
		out = append(out, r)
	}
	return out
}

// weightedAverage: источник с нулевым количеством не влияет; nil при нулевом общем количестве
func weightedAverage(localAvg *float64, localCount int, externalAvg *float64, externalCount int) *float64 {
	total := localCount + externalCount
	if total <= 0 {
		return nil
	}

	sum := valueOrZero(localAvg)*float64(localCount) + valueOrZero(externalAvg)*float64(externalCount)
	avg := roundHalf(sum / float64(total))
	return &avg
}

func externalReviewID(placeID string, r domain.ExternalReview) string {
	return identity.ComputeID(placeID, r.AuthorName, r.Text, strconv.FormatFloat(r.Rating, 'f', -1, 64))
}

// roundHalf округляет до ближайшего шага 0.5, половины вверх
func roundHalf(v float64) float64 {
	return math.Floor(v*2+0.5) / 2
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
