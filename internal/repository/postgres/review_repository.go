package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/place-microservice/internal/domain"
	"github.com/place-microservice/internal/domain/repository"
	"github.com/place-microservice/internal/pkg/errors"
)

const reviewColumns = `id, place_id, author_id, author_name, rating, text, deleted, created_at, updated_at`

var _ repository.ReviewRepository = (*ReviewRepository)(nil)

type ReviewRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReviewRepository создает репозиторий локальных отзывов
func NewReviewRepository(db *DB, logger *zap.Logger) *ReviewRepository {
	return &ReviewRepository{db: db, logger: logger}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO place_reviews (place_id, author_id, author_name, rating, text)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		review.PlaceID, review.AuthorID, review.AuthorName, review.Rating, review.Text,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		r.logger.Error("Failed to create review",
			zap.String("place_id", review.PlaceID),
			zap.Int64("author_id", review.AuthorID),
			zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}

	review.Deleted = false
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM place_reviews WHERE id = $1`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrReviewNotFound
	}
	if err != nil {
		r.logger.Error("Failed to get review", zap.Int64("id", id), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return &review, nil
}

func (r *ReviewRepository) FindActive(ctx context.Context, placeID string, authorID int64) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + `
		FROM place_reviews
		WHERE place_id = $1 AND author_id = $2 AND deleted = FALSE`

	var review domain.Review
	err := r.db.GetContext(ctx, &review, query, placeID, authorID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to find active review",
			zap.String("place_id", placeID),
			zap.Int64("author_id", authorID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return &review, nil
}

func (r *ReviewRepository) ExistsActive(ctx context.Context, placeID string, authorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM place_reviews
			WHERE place_id = $1 AND author_id = $2 AND deleted = FALSE
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, placeID, authorID); err != nil {
		r.logger.Error("Failed to check review existence", zap.String("place_id", placeID), zap.Error(err))
		return false, errors.ErrDatabaseError.Wrap(err)
	}
	return exists, nil
}

func (r *ReviewRepository) ListActive(ctx context.Context, placeID string, limit int) ([]domain.Review, error) {
	query := `SELECT ` + reviewColumns + `
		FROM place_reviews
		WHERE place_id = $1 AND deleted = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	reviews := make([]domain.Review, 0, limit)
	if err := r.db.SelectContext(ctx, &reviews, query, placeID, limit); err != nil {
		r.logger.Error("Failed to list reviews", zap.String("place_id", placeID), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Summary(ctx context.Context, placeID string) (*domain.ReviewSummary, error) {
	query := `
		SELECT COUNT(*) AS cnt, AVG(rating) AS avg_rating
		FROM place_reviews
		WHERE place_id = $1 AND deleted = FALSE`

	var summary domain.ReviewSummary
	if err := r.db.GetContext(ctx, &summary, query, placeID); err != nil {
		r.logger.Error("Failed to summarize reviews", zap.String("place_id", placeID), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return &summary, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE place_reviews
		SET rating = $1, text = $2, author_name = $3, updated_at = NOW()
		WHERE id = $4 AND deleted = FALSE
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, review.Rating, review.Text, review.AuthorName, review.ID).Scan(&review.UpdatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.ErrReviewNotFound
	}
	if err != nil {
		r.logger.Error("Failed to update review", zap.Int64("id", review.ID), zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}
	return nil
}

func (r *ReviewRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE place_reviews SET deleted = TRUE, updated_at = NOW() WHERE id = $1 AND deleted = FALSE`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete review", zap.Int64("id", id), zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseError.Wrap(err)
	}
	if affected == 0 {
		return errors.ErrReviewNotFound
	}
	return nil
}
