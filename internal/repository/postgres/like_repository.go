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

const (
	likesByUserNewest = `
		SELECT id, user_id, place_id, place_name, photo_ref, created_at
		FROM place_likes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	likesByUserOldest = `
		SELECT id, user_id, place_id, place_name, photo_ref, created_at
		FROM place_likes
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2`
)

var _ repository.LikeRepository = (*LikeRepository)(nil)

type LikeRepository struct {
	db     *DB
	logger *zap.Logger
}

func NewLikeRepository(db *DB, logger *zap.Logger) *LikeRepository {
	return &LikeRepository{db: db, logger: logger}
}

func (r *LikeRepository) Exists(ctx context.Context, userID int64, placeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM place_likes WHERE user_id = $1 AND place_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, placeID); err != nil {
		r.logger.Error("Failed to check like", zap.String("place_id", placeID), zap.Error(err))
		return false, errors.ErrDatabaseError.Wrap(err)
	}
	return exists, nil
}

// Insert не падает на существующей паре: ON CONFLICT DO NOTHING
func (r *LikeRepository) Insert(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO place_likes (user_id, place_id, place_name, photo_ref)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, place_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, like.UserID, like.PlaceID, like.PlaceName, like.PhotoRef).
		Scan(&like.ID, &like.CreatedAt)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, sql.ErrNoRows):
		return nil
	case isUniqueViolation(err):
		return repository.ErrDuplicate
	default:
		r.logger.Error("Failed to insert like",
			zap.String("place_id", like.PlaceID),
			zap.Int64("user_id", like.UserID),
			zap.Error(err))
		return errors.ErrDatabaseError.Wrap(err)
	}
}

func (r *LikeRepository) Delete(ctx context.Context, userID int64, placeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM place_likes WHERE user_id = $1 AND place_id = $2`, userID, placeID)
	if err != nil {
		r.logger.Error("Failed to delete like", zap.String("place_id", placeID), zap.Error(err))
		return false, errors.ErrDatabaseError.Wrap(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, errors.ErrDatabaseError.Wrap(err)
	}
	return affected > 0, nil
}

func (r *LikeRepository) ListByUser(ctx context.Context, userID int64, limit int, ascending bool) ([]domain.Like, error) {
	query := likesByUserNewest
	if ascending {
		query = likesByUserOldest
	}

	likes := make([]domain.Like, 0, limit)
	if err := r.db.SelectContext(ctx, &likes, query, userID, limit); err != nil {
		r.logger.Error("Failed to list likes", zap.Int64("user_id", userID), zap.Error(err))
		return nil, errors.ErrDatabaseError.Wrap(err)
	}
	return likes, nil
}
