package repository

import (
	"context"

	"github.com/place-microservice/internal/domain"
)

type LikeRepository interface {
	Exists(ctx context.Context, userID int64, placeID string) (bool, error)

	// Insert идемпотентен для пары (user_id, place_id); гонка может вернуть ErrDuplicate
	Insert(ctx context.Context, like *domain.Like) error

	// Delete удаляет связь, если она есть; возвращает, была ли связь
	Delete(ctx context.Context, userID int64, placeID string) (bool, error)

	// ListByUser - лайки пользователя по времени создания
	ListByUser(ctx context.Context, userID int64, limit int, ascending bool) ([]domain.Like, error)
}
