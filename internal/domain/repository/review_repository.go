package repository

import (
	"context"
	"errors"

	"github.com/place-microservice/internal/domain"
)

// ErrDuplicate возвращается при нарушении уникального ограничения
var ErrDuplicate = errors.New("duplicate record")

type ReviewRepository interface {
	// Create сохраняет отзыв и заполняет ID и временные метки.
	// Второй активный отзыв той же пары возвращает ErrDuplicate
	Create(ctx context.Context, review *domain.Review) error

	// GetByID возвращает отзыв, включая удаленные; ErrReviewNotFound если записи нет
	GetByID(ctx context.Context, id int64) (*domain.Review, error)

	// FindActive возвращает активный отзыв автора для места или nil
	FindActive(ctx context.Context, placeID string, authorID int64) (*domain.Review, error)

	ExistsActive(ctx context.Context, placeID string, authorID int64) (bool, error)

	// ListActive - активные отзывы места, новые первыми
	ListActive(ctx context.Context, placeID string, limit int) ([]domain.Review, error)

	// Summary - количество и средний рейтинг активных отзывов (без округления)
	Summary(ctx context.Context, placeID string) (*domain.ReviewSummary, error)

	// Update меняет рейтинг, текст и снимок имени автора активного отзыва
	Update(ctx context.Context, review *domain.Review) error

	// SoftDelete помечает отзыв удаленным, строка остается в хранилище
	SoftDelete(ctx context.Context, id int64) error
}
