package repository

import (
	"context"

	"github.com/place-microservice/internal/domain"
)

// PlaceProvider - внешний провайдер мест (Google Places API v1).
// Ошибки: ErrPlaceNotFound, ErrUpstreamUnavailable, ErrUpstreamBadResponse
type PlaceProvider interface {
	// TextSearch ищет места по строке; bias может быть nil
	TextSearch(ctx context.Context, query string, bias *domain.LocationBias) ([]domain.Place, error)

	// FetchDetails возвращает полную запись места, включая телефоны и отзывы
	FetchDetails(ctx context.Context, placeID string) (*domain.Place, error)

	// FetchReviews возвращает отзывы и агрегированный рейтинг провайдера
	FetchReviews(ctx context.Context, placeID string) (*domain.ExternalReviewFeed, error)

	// BuildPhotoURL строит URL фото локально, без сетевого запроса
	BuildPhotoURL(photoRef string, maxWidth int) string
}
