package usecase

import "github.com/place-microservice/internal/pkg/utils"

const (
	defaultAttractionsLimit = 10
	maxAttractionsLimit     = 30
	maxSearchCandidates     = 30

	defaultTopLimit = 10
	maxTopLimit     = 10

	defaultReviewLimit = 20
	maxReviewLimit     = 50
	maxExternalReviews = 10

	defaultLikesSize = 20
	maxLikesSize     = 50

	cardPhotoWidth   = 800
	detailPhotoWidth = 1280
	maxDetailPhotos  = 8
)

func clampAttractions(limit int) int {
	if limit == 0 {
		limit = defaultAttractionsLimit
	}
	return utils.Clamp(limit, 1, maxAttractionsLimit)
}

func clampTop(limit int) int {
	if limit == 0 {
		limit = defaultTopLimit
	}
	return utils.Clamp(limit, 1, maxTopLimit)
}

func clampReviews(limit int) int {
	if limit == 0 {
		limit = defaultReviewLimit
	}
	return utils.Clamp(limit, 1, maxReviewLimit)
}

func clampLikes(size int) int {
	if size == 0 {
		size = defaultLikesSize
	}
	return utils.Clamp(size, 1, maxLikesSize)
}
