package dto

import "time"

// ReviewRequest - тело создания и редактирования отзыва
type ReviewRequest struct {
	Rating float64 `json:"rating" validate:"required,min=0.5,max=5"`
	Text   string  `json:"text" validate:"required,notblank,max=5000"`
}

// ReviewSource - откуда пришел отзыв
type ReviewSource string

const (
	ReviewSourceLocal    ReviewSource = "local"
	ReviewSourceExternal ReviewSource = "google"
)

// ReviewItem - отзыв в ответе. Локальные несут числовой id хранилища в ReviewID,
// внешние - детерминированный хеш в ID
type ReviewItem struct {
	ID                 string       `json:"id"`
	ReviewID           *int64       `json:"reviewId,omitempty"`
	Source             ReviewSource `json:"source"`
	AuthorName         string       `json:"authorName"`
	AuthorProfilePhoto string       `json:"authorProfilePhoto,omitempty"`
	Rating             float64      `json:"rating"`
	Text               string       `json:"text"`
	RelativeTime       string       `json:"relativeTime"`
	IsMine             bool         `json:"isMine"`
	CreatedAt          *time.Time   `json:"createdAt,omitempty"`
}

// ReviewList - отзывы места с агрегатом. Rating отсутствует, когда ReviewCount == 0
type ReviewList struct {
	PlaceID     string       `json:"placeId"`
	Rating      *float64     `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	Reviews     []ReviewItem `json:"reviews"`
}
