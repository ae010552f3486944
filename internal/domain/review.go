package domain

import "time"

const (
	MinReviewRating     = 0.5
	MaxReviewRating     = 5.0
	MaxReviewTextLength = 5000
)

// Review - локальный отзыв пользователя. Активным может быть только один
// отзыв на пару (place_id, author_id)
type Review struct {
	ID         int64     `db:"id"`
	PlaceID    string    `db:"place_id"`
	AuthorID   int64     `db:"author_id"`
	AuthorName string    `db:"author_name"`
	Rating     float64   `db:"rating"`
	Text       string    `db:"text"`
	Deleted    bool      `db:"deleted"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// ReviewSummary - агрегат по активным отзывам места
type ReviewSummary struct {
	Count   int      `db:"cnt"`
	Average *float64 `db:"avg_rating"`
}

// ExternalReview - отзыв из внешнего провайдера, не хранится локально
type ExternalReview struct {
	AuthorName   string
	AuthorPhoto  string
	Rating       float64
	Text         string
	RelativeTime string
}

// ExternalReviewFeed - отзывы и агрегат рейтинга от провайдера
type ExternalReviewFeed struct {
	Rating      *float64
	ReviewCount int
	Reviews     []ExternalReview
}
