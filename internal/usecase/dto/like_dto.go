package dto

import "time"

type LikeStatus struct {
	PlaceID string `json:"placeId"`
	Liked   bool   `json:"liked"`
}

// LikedPlace - карточка из снимка, сохраненного при лайке
type LikedPlace struct {
	PlaceID  string    `json:"placeId"`
	Name     string    `json:"name"`
	ImageURL string    `json:"imageUrl,omitempty"`
	LikedAt  time.Time `json:"likedAt"`
}
