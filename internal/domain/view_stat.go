package domain

import "time"

// ViewStat - счетчик просмотров места, создается при первом просмотре
type ViewStat struct {
	PlaceID      string    `db:"place_id" json:"place_id"`
	ViewCount    int64     `db:"view_count" json:"view_count"`
	LastViewedAt time.Time `db:"last_viewed_at" json:"last_viewed_at"`
}

// Less задает порядок рейтинга: больше просмотров, затем более свежий просмотр
func (s ViewStat) Less(o ViewStat) bool {
	if s.ViewCount != o.ViewCount {
		return s.ViewCount > o.ViewCount
	}
	return s.LastViewedAt.After(o.LastViewedAt)
}
