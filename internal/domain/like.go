package domain

import "time"

// Like - связь пользователь-место. Снимок имени и фото сохраняется при лайке,
// чтобы список "мои места" не требовал запросов к провайдеру
type Like struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	PlaceID   string    `db:"place_id"`
	PlaceName string    `db:"place_name"`
	PhotoRef  string    `db:"photo_ref"`
	CreatedAt time.Time `db:"created_at"`
}
