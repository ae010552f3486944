package repository

import "context"

// EncyclopediaRepository ищет краткое описание места в энциклопедии.
// Отсутствие статьи - это пустая строка без ошибки; ошибка только при сбое транспорта
type EncyclopediaRepository interface {
	GetSummary(ctx context.Context, title string, lat, lon *float64) (string, error)
}
