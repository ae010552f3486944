package utils

import (
	"fmt"
	"math"
)

const earthRadiusMeters = 6371000.0

// HaversineMeters вычисляет расстояние между двумя точками в метрах, округленное до метра.
// Диапазоны координат проверяет вызывающий код
func HaversineMeters(lat1, lon1, lat2, lon2 float64) int64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int64(math.Round(earthRadiusMeters * c))
}

// FormatDistance форматирует расстояние как "X.Y km"
func FormatDistance(meters int64) string {
	return fmt.Sprintf("%.1f km", float64(meters)/1000.0)
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Clamp ограничивает значение диапазоном [lo, hi]
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
