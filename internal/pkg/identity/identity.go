// Package identity выдает детерминированные идентификаторы внешним записям,
// у которых нет собственного ключа (например, отзывы из Google Places).
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IDLength - длина идентификатора в hex-символах (9 байт дайджеста)
const IDLength = 18

const separator = "|"

// ComputeID нормализует поля (trim + lowercase), склеивает через "|"
// и возвращает первые 9 байт SHA-256 в hex. Пустые поля допустимы
func ComputeID(fields ...string) string {
	normalized := make([]string, len(fields))
	for i, f := range fields {
		normalized[i] = strings.TrimSpace(f)
	}
	key := strings.ToLower(strings.Join(normalized, separator))

	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:IDLength/2])
}
