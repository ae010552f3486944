package domain

import "strings"

const defaultDisplayName = "User"

// MaxDisplayNameLength совпадает с place_reviews.author_name VARCHAR(100)
const MaxDisplayNameLength = 100

// Viewer - текущий пользователь запроса. ID == 0 означает анонимного
type Viewer struct {
	ID       int64
	Nickname string
	Name     string
	Email    string
}

func Anonymous() Viewer {
	return Viewer{}
}

func (v Viewer) IsAuthenticated() bool {
	return v.ID > 0
}

// DisplayName: ник > имя > локальная часть email > "User", не длиннее MaxDisplayNameLength рун
func (v Viewer) DisplayName() string {
	if s := strings.TrimSpace(v.Nickname); s != "" {
		return truncateRunes(s, MaxDisplayNameLength)
	}
	if s := strings.TrimSpace(v.Name); s != "" {
		return truncateRunes(s, MaxDisplayNameLength)
	}
	if i := strings.Index(v.Email, "@"); i > 0 {
		return truncateRunes(v.Email[:i], MaxDisplayNameLength)
	}
	return defaultDisplayName
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
