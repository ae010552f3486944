package middleware

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/place-microservice/internal/domain"
)

// Заголовки выставляет шлюз после проверки сессии
const (
	HeaderUserID       = "X-User-ID"
	HeaderUserNickname = "X-User-Nickname"
	HeaderUserName     = "X-User-Name"
	HeaderUserEmail    = "X-User-Email"

	viewerHeaders = HeaderUserID + "," + HeaderUserNickname + "," + HeaderUserName + "," + HeaderUserEmail

	localViewer = "viewer"
)

// Viewer кладет текущего пользователя в Locals. Без X-User-ID или с некорректным
// значением запрос считается анонимным
func Viewer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := domain.Anonymous()

		if raw := strings.TrimSpace(c.Get(HeaderUserID)); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id > 0 {
				viewer = domain.Viewer{
					ID:       id,
					Nickname: c.Get(HeaderUserNickname),
					Name:     c.Get(HeaderUserName),
					Email:    c.Get(HeaderUserEmail),
				}
			}
		}

		c.Locals(localViewer, viewer)
		return c.Next()
	}
}

// ViewerFrom - пользователь запроса, анонимный если middleware не подключен
func ViewerFrom(c *fiber.Ctx) domain.Viewer {
	if v, ok := c.Locals(localViewer).(domain.Viewer); ok {
		return v
	}
	return domain.Anonymous()
}
