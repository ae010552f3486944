package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/place-microservice/internal/pkg/errors"
)

// coordinates читает обязательные lat и lng из query
func coordinates(c *fiber.Ctx) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lat")), 64)
	if err != nil {
		return 0, 0, errors.ErrInvalidCoordinates.Wrap(err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(c.Query("lng")), 64)
	if err != nil {
		return 0, 0, errors.ErrInvalidCoordinates.Wrap(err)
	}
	return lat, lon, nil
}

func reviewID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("reviewId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reviewId": "must be a positive integer",
		})
	}
	return id, nil
}
