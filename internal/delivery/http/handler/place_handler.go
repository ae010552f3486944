package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/delivery/http/middleware"
	"github.com/place-microservice/internal/pkg/utils"
	"github.com/place-microservice/internal/pkg/validator"
	"github.com/place-microservice/internal/usecase"
	"github.com/place-microservice/internal/usecase/dto"
)

// PlaceHandler - поиск мест, страница места и популярные места
type PlaceHandler struct {
	placeUC *usecase.PlaceUseCase
	logger  *zap.Logger
}

func NewPlaceHandler(placeUC *usecase.PlaceUseCase, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		placeUC: placeUC,
		logger:  logger,
	}
}

// Attractions - GET /api/v1/places/attractions?lat=&lng=&limit=
func (h *PlaceHandler) Attractions(c *fiber.Ctx) error {
	lat, lon, err := coordinates(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.AttractionsRequest{
		Lat:   lat,
		Lon:   lon,
		Limit: c.QueryInt("limit", 10),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	cards, err := h.placeUC.FindAttractions(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, cards, &utils.Meta{
		Total:     len(cards),
		Limit:     req.Limit,
		RequestID: middleware.RequestID(c),
	})
}

// Autocomplete - GET /api/v1/places/autocomplete?q=
func (h *PlaceHandler) Autocomplete(c *fiber.Ctx) error {
	items, err := h.placeUC.Autocomplete(c.Context(), c.Query("q"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, items, &utils.Meta{Total: len(items)})
}

// Top - GET /api/v1/places/top?lat=&lng=&limit=
func (h *PlaceHandler) Top(c *fiber.Ctx) error {
	lat, lon, err := coordinates(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	req := dto.TopPlacesRequest{
		Lat:   lat,
		Lon:   lon,
		Limit: c.QueryInt("limit", 10),
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	cards, err := h.placeUC.GetTopPlaces(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, cards, &utils.Meta{Total: len(cards)})
}

// Detail - GET /api/v1/places/:placeId
func (h *PlaceHandler) Detail(c *fiber.Ctx) error {
	placeID := c.Params("placeId")

	detail, err := h.placeUC.GetPlaceDetail(c.Context(), placeID, middleware.ViewerFrom(c))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, detail, nil)
}
