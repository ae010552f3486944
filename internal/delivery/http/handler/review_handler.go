package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/delivery/http/middleware"
	"github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/utils"
	"github.com/place-microservice/internal/usecase"
	"github.com/place-microservice/internal/usecase/dto"
)

type ReviewHandler struct {
	reviewUC *usecase.ReviewUseCase
	logger   *zap.Logger
}

func NewReviewHandler(reviewUC *usecase.ReviewUseCase, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewUC: reviewUC,
		logger:   logger,
	}
}

// Combined - GET /api/v1/places/:placeId/reviews?limit=&pinMine=
func (h *ReviewHandler) Combined(c *fiber.Ctx) error {
	list, err := h.reviewUC.GetCombined(
		c.Context(),
		c.Params("placeId"),
		c.QueryInt("limit", 20),
		c.QueryBool("pinMine", false),
		middleware.ViewerFrom(c),
	)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendReviewList(c, list)
}

// Local - GET /api/v1/places/:placeId/reviews/local
func (h *ReviewHandler) Local(c *fiber.Ctx) error {
	list, err := h.reviewUC.GetLocal(c.Context(), c.Params("placeId"), c.QueryInt("limit", 20), middleware.ViewerFrom(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendReviewList(c, list)
}

// External - GET /api/v1/places/:placeId/reviews/external
func (h *ReviewHandler) External(c *fiber.Ctx) error {
	list, err := h.reviewUC.GetExternal(c.Context(), c.Params("placeId"), c.QueryInt("limit", 20))
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendReviewList(c, list)
}

// Create - POST /api/v1/places/:placeId/reviews
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}

	item, err := h.reviewUC.Create(c.Context(), middleware.ViewerFrom(c), c.Params("placeId"), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendCreated(c, item)
}

// Update - PUT /api/v1/places/:placeId/reviews/:reviewId
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := reviewID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.Wrap(err))
	}

	if err := h.reviewUC.Update(c.Context(), middleware.ViewerFrom(c), c.Params("placeId"), id, req); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"reviewId": id, "status": "UPDATED"}, nil)
}

// Delete - DELETE /api/v1/places/:placeId/reviews/:reviewId
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := reviewID(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	if err := h.reviewUC.Delete(c.Context(), middleware.ViewerFrom(c), c.Params("placeId"), id); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"reviewId": id, "status": "DELETED"}, nil)
}

func sendReviewList(c *fiber.Ctx, list *dto.ReviewList) error {
	return utils.SendSuccess(c, list, &utils.Meta{
		Total:  list.ReviewCount,
		Rating: list.Rating,
	})
}
