package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/delivery/http/middleware"
	"github.com/place-microservice/internal/pkg/utils"
	"github.com/place-microservice/internal/usecase"
	"github.com/place-microservice/internal/usecase/dto"
)

type LikeHandler struct {
	likeUC *usecase.LikeUseCase
	logger *zap.Logger
}

func NewLikeHandler(likeUC *usecase.LikeUseCase, logger *zap.Logger) *LikeHandler {
	return &LikeHandler{
		likeUC: likeUC,
		logger: logger,
	}
}

// Like - POST /api/v1/places/:placeId/like
func (h *LikeHandler) Like(c *fiber.Ctx) error {
	placeID := c.Params("placeId")
	if err := h.likeUC.Like(c.Context(), middleware.ViewerFrom(c), placeID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.LikeStatus{PlaceID: placeID, Liked: true}, nil)
}

// Unlike - DELETE /api/v1/places/:placeId/like
func (h *LikeHandler) Unlike(c *fiber.Ctx) error {
	placeID := c.Params("placeId")
	if err := h.likeUC.Unlike(c.Context(), middleware.ViewerFrom(c), placeID); err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.LikeStatus{PlaceID: placeID, Liked: false}, nil)
}

// MyLikes - GET /api/v1/me/likes?size=&order=
func (h *LikeHandler) MyLikes(c *fiber.Ctx) error {
	size := c.QueryInt("size", 20)

	places, err := h.likeUC.MyLikes(c.Context(), middleware.ViewerFrom(c), size, c.Query("order", "latest"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, places, &utils.Meta{Total: len(places)})
}
