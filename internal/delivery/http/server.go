package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/config"
	"github.com/place-microservice/internal/delivery/http/handler"
	"github.com/place-microservice/internal/delivery/http/middleware"
	apperrors "github.com/place-microservice/internal/pkg/errors"
	"github.com/place-microservice/internal/pkg/metrics"
	"github.com/place-microservice/internal/pkg/utils"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	placeHandler  *handler.PlaceHandler
	reviewHandler *handler.ReviewHandler
	likeHandler   *handler.LikeHandler
	healthHandler *handler.HealthHandler

	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// Handlers - набор обработчиков для регистрации маршрутов
type Handlers struct {
	Place  *handler.PlaceHandler
	Review *handler.ReviewHandler
	Like   *handler.LikeHandler
	Health *handler.HealthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Place Microservice",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		placeHandler:  handlers.Place,
		reviewHandler: handlers.Review,
		likeHandler:   handlers.Like,
		healthHandler: handlers.Health,
		metrics:       m,
		gatherer:      gatherer,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Viewer())
	s.app.Use(middleware.Logger(s.logger, s.metrics))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	if s.gatherer != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)

	places := api.Group("/places")
	// статические пути регистрируются раньше /:placeId
	places.Get("/attractions", s.placeHandler.Attractions)
	places.Get("/autocomplete", s.placeHandler.Autocomplete)
	places.Get("/top", s.placeHandler.Top)
	places.Get("/:placeId", s.placeHandler.Detail)

	// Reviews
	places.Get("/:placeId/reviews", s.reviewHandler.Combined)
	places.Get("/:placeId/reviews/local", s.reviewHandler.Local)
	places.Get("/:placeId/reviews/external", s.reviewHandler.External)
	places.Post("/:placeId/reviews", s.reviewHandler.Create)
	places.Put("/:placeId/reviews/:reviewId", s.reviewHandler.Update)
	places.Delete("/:placeId/reviews/:reviewId", s.reviewHandler.Delete)

	// Likes
	places.Post("/:placeId/like", s.likeHandler.Like)
	places.Delete("/:placeId/like", s.likeHandler.Unlike)
	api.Get("/me/likes", s.likeHandler.MyLikes)
}

// App - доступ к fiber.App для тестов через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в хендлерах (404 маршрута, 405, паники)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "HTTP_ERROR",
					"message": fe.Message,
				},
			})
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.String("request_id", middleware.RequestID(c)),
			zap.Error(err),
		)

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return utils.SendError(c, appErr)
		}
		return utils.SendError(c, apperrors.ErrInternalServer)
	}
}
