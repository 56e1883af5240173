package http

import (
	"context"
	stdErrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	_ "github.com/housing-survey-dashboard/docs"
	"github.com/housing-survey-dashboard/internal/config"
	"github.com/housing-survey-dashboard/internal/delivery/http/handler"
	"github.com/housing-survey-dashboard/internal/delivery/http/middleware"
	"github.com/housing-survey-dashboard/internal/metrics"
	"github.com/housing-survey-dashboard/internal/pkg/errors"
	"github.com/housing-survey-dashboard/internal/pkg/utils"
)

// multipartOverhead - запас под заголовки multipart сверх лимита файла
const multipartOverhead = 1 << 20

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	dashboardHandler *handler.DashboardHandler
	healthHandler    *handler.HealthHandler
	uploadLimiter    *middleware.RateLimiter
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	dashboardHandler *handler.DashboardHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Housing Survey Dashboard",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.Upload.MaxBytes + multipartOverhead,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:              app,
		config:           cfg,
		logger:           logger,
		dashboardHandler: dashboardHandler,
		healthHandler:    healthHandler,
		uploadLimiter:    middleware.NewRateLimiter(cfg.Upload.RatePerMin),
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App - доступ к fiber.App для тестов
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.AllowOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := s.app.Group("/api/v1")
	api.Get("/health", s.healthHandler.Health)

	sessions := api.Group("/sessions")
	sessions.Post("/", s.dashboardHandler.CreateSession)
	sessions.Get("/:id", s.dashboardHandler.GetView)
	sessions.Delete("/:id", s.dashboardHandler.DeleteSession)
	sessions.Get("/:id/map", s.dashboardHandler.GetMap)

	// Взаимодействия: каждое - одно событие сессии
	sessions.Post("/:id/upload", s.uploadLimiter.Handler(), s.dashboardHandler.Upload)
	sessions.Put("/:id/filters", s.dashboardHandler.ChangeFilters)
	sessions.Post("/:id/viewport", s.dashboardHandler.MoveMap)
	sessions.Post("/:id/click", s.dashboardHandler.ClickMap)
	sessions.Post("/:id/select", s.dashboardHandler.SelectRecord)
	sessions.Post("/:id/zoom", s.dashboardHandler.ZoomToRecord)
	sessions.Delete("/:id/zoom", s.dashboardHandler.ClearZoom)
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

// customErrorHandler - ошибки самого fiber (404 маршрута, превышение тела) в общем формате ответа
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if stdErrors.As(err, &fe) {
			switch fe.Code {
			case fiber.StatusRequestEntityTooLarge:
				return utils.SendError(c, errors.ErrUploadTooLarge)
			case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
				return c.Status(fe.Code).JSON(utils.ErrorResponse{
					Error: errors.New("ROUTE_NOT_FOUND", fe.Message, fe.Code),
				})
			}
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)

		return utils.SendError(c, err)
	}
}
