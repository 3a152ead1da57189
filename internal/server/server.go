package server

import (
	"backend-dropspot/internal/auth"
	"backend-dropspot/internal/config"
	"backend-dropspot/internal/db"
	"backend-dropspot/internal/group"
	"backend-dropspot/internal/social"
	"backend-dropspot/internal/spot"
	"backend-dropspot/internal/stream"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App    *fiber.App
	Cfg    config.Config
	DB     db.Querier
	Redis  *redis.Client
	Stream *stream.Hub
}

func NewServer(cfg config.Config, dbq db.Querier, redisClient *redis.Client) *Server {
	app := fiber.New()
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Authorization",
	}))

	s := &Server{
		App:    app,
		Cfg:    cfg,
		DB:     dbq,
		Redis:  redisClient,
		Stream: stream.NewHub(redisClient),
	}

	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authSvc := auth.NewService(s.Cfg.JWTSecret, s.DB)
	requireUser := auth.RequireUser(authSvc)
	optionalUser := auth.OptionalUser(authSvc)

	api := s.App.Group("/api")
	api.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Drop the Spot API"})
	})

	auth.RegisterRoutes(api.Group("/auth"), authSvc, requireUser)
	spot.RegisterRoutes(api.Group("/spots"), spot.NewService(s.DB, s.Stream), requireUser, optionalUser)
	social.RegisterRoutes(api, social.NewService(s.DB), requireUser)
	group.RegisterRoutes(api.Group("/groups"), group.NewService(s.DB), requireUser)
	stream.RegisterRoutes(api.Group("/stream"), s.Stream)
}
