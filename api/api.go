package api

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nodepulse/nodepulse/api/handler"
	"github.com/nodepulse/nodepulse/config"
)

type Api struct {
	cfg    *config.Config
	logger *slog.Logger
	app    *fiber.App
}

func New(cfg *config.Config, logger *slog.Logger) *Api {
	return &Api{
		cfg:    cfg,
		logger: logger,
	}
}

func (a *Api) Start() error {
	app := fiber.New(fiber.Config{
		AppName:               "NodePulse API",
		DisableStartupMessage: true,
	})
	a.app = app

	app.Get("/health", health)

	v1 := app.Group("/v1")
	handler.Register(v1, a.cfg, a.logger)

	port := a.cfg.GetListenPort()
	a.logger.Info("starting API server", slog.String("addr", fmt.Sprintf("http://localhost:%s", port)))

	return app.Listen(":" + port)
}

func (a *Api) Shutdown() error {
	if a.app == nil {
		return nil
	}
	return a.app.Shutdown()
}

// health handles GET /health
func health(c *fiber.Ctx) error {
	return c.SendString("OK")
}
