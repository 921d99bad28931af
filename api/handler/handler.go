package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/nodepulse/nodepulse/api/handler/status"
	"github.com/nodepulse/nodepulse/config"
)

func Register(router fiber.Router, cfg *config.Config, logger *slog.Logger) {
	statusHandler := status.NewStatusHandler(cfg, logger)
	statusHandler.Register(router)
}
