package main

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/kcx/internal/config"
	"github.com/example/kcx/internal/database"
	"github.com/example/kcx/internal/logger"
	"github.com/example/kcx/internal/routes"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "KCX Storefront",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	app.Static("/static", "./static")

	routes.Register(app, db, cfg)

	logger.L().Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.L().Fatal("fiber.Listen error", zap.Error(err))
	}
}
