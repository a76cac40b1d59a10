package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"crescer_backend/internals/configs"
	database "crescer_backend/internals/databases"
	helper "crescer_backend/internals/helpers"
	"crescer_backend/internals/middlewares"
	"crescer_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	database.ConnectDB()
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ Migração falhou: %v", err)
	}
	database.WarmUp()

	app := fiber.New(fiber.Config{
		AppName:     "Crescer Backend",
		JSONEncoder: sonic.Marshal,
		JSONDecoder: sonic.Unmarshal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			msg := "Erro interno"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				msg = e.Message
			}
			return helper.JsonError(c, code, msg)
		},
	})

	app.Use(requestid.New())
	app.Use(compress.New())
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app)

	route.SetupRoutes(app, database.DB)

	port := configs.GetEnv("PORT", "8080")
	go func() {
		log.Printf("🚀 Servidor ouvindo na porta %s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("❌ Servidor caiu: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("⏳ Encerrando com graça...")
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("👋 Até logo.")
}
