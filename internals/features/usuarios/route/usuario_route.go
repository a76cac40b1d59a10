package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/features/usuarios/controller"
	"crescer_backend/internals/middlewares"
	"crescer_backend/internals/middlewares/auth"
)

// UsuarioRoutes registra login/logout (públicas, com rate limit próprio)
// e as rotas de sessão autenticada.
func UsuarioRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUsuarioController(db)

	api.Post("/auth/login", middlewares.LoginRateLimiter(), ctrl.Login)
	api.Post("/auth/logout", ctrl.Logout)

	sessao := api.Group("/auth", auth.AuthMiddleware())
	sessao.Get("/me", ctrl.Me)
	sessao.Put("/senha", ctrl.TrocarSenha)
}
