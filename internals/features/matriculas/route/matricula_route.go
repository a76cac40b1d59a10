package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/matriculas/controller"
	"crescer_backend/internals/middlewares"
	"crescer_backend/internals/middlewares/auth"
)

// MatriculaRoutes separa a gestão (equipe da escola) do formulário
// público por token, que leva rate limit próprio.
func MatriculaRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMatriculaController(db)

	gestao := api.Group("/matriculas",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("as matrículas"), constants.AdminEAcima...),
	)
	gestao.Post("/", ctrl.Iniciar)
	gestao.Get("/", ctrl.List)
	gestao.Post("/:id/reenviar", ctrl.Reenviar)
	gestao.Post("/:id/aceitar", ctrl.Aceitar)
	gestao.Delete("/:id", ctrl.Excluir)

	publico := api.Group("/public/matricula", middlewares.FormularioRateLimiter())
	publico.Get("/:token", ctrl.FormularioPublico)
	publico.Post("/:token", ctrl.PreencherFormulario)
}
