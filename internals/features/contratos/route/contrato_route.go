package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/contratos/controller"
	"crescer_backend/internals/middlewares/auth"
)

func ContratoRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewContratoController(db)

	grupo := api.Group("/contratos",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("os contratos"), constants.EquipeEscola...),
	)
	grupo.Get("/aluno/:alunoId", ctrl.ListByAluno)
	grupo.Get("/:id/download", ctrl.Download)
}
