package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/alunos/controller"
	"crescer_backend/internals/middlewares/auth"
)

// AlunoRoutes registra o CRUD de alunos (só equipe da escola).
func AlunoRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAlunoController(db)

	grupo := api.Group("/alunos",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("a gestão de alunos"), constants.EquipeEscola...),
	)

	grupo.Post("/", ctrl.Create)
	grupo.Get("/", ctrl.List)
	grupo.Get("/:id", ctrl.GetByID)
	grupo.Put("/:id", ctrl.Update)
	grupo.Delete("/:id", ctrl.Delete)
	grupo.Post("/importar", ctrl.Import)
}
