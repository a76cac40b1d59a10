package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/turmas/controller"
	"crescer_backend/internals/middlewares/auth"
)

func TurmaRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewTurmaController(db)

	grupo := api.Group("/turmas",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("as turmas"), constants.EquipeEscola...),
	)
	grupo.Post("/", ctrl.Create)
	grupo.Get("/", ctrl.List)
	grupo.Get("/:id", ctrl.GetByID)
	grupo.Put("/:id", ctrl.Update)
	grupo.Delete("/:id", ctrl.Delete)
}
