package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/escolas/controller"
	"crescer_backend/internals/middlewares/auth"
)

func EscolaRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewEscolaController(db)

	grupo := api.Group("/escolas",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorSuperadmin("o provisionamento de escolas"), constants.SomenteSuperadmin...),
	)
	grupo.Post("/", ctrl.Create)
	grupo.Get("/", ctrl.List)
	grupo.Put("/:id", ctrl.Update)
	grupo.Delete("/:id", ctrl.Delete)
}
