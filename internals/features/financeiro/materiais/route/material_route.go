package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/financeiro/materiais/controller"
	"crescer_backend/internals/middlewares/auth"
)

// MaterialRoutes registra o livro-razão de material didático.
func MaterialRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMaterialController(db)

	gestao := api.Group("/materiais",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("o financeiro"), constants.EquipeEscola...),
	)
	gestao.Post("/", ctrl.Create)
	gestao.Get("/", ctrl.List)
	gestao.Put("/:id/pagamento", ctrl.RegisterPayment)
	gestao.Delete("/:id", ctrl.Delete)

	aluno := api.Group("/meus-materiais",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAluno("as próprias parcelas de material"), constants.SomenteAlunos...),
	)
	aluno.Get("/", ctrl.MinhasParcelas)
}
