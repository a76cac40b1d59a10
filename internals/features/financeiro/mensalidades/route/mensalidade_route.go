package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	"crescer_backend/internals/features/financeiro/mensalidades/controller"
	"crescer_backend/internals/middlewares/auth"
)

// MensalidadeRoutes registra o livro-razão de mensalidades: gestão para a
// equipe da escola e a visão própria do aluno.
func MensalidadeRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMensalidadeController(db)

	gestao := api.Group("/mensalidades",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAdmin("o financeiro"), constants.EquipeEscola...),
	)
	gestao.Post("/", ctrl.Create)
	gestao.Post("/lote", ctrl.CreateBatch)
	gestao.Get("/", ctrl.List)
	gestao.Get("/resumo-turmas", ctrl.SummaryByTurma)
	gestao.Get("/contadores", ctrl.Contadores)
	gestao.Put("/:id/pagamento", ctrl.RegisterPayment)
	gestao.Delete("/:id", ctrl.Delete)

	// Status aceita aluno (intenção de pagamento PIX) além da equipe.
	api.Put("/mensalidades/:id/status",
		auth.AuthMiddleware(),
		auth.OnlyRoles("❌ Acesso restrito.", constants.TodasRoles...),
		ctrl.UpdateStatus)

	aluno := api.Group("/minhas-mensalidades",
		auth.AuthMiddleware(),
		auth.OnlyRoles(constants.RoleErrorAluno("as próprias mensalidades"), constants.SomenteAlunos...),
	)
	aluno.Get("/", ctrl.MinhasParcelas)
}
