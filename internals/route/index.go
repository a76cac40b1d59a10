package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	alunoRoute "crescer_backend/internals/features/alunos/route"
	contratoRoute "crescer_backend/internals/features/contratos/route"
	escolaRoute "crescer_backend/internals/features/escolas/route"
	materialRoute "crescer_backend/internals/features/financeiro/materiais/route"
	mensalidadeRoute "crescer_backend/internals/features/financeiro/mensalidades/route"
	matriculaRoute "crescer_backend/internals/features/matriculas/route"
	turmaRoute "crescer_backend/internals/features/turmas/route"
	usuarioRoute "crescer_backend/internals/features/usuarios/route"
)

// SetupRoutes registra todas as rotas sob /api.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	usuarioRoute.UsuarioRoutes(api, db)
	escolaRoute.EscolaRoutes(api, db)
	turmaRoute.TurmaRoutes(api, db)
	alunoRoute.AlunoRoutes(api, db)
	matriculaRoute.MatriculaRoutes(api, db)
	contratoRoute.ContratoRoutes(api, db)
	mensalidadeRoute.MensalidadeRoutes(api, db)
	materialRoute.MaterialRoutes(api, db)
}
