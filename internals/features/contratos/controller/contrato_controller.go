package controller

import (
	"errors"
	"log"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "crescer_backend/internals/helpers"

	"crescer_backend/internals/features/contratos/model"
	"crescer_backend/internals/features/contratos/service"
)

type ContratoController struct {
	DB       *gorm.DB
	Renderer service.Renderer
}

func NewContratoController(db *gorm.DB) *ContratoController {
	return &ContratoController{DB: db, Renderer: service.NewHTMLRenderer()}
}

// ListByAluno lista os contratos emitidos de um aluno da escola.
func (ctrl *ContratoController) ListByAluno(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	alunoID, err := uuid.Parse(c.Params("alunoId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var contratos []model.ContratoModel
	q := escopo.Filtrar(ctrl.DB.Where("contrato_aluno_id = ?", alunoID), "contrato_escola_id")
	if err := q.Order("contrato_ano_letivo DESC").Find(&contratos).Error; err != nil {
		log.Printf("[ERROR] listar contratos: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar contratos")
	}
	return helper.JsonOK(c, "ok", contratos)
}

// Download reproduz o documento a partir da fotografia de campos gravada
// no aceite; não depende do arquivo em disco ter sobrevivido.
func (ctrl *ContratoController) Download(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	contratoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var contrato model.ContratoModel
	q := escopo.Filtrar(ctrl.DB.Where("contrato_id = ?", contratoID), "contrato_escola_id")
	if err := q.First(&contrato).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Contrato não encontrado")
		}
		log.Printf("[ERROR] buscar contrato: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao buscar contrato")
	}

	var campos map[string]string
	if err := sonic.Unmarshal(contrato.ContratoCampos, &campos); err != nil {
		log.Printf("[ERROR] fotografia do contrato %s: %v", contrato.ContratoID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Contrato ilegível")
	}

	doc, err := ctrl.Renderer.RenderContrato(campos)
	if err != nil {
		log.Printf("[ERROR] renderizar contrato %s: %v", contrato.ContratoID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao renderizar contrato")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(doc)
}
