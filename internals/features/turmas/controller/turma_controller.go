package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "crescer_backend/internals/helpers"

	"crescer_backend/internals/features/turmas/dto"
	"crescer_backend/internals/features/turmas/model"
)

type TurmaController struct {
	DB *gorm.DB
}

func NewTurmaController(db *gorm.DB) *TurmaController {
	return &TurmaController{DB: db}
}

var validate = validator.New()

func (ctrl *TurmaController) Create(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CriarTurmaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados da turma incompletos ou inválidos")
	}

	turma := model.TurmaModel{
		TurmaNome:     strings.TrimSpace(req.Nome),
		TurmaAno:      req.Ano,
		TurmaPeriodo:  req.Periodo,
		TurmaEscolaID: escopo.EscolaID,
	}
	if err := ctrl.DB.Create(&turma).Error; err != nil {
		log.Printf("[ERROR] criar turma: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao criar turma")
	}
	return helper.JsonCreated(c, "Turma criada com sucesso", turma)
}

func (ctrl *TurmaController) List(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	q := escopo.Filtrar(ctrl.DB.Model(&model.TurmaModel{}), "turma_escola_id")
	if ano := strings.TrimSpace(c.Query("ano")); ano != "" {
		q = q.Where("turma_ano = ?", ano)
	}

	var turmas []model.TurmaModel
	if err := q.Order("turma_ano DESC, turma_nome ASC").Find(&turmas).Error; err != nil {
		log.Printf("[ERROR] listar turmas: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar turmas")
	}
	return helper.JsonOK(c, "ok", turmas)
}

func (ctrl *TurmaController) GetByID(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	turmaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var turma model.TurmaModel
	q := escopo.Filtrar(ctrl.DB.Where("turma_id = ?", turmaID), "turma_escola_id")
	if err := q.First(&turma).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Turma não encontrada")
		}
		log.Printf("[ERROR] buscar turma: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao buscar turma")
	}
	return helper.JsonOK(c, "ok", turma)
}

func (ctrl *TurmaController) Update(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	turmaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.AtualizarTurmaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados inválidos")
	}

	updates := map[string]any{}
	if req.Nome != nil {
		updates["turma_nome"] = strings.TrimSpace(*req.Nome)
	}
	if req.Periodo != nil {
		updates["turma_periodo"] = *req.Periodo
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nada para atualizar")
	}

	res := ctrl.DB.Model(&model.TurmaModel{}).
		Where("turma_id = ? AND turma_escola_id = ?", turmaID, escopo.EscolaID).
		Updates(updates)
	if res.Error != nil {
		log.Printf("[ERROR] atualizar turma: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao atualizar turma")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Turma não encontrada")
	}
	return helper.JsonUpdated(c, "Turma atualizada com sucesso", nil)
}

func (ctrl *TurmaController) Delete(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	turmaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	res := ctrl.DB.
		Where("turma_id = ? AND turma_escola_id = ?", turmaID, escopo.EscolaID).
		Delete(&model.TurmaModel{})
	if res.Error != nil {
		log.Printf("[ERROR] excluir turma: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao excluir turma")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Turma não encontrada")
	}
	return helper.JsonDeleted(c, "Turma excluída com sucesso", nil)
}
