package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "crescer_backend/internals/helpers"

	"crescer_backend/internals/features/financeiro/materiais/dto"
	"crescer_backend/internals/features/financeiro/materiais/model"
	"crescer_backend/internals/features/financeiro/materiais/service"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
)

type MaterialController struct {
	DB *gorm.DB
}

func NewMaterialController(db *gorm.DB) *MaterialController {
	return &MaterialController{DB: db}
}

var validate = validator.New()

type linhaMaterial struct {
	model.MaterialModel
	AlunoNome  string `gorm:"column:aluno_nome"`
	AlunoRaSef string `gorm:"column:aluno_ra_sef"`
}

// Create lança uma parcela de material avulsa.
func (ctrl *MaterialController) Create(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CriarMaterialRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados da parcela incompletos ou inválidos")
	}
	if !req.Valor.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Valor da parcela deve ser positivo")
	}

	alunoID, err := uuid.Parse(req.AlunoID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "aluno_id inválido")
	}
	vencimento, err := time.Parse("2006-01-02", req.DataVencimento)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Data de vencimento fora do formato AAAA-MM-DD")
	}

	var pertence int64
	if err := ctrl.DB.Table("alunos").
		Where("aluno_id = ? AND aluno_escola_id = ? AND aluno_deleted_at IS NULL", alunoID, escopo.EscolaID).
		Count(&pertence).Error; err != nil {
		log.Printf("[ERROR] checar aluno: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao lançar parcela")
	}
	if pertence == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	}

	parcela := model.MaterialModel{
		MaterialDescricao:      strings.TrimSpace(req.Descricao),
		MaterialValor:          req.Valor.Round(2),
		MaterialDataVencimento: vencimento,
		MaterialStatus:         mensalidadeModel.StatusOpen,
		MaterialAlunoID:        alunoID,
		MaterialEscolaID:       escopo.EscolaID,
	}
	if err := service.CriarParcela(ctrl.DB, &parcela); err != nil {
		if errors.Is(err, service.ErrParcelaDuplicada) {
			return helper.JsonError(c, fiber.StatusConflict, "Esta parcela de material já foi lançada para o aluno")
		}
		log.Printf("[ERROR] criar material: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao lançar parcela")
	}
	return helper.JsonCreated(c, "Parcela de material lançada com sucesso", linhaMaterialParaResponse(linhaMaterial{MaterialModel: parcela}))
}

// List junta aluno, aplica filtros e recalcula encargos das parcelas em
// aberto, como na listagem de mensalidades.
func (ctrl *MaterialController) List(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 50, 200)

	q := ctrl.DB.Model(&model.MaterialModel{}).
		Select("materiais.*, alunos.aluno_nome AS aluno_nome, alunos.aluno_ra_sef AS aluno_ra_sef").
		Joins("JOIN alunos ON alunos.aluno_id = materiais.material_aluno_id")
	q = escopo.Filtrar(q, "material_escola_id")

	if busca := strings.TrimSpace(c.Query("q")); busca != "" {
		like := "%" + busca + "%"
		q = q.Where("alunos.aluno_nome LIKE ? OR alunos.aluno_ra_sef LIKE ?", like, like)
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("material_status = ?", status)
	}
	if aluno := strings.TrimSpace(c.Query("aluno_id")); aluno != "" {
		alunoID, err := uuid.Parse(aluno)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "aluno_id inválido")
		}
		q = q.Where("material_aluno_id = ?", alunoID)
	}
	if mes := strings.TrimSpace(c.Query("mes")); mes != "" {
		inicio, err := time.Parse("2006-01", mes)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Filtro de mês fora do formato AAAA-MM")
		}
		fim := inicio.AddDate(0, 1, 0)
		q = q.Where("material_data_vencimento >= ? AND material_data_vencimento < ?", inicio, fim)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] contar materiais: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar parcelas")
	}

	var linhas []linhaMaterial
	if err := q.Order("alunos.aluno_nome ASC, material_data_vencimento DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Scan(&linhas).Error; err != nil {
		log.Printf("[ERROR] listar materiais: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar parcelas")
	}

	hoje := time.Now()
	out := make([]dto.MaterialResponse, 0, len(linhas))
	for i := range linhas {
		if !escopo.Bypass {
			if err := service.AplicarEncargos(ctrl.DB, &linhas[i].MaterialModel, escopo.EscolaID, hoje); err != nil {
				log.Printf("[ERROR] aplicar encargos em %s: %v", linhas[i].MaterialID, err)
			}
		}
		out = append(out, linhaMaterialParaResponse(linhas[i]))
	}

	pag := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", out, &pag)
}

// RegisterPayment grava o pagamento do comprovante (valor e data no corpo),
// sem checar o status anterior.
func (ctrl *MaterialController) RegisterPayment(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	parcelaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.RegistrarPagamentoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil || !req.ValorPago.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados de pagamento incompletos.")
	}
	dataPagamento, err := time.Parse("2006-01-02", req.DataPagamento)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Data de pagamento fora do formato AAAA-MM-DD")
	}

	ok, err := service.RegistrarPagamento(ctrl.DB, parcelaID, escopo.EscolaID, req.ValorPago, dataPagamento)
	if err != nil {
		log.Printf("[ERROR] registrar pagamento material: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao registrar pagamento")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Parcela não encontrada")
	}
	return helper.JsonUpdated(c, "Pagamento registrado com sucesso", fiber.Map{
		"valor_pago":     req.ValorPago.Round(2),
		"data_pagamento": dataPagamento,
	})
}

// Delete remove a parcela. Zero linhas afetadas vira 404.
func (ctrl *MaterialController) Delete(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	parcelaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	res := ctrl.DB.
		Where("material_id = ? AND material_escola_id = ?", parcelaID, escopo.EscolaID).
		Delete(&model.MaterialModel{})
	if res.Error != nil {
		log.Printf("[ERROR] excluir material: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao excluir parcela")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Parcela não encontrada")
	}
	return helper.JsonDeleted(c, "Parcela excluída com sucesso", nil)
}

// MinhasParcelas lista as parcelas de material do aluno logado, valores de
// face, ordenadas por vencimento.
func (ctrl *MaterialController) MinhasParcelas(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	var parcelas []model.MaterialModel
	err = ctrl.DB.
		Where("material_aluno_id IN (?)",
			ctrl.DB.Table("alunos").Select("aluno_id").Where("aluno_ra_sef = ?", escopo.Username)).
		Where("material_escola_id = ?", escopo.EscolaID).
		Order("material_data_vencimento ASC").
		Find(&parcelas).Error
	if err != nil {
		log.Printf("[ERROR] minhas parcelas material: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar parcelas")
	}

	out := make([]dto.MaterialResponse, 0, len(parcelas))
	for _, p := range parcelas {
		out = append(out, linhaMaterialParaResponse(linhaMaterial{MaterialModel: p}))
	}
	return helper.JsonOK(c, "ok", out)
}

func linhaMaterialParaResponse(l linhaMaterial) dto.MaterialResponse {
	return dto.MaterialResponse{
		MaterialID:     l.MaterialID.String(),
		Descricao:      l.MaterialDescricao,
		Valor:          l.MaterialValor,
		DataVencimento: l.MaterialDataVencimento,
		Status:         l.MaterialStatus,
		ValorPago:      l.MaterialValorPago,
		DataPagamento:  l.MaterialDataPagamento,
		DiasAtraso:     l.MaterialDiasAtraso,
		Multa:          l.MaterialMultaAplicada,
		Juros:          l.MaterialJurosAplicados,
		TotalDevido:    l.MaterialValor.Add(l.MaterialMultaAplicada).Add(l.MaterialJurosAplicados).Round(2),
		AlunoID:        l.MaterialAlunoID.String(),
		AlunoNome:      l.AlunoNome,
		AlunoRaSef:     l.AlunoRaSef,
	}
}
