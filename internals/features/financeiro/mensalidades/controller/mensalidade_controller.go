package controller

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"crescer_backend/internals/constants"
	helper "crescer_backend/internals/helpers"

	"crescer_backend/internals/features/financeiro/encargos"
	"crescer_backend/internals/features/financeiro/mensalidades/dto"
	"crescer_backend/internals/features/financeiro/mensalidades/model"
	"crescer_backend/internals/features/financeiro/mensalidades/service"
)

type MensalidadeController struct {
	DB *gorm.DB
}

func NewMensalidadeController(db *gorm.DB) *MensalidadeController {
	return &MensalidadeController{DB: db}
}

var validate = validator.New()

// linhaListagem é a projeção da listagem administrativa (parcela + aluno +
// responsável).
type linhaListagem struct {
	model.MensalidadeModel
	AlunoNome       string `gorm:"column:aluno_nome"`
	AlunoRaSef      string `gorm:"column:aluno_ra_sef"`
	ResponsavelNome string `gorm:"column:responsavel_nome"`
}

// Create lança uma parcela avulsa no livro-razão.
func (ctrl *MensalidadeController) Create(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CriarMensalidadeRequest
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

	// O aluno precisa ser da escola do token; de fora responde 404.
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

	parcela := model.MensalidadeModel{
		MensalidadeTipo:           req.Tipo,
		MensalidadeDescricao:      strings.TrimSpace(req.Descricao),
		MensalidadeValor:          req.Valor.Round(2),
		MensalidadeDataVencimento: vencimento,
		MensalidadeStatus:         model.StatusOpen,
		MensalidadeAlunoID:        alunoID,
		MensalidadeEscolaID:       escopo.EscolaID,
	}
	if err := service.CriarParcela(ctrl.DB, &parcela); err != nil {
		if errors.Is(err, service.ErrParcelaDuplicada) {
			return helper.JsonError(c, fiber.StatusConflict, "Já existe mensalidade para este aluno neste mês")
		}
		log.Printf("[ERROR] criar parcela: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao lançar parcela")
	}
	return helper.JsonCreated(c, "Parcela lançada com sucesso", linhaParaResponse(linhaListagem{MensalidadeModel: parcela}))
}

// CreateBatch lança o carnê inteiro: do mês do vencimento inicial até
// dezembro, pulando competências já ocupadas.
func (ctrl *MensalidadeController) CreateBatch(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CriarLoteMensalidadesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados incompletos. Por favor, forneça o aluno, o valor e a data de vencimento.")
	}
	if !req.Valor.IsPositive() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Valor da parcela deve ser positivo")
	}

	alunoID, err := uuid.Parse(req.AlunoID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "aluno_id inválido")
	}
	inicio, err := time.Parse("2006-01-02", req.DataVencimentoInicial)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Data de vencimento fora do formato AAAA-MM-DD")
	}

	var pertence int64
	if err := ctrl.DB.Table("alunos").
		Where("aluno_id = ? AND aluno_escola_id = ? AND aluno_deleted_at IS NULL", alunoID, escopo.EscolaID).
		Count(&pertence).Error; err != nil {
		log.Printf("[ERROR] checar aluno: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao lançar mensalidades")
	}
	if pertence == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	}

	criadas, puladas, err := service.CriarLote(ctrl.DB, alunoID, escopo.EscolaID, req.Valor, inicio)
	if err != nil {
		log.Printf("[ERROR] criar lote de mensalidades: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao lançar mensalidades")
	}
	if criadas == 0 {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Nenhuma mensalidade pôde ser criada.")
	}

	msg := fmt.Sprintf("%d de %d mensalidades foram criadas com sucesso.", criadas, criadas+puladas)
	if puladas > 0 {
		msg += fmt.Sprintf(" %d falharam (possivelmente por já existirem).", puladas)
	}
	return helper.JsonCreated(c, msg, fiber.Map{"criadas": criadas, "puladas": puladas})
}

// List é a tela principal de cobrança: junta aluno e responsável, aplica
// filtros e recalcula os encargos das parcelas em aberto, persistindo o
// que mudou desde a última listagem.
//
// O filtro mes ("AAAA-MM") é assimétrico de propósito: combinado com
// status=approved ele olha a data de PAGAMENTO (recebidos no mês);
// qualquer outro status olha a data de VENCIMENTO (carteira do mês).
func (ctrl *MensalidadeController) List(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 50, 200)
	status := strings.TrimSpace(c.Query("status"))

	q := ctrl.DB.Model(&model.MensalidadeModel{}).
		Select("mensalidades.*, alunos.aluno_nome AS aluno_nome, alunos.aluno_ra_sef AS aluno_ra_sef, responsaveis.responsavel_nome AS responsavel_nome").
		Joins("JOIN alunos ON alunos.aluno_id = mensalidades.mensalidade_aluno_id").
		Joins("LEFT JOIN responsaveis ON responsaveis.responsavel_id = alunos.aluno_responsavel_id")
	q = escopo.Filtrar(q, "mensalidade_escola_id")

	if busca := strings.TrimSpace(c.Query("q")); busca != "" {
		like := "%" + busca + "%"
		q = q.Where("alunos.aluno_nome LIKE ? OR alunos.aluno_ra_sef LIKE ? OR responsaveis.responsavel_nome LIKE ?", like, like, like)
	}
	if status != "" {
		q = q.Where("mensalidade_status = ?", status)
	}
	if turma := strings.TrimSpace(c.Query("turma_id")); turma != "" {
		turmaID, err := uuid.Parse(turma)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "turma_id inválido")
		}
		q = q.Where("alunos.aluno_turma_id = ?", turmaID)
	}
	if aluno := strings.TrimSpace(c.Query("aluno_id")); aluno != "" {
		alunoID, err := uuid.Parse(aluno)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "aluno_id inválido")
		}
		q = q.Where("mensalidade_aluno_id = ?", alunoID)
	}
	if mes := strings.TrimSpace(c.Query("mes")); mes != "" {
		inicio, err := time.Parse("2006-01", mes)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Filtro de mês fora do formato AAAA-MM")
		}
		q = service.FiltrarPorMes(q, status, inicio)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] contar parcelas: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar parcelas")
	}

	var linhas []linhaListagem
	if err := q.Order("alunos.aluno_nome ASC, mensalidade_data_vencimento DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Scan(&linhas).Error; err != nil {
		log.Printf("[ERROR] listar parcelas: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar parcelas")
	}

	hoje := time.Now()
	out := make([]dto.ParcelaResponse, 0, len(linhas))
	for i := range linhas {
		// Persistência dos encargos exige contexto de escola; no bypass
		// do superadmin o recálculo é só de exibição.
		if !escopo.Bypass {
			if err := service.AplicarEncargos(ctrl.DB, &linhas[i].MensalidadeModel, escopo.EscolaID, hoje); err != nil {
				log.Printf("[ERROR] aplicar encargos em %s: %v", linhas[i].MensalidadeID, err)
			}
		}
		out = append(out, linhaParaResponse(linhas[i]))
	}

	pag := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", out, &pag)
}

// RegisterPayment grava o pagamento do comprovante (valor e data vêm no
// corpo), sem checar o status anterior: o dinheiro na mão ganha de
// qualquer estado.
func (ctrl *MensalidadeController) RegisterPayment(c *fiber.Ctx) error {
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
		log.Printf("[ERROR] registrar pagamento: %v", err)
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

// UpdateStatus muda o status da parcela. Admin alcança qualquer parcela
// da escola; aluno só alcança as próprias (dono via ra_sef do token).
func (ctrl *MensalidadeController) UpdateStatus(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	parcelaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.AtualizarStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Status inválido")
	}

	q := ctrl.DB.Model(&model.MensalidadeModel{}).
		Where("mensalidade_id = ?", parcelaID)
	q = escopo.Filtrar(q, "mensalidade_escola_id")

	if escopo.Role == constants.RoleAluno || escopo.Role == constants.RoleAlunoPendente {
		// Aluno não aprova a própria parcela; só sinaliza intenção de
		// pagamento. A confirmação é da secretaria.
		if req.Status == model.StatusApproved {
			return helper.JsonError(c, fiber.StatusForbidden, "Confirmação de pagamento é feita pela secretaria")
		}
		q = q.Where("mensalidade_aluno_id IN (?)",
			ctrl.DB.Table("alunos").Select("aluno_id").Where("aluno_ra_sef = ?", escopo.Username))
	}

	res := q.Update("mensalidade_status", req.Status)
	if res.Error != nil {
		log.Printf("[ERROR] atualizar status: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao atualizar status")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Parcela não encontrada")
	}
	return helper.JsonUpdated(c, "Status atualizado com sucesso", nil)
}

// Delete remove a parcela do livro-razão. Zero linhas afetadas vira 404,
// idêntico para "não existe" e "é de outra escola".
func (ctrl *MensalidadeController) Delete(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	parcelaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	res := ctrl.DB.
		Where("mensalidade_id = ? AND mensalidade_escola_id = ?", parcelaID, escopo.EscolaID).
		Delete(&model.MensalidadeModel{})
	if res.Error != nil {
		log.Printf("[ERROR] excluir parcela: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao excluir parcela")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Parcela não encontrada")
	}
	return helper.JsonDeleted(c, "Parcela excluída com sucesso", nil)
}

// SummaryByTurma agrega em atraso / a receber por turma para o painel.
func (ctrl *MensalidadeController) SummaryByTurma(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	hoje := time.Now().Format("2006-01-02")

	var resumos []dto.ResumoTurma
	q := ctrl.DB.Model(&model.MensalidadeModel{}).
		Select(`turmas.turma_id AS turma_id,
			turmas.turma_nome AS turma_nome,
			SUM(CASE WHEN mensalidade_status = 'open' AND mensalidade_data_vencimento < ? THEN 1 ELSE 0 END) AS em_atraso,
			SUM(CASE WHEN mensalidade_status = 'open' AND mensalidade_data_vencimento >= ? THEN 1 ELSE 0 END) AS a_receber,
			COALESCE(SUM(CASE WHEN mensalidade_status = 'open' AND mensalidade_data_vencimento < ? THEN mensalidade_valor ELSE 0 END), 0) AS valor_atraso,
			COALESCE(SUM(CASE WHEN mensalidade_status = 'open' AND mensalidade_data_vencimento >= ? THEN mensalidade_valor ELSE 0 END), 0) AS valor_receber`,
			hoje, hoje, hoje, hoje).
		Joins("JOIN alunos ON alunos.aluno_id = mensalidades.mensalidade_aluno_id").
		Joins("JOIN turmas ON turmas.turma_id = alunos.aluno_turma_id").
		Group("turmas.turma_id, turmas.turma_nome")
	q = escopo.Filtrar(q, "mensalidade_escola_id")

	if err := q.Scan(&resumos).Error; err != nil {
		log.Printf("[ERROR] resumo por turma: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao montar resumo")
	}
	return helper.JsonOK(c, "ok", resumos)
}

// Contadores são os cartões do painel: mensalidades pagas e em aberto no
// mês pedido (padrão: o corrente).
func (ctrl *MensalidadeController) Contadores(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	mes := time.Now().UTC()
	if param := strings.TrimSpace(c.Query("mes")); param != "" {
		mes, err = time.Parse("2006-01", param)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Filtro de mês fora do formato AAAA-MM")
		}
	}

	pagas, abertas, err := service.ContadoresDoMes(ctrl.DB, escopo.EscolaID, mes)
	if err != nil {
		log.Printf("[ERROR] contadores do mês: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao montar contadores")
	}
	return helper.JsonOK(c, "ok", dto.ContadoresMesResponse{
		Mes:          mes.Format("2006-01"),
		PagasNoMes:   pagas,
		AbertasNoMes: abertas,
	})
}

// MinhasParcelas é a visão do aluno logado: valores de face ordenados por
// vencimento, sem recalcular encargos.
func (ctrl *MensalidadeController) MinhasParcelas(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	var parcelas []model.MensalidadeModel
	err = ctrl.DB.
		Where("mensalidade_aluno_id IN (?)",
			ctrl.DB.Table("alunos").Select("aluno_id").Where("aluno_ra_sef = ?", escopo.Username)).
		Where("mensalidade_escola_id = ?", escopo.EscolaID).
		Order("mensalidade_data_vencimento ASC").
		Find(&parcelas).Error
	if err != nil {
		log.Printf("[ERROR] minhas parcelas: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar parcelas")
	}

	out := make([]dto.ParcelaAlunoResponse, 0, len(parcelas))
	for _, p := range parcelas {
		out = append(out, dto.ParcelaAlunoResponse{
			MensalidadeID:  p.MensalidadeID.String(),
			Descricao:      p.MensalidadeDescricao,
			Valor:          p.MensalidadeValor,
			DataVencimento: p.MensalidadeDataVencimento,
			Status:         p.MensalidadeStatus,
			ValorPago:      p.MensalidadeValorPago,
			DataPagamento:  p.MensalidadeDataPagamento,
		})
	}
	return helper.JsonOK(c, "ok", out)
}

func linhaParaResponse(l linhaListagem) dto.ParcelaResponse {
	calc := encargos.Encargos{
		DiasAtraso:  l.MensalidadeDiasAtraso,
		Multa:       l.MensalidadeMultaAplicada,
		Juros:       l.MensalidadeJurosAplicados,
		TotalDevido: l.MensalidadeValor.Add(l.MensalidadeMultaAplicada).Add(l.MensalidadeJurosAplicados).Round(2),
	}
	return dto.ParcelaResponse{
		MensalidadeID:   l.MensalidadeID.String(),
		Tipo:            l.MensalidadeTipo,
		Descricao:       l.MensalidadeDescricao,
		Competencia:     l.MensalidadeCompetencia,
		Valor:           l.MensalidadeValor,
		DataVencimento:  l.MensalidadeDataVencimento,
		Status:          l.MensalidadeStatus,
		ValorPago:       l.MensalidadeValorPago,
		DataPagamento:   l.MensalidadeDataPagamento,
		DiasAtraso:      calc.DiasAtraso,
		Multa:           calc.Multa,
		Juros:           calc.Juros,
		TotalDevido:     calc.TotalDevido,
		AlunoID:         l.MensalidadeAlunoID.String(),
		AlunoNome:       l.AlunoNome,
		AlunoRaSef:      l.AlunoRaSef,
		ResponsavelNome: l.ResponsavelNome,
	}
}
