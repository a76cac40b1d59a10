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

	"crescer_backend/internals/features/alunos/dto"
	alunoModel "crescer_backend/internals/features/alunos/model"
	"crescer_backend/internals/features/alunos/service"
	"crescer_backend/internals/features/financeiro/planner"
)

type AlunoController struct {
	DB *gorm.DB
}

func NewAlunoController(db *gorm.DB) *AlunoController {
	return &AlunoController{DB: db}
}

var validate = validator.New()

// Create cadastra um aluno avulso (fora do fluxo de matrícula pendente).
// Gera ra_sef, credencial e, quando a requisição traz as condições
// financeiras, o carnê do primeiro ano — tudo na mesma transação.
func (ctrl *AlunoController) Create(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.CriarAlunoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados do aluno incompletos ou inválidos")
	}

	nascimento, err := time.Parse("02/01/2006", req.DataNascimento)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Data de nascimento fora do formato dd/mm/aaaa")
	}

	in := service.NovoAluno{
		Nome:            strings.TrimSpace(req.Nome),
		DataNascimento:  nascimento,
		AnoInicio:       req.AnoInicio,
		Bolsista:        req.Bolsista,
		Observacoes:     req.Observacoes,
		RespPedNome:     req.RespPedNome,
		RespPedTelefone: req.RespPedTelefone,
	}
	if req.RespPedNascimento != "" {
		if d, err := time.Parse("02/01/2006", req.RespPedNascimento); err == nil {
			in.RespPedNascimento = &d
		}
	}
	if req.TurmaID != "" {
		id, err := uuid.Parse(req.TurmaID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "turma_id inválido")
		}
		in.TurmaID = &id
	}
	if req.ResponsavelID != "" {
		id, err := uuid.Parse(req.ResponsavelID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "responsavel_id inválido")
		}
		in.ResponsavelID = &id
	}

	hoje := time.Now()
	termos := service.TermosFinanceiros{
		Anuidade:       req.Anuidade,
		ValorMatricula: req.ValorMatricula,
		DiaVencimento:  req.DiaVencimento,
		ValorMaterial:  req.ValorMaterial,
		MesesMaterial:  planner.MesesMaterialPadrao(req.ParcelasMaterial, req.AnoInicio, hoje),
	}

	aluno, err := service.CriarAlunoComPlano(ctrl.DB, in, termos, escopo.EscolaID, hoje)
	if err != nil {
		if errors.Is(err, service.ErrRaSefExiste) {
			return helper.JsonError(c, fiber.StatusConflict, "RA/SEF já cadastrado no sistema")
		}
		log.Printf("[ERROR] criar aluno: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao cadastrar aluno")
	}
	return helper.JsonCreated(c, "Aluno cadastrado com sucesso", dto.FromAlunoModel(*aluno))
}

// List devolve os alunos da escola com busca por nome/ra_sef e filtro de turma.
func (ctrl *AlunoController) List(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := escopo.Filtrar(ctrl.DB.Model(&alunoModel.AlunoModel{}), "aluno_escola_id")

	if busca := strings.TrimSpace(c.Query("q")); busca != "" {
		like := "%" + busca + "%"
		q = q.Where("aluno_nome LIKE ? OR aluno_ra_sef LIKE ?", like, like)
	}
	if turma := strings.TrimSpace(c.Query("turma_id")); turma != "" {
		turmaID, err := uuid.Parse(turma)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "turma_id inválido")
		}
		q = q.Where("aluno_turma_id = ?", turmaID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Printf("[ERROR] contar alunos: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar alunos")
	}

	var alunos []alunoModel.AlunoModel
	if err := q.Order("aluno_nome ASC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&alunos).Error; err != nil {
		log.Printf("[ERROR] listar alunos: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar alunos")
	}

	out := make([]dto.AlunoResponse, 0, len(alunos))
	for _, a := range alunos {
		out = append(out, dto.FromAlunoModel(a))
	}
	pag := helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage)
	return helper.JsonList(c, "ok", out, &pag)
}

// GetByID devolve um aluno da escola. Aluno de outra escola responde 404,
// indistinguível de inexistente.
func (ctrl *AlunoController) GetByID(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	alunoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var aluno alunoModel.AlunoModel
	q := escopo.Filtrar(ctrl.DB.Where("aluno_id = ?", alunoID), "aluno_escola_id")
	if err := q.First(&aluno).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
		}
		log.Printf("[ERROR] buscar aluno: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao buscar aluno")
	}
	return helper.JsonOK(c, "ok", dto.FromAlunoModel(aluno))
}

// Update altera dados cadastrais. Ra_sef e data de nascimento não mudam
// por aqui: são a identidade do aluno e a senha inicial.
func (ctrl *AlunoController) Update(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	alunoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.AtualizarAlunoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Dados inválidos")
	}

	updates := map[string]any{}
	if req.Nome != nil {
		updates["aluno_nome"] = strings.TrimSpace(*req.Nome)
	}
	if req.Observacoes != nil {
		updates["aluno_observacoes"] = *req.Observacoes
	}
	if req.Bolsista != nil {
		updates["aluno_bolsista"] = *req.Bolsista
	}
	if req.RespPedNome != nil {
		updates["aluno_resp_pedagogico_nome"] = *req.RespPedNome
	}
	if req.RespPedTelefone != nil {
		updates["aluno_resp_pedagogico_telefone"] = *req.RespPedTelefone
	}
	if req.TurmaID != nil {
		if *req.TurmaID == "" {
			updates["aluno_turma_id"] = nil
		} else {
			turmaID, err := uuid.Parse(*req.TurmaID)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "turma_id inválido")
			}
			updates["aluno_turma_id"] = turmaID
		}
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nada para atualizar")
	}

	res := ctrl.DB.Model(&alunoModel.AlunoModel{}).
		Where("aluno_id = ? AND aluno_escola_id = ?", alunoID, escopo.EscolaID).
		Updates(updates)
	if res.Error != nil {
		log.Printf("[ERROR] atualizar aluno: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao atualizar aluno")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	}
	return helper.JsonUpdated(c, "Aluno atualizado com sucesso", nil)
}

// Delete exclui o aluno e todos os registros dependentes.
func (ctrl *AlunoController) Delete(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	alunoID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	ok, err := service.ExcluirAluno(ctrl.DB, alunoID, escopo.EscolaID)
	if err != nil {
		log.Printf("[ERROR] excluir aluno: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao excluir aluno")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Aluno não encontrado")
	}
	return helper.JsonDeleted(c, "Aluno excluído com sucesso", nil)
}

// Import grava a planilha de migração em lote (tudo-ou-nada).
func (ctrl *AlunoController) Import(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.ImportarAlunosRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Planilha vazia ou ano de início ausente")
	}

	resultado, err := service.ImportarAlunos(ctrl.DB, req.Linhas, req.AnoInicio, escopo.EscolaID)
	if err != nil {
		if errors.Is(err, service.ErrRaSefExiste) || errors.Is(err, service.ErrCpfOutraEscola) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		log.Printf("[ERROR] importar alunos: %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return helper.JsonCreated(c, "Importação concluída", resultado)
}
