package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"crescer_backend/internals/configs"
	helper "crescer_backend/internals/helpers"

	alunoService "crescer_backend/internals/features/alunos/service"
	contratoService "crescer_backend/internals/features/contratos/service"
	"crescer_backend/internals/features/financeiro/planner"
	"crescer_backend/internals/features/matriculas/dto"
	"crescer_backend/internals/features/matriculas/model"
	"crescer_backend/internals/features/matriculas/service"
	usuarioService "crescer_backend/internals/features/usuarios/service"
	"crescer_backend/internals/services/viacep"
	"crescer_backend/internals/services/webhook"
)

type MatriculaController struct {
	DB         *gorm.DB
	Renderer   contratoService.Renderer
	UploadsDir string
}

func NewMatriculaController(db *gorm.DB) *MatriculaController {
	return &MatriculaController{
		DB:         db,
		Renderer:   contratoService.NewHTMLRenderer(),
		UploadsDir: configs.GetEnv("UPLOADS_DIR", "./uploads/contratos"),
	}
}

var validate = validator.New()

// Iniciar abre o convite de matrícula: gera o token, grava as condições
// financeiras e dispara o webhook que envia o link por e-mail.
func (ctrl *MatriculaController) Iniciar(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	var req dto.IniciarMatriculaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Condições da matrícula incompletas ou inválidas")
	}
	if !req.Bolsista && (!req.Anuidade.IsPositive() || !req.ValorMatricula.IsPositive()) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Anuidade e matrícula devem ser positivas")
	}

	token, err := service.GerarToken()
	if err != nil {
		log.Printf("[ERROR] gerar token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao iniciar matrícula")
	}

	prazoDias := req.PrazoDias
	if prazoDias == 0 {
		prazoDias = 7
	}

	diaVencimento := req.DiaVencimento
	if diaVencimento == 0 {
		diaVencimento = planner.DiaVencimentoPadrao
	}

	matricula := model.MatriculaPendenteModel{
		MatriculaToken:            token,
		MatriculaStatus:           model.StatusAguardando,
		MatriculaPrazo:            time.Now().AddDate(0, 0, prazoDias),
		MatriculaAnuidade:         req.Anuidade.Round(2),
		MatriculaValorMatricula:   req.ValorMatricula.Round(2),
		MatriculaValorMaterial:    req.ValorMaterial.Round(2),
		MatriculaDiaVencimento:    diaVencimento,
		MatriculaBolsista:         req.Bolsista,
		MatriculaAnoLetivo:        req.AnoLetivo,
		MatriculaEmailResponsavel: strings.TrimSpace(req.EmailResponsavel),
		MatriculaEscolaID:         escopo.EscolaID,
	}
	if len(req.MaterialMeses) > 0 {
		raw, err := sonic.Marshal(req.MaterialMeses)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Meses do material inválidos")
		}
		matricula.MatriculaMaterialMeses = datatypes.JSON(raw)
	}
	if req.TurmaID != "" {
		turmaID, err := uuid.Parse(req.TurmaID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "turma_id inválido")
		}
		matricula.MatriculaTurmaID = &turmaID
	}

	if err := ctrl.DB.Create(&matricula).Error; err != nil {
		log.Printf("[ERROR] criar matrícula pendente: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao iniciar matrícula")
	}

	ctrl.enviarLinkFormulario(&matricula)
	return helper.JsonCreated(c, "Matrícula iniciada; link enviado ao responsável", matriculaParaResponse(matricula))
}

// List mostra os convites da escola. Convite aguardando com prazo vencido
// aparece (e é persistido) como Fora do Prazo.
func (ctrl *MatriculaController) List(c *fiber.Ctx) error {
	escopo, err := helper.EscopoDoToken(c)
	if err != nil {
		return err
	}

	var matriculas []model.MatriculaPendenteModel
	q := escopo.Filtrar(ctrl.DB.Model(&model.MatriculaPendenteModel{}), "matricula_escola_id")
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("matricula_status = ?", status)
	}
	if err := q.Order("matricula_created_at DESC").Find(&matriculas).Error; err != nil {
		log.Printf("[ERROR] listar matrículas: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao listar matrículas")
	}

	agora := time.Now()
	out := make([]dto.MatriculaResponse, 0, len(matriculas))
	for i := range matriculas {
		efetivo := service.StatusEfetivo(matriculas[i].MatriculaStatus, matriculas[i].MatriculaPrazo, agora)
		if efetivo != matriculas[i].MatriculaStatus && !escopo.Bypass {
			if err := ctrl.DB.Model(&model.MatriculaPendenteModel{}).
				Where("matricula_id = ? AND matricula_escola_id = ?", matriculas[i].MatriculaID, escopo.EscolaID).
				Update("matricula_status", efetivo).Error; err != nil {
				log.Printf("[ERROR] expirar matrícula %s: %v", matriculas[i].MatriculaID, err)
			}
			matriculas[i].MatriculaStatus = efetivo
		}
		out = append(out, matriculaParaResponse(matriculas[i]))
	}
	return helper.JsonOK(c, "ok", out)
}

// Reenviar renova o prazo de um convite (vencido ou não) e reenvia o link.
func (ctrl *MatriculaController) Reenviar(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	matriculaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var matricula model.MatriculaPendenteModel
	if err := ctrl.DB.
		Where("matricula_id = ? AND matricula_escola_id = ?", matriculaID, escopo.EscolaID).
		First(&matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Matrícula não encontrada")
		}
		log.Printf("[ERROR] buscar matrícula: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao reenviar")
	}
	if matricula.MatriculaStatus == model.StatusPreenchido {
		return helper.JsonError(c, fiber.StatusConflict, "Formulário já foi preenchido")
	}

	matricula.MatriculaStatus = model.StatusAguardando
	matricula.MatriculaPrazo = time.Now().AddDate(0, 0, 7)
	if err := ctrl.DB.Model(&model.MatriculaPendenteModel{}).
		Where("matricula_id = ?", matricula.MatriculaID).
		Updates(map[string]any{
			"matricula_status": matricula.MatriculaStatus,
			"matricula_prazo":  matricula.MatriculaPrazo,
		}).Error; err != nil {
		log.Printf("[ERROR] renovar prazo: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao reenviar")
	}

	ctrl.enviarLinkFormulario(&matricula)
	return helper.JsonOK(c, "Link reenviado ao responsável", matriculaParaResponse(matricula))
}

// Excluir descarta o convite.
func (ctrl *MatriculaController) Excluir(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	matriculaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	res := ctrl.DB.
		Where("matricula_id = ? AND matricula_escola_id = ?", matriculaID, escopo.EscolaID).
		Delete(&model.MatriculaPendenteModel{})
	if res.Error != nil {
		log.Printf("[ERROR] excluir matrícula: %v", res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao excluir matrícula")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Matrícula não encontrada")
	}
	return helper.JsonDeleted(c, "Matrícula excluída", nil)
}

// FormularioPublico é o GET público do link: devolve as condições para o
// responsável conferir antes de preencher. Token desconhecido responde
// 404; prazo vencido, 410.
func (ctrl *MatriculaController) FormularioPublico(c *fiber.Ctx) error {
	matricula, errResp := ctrl.buscarPorToken(c)
	if errResp != nil {
		return errResp
	}

	var escolaNome string
	ctrl.DB.Table("escolas").
		Select("escola_nome").
		Where("escola_id = ?", matricula.MatriculaEscolaID).
		Scan(&escolaNome)

	return helper.JsonOK(c, "ok", dto.FormularioPublicoResponse{
		Status:         matricula.MatriculaStatus,
		AnoLetivo:      matricula.MatriculaAnoLetivo,
		Anuidade:       matricula.MatriculaAnuidade,
		ValorMatricula: matricula.MatriculaValorMatricula,
		ValorMaterial:  matricula.MatriculaValorMaterial,
		Bolsista:       matricula.MatriculaBolsista,
		Prazo:          matricula.MatriculaPrazo,
		EscolaNome:     escolaNome,
	})
}

// PreencherFormulario recebe os dados do responsável pelo link público.
// Endereço incompleto é completado pelo ViaCEP (melhor-esforço). Marca
// Preenchido e avisa a escola pelo webhook de confirmação.
func (ctrl *MatriculaController) PreencherFormulario(c *fiber.Ctx) error {
	matricula, errResp := ctrl.buscarPorToken(c)
	if errResp != nil {
		return errResp
	}
	if matricula.MatriculaStatus == model.StatusPreenchido {
		return helper.JsonError(c, fiber.StatusConflict, "Este formulário já foi enviado")
	}

	var req dto.PreencherFormularioRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if err := validate.Struct(req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Preencha todos os campos obrigatórios")
	}

	nascimento, err := time.Parse("02/01/2006", req.AlunoNascimento)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Data de nascimento fora do formato dd/mm/aaaa")
	}

	if req.RespLogradouro == "" || req.RespCidade == "" {
		lookupCtx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		if endereco, err := viacep.Lookup(lookupCtx, req.RespCep); err != nil {
			log.Printf("⚠️ [viacep] %s: %v", req.RespCep, err)
		} else if endereco != nil {
			if req.RespLogradouro == "" {
				req.RespLogradouro = endereco.Logradouro
			}
			if req.RespBairro == "" {
				req.RespBairro = endereco.Bairro
			}
			if req.RespCidade == "" {
				req.RespCidade = endereco.Cidade
			}
			if req.RespUf == "" {
				req.RespUf = endereco.Uf
			}
		}
	}

	agora := time.Now()
	updates := map[string]any{
		"matricula_status":            model.StatusPreenchido,
		"matricula_preenchido_em":     agora,
		"matricula_aluno_nome":        strings.TrimSpace(req.AlunoNome),
		"matricula_aluno_nascimento":  nascimento,
		"matricula_aluno_observacoes": req.AlunoObservacoes,
		"matricula_resp_nome":         strings.TrimSpace(req.RespNome),
		"matricula_resp_cpf":          strings.TrimSpace(req.RespCpf),
		"matricula_resp_rg":           req.RespRg,
		"matricula_resp_telefone":     req.RespTelefone,
		"matricula_resp_cep":          req.RespCep,
		"matricula_resp_logradouro":   req.RespLogradouro,
		"matricula_resp_numero":       req.RespNumero,
		"matricula_resp_complemento":  req.RespComplemento,
		"matricula_resp_bairro":       req.RespBairro,
		"matricula_resp_cidade":       req.RespCidade,
		"matricula_resp_uf":           strings.ToUpper(req.RespUf),
		"matricula_resp_ped_nome":     req.RespPedNome,
		"matricula_resp_ped_telefone": req.RespPedTelefone,
	}
	if req.RespPedNascimento != "" {
		if d, err := time.Parse("02/01/2006", req.RespPedNascimento); err == nil {
			updates["matricula_resp_ped_nascimento"] = d
		}
	}

	if err := ctrl.DB.Model(&model.MatriculaPendenteModel{}).
		Where("matricula_id = ?", matricula.MatriculaID).
		Updates(updates).Error; err != nil {
		log.Printf("[ERROR] gravar formulário: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao enviar formulário")
	}

	webhook.SendAsync(configs.WebhookConfirmacaoForm, fiber.Map{
		"matricula_id": matricula.MatriculaID.String(),
		"aluno_nome":   req.AlunoNome,
		"resp_nome":    req.RespNome,
		"escola_id":    matricula.MatriculaEscolaID.String(),
	})
	return helper.JsonOK(c, "Formulário enviado com sucesso", nil)
}

// Aceitar efetiva a matrícula preenchida: uma transação cria responsável,
// aluno, credencial, contrato e as parcelas; o webhook do contrato sai
// depois do commit.
func (ctrl *MatriculaController) Aceitar(c *fiber.Ctx) error {
	escopo, err := helper.EscopoAdmin(c)
	if err != nil {
		return err
	}

	matriculaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID inválido")
	}

	var matricula model.MatriculaPendenteModel
	if err := ctrl.DB.
		Where("matricula_id = ? AND matricula_escola_id = ?", matriculaID, escopo.EscolaID).
		First(&matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Matrícula não encontrada")
		}
		log.Printf("[ERROR] buscar matrícula: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao aceitar matrícula")
	}

	resultado, err := service.Aceitar(ctrl.DB, ctrl.Renderer, &matricula, time.Now(), ctrl.UploadsDir)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFormularioIncompleto):
			return helper.JsonError(c, fiber.StatusConflict, "O formulário ainda não foi preenchido pelo responsável")
		case errors.Is(err, alunoService.ErrCpfOutraEscola):
			return helper.JsonError(c, fiber.StatusConflict, "CPF do responsável já vinculado a outra escola")
		case errors.Is(err, usuarioService.ErrUsernameEmUso):
			return helper.JsonError(c, fiber.StatusConflict, "Credencial do aluno já existe no sistema")
		}
		log.Printf("[ERROR] aceitar matrícula %s: %v", matriculaID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao aceitar matrícula")
	}

	webhook.SendAsync(configs.WebhookEnvioContrato, fiber.Map{
		"aluno_id":    resultado.Aluno.AlunoID.String(),
		"aluno_nome":  resultado.Aluno.AlunoNome,
		"ra_sef":      resultado.Aluno.AlunoRaSef,
		"contrato_id": resultado.Contrato.ContratoID.String(),
		"email":       matricula.MatriculaEmailResponsavel,
		"escola_id":   escopo.EscolaID.String(),
	})

	return helper.JsonCreated(c, "Matrícula efetivada com sucesso", fiber.Map{
		"aluno_id":    resultado.Aluno.AlunoID.String(),
		"ra_sef":      resultado.Aluno.AlunoRaSef,
		"contrato_id": resultado.Contrato.ContratoID.String(),
	})
}

// buscarPorToken resolve o token público aplicando a expiração preguiçosa.
func (ctrl *MatriculaController) buscarPorToken(c *fiber.Ctx) (*model.MatriculaPendenteModel, error) {
	token := strings.TrimSpace(c.Params("token"))
	if len(token) != 64 {
		return nil, helper.JsonError(c, fiber.StatusNotFound, "Formulário não encontrado")
	}

	var matricula model.MatriculaPendenteModel
	if err := ctrl.DB.Where("matricula_token = ?", token).First(&matricula).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.JsonError(c, fiber.StatusNotFound, "Formulário não encontrado")
		}
		log.Printf("[ERROR] buscar token: %v", err)
		return nil, helper.JsonError(c, fiber.StatusInternalServerError, "Erro ao abrir formulário")
	}

	efetivo := service.StatusEfetivo(matricula.MatriculaStatus, matricula.MatriculaPrazo, time.Now())
	if efetivo == model.StatusForaDoPrazo {
		if efetivo != matricula.MatriculaStatus {
			if err := ctrl.DB.Model(&model.MatriculaPendenteModel{}).
				Where("matricula_id = ?", matricula.MatriculaID).
				Update("matricula_status", efetivo).Error; err != nil {
				log.Printf("[ERROR] expirar matrícula %s: %v", matricula.MatriculaID, err)
			}
		}
		return nil, helper.JsonError(c, fiber.StatusGone, "O prazo deste formulário expirou. Solicite um novo link à escola.")
	}
	matricula.MatriculaStatus = efetivo
	return &matricula, nil
}

func (ctrl *MatriculaController) enviarLinkFormulario(m *model.MatriculaPendenteModel) {
	link := fmt.Sprintf("%s/matricula/%s", configs.FormularioBaseURL, m.MatriculaToken)
	webhook.SendAsync(configs.WebhookEnvioMatricula, fiber.Map{
		"email":      m.MatriculaEmailResponsavel,
		"link":       link,
		"prazo":      m.MatriculaPrazo.Format("02/01/2006"),
		"ano_letivo": m.MatriculaAnoLetivo,
		"escola_id":  m.MatriculaEscolaID.String(),
	})
}

func matriculaParaResponse(m model.MatriculaPendenteModel) dto.MatriculaResponse {
	return dto.MatriculaResponse{
		MatriculaID:      m.MatriculaID.String(),
		Status:           m.MatriculaStatus,
		EmailResponsavel: m.MatriculaEmailResponsavel,
		AnoLetivo:        m.MatriculaAnoLetivo,
		Anuidade:         m.MatriculaAnuidade,
		ValorMatricula:   m.MatriculaValorMatricula,
		ValorMaterial:    m.MatriculaValorMaterial,
		DiaVencimento:    m.MatriculaDiaVencimento,
		Bolsista:         m.MatriculaBolsista,
		Prazo:            m.MatriculaPrazo,
		AlunoNome:        m.MatriculaAlunoNome,
		RespNome:         m.MatriculaRespNome,
		PreenchidoEm:     m.MatriculaPreenchidoEm,
		CriadoEm:         m.MatriculaCreatedAt,
	}
}
