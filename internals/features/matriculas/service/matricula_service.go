package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	alunoModel "crescer_backend/internals/features/alunos/model"
	alunoService "crescer_backend/internals/features/alunos/service"
	contratoModel "crescer_backend/internals/features/contratos/model"
	contratoService "crescer_backend/internals/features/contratos/service"
	"crescer_backend/internals/features/matriculas/model"
)

var ErrFormularioIncompleto = errors.New("formulário da matrícula ainda não foi preenchido")

// GerarToken emite o token opaco do formulário: 32 bytes aleatórios em hex.
func GerarToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// StatusEfetivo resolve o status visível de uma matrícula pendente:
// convite aguardando cujo prazo venceu é "Fora do Prazo", sem depender
// de job de expiração. Convite preenchido nunca expira.
func StatusEfetivo(status string, prazo, agora time.Time) string {
	if status == model.StatusAguardando && agora.After(prazo) {
		return model.StatusForaDoPrazo
	}
	return status
}

// ResultadoAceite devolve o que o aceite criou.
type ResultadoAceite struct {
	Aluno    *alunoModel.AlunoModel
	Contrato *contratoModel.ContratoModel
}

// Aceitar converte a matrícula preenchida em aluno de verdade, em UMA
// transação: responsável (find-or-create por CPF), aluno + credencial,
// contrato com fotografia dos campos, parcelas do plano anual e do
// material (bolsista não gera cobrança) e a remoção da linha pendente.
// Qualquer falha desfaz tudo; o webhook de contrato é disparado pelo
// chamador só depois do commit.
func Aceitar(db *gorm.DB, renderer contratoService.Renderer, matricula *model.MatriculaPendenteModel, hoje time.Time, uploadsDir string) (*ResultadoAceite, error) {
	if matricula.MatriculaStatus != model.StatusPreenchido {
		return nil, ErrFormularioIncompleto
	}
	if matricula.MatriculaAlunoNascimento == nil {
		return nil, ErrFormularioIncompleto
	}

	var resultado ResultadoAceite
	err := db.Transaction(func(tx *gorm.DB) error {
		resp, err := alunoService.FindOrCreateResponsavel(tx, alunoModel.ResponsavelModel{
			ResponsavelNome:        matricula.MatriculaRespNome,
			ResponsavelCpf:         matricula.MatriculaRespCpf,
			ResponsavelRg:          matricula.MatriculaRespRg,
			ResponsavelEmail:       matricula.MatriculaEmailResponsavel,
			ResponsavelTelefone:    matricula.MatriculaRespTelefone,
			ResponsavelCep:         matricula.MatriculaRespCep,
			ResponsavelLogradouro:  matricula.MatriculaRespLogradouro,
			ResponsavelNumero:      matricula.MatriculaRespNumero,
			ResponsavelComplemento: matricula.MatriculaRespComplemento,
			ResponsavelBairro:      matricula.MatriculaRespBairro,
			ResponsavelCidade:      matricula.MatriculaRespCidade,
			ResponsavelUf:          matricula.MatriculaRespUf,
		}, matricula.MatriculaEscolaID)
		if err != nil {
			return err
		}

		aluno, err := alunoService.CriarAlunoTx(tx, alunoService.NovoAluno{
			Nome:              matricula.MatriculaAlunoNome,
			DataNascimento:    *matricula.MatriculaAlunoNascimento,
			AnoInicio:         matricula.MatriculaAnoLetivo,
			Bolsista:          matricula.MatriculaBolsista,
			Observacoes:       matricula.MatriculaAlunoObservacoes,
			RespPedNome:       matricula.MatriculaRespPedNome,
			RespPedNascimento: matricula.MatriculaRespPedNascimento,
			RespPedTelefone:   matricula.MatriculaRespPedTelefone,
			TurmaID:           matricula.MatriculaTurmaID,
			ResponsavelID:     &resp.ResponsavelID,
		}, matricula.MatriculaEscolaID)
		if err != nil {
			return err
		}

		contrato, err := contratoService.GerarContrato(tx, renderer, camposContrato(matricula, aluno), aluno.AlunoID, matricula.MatriculaEscolaID, matricula.MatriculaAnoLetivo, uploadsDir)
		if err != nil {
			return err
		}

		if !matricula.MatriculaBolsista {
			if err := semearParcelas(tx, matricula, aluno, hoje); err != nil {
				return err
			}
		}

		if err := tx.Delete(matricula).Error; err != nil {
			return err
		}

		resultado.Aluno = aluno
		resultado.Contrato = contrato
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resultado, nil
}

// semearParcelas grava no livro-razão o plano anual e o do material,
// respeitando o dia de vencimento definido no convite.
func semearParcelas(tx *gorm.DB, matricula *model.MatriculaPendenteModel, aluno *alunoModel.AlunoModel, hoje time.Time) error {
	meses, err := MesesMaterial(matricula.MatriculaMaterialMeses)
	if err != nil {
		return err
	}
	_, _, err = alunoService.SemearParcelas(tx, aluno, alunoService.TermosFinanceiros{
		Anuidade:       matricula.MatriculaAnuidade,
		ValorMatricula: matricula.MatriculaValorMatricula,
		DiaVencimento:  matricula.MatriculaDiaVencimento,
		ValorMaterial:  matricula.MatriculaValorMaterial,
		MesesMaterial:  meses,
	}, matricula.MatriculaAnoLetivo, hoje)
	return err
}

// MesesMaterial decodifica a lista de meses do material gravada em JSON.
func MesesMaterial(raw []byte) ([]int, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var meses []int
	if err := sonic.Unmarshal(raw, &meses); err != nil {
		return nil, err
	}
	return meses, nil
}

func camposContrato(m *model.MatriculaPendenteModel, aluno *alunoModel.AlunoModel) map[string]string {
	endereco := m.MatriculaRespLogradouro
	if m.MatriculaRespNumero != "" {
		endereco += ", " + m.MatriculaRespNumero
	}
	if m.MatriculaRespBairro != "" {
		endereco += " - " + m.MatriculaRespBairro
	}
	if m.MatriculaRespCidade != "" {
		endereco += ", " + m.MatriculaRespCidade + "/" + m.MatriculaRespUf
	}
	return map[string]string{
		"ano_letivo":       strconv.Itoa(m.MatriculaAnoLetivo),
		"aluno_nome":       aluno.AlunoNome,
		"aluno_ra_sef":     aluno.AlunoRaSef,
		"responsavel_nome": m.MatriculaRespNome,
		"responsavel_cpf":  m.MatriculaRespCpf,
		"anuidade":         m.MatriculaAnuidade.StringFixed(2),
		"valor_matricula":  m.MatriculaValorMatricula.StringFixed(2),
		"valor_material":   m.MatriculaValorMaterial.StringFixed(2),
		"endereco":         endereco,
	}
}
