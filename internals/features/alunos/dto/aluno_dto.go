package dto

import (
	"time"

	"github.com/shopspring/decimal"

	alunoModel "crescer_backend/internals/features/alunos/model"
)

type CriarAlunoRequest struct {
	Nome           string `json:"nome" validate:"required,min=3,max=120"`
	DataNascimento string `json:"data_nascimento" validate:"required"` // dd/mm/aaaa
	AnoInicio      int    `json:"ano_inicio" validate:"required,min=2000,max=2100"`
	Bolsista       bool   `json:"bolsista"`
	Observacoes    string `json:"observacoes"`

	TurmaID       string `json:"turma_id" validate:"omitempty,uuid4"`
	ResponsavelID string `json:"responsavel_id" validate:"omitempty,uuid4"`

	RespPedNome       string `json:"resp_pedagogico_nome"`
	RespPedNascimento string `json:"resp_pedagogico_nascimento"`
	RespPedTelefone   string `json:"resp_pedagogico_telefone"`

	// Condições financeiras opcionais: preenchidas, o carnê do primeiro
	// ano é gerado junto com o aluno.
	Anuidade         decimal.Decimal `json:"anuidade"`
	ValorMatricula   decimal.Decimal `json:"valor_matricula"`
	DiaVencimento    int             `json:"dia_vencimento" validate:"omitempty,min=1,max=31"`
	ValorMaterial    decimal.Decimal `json:"valor_material"`
	ParcelasMaterial int             `json:"parcelas_material" validate:"omitempty,min=1,max=12"`
}

type AtualizarAlunoRequest struct {
	Nome        *string `json:"nome" validate:"omitempty,min=3,max=120"`
	Observacoes *string `json:"observacoes"`
	TurmaID     *string `json:"turma_id" validate:"omitempty,uuid4"`
	Bolsista    *bool   `json:"bolsista"`

	RespPedNome     *string `json:"resp_pedagogico_nome"`
	RespPedTelefone *string `json:"resp_pedagogico_telefone"`
}

type ImportarAlunosRequest struct {
	AnoInicio int        `json:"ano_inicio" validate:"required,min=2000,max=2100"`
	Linhas    [][]string `json:"linhas" validate:"required,min=1"`
}

type AlunoResponse struct {
	AlunoID        string    `json:"aluno_id"`
	RaSef          string    `json:"ra_sef"`
	Nome           string    `json:"nome"`
	DataNascimento time.Time `json:"data_nascimento"`
	AnoInicio      int       `json:"ano_inicio"`
	Bolsista       bool      `json:"bolsista"`
	Observacoes    string    `json:"observacoes,omitempty"`
	TurmaID        *string   `json:"turma_id,omitempty"`
	ResponsavelID  *string   `json:"responsavel_id,omitempty"`
	CriadoEm       time.Time `json:"criado_em"`
}

func FromAlunoModel(m alunoModel.AlunoModel) AlunoResponse {
	out := AlunoResponse{
		AlunoID:        m.AlunoID.String(),
		RaSef:          m.AlunoRaSef,
		Nome:           m.AlunoNome,
		DataNascimento: m.AlunoDataNascimento,
		AnoInicio:      m.AlunoAnoInicio,
		Bolsista:       m.AlunoBolsista,
		Observacoes:    m.AlunoObservacoes,
		CriadoEm:       m.AlunoCreatedAt,
	}
	if m.AlunoTurmaID != nil {
		s := m.AlunoTurmaID.String()
		out.TurmaID = &s
	}
	if m.AlunoResponsavelID != nil {
		s := m.AlunoResponsavelID.String()
		out.ResponsavelID = &s
	}
	return out
}
