package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IniciarMatriculaRequest abre o convite: só as condições financeiras e o
// e-mail de quem vai preencher.
type IniciarMatriculaRequest struct {
	EmailResponsavel string          `json:"email_responsavel" validate:"required,email"`
	AnoLetivo        int             `json:"ano_letivo" validate:"required,min=2000,max=2100"`
	Anuidade         decimal.Decimal `json:"anuidade" validate:"required"`
	ValorMatricula   decimal.Decimal `json:"valor_matricula" validate:"required"`
	ValorMaterial    decimal.Decimal `json:"valor_material"`
	DiaVencimento    int             `json:"dia_vencimento" validate:"omitempty,min=1,max=31"`
	MaterialMeses    []int           `json:"material_meses" validate:"omitempty,max=12,dive,min=1,max=12"`
	Bolsista         bool            `json:"bolsista"`
	TurmaID          string          `json:"turma_id" validate:"omitempty,uuid4"`
	PrazoDias        int             `json:"prazo_dias" validate:"omitempty,min=1,max=90"`
}

// PreencherFormularioRequest são os dados que o responsável envia pelo
// link público.
type PreencherFormularioRequest struct {
	AlunoNome        string `json:"aluno_nome" validate:"required,min=3,max=120"`
	AlunoNascimento  string `json:"aluno_nascimento" validate:"required"` // dd/mm/aaaa
	AlunoObservacoes string `json:"aluno_observacoes"`

	RespNome     string `json:"resp_nome" validate:"required,min=3,max=120"`
	RespCpf      string `json:"resp_cpf" validate:"required,min=11,max=14"`
	RespRg       string `json:"resp_rg"`
	RespTelefone string `json:"resp_telefone" validate:"required"`

	RespCep         string `json:"resp_cep" validate:"required"`
	RespLogradouro  string `json:"resp_logradouro"`
	RespNumero      string `json:"resp_numero" validate:"required"`
	RespComplemento string `json:"resp_complemento"`
	RespBairro      string `json:"resp_bairro"`
	RespCidade      string `json:"resp_cidade"`
	RespUf          string `json:"resp_uf" validate:"omitempty,len=2"`

	RespPedNome       string `json:"resp_ped_nome"`
	RespPedNascimento string `json:"resp_ped_nascimento"`
	RespPedTelefone   string `json:"resp_ped_telefone"`
}

type MatriculaResponse struct {
	MatriculaID      string          `json:"matricula_id"`
	Status           string          `json:"status"`
	EmailResponsavel string          `json:"email_responsavel"`
	AnoLetivo        int             `json:"ano_letivo"`
	Anuidade         decimal.Decimal `json:"anuidade"`
	ValorMatricula   decimal.Decimal `json:"valor_matricula"`
	ValorMaterial    decimal.Decimal `json:"valor_material"`
	DiaVencimento    int             `json:"dia_vencimento"`
	Bolsista         bool            `json:"bolsista"`
	Prazo            time.Time       `json:"prazo"`
	AlunoNome        string          `json:"aluno_nome,omitempty"`
	RespNome         string          `json:"resp_nome,omitempty"`
	PreenchidoEm     *time.Time      `json:"preenchido_em,omitempty"`
	CriadoEm         time.Time       `json:"criado_em"`
}

// FormularioPublicoResponse é o que o responsável vê ao abrir o link:
// as condições, nunca dados de outras matrículas.
type FormularioPublicoResponse struct {
	Status         string          `json:"status"`
	AnoLetivo      int             `json:"ano_letivo"`
	Anuidade       decimal.Decimal `json:"anuidade"`
	ValorMatricula decimal.Decimal `json:"valor_matricula"`
	ValorMaterial  decimal.Decimal `json:"valor_material"`
	Bolsista       bool            `json:"bolsista"`
	Prazo          time.Time       `json:"prazo"`
	EscolaNome     string          `json:"escola_nome"`
}
