package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status da matrícula pendente. "Fora do Prazo" nunca é gravado por um
// job: é derivado na leitura quando o prazo venceu sem preenchimento.
const (
	StatusAguardando  = "Aguardando Preenchimento"
	StatusPreenchido  = "Preenchido"
	StatusForaDoPrazo = "Fora do Prazo"
)

// MatriculaPendenteModel é o convite de matrícula: a escola define as
// condições financeiras, o responsável preenche os dados pelo link com token.
type MatriculaPendenteModel struct {
	MatriculaID uuid.UUID `gorm:"column:matricula_id;type:uuid;primaryKey" json:"matricula_id"`

	MatriculaToken  string    `gorm:"column:matricula_token;size:64;uniqueIndex;not null" json:"matricula_token"`
	MatriculaStatus string    `gorm:"column:matricula_status;type:varchar(30);not null;default:'Aguardando Preenchimento'" json:"matricula_status"`
	MatriculaPrazo  time.Time `gorm:"column:matricula_prazo;not null" json:"matricula_prazo"`

	// Condições financeiras definidas pela administração.
	MatriculaAnuidade         decimal.Decimal `gorm:"column:matricula_anuidade;type:numeric(10,2);not null" json:"matricula_anuidade"`
	MatriculaValorMatricula   decimal.Decimal `gorm:"column:matricula_valor_matricula;type:numeric(10,2);not null" json:"matricula_valor_matricula"`
	MatriculaValorMaterial    decimal.Decimal `gorm:"column:matricula_valor_material;type:numeric(10,2);not null;default:0" json:"matricula_valor_material"`
	MatriculaDiaVencimento    int             `gorm:"column:matricula_dia_vencimento;not null;default:10" json:"matricula_dia_vencimento"`
	MatriculaMaterialMeses    datatypes.JSON  `gorm:"column:matricula_material_meses" json:"matricula_material_meses,omitempty"` // ["AAAA-MM", ...]
	MatriculaBolsista         bool            `gorm:"column:matricula_bolsista;not null;default:false" json:"matricula_bolsista"`
	MatriculaAnoLetivo        int             `gorm:"column:matricula_ano_letivo;not null" json:"matricula_ano_letivo"`
	MatriculaEmailResponsavel string          `gorm:"column:matricula_email_responsavel;size:120;not null" json:"matricula_email_responsavel"`

	// Dados preenchidos pelo responsável no formulário.
	MatriculaAlunoNome         string     `gorm:"column:matricula_aluno_nome;size:120" json:"matricula_aluno_nome,omitempty"`
	MatriculaAlunoNascimento   *time.Time `gorm:"column:matricula_aluno_nascimento" json:"matricula_aluno_nascimento,omitempty"`
	MatriculaAlunoObservacoes  string     `gorm:"column:matricula_aluno_observacoes;type:text" json:"matricula_aluno_observacoes,omitempty"`
	MatriculaRespNome          string     `gorm:"column:matricula_resp_nome;size:120" json:"matricula_resp_nome,omitempty"`
	MatriculaRespCpf           string     `gorm:"column:matricula_resp_cpf;size:14" json:"matricula_resp_cpf,omitempty"`
	MatriculaRespRg            string     `gorm:"column:matricula_resp_rg;size:20" json:"matricula_resp_rg,omitempty"`
	MatriculaRespTelefone      string     `gorm:"column:matricula_resp_telefone;size:20" json:"matricula_resp_telefone,omitempty"`
	MatriculaRespCep           string     `gorm:"column:matricula_resp_cep;size:9" json:"matricula_resp_cep,omitempty"`
	MatriculaRespLogradouro    string     `gorm:"column:matricula_resp_logradouro;size:150" json:"matricula_resp_logradouro,omitempty"`
	MatriculaRespNumero        string     `gorm:"column:matricula_resp_numero;size:10" json:"matricula_resp_numero,omitempty"`
	MatriculaRespComplemento   string     `gorm:"column:matricula_resp_complemento;size:60" json:"matricula_resp_complemento,omitempty"`
	MatriculaRespBairro        string     `gorm:"column:matricula_resp_bairro;size:80" json:"matricula_resp_bairro,omitempty"`
	MatriculaRespCidade        string     `gorm:"column:matricula_resp_cidade;size:80" json:"matricula_resp_cidade,omitempty"`
	MatriculaRespUf            string     `gorm:"column:matricula_resp_uf;size:2" json:"matricula_resp_uf,omitempty"`
	MatriculaRespPedNome       string     `gorm:"column:matricula_resp_ped_nome;size:120" json:"matricula_resp_ped_nome,omitempty"`
	MatriculaRespPedNascimento *time.Time `gorm:"column:matricula_resp_ped_nascimento" json:"matricula_resp_ped_nascimento,omitempty"`
	MatriculaRespPedTelefone   string     `gorm:"column:matricula_resp_ped_telefone;size:20" json:"matricula_resp_ped_telefone,omitempty"`
	MatriculaPreenchidoEm      *time.Time `gorm:"column:matricula_preenchido_em" json:"matricula_preenchido_em,omitempty"`

	MatriculaTurmaID  *uuid.UUID `gorm:"column:matricula_turma_id;type:uuid" json:"matricula_turma_id,omitempty"`
	MatriculaEscolaID uuid.UUID  `gorm:"column:matricula_escola_id;type:uuid;not null;index" json:"matricula_escola_id"`

	MatriculaCreatedAt time.Time  `gorm:"column:matricula_created_at;autoCreateTime" json:"matricula_created_at"`
	MatriculaUpdatedAt *time.Time `gorm:"column:matricula_updated_at;autoUpdateTime" json:"matricula_updated_at,omitempty"`
}

func (MatriculaPendenteModel) TableName() string { return "matriculas_pendentes" }

func (m *MatriculaPendenteModel) BeforeCreate(tx *gorm.DB) error {
	if m.MatriculaID == uuid.Nil {
		m.MatriculaID = uuid.New()
	}
	return nil
}
