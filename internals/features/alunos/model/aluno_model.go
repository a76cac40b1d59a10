package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlunoModel é o aluno matriculado. O ra_sef é o registro acadêmico,
// único no sistema inteiro (todas as escolas), usado como username de login.
type AlunoModel struct {
	AlunoID uuid.UUID `gorm:"column:aluno_id;type:uuid;primaryKey" json:"aluno_id"`

	AlunoRaSef          string    `gorm:"column:aluno_ra_sef;size:8;uniqueIndex;not null" json:"aluno_ra_sef"`
	AlunoNome           string    `gorm:"column:aluno_nome;size:120;not null" json:"aluno_nome"`
	AlunoDataNascimento time.Time `gorm:"column:aluno_data_nascimento;not null" json:"aluno_data_nascimento"`
	AlunoAnoInicio      int       `gorm:"column:aluno_ano_inicio;not null" json:"aluno_ano_inicio"`
	AlunoBolsista       bool      `gorm:"column:aluno_bolsista;not null;default:false" json:"aluno_bolsista"`

	// Responsável pedagógico (pode ser pessoa diferente do financeiro;
	// fica desnormalizado no aluno como no cadastro em papel).
	AlunoRespPedagogicoNome       string     `gorm:"column:aluno_resp_pedagogico_nome;size:120" json:"aluno_resp_pedagogico_nome,omitempty"`
	AlunoRespPedagogicoNascimento *time.Time `gorm:"column:aluno_resp_pedagogico_nascimento" json:"aluno_resp_pedagogico_nascimento,omitempty"`
	AlunoRespPedagogicoTelefone   string     `gorm:"column:aluno_resp_pedagogico_telefone;size:20" json:"aluno_resp_pedagogico_telefone,omitempty"`

	AlunoObservacoes string `gorm:"column:aluno_observacoes;type:text" json:"aluno_observacoes,omitempty"`

	AlunoTurmaID       *uuid.UUID `gorm:"column:aluno_turma_id;type:uuid;index" json:"aluno_turma_id,omitempty"`
	AlunoResponsavelID *uuid.UUID `gorm:"column:aluno_responsavel_id;type:uuid;index" json:"aluno_responsavel_id,omitempty"`
	AlunoEscolaID      uuid.UUID  `gorm:"column:aluno_escola_id;type:uuid;not null;index" json:"aluno_escola_id"`

	AlunoCreatedAt time.Time      `gorm:"column:aluno_created_at;autoCreateTime" json:"aluno_created_at"`
	AlunoUpdatedAt *time.Time     `gorm:"column:aluno_updated_at;autoUpdateTime" json:"aluno_updated_at,omitempty"`
	AlunoDeletedAt gorm.DeletedAt `gorm:"column:aluno_deleted_at;index" json:"-"`
}

func (AlunoModel) TableName() string { return "alunos" }

func (m *AlunoModel) BeforeCreate(tx *gorm.DB) error {
	if m.AlunoID == uuid.Nil {
		m.AlunoID = uuid.New()
	}
	return nil
}
