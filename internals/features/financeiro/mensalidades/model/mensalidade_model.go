package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TipoMatricula   = "matricula"
	TipoMensalidade = "mensalidade"
)

// Status de cobrança. "approved" é pagamento confirmado; os demais
// estados "quitados" (refunded, charged_back, cancelled) também tiram
// a parcela da régua de atraso.
const (
	StatusOpen        = "open"
	StatusApproved    = "approved"
	StatusRefunded    = "refunded"
	StatusChargedBack = "charged_back"
	StatusCancelled   = "cancelled"
)

// StatusQuitados são os estados em que encargos de atraso não se aplicam.
var StatusQuitados = []string{StatusApproved, StatusRefunded, StatusChargedBack, StatusCancelled}

// MensalidadeModel é uma parcela do contrato anual (matrícula ou mensalidade).
// Competencia guarda "AAAA-MM" para mensalidades e fica NULL para a matrícula,
// de modo que o índice único (aluno, competência) só barra mensalidade repetida.
type MensalidadeModel struct {
	MensalidadeID uuid.UUID `gorm:"column:mensalidade_id;type:uuid;primaryKey" json:"mensalidade_id"`

	MensalidadeTipo        string  `gorm:"column:mensalidade_tipo;type:varchar(15);not null;default:'mensalidade'" json:"mensalidade_tipo"`
	MensalidadeDescricao   string  `gorm:"column:mensalidade_descricao;size:100;not null" json:"mensalidade_descricao"`
	MensalidadeCompetencia *string `gorm:"column:mensalidade_competencia;size:7;uniqueIndex:idx_mensalidades_aluno_competencia" json:"mensalidade_competencia,omitempty"`

	MensalidadeValor          decimal.Decimal `gorm:"column:mensalidade_valor;type:numeric(10,2);not null" json:"mensalidade_valor"`
	MensalidadeDataVencimento time.Time       `gorm:"column:mensalidade_data_vencimento;not null;index" json:"mensalidade_data_vencimento"`
	MensalidadeStatus         string          `gorm:"column:mensalidade_status;type:varchar(20);not null;default:'open';index" json:"mensalidade_status"`

	// Pagamento registrado pela secretaria: valor e data chegam do
	// comprovante, sem conciliação com o total devido.
	MensalidadeValorPago     *decimal.Decimal `gorm:"column:mensalidade_valor_pago;type:numeric(10,2)" json:"mensalidade_valor_pago,omitempty"`
	MensalidadeDataPagamento *time.Time       `gorm:"column:mensalidade_data_pagamento" json:"mensalidade_data_pagamento,omitempty"`

	// Encargos de atraso, recalculados e persistidos a cada listagem.
	MensalidadeDiasAtraso     int             `gorm:"column:mensalidade_dias_atraso;not null;default:0" json:"mensalidade_dias_atraso"`
	MensalidadeMultaAplicada  decimal.Decimal `gorm:"column:mensalidade_multa_aplicada;type:numeric(10,2);not null;default:0" json:"mensalidade_multa_aplicada"`
	MensalidadeJurosAplicados decimal.Decimal `gorm:"column:mensalidade_juros_aplicados;type:numeric(10,2);not null;default:0" json:"mensalidade_juros_aplicados"`

	MensalidadeAlunoID  uuid.UUID `gorm:"column:mensalidade_aluno_id;type:uuid;not null;uniqueIndex:idx_mensalidades_aluno_competencia;index" json:"mensalidade_aluno_id"`
	MensalidadeEscolaID uuid.UUID `gorm:"column:mensalidade_escola_id;type:uuid;not null;index" json:"mensalidade_escola_id"`

	MensalidadeCreatedAt time.Time  `gorm:"column:mensalidade_created_at;autoCreateTime" json:"mensalidade_created_at"`
	MensalidadeUpdatedAt *time.Time `gorm:"column:mensalidade_updated_at;autoUpdateTime" json:"mensalidade_updated_at,omitempty"`
}

func (MensalidadeModel) TableName() string { return "mensalidades" }

func (m *MensalidadeModel) BeforeCreate(tx *gorm.DB) error {
	if m.MensalidadeID == uuid.Nil {
		m.MensalidadeID = uuid.New()
	}
	return nil
}
