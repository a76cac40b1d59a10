package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialModel é uma parcela de material didático. A duplicidade é barrada
// pela trinca (aluno, vencimento, valor): a mesma cobrança lançada duas vezes
// colide, mas duas taxas diferentes no mesmo mês convivem.
type MaterialModel struct {
	MaterialID uuid.UUID `gorm:"column:material_id;type:uuid;primaryKey" json:"material_id"`

	MaterialDescricao      string          `gorm:"column:material_descricao;size:100;not null" json:"material_descricao"`
	MaterialValor          decimal.Decimal `gorm:"column:material_valor;type:numeric(10,2);not null;uniqueIndex:idx_materiais_aluno_venc_valor" json:"material_valor"`
	MaterialDataVencimento time.Time       `gorm:"column:material_data_vencimento;not null;uniqueIndex:idx_materiais_aluno_venc_valor;index" json:"material_data_vencimento"`
	MaterialStatus         string          `gorm:"column:material_status;type:varchar(20);not null;default:'open';index" json:"material_status"`

	MaterialValorPago     *decimal.Decimal `gorm:"column:material_valor_pago;type:numeric(10,2)" json:"material_valor_pago,omitempty"`
	MaterialDataPagamento *time.Time       `gorm:"column:material_data_pagamento" json:"material_data_pagamento,omitempty"`

	MaterialDiasAtraso     int             `gorm:"column:material_dias_atraso;not null;default:0" json:"material_dias_atraso"`
	MaterialMultaAplicada  decimal.Decimal `gorm:"column:material_multa_aplicada;type:numeric(10,2);not null;default:0" json:"material_multa_aplicada"`
	MaterialJurosAplicados decimal.Decimal `gorm:"column:material_juros_aplicados;type:numeric(10,2);not null;default:0" json:"material_juros_aplicados"`

	MaterialAlunoID  uuid.UUID `gorm:"column:material_aluno_id;type:uuid;not null;uniqueIndex:idx_materiais_aluno_venc_valor;index" json:"material_aluno_id"`
	MaterialEscolaID uuid.UUID `gorm:"column:material_escola_id;type:uuid;not null;index" json:"material_escola_id"`

	MaterialCreatedAt time.Time  `gorm:"column:material_created_at;autoCreateTime" json:"material_created_at"`
	MaterialUpdatedAt *time.Time `gorm:"column:material_updated_at;autoUpdateTime" json:"material_updated_at,omitempty"`
}

func (MaterialModel) TableName() string { return "materiais" }

func (m *MaterialModel) BeforeCreate(tx *gorm.DB) error {
	if m.MaterialID == uuid.Nil {
		m.MaterialID = uuid.New()
	}
	return nil
}
