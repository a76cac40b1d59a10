package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EscolaModel é o tenant: toda entidade do sistema (exceto o superadmin)
// pertence a exatamente uma escola.
type EscolaModel struct {
	EscolaID   uuid.UUID `gorm:"column:escola_id;type:uuid;primaryKey" json:"escola_id"`
	EscolaNome string    `gorm:"column:escola_nome;type:text;not null" json:"escola_nome"`

	EscolaCreatedAt time.Time      `gorm:"column:escola_created_at;autoCreateTime" json:"escola_created_at"`
	EscolaUpdatedAt *time.Time     `gorm:"column:escola_updated_at;autoUpdateTime" json:"escola_updated_at,omitempty"`
	EscolaDeletedAt gorm.DeletedAt `gorm:"column:escola_deleted_at;index" json:"escola_deleted_at,omitempty"`
}

func (EscolaModel) TableName() string { return "escolas" }

func (m *EscolaModel) BeforeCreate(tx *gorm.DB) error {
	if m.EscolaID == uuid.Nil {
		m.EscolaID = uuid.New()
	}
	return nil
}
