package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TurmaModel struct {
	TurmaID uuid.UUID `gorm:"column:turma_id;type:uuid;primaryKey" json:"turma_id"`

	TurmaNome    string `gorm:"column:turma_nome;size:100;not null" json:"turma_nome"`
	TurmaAno     int    `gorm:"column:turma_ano;not null" json:"turma_ano"`
	TurmaPeriodo string `gorm:"column:turma_periodo;size:20" json:"turma_periodo,omitempty"` // manhã | tarde | integral

	TurmaEscolaID uuid.UUID `gorm:"column:turma_escola_id;type:uuid;not null;index" json:"turma_escola_id"`

	TurmaCreatedAt time.Time      `gorm:"column:turma_created_at;autoCreateTime" json:"turma_created_at"`
	TurmaUpdatedAt *time.Time     `gorm:"column:turma_updated_at;autoUpdateTime" json:"turma_updated_at,omitempty"`
	TurmaDeletedAt gorm.DeletedAt `gorm:"column:turma_deleted_at;index" json:"-"`
}

func (TurmaModel) TableName() string { return "turmas" }

func (m *TurmaModel) BeforeCreate(tx *gorm.DB) error {
	if m.TurmaID == uuid.Nil {
		m.TurmaID = uuid.New()
	}
	return nil
}
