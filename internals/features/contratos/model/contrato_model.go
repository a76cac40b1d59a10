package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ContratoModel guarda o contrato de prestação de serviços gerado ao aceitar
// a matrícula. ContratoCampos é a fotografia (JSON) dos dados no momento do
// aceite; edições posteriores no aluno não alteram o contrato já emitido.
type ContratoModel struct {
	ContratoID uuid.UUID `gorm:"column:contrato_id;type:uuid;primaryKey" json:"contrato_id"`

	ContratoAnoLetivo int            `gorm:"column:contrato_ano_letivo;not null" json:"contrato_ano_letivo"`
	ContratoCampos    datatypes.JSON `gorm:"column:contrato_campos;not null" json:"contrato_campos"`
	ContratoCaminho   string         `gorm:"column:contrato_caminho;size:255" json:"contrato_caminho,omitempty"`

	ContratoAlunoID  uuid.UUID `gorm:"column:contrato_aluno_id;type:uuid;not null;index" json:"contrato_aluno_id"`
	ContratoEscolaID uuid.UUID `gorm:"column:contrato_escola_id;type:uuid;not null;index" json:"contrato_escola_id"`

	ContratoCreatedAt time.Time  `gorm:"column:contrato_created_at;autoCreateTime" json:"contrato_created_at"`
	ContratoUpdatedAt *time.Time `gorm:"column:contrato_updated_at;autoUpdateTime" json:"contrato_updated_at,omitempty"`
}

func (ContratoModel) TableName() string { return "contratos" }

func (m *ContratoModel) BeforeCreate(tx *gorm.DB) error {
	if m.ContratoID == uuid.Nil {
		m.ContratoID = uuid.New()
	}
	return nil
}
