package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsuarioModel é a credencial de login. Para alunos o username é o ra_sef
// (único no sistema inteiro, não por escola).
type UsuarioModel struct {
	UsuarioID uuid.UUID `gorm:"column:usuario_id;type:uuid;primaryKey" json:"usuario_id"`

	UsuarioUsername  string `gorm:"column:usuario_username;size:50;uniqueIndex;not null" json:"usuario_username"`
	UsuarioSenhaHash string `gorm:"column:usuario_senha_hash;not null" json:"-"`
	UsuarioRole      string `gorm:"column:usuario_role;type:varchar(20);not null;default:'aluno'" json:"usuario_role"`

	// FK (nullable → SET NULL)
	UsuarioAlunoID  *uuid.UUID `gorm:"column:usuario_aluno_id;type:uuid" json:"usuario_aluno_id,omitempty"`
	UsuarioEscolaID *uuid.UUID `gorm:"column:usuario_escola_id;type:uuid;index" json:"usuario_escola_id,omitempty"`

	UsuarioCreatedAt time.Time  `gorm:"column:usuario_created_at;autoCreateTime" json:"usuario_created_at"`
	UsuarioUpdatedAt *time.Time `gorm:"column:usuario_updated_at;autoUpdateTime" json:"usuario_updated_at,omitempty"`
}

func (UsuarioModel) TableName() string { return "usuarios" }

func (m *UsuarioModel) BeforeCreate(tx *gorm.DB) error {
	if m.UsuarioID == uuid.Nil {
		m.UsuarioID = uuid.New()
	}
	return nil
}
