package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResponsavelModel é o responsável financeiro. O CPF identifica a pessoa
// no sistema inteiro: um CPF já vinculado a uma escola não pode ser
// reaproveitado por outra.
type ResponsavelModel struct {
	ResponsavelID uuid.UUID `gorm:"column:responsavel_id;type:uuid;primaryKey" json:"responsavel_id"`

	ResponsavelNome     string `gorm:"column:responsavel_nome;size:120;not null" json:"responsavel_nome"`
	ResponsavelCpf      string `gorm:"column:responsavel_cpf;size:14;not null;uniqueIndex" json:"responsavel_cpf"`
	ResponsavelRg       string `gorm:"column:responsavel_rg;size:20" json:"responsavel_rg,omitempty"`
	ResponsavelEmail    string `gorm:"column:responsavel_email;size:120" json:"responsavel_email,omitempty"`
	ResponsavelTelefone string `gorm:"column:responsavel_telefone;size:20" json:"responsavel_telefone,omitempty"`

	ResponsavelCep         string `gorm:"column:responsavel_cep;size:9" json:"responsavel_cep,omitempty"`
	ResponsavelLogradouro  string `gorm:"column:responsavel_logradouro;size:150" json:"responsavel_logradouro,omitempty"`
	ResponsavelNumero      string `gorm:"column:responsavel_numero;size:10" json:"responsavel_numero,omitempty"`
	ResponsavelComplemento string `gorm:"column:responsavel_complemento;size:60" json:"responsavel_complemento,omitempty"`
	ResponsavelBairro      string `gorm:"column:responsavel_bairro;size:80" json:"responsavel_bairro,omitempty"`
	ResponsavelCidade      string `gorm:"column:responsavel_cidade;size:80" json:"responsavel_cidade,omitempty"`
	ResponsavelUf          string `gorm:"column:responsavel_uf;size:2" json:"responsavel_uf,omitempty"`

	ResponsavelEscolaID uuid.UUID `gorm:"column:responsavel_escola_id;type:uuid;not null;index" json:"responsavel_escola_id"`

	ResponsavelCreatedAt time.Time  `gorm:"column:responsavel_created_at;autoCreateTime" json:"responsavel_created_at"`
	ResponsavelUpdatedAt *time.Time `gorm:"column:responsavel_updated_at;autoUpdateTime" json:"responsavel_updated_at,omitempty"`
}

func (ResponsavelModel) TableName() string { return "responsaveis" }

func (m *ResponsavelModel) BeforeCreate(tx *gorm.DB) error {
	if m.ResponsavelID == uuid.Nil {
		m.ResponsavelID = uuid.New()
	}
	return nil
}
