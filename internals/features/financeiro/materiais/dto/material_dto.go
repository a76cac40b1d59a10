package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CriarMaterialRequest struct {
	AlunoID        string          `json:"aluno_id" validate:"required,uuid4"`
	Descricao      string          `json:"descricao" validate:"required,max=100"`
	Valor          decimal.Decimal `json:"valor" validate:"required"`
	DataVencimento string          `json:"data_vencimento" validate:"required"` // AAAA-MM-DD
}

// RegistrarPagamentoRequest traz o comprovante: valor e data obrigatórios,
// sem conciliação com o total devido.
type RegistrarPagamentoRequest struct {
	ValorPago     decimal.Decimal `json:"valor_pago" validate:"required"`
	DataPagamento string          `json:"data_pagamento" validate:"required"` // AAAA-MM-DD
}

type MaterialResponse struct {
	MaterialID     string           `json:"material_id"`
	Descricao      string           `json:"descricao"`
	Valor          decimal.Decimal  `json:"valor"`
	DataVencimento time.Time        `json:"data_vencimento"`
	Status         string           `json:"status"`
	ValorPago      *decimal.Decimal `json:"valor_pago,omitempty"`
	DataPagamento  *time.Time       `json:"data_pagamento,omitempty"`

	DiasAtraso  int             `json:"dias_atraso"`
	Multa       decimal.Decimal `json:"multa"`
	Juros       decimal.Decimal `json:"juros"`
	TotalDevido decimal.Decimal `json:"total_devido"`

	AlunoID    string `json:"aluno_id"`
	AlunoNome  string `json:"aluno_nome"`
	AlunoRaSef string `json:"aluno_ra_sef"`
}
