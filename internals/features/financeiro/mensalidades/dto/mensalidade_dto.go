package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CriarMensalidadeRequest struct {
	AlunoID        string          `json:"aluno_id" validate:"required,uuid4"`
	Tipo           string          `json:"tipo" validate:"required,oneof=matricula mensalidade"`
	Descricao      string          `json:"descricao" validate:"required,max=100"`
	Valor          decimal.Decimal `json:"valor" validate:"required"`
	DataVencimento string          `json:"data_vencimento" validate:"required"` // AAAA-MM-DD
}

// CriarLoteMensalidadesRequest lança o carnê do aluno de uma vez: valor
// fixo do mês do vencimento inicial até dezembro.
type CriarLoteMensalidadesRequest struct {
	AlunoID               string          `json:"aluno_id" validate:"required,uuid4"`
	Valor                 decimal.Decimal `json:"valor" validate:"required"`
	DataVencimentoInicial string          `json:"data_vencimento_inicial" validate:"required"` // AAAA-MM-DD
}

type AtualizarStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open approved refunded charged_back cancelled"`
}

// RegistrarPagamentoRequest traz o comprovante: valor e data são
// obrigatórios, sem conciliação com o total devido.
type RegistrarPagamentoRequest struct {
	ValorPago     decimal.Decimal `json:"valor_pago" validate:"required"`
	DataPagamento string          `json:"data_pagamento" validate:"required"` // AAAA-MM-DD
}

// ParcelaResponse é a linha da listagem administrativa: parcela + aluno +
// responsável + encargos calculados para hoje.
type ParcelaResponse struct {
	MensalidadeID  string           `json:"mensalidade_id"`
	Tipo           string           `json:"tipo"`
	Descricao      string           `json:"descricao"`
	Competencia    *string          `json:"competencia,omitempty"`
	Valor          decimal.Decimal  `json:"valor"`
	DataVencimento time.Time        `json:"data_vencimento"`
	Status         string           `json:"status"`
	ValorPago      *decimal.Decimal `json:"valor_pago,omitempty"`
	DataPagamento  *time.Time       `json:"data_pagamento,omitempty"`

	DiasAtraso  int             `json:"dias_atraso"`
	Multa       decimal.Decimal `json:"multa"`
	Juros       decimal.Decimal `json:"juros"`
	TotalDevido decimal.Decimal `json:"total_devido"`

	AlunoID         string `json:"aluno_id"`
	AlunoNome       string `json:"aluno_nome"`
	AlunoRaSef      string `json:"aluno_ra_sef"`
	ResponsavelNome string `json:"responsavel_nome,omitempty"`
}

// ParcelaAlunoResponse é a visão do próprio aluno: valores de face,
// sem encargos recalculados.
type ParcelaAlunoResponse struct {
	MensalidadeID  string           `json:"mensalidade_id"`
	Descricao      string           `json:"descricao"`
	Valor          decimal.Decimal  `json:"valor"`
	DataVencimento time.Time        `json:"data_vencimento"`
	Status         string           `json:"status"`
	ValorPago      *decimal.Decimal `json:"valor_pago,omitempty"`
	DataPagamento  *time.Time       `json:"data_pagamento,omitempty"`
}

// ContadoresMesResponse são os cartões do painel para um mês.
type ContadoresMesResponse struct {
	Mes          string `json:"mes"`
	PagasNoMes   int64  `json:"pagas_no_mes"`
	AbertasNoMes int64  `json:"abertas_no_mes"`
}

// ResumoTurma agrega a inadimplência por turma.
type ResumoTurma struct {
	TurmaID      string          `json:"turma_id"`
	TurmaNome    string          `json:"turma_nome"`
	EmAtraso     int64           `json:"em_atraso"`
	AReceber     int64           `json:"a_receber"`
	ValorAtraso  decimal.Decimal `json:"valor_em_atraso"`
	ValorReceber decimal.Decimal `json:"valor_a_receber"`
}
