package dto

type CriarTurmaRequest struct {
	Nome    string `json:"nome" validate:"required,min=2,max=100"`
	Ano     int    `json:"ano" validate:"required,min=2000,max=2100"`
	Periodo string `json:"periodo" validate:"omitempty,oneof=manha tarde integral"`
}

type AtualizarTurmaRequest struct {
	Nome    *string `json:"nome" validate:"omitempty,min=2,max=100"`
	Periodo *string `json:"periodo" validate:"omitempty,oneof=manha tarde integral"`
}
