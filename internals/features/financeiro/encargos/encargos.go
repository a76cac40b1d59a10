// Package encargos calcula multa e juros de parcela em atraso.
//
// Regra contratual: multa de 2% sobre o valor base por mês COMPLETO de
// atraso (nada antes de 30 dias) e juros de mora de 2% ao mês pro rata
// die desde o primeiro dia. Cada componente é arredondado a 2 casas
// separadamente antes da soma.
package encargos

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	percentualMulta = decimal.NewFromInt(2) // % por mês completo
	percentualJuros = decimal.NewFromInt(2) // % ao mês, pro rata die
	cem             = decimal.NewFromInt(100)
	trinta          = decimal.NewFromInt(30)
)

// Encargos é o resultado do cálculo para uma parcela.
type Encargos struct {
	DiasAtraso  int
	Multa       decimal.Decimal
	Juros       decimal.Decimal
	TotalDevido decimal.Decimal
}

// Calcular aplica a régua de atraso a uma parcela de valor base valorBase
// vencida em vencimento, avaliada na data hoje. Horas são ignoradas: o
// atraso conta em dias de calendário. Parcela em dia (ou vencendo hoje)
// devolve encargos zerados e TotalDevido igual ao valor base.
func Calcular(valorBase decimal.Decimal, vencimento, hoje time.Time) Encargos {
	dias := diasCorridos(vencimento, hoje)
	if dias <= 0 {
		return Encargos{
			DiasAtraso:  0,
			Multa:       decimal.Zero,
			Juros:       decimal.Zero,
			TotalDevido: valorBase.Round(2),
		}
	}

	diasDec := decimal.NewFromInt(int64(dias))

	// Multa: 2% por mês completo (floor(dias/30)).
	mesesCompletos := decimal.NewFromInt(int64(dias / 30))
	multa := valorBase.Mul(percentualMulta).Div(cem).Mul(mesesCompletos).Round(2)

	// Juros: (2/30)% ao dia sobre o valor base.
	juros := valorBase.Mul(percentualJuros).Div(cem).Div(trinta).Mul(diasDec).Round(2)

	return Encargos{
		DiasAtraso:  dias,
		Multa:       multa,
		Juros:       juros,
		TotalDevido: valorBase.Add(multa).Add(juros).Round(2),
	}
}

// Quitado informa se o status dispensa encargos de atraso.
func Quitado(status string) bool {
	switch status {
	case "approved", "refunded", "charged_back", "cancelled":
		return true
	}
	return false
}

// diasCorridos conta dias de calendário entre vencimento e hoje,
// truncando ambos à meia-noite local.
func diasCorridos(vencimento, hoje time.Time) int {
	v := time.Date(vencimento.Year(), vencimento.Month(), vencimento.Day(), 0, 0, 0, 0, time.UTC)
	h := time.Date(hoje.Year(), hoje.Month(), hoje.Day(), 0, 0, 0, 0, time.UTC)
	return int(h.Sub(v).Hours() / 24)
}
