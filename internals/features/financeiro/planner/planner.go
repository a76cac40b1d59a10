// Package planner monta o plano de parcelas de um contrato anual
// (matrícula + mensalidades) e do material didático. Só monta: quem
// grava no livro-razão é o serviço de matrícula, dentro da transação
// do aceite.
package planner

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
)

var doze = decimal.NewFromInt(12)

// DiaVencimentoPadrao é o dia do mês usado quando a escola não define um.
const DiaVencimentoPadrao = 10

// Parcela é uma linha planejada, ainda sem dono nem escola.
type Parcela struct {
	Tipo        string
	Descricao   string
	Competencia *string // "AAAA-MM"; nil para matrícula e material
	Valor       decimal.Decimal
	Vencimento  time.Time
}

// PlanoAnuidade monta o plano do ano letivo: taxa de matrícula com
// vencimento em hoje+10 dias e mensalidades fixas de (anuidade-matrícula)/12.
//
// Matrícula feita no próprio ano letivo começa no mês corrente e gera só
// as parcelas restantes (12 - mês + 1), mantendo o valor cheio da parcela;
// o contrato é proporcional aos meses cursados. Ano letivo futuro gera as
// 12 parcelas a partir de janeiro.
//
// Anuidade menor ou igual à matrícula devolve plano vazio — nada é
// lançado, nem a taxa de matrícula (bolsista é decidido pelo chamador
// antes de chegar aqui).
func PlanoAnuidade(anuidade, matricula decimal.Decimal, anoLetivo, diaVencimento int, hoje time.Time) []Parcela {
	if !anuidade.GreaterThan(matricula) {
		return nil
	}

	valorMensal := anuidade.Sub(matricula).Div(doze).Round(2)

	mesInicial := 1
	if anoLetivo == hoje.Year() {
		mesInicial = int(hoje.Month())
	}

	plano := make([]Parcela, 0, 13)
	plano = append(plano, Parcela{
		Tipo:       mensalidadeModel.TipoMatricula,
		Descricao:  "Matrícula",
		Valor:      matricula.Round(2),
		Vencimento: meiaNoite(hoje).AddDate(0, 0, 10),
	})

	for mes := mesInicial; mes <= 12; mes++ {
		comp := fmt.Sprintf("%04d-%02d", anoLetivo, mes)
		plano = append(plano, Parcela{
			Tipo:        mensalidadeModel.TipoMensalidade,
			Descricao:   "Mensalidade",
			Competencia: &comp,
			Valor:       valorMensal,
			Vencimento:  Vencimento(anoLetivo, time.Month(mes), diaVencimento),
		})
	}
	return plano
}

// PlanoMaterial divide o valor do material em parcelas iguais de
// round(total/n, 2), com a última absorvendo a sobra de arredondamento
// para que a soma feche exatamente no total. Meses fora do ano letivo
// (>12) são descartados em silêncio; total não positivo ou nenhum mês
// válido devolve plano vazio.
func PlanoMaterial(total decimal.Decimal, meses []int, anoLetivo, diaVencimento int) []Parcela {
	if !total.IsPositive() {
		return nil
	}

	validos := make([]int, 0, len(meses))
	for _, m := range meses {
		if m >= 1 && m <= 12 {
			validos = append(validos, m)
		}
	}
	if len(validos) == 0 {
		return nil
	}

	n := decimal.NewFromInt(int64(len(validos)))
	valorParcela := total.Div(n).Round(2)

	plano := make([]Parcela, 0, len(validos))
	acumulado := decimal.Zero
	for i, mes := range validos {
		valor := valorParcela
		if i == len(validos)-1 {
			valor = total.Sub(acumulado)
		}
		acumulado = acumulado.Add(valor)
		plano = append(plano, Parcela{
			Tipo:       "material",
			Descricao:  "Material Didático",
			Valor:      valor,
			Vencimento: Vencimento(anoLetivo, time.Month(mes), diaVencimento),
		})
	}
	return plano
}

// MesesMaterialPadrao deriva a lista de meses do material a partir de uma
// contagem de parcelas: começa no mês corrente quando o ano letivo é o
// corrente, senão em janeiro, e descarta o que passar de dezembro.
func MesesMaterialPadrao(parcelas, anoLetivo int, hoje time.Time) []int {
	if parcelas < 1 {
		return nil
	}
	inicio := 1
	if anoLetivo == hoje.Year() {
		inicio = int(hoje.Month())
	}
	meses := make([]int, 0, parcelas)
	for mes := inicio; mes < inicio+parcelas && mes <= 12; mes++ {
		meses = append(meses, mes)
	}
	return meses
}

// Vencimento posiciona o vencimento no dia pedido; dia fora do alcance
// do mês cai no último dia (time.Date normaliza, então limitamos antes).
func Vencimento(ano int, mes time.Month, dia int) time.Time {
	if dia < 1 {
		dia = 1
	}
	ultimo := time.Date(ano, mes+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dia > ultimo {
		dia = ultimo
	}
	return time.Date(ano, mes, dia, 0, 0, 0, 0, time.UTC)
}

func meiaNoite(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
