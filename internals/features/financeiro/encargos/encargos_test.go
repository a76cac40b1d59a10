package encargos

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dia(ano int, mes time.Month, d int) time.Time {
	return time.Date(ano, mes, d, 0, 0, 0, 0, time.UTC)
}

func TestCalcularEmDia(t *testing.T) {
	base := decimal.NewFromFloat(500.00)
	venc := dia(2026, time.March, 10)

	for _, hoje := range []time.Time{
		dia(2026, time.February, 1),
		dia(2026, time.March, 9),
		dia(2026, time.March, 10), // vence hoje: ainda sem encargos
	} {
		e := Calcular(base, venc, hoje)
		assert.Equal(t, 0, e.DiasAtraso, "hoje=%s", hoje)
		assert.True(t, e.Multa.IsZero())
		assert.True(t, e.Juros.IsZero())
		assert.True(t, e.TotalDevido.Equal(decimal.NewFromFloat(500.00)))
	}
}

func TestCalcularSoJurosAntesDe30Dias(t *testing.T) {
	base := decimal.NewFromFloat(500.00)
	venc := dia(2026, time.March, 10)

	// 15 dias: juros = 500 * 0.02/30 * 15 = 5.00, multa ainda não.
	e := Calcular(base, venc, dia(2026, time.March, 25))
	assert.Equal(t, 15, e.DiasAtraso)
	assert.True(t, e.Multa.IsZero(), "multa antes de 30 dias: %s", e.Multa)
	assert.True(t, e.Juros.Equal(decimal.NewFromFloat(5.00)), "juros: %s", e.Juros)
	assert.True(t, e.TotalDevido.Equal(decimal.NewFromFloat(505.00)))

	// 29 dias: último dia sem multa.
	e = Calcular(base, venc, dia(2026, time.April, 8))
	assert.Equal(t, 29, e.DiasAtraso)
	assert.True(t, e.Multa.IsZero())
}

func TestCalcularMultaPorMesCompleto(t *testing.T) {
	base := decimal.NewFromFloat(500.00)
	venc := dia(2026, time.March, 10)

	// 30 dias: primeira multa de 2% (10.00) + juros 10.00.
	e := Calcular(base, venc, dia(2026, time.April, 9))
	require.Equal(t, 30, e.DiasAtraso)
	assert.True(t, e.Multa.Equal(decimal.NewFromFloat(10.00)), "multa: %s", e.Multa)
	assert.True(t, e.Juros.Equal(decimal.NewFromFloat(10.00)), "juros: %s", e.Juros)
	assert.True(t, e.TotalDevido.Equal(decimal.NewFromFloat(520.00)))

	// 65 dias: 2 meses completos → multa 20.00; juros 500*0.02/30*65 = 21.67.
	e = Calcular(base, venc, dia(2026, time.May, 14))
	require.Equal(t, 65, e.DiasAtraso)
	assert.True(t, e.Multa.Equal(decimal.NewFromFloat(20.00)), "multa: %s", e.Multa)
	assert.True(t, e.Juros.Equal(decimal.NewFromFloat(21.67)), "juros: %s", e.Juros)
	assert.True(t, e.TotalDevido.Equal(decimal.NewFromFloat(541.67)))
}

func TestCalcularArredondaComponentesSeparados(t *testing.T) {
	// Base quebrada força arredondamento em cada componente antes da soma.
	base := decimal.NewFromFloat(333.33)
	venc := dia(2026, time.January, 5)

	e := Calcular(base, venc, dia(2026, time.February, 11)) // 37 dias
	require.Equal(t, 37, e.DiasAtraso)
	// multa = 333.33 * 0.02 * 1 = 6.6666 → 6.67
	assert.True(t, e.Multa.Equal(decimal.NewFromFloat(6.67)), "multa: %s", e.Multa)
	// juros = 333.33 * 0.02/30 * 37 = 8.2221... → 8.22
	assert.True(t, e.Juros.Equal(decimal.NewFromFloat(8.22)), "juros: %s", e.Juros)
	assert.True(t, e.TotalDevido.Equal(decimal.NewFromFloat(348.22)))
}

func TestCalcularIdempotenteParaMesmoDia(t *testing.T) {
	base := decimal.NewFromFloat(741.50)
	venc := dia(2026, time.February, 10)
	hoje := dia(2026, time.June, 3)

	primeira := Calcular(base, venc, hoje)
	for i := 0; i < 10; i++ {
		outra := Calcular(base, venc, hoje)
		assert.Equal(t, primeira.DiasAtraso, outra.DiasAtraso)
		assert.True(t, primeira.Multa.Equal(outra.Multa))
		assert.True(t, primeira.Juros.Equal(outra.Juros))
		assert.True(t, primeira.TotalDevido.Equal(outra.TotalDevido))
	}
}

func TestCalcularTotalNuncaDiminui(t *testing.T) {
	base := decimal.NewFromFloat(500.00)
	venc := dia(2026, time.January, 10)

	anterior := decimal.Zero
	for d := 0; d <= 120; d++ {
		hoje := venc.AddDate(0, 0, d)
		e := Calcular(base, venc, hoje)
		if e.TotalDevido.LessThan(anterior) {
			t.Fatalf("total devido caiu no dia %d: %s < %s", d, e.TotalDevido, anterior)
		}
		anterior = e.TotalDevido
	}
}

func TestCalcularIgnoraHoras(t *testing.T) {
	base := decimal.NewFromFloat(100.00)
	venc := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	hoje := time.Date(2026, time.March, 11, 0, 1, 0, 0, time.UTC)

	e := Calcular(base, venc, hoje)
	assert.Equal(t, 1, e.DiasAtraso)
}

func TestQuitado(t *testing.T) {
	for _, s := range []string{"approved", "refunded", "charged_back", "cancelled"} {
		assert.True(t, Quitado(s), s)
	}
	for _, s := range []string{"open", "processing", ""} {
		assert.False(t, Quitado(s), s)
	}
}
