package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crescer_backend/internals/features/financeiro/mensalidades/model"
)

func abrirBanco(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "teste.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("abrir sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.MensalidadeModel{}); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	return db
}

func novaParcela(aluno, escola uuid.UUID, tipo string, venc time.Time) model.MensalidadeModel {
	return model.MensalidadeModel{
		MensalidadeTipo:           tipo,
		MensalidadeDescricao:      "Mensalidade",
		MensalidadeValor:          decimal.NewFromFloat(916.67),
		MensalidadeDataVencimento: venc,
		MensalidadeStatus:         model.StatusOpen,
		MensalidadeAlunoID:        aluno,
		MensalidadeEscolaID:       escola,
	}
}

func TestCriarParcelaDuplicadaNoMes(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	p1 := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p1); err != nil {
		t.Fatalf("primeira: %v", err)
	}
	if p1.MensalidadeCompetencia == nil || *p1.MensalidadeCompetencia != "2027-03" {
		t.Fatalf("competência = %v", p1.MensalidadeCompetencia)
	}

	// Mesmo aluno, mesmo mês, vencimento diferente: duplicada.
	p2 := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.March, 25, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p2); !errors.Is(err, ErrParcelaDuplicada) {
		t.Fatalf("err = %v, esperado ErrParcelaDuplicada", err)
	}

	// Mês seguinte passa.
	p3 := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.April, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p3); err != nil {
		t.Fatalf("mês seguinte: %v", err)
	}

	// Outro aluno no mesmo mês passa.
	p4 := novaParcela(uuid.New(), escola, model.TipoMensalidade, time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p4); err != nil {
		t.Fatalf("outro aluno: %v", err)
	}
}

func TestCriarParcelaMatriculaNaoColide(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	venc := time.Date(2027, time.January, 10, 0, 0, 0, 0, time.UTC)

	mensal := novaParcela(aluno, escola, model.TipoMensalidade, venc)
	if err := CriarParcela(db, &mensal); err != nil {
		t.Fatalf("mensalidade: %v", err)
	}

	// Matrícula no mesmo mês não entra na checagem e fica sem competência.
	matricula := novaParcela(aluno, escola, model.TipoMatricula, venc)
	if err := CriarParcela(db, &matricula); err != nil {
		t.Fatalf("matrícula: %v", err)
	}
	if matricula.MensalidadeCompetencia != nil {
		t.Fatalf("matrícula com competência %q", *matricula.MensalidadeCompetencia)
	}

	// Duas matrículas também convivem (competência NULL não colide).
	outra := novaParcela(aluno, escola, model.TipoMatricula, venc)
	if err := CriarParcela(db, &outra); err != nil {
		t.Fatalf("segunda matrícula: %v", err)
	}
}

func TestAplicarEncargosPersisteEIdempotente(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	venc := time.Date(2027, time.January, 10, 0, 0, 0, 0, time.UTC)
	p := novaParcela(aluno, escola, model.TipoMensalidade, venc)
	p.MensalidadeValor = decimal.NewFromFloat(500.00)
	if err := CriarParcela(db, &p); err != nil {
		t.Fatalf("criar: %v", err)
	}

	hoje := venc.AddDate(0, 0, 30)
	if err := AplicarEncargos(db, &p, escola, hoje); err != nil {
		t.Fatalf("aplicar: %v", err)
	}

	var gravada model.MensalidadeModel
	if err := db.Where("mensalidade_id = ?", p.MensalidadeID).First(&gravada).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if gravada.MensalidadeDiasAtraso != 30 {
		t.Fatalf("dias_atraso = %d", gravada.MensalidadeDiasAtraso)
	}
	if !gravada.MensalidadeMultaAplicada.Equal(decimal.NewFromFloat(10.00)) {
		t.Fatalf("multa = %s", gravada.MensalidadeMultaAplicada)
	}
	if !gravada.MensalidadeJurosAplicados.Equal(decimal.NewFromFloat(10.00)) {
		t.Fatalf("juros = %s", gravada.MensalidadeJurosAplicados)
	}

	// Mesmo "hoje" de novo: nada muda.
	atualizadaEm := gravada.MensalidadeUpdatedAt
	if err := AplicarEncargos(db, &gravada, escola, hoje); err != nil {
		t.Fatalf("reaplicar: %v", err)
	}
	var relida model.MensalidadeModel
	db.Where("mensalidade_id = ?", p.MensalidadeID).First(&relida)
	if atualizadaEm != nil && relida.MensalidadeUpdatedAt != nil && relida.MensalidadeUpdatedAt.After(*atualizadaEm) {
		t.Fatal("reaplicação idempotente gerou UPDATE")
	}
}

func TestRegistrarPagamentoGravaValorEDataDoComprovante(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	p := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p); err != nil {
		t.Fatalf("criar: %v", err)
	}

	// Pagamento parcial e retroativo: o que vale é o comprovante, não o
	// relógio do servidor nem o total devido.
	valorPago := decimal.NewFromFloat(150.00)
	dataPagamento := time.Date(2027, time.March, 5, 0, 0, 0, 0, time.UTC)
	ok, err := RegistrarPagamento(db, p.MensalidadeID, escola, valorPago, dataPagamento)
	if err != nil || !ok {
		t.Fatalf("registrar: ok=%v err=%v", ok, err)
	}

	var gravada model.MensalidadeModel
	if err := db.Where("mensalidade_id = ?", p.MensalidadeID).First(&gravada).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if gravada.MensalidadeStatus != model.StatusApproved {
		t.Fatalf("status = %q", gravada.MensalidadeStatus)
	}
	if gravada.MensalidadeValorPago == nil || !gravada.MensalidadeValorPago.Equal(valorPago) {
		t.Fatalf("valor_pago = %v", gravada.MensalidadeValorPago)
	}
	if gravada.MensalidadeDataPagamento == nil || !gravada.MensalidadeDataPagamento.Equal(dataPagamento) {
		t.Fatalf("data_pagamento = %v", gravada.MensalidadeDataPagamento)
	}
}

func TestRegistrarPagamentoNaoAlcancaOutraEscola(t *testing.T) {
	db := abrirBanco(t)
	p := novaParcela(uuid.New(), uuid.New(), model.TipoMensalidade, time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p); err != nil {
		t.Fatalf("criar: %v", err)
	}

	ok, err := RegistrarPagamento(db, p.MensalidadeID, uuid.New(), decimal.NewFromInt(100), time.Now())
	if err != nil {
		t.Fatalf("registrar: %v", err)
	}
	if ok {
		t.Fatal("pagamento registrado em parcela de outra escola")
	}

	var gravada model.MensalidadeModel
	db.Where("mensalidade_id = ?", p.MensalidadeID).First(&gravada)
	if gravada.MensalidadeStatus != model.StatusOpen {
		t.Fatalf("status = %q", gravada.MensalidadeStatus)
	}
}

func TestCriarLoteAteDezembroPulandoDuplicadas(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	// Junho já ocupado: o lote pula a competência e segue.
	ocupada := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.June, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &ocupada); err != nil {
		t.Fatalf("ocupar junho: %v", err)
	}

	criadas, puladas, err := CriarLote(db, aluno, escola, decimal.NewFromFloat(450.00), time.Date(2027, time.April, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("lote: %v", err)
	}
	if criadas != 8 || puladas != 1 {
		t.Fatalf("criadas=%d puladas=%d, esperado 8/1", criadas, puladas)
	}

	var total int64
	db.Model(&model.MensalidadeModel{}).Where("mensalidade_aluno_id = ?", aluno).Count(&total)
	if total != 9 {
		t.Fatalf("total de parcelas = %d", total)
	}
}

func TestFiltrarPorMesEhAssimetrico(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	// Parcela que vence em março e foi paga em abril.
	paga := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &paga); err != nil {
		t.Fatalf("criar paga: %v", err)
	}
	if _, err := RegistrarPagamento(db, paga.MensalidadeID, escola, decimal.NewFromFloat(916.67), time.Date(2027, time.April, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("pagar: %v", err)
	}

	// Parcela em aberto vencendo em abril.
	aberta := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.April, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &aberta); err != nil {
		t.Fatalf("criar aberta: %v", err)
	}

	abril := time.Date(2027, time.April, 1, 0, 0, 0, 0, time.UTC)

	// status=approved + mês olha a data de PAGAMENTO: acha a paga em abril.
	var ids []uuid.UUID
	q := FiltrarPorMes(db.Model(&model.MensalidadeModel{}).Where("mensalidade_status = ?", model.StatusApproved), model.StatusApproved, abril)
	if err := q.Pluck("mensalidade_id", &ids).Error; err != nil {
		t.Fatalf("filtrar approved: %v", err)
	}
	if len(ids) != 1 || ids[0] != paga.MensalidadeID {
		t.Fatalf("approved em abril = %v", ids)
	}

	// Sem status (ou qualquer outro) olha o VENCIMENTO: acha a que vence
	// em abril, não a paga em abril (que vence em março).
	ids = nil
	q = FiltrarPorMes(db.Model(&model.MensalidadeModel{}), "", abril)
	if err := q.Pluck("mensalidade_id", &ids).Error; err != nil {
		t.Fatalf("filtrar vencimento: %v", err)
	}
	if len(ids) != 1 || ids[0] != aberta.MensalidadeID {
		t.Fatalf("vencendo em abril = %v", ids)
	}
}

func TestContadoresDoMes(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	paga := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &paga); err != nil {
		t.Fatalf("criar paga: %v", err)
	}
	if _, err := RegistrarPagamento(db, paga.MensalidadeID, escola, decimal.NewFromFloat(916.67), time.Date(2027, time.April, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("pagar: %v", err)
	}

	aberta := novaParcela(aluno, escola, model.TipoMensalidade, time.Date(2027, time.April, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &aberta); err != nil {
		t.Fatalf("criar aberta: %v", err)
	}

	pagas, abertas, err := ContadoresDoMes(db, escola, time.Date(2027, time.April, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("contadores: %v", err)
	}
	if pagas != 1 || abertas != 1 {
		t.Fatalf("pagas=%d abertas=%d", pagas, abertas)
	}

	// Outra escola não enxerga nada.
	pagas, abertas, err = ContadoresDoMes(db, uuid.New(), time.Date(2027, time.April, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("contadores outra escola: %v", err)
	}
	if pagas != 0 || abertas != 0 {
		t.Fatalf("vazou para outra escola: pagas=%d abertas=%d", pagas, abertas)
	}
}

func TestAplicarEncargosPulaQuitadas(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	venc := time.Date(2027, time.January, 10, 0, 0, 0, 0, time.UTC)
	p := novaParcela(aluno, escola, model.TipoMensalidade, venc)
	p.MensalidadeStatus = model.StatusApproved
	if err := CriarParcela(db, &p); err != nil {
		t.Fatalf("criar: %v", err)
	}

	if err := AplicarEncargos(db, &p, escola, venc.AddDate(0, 2, 0)); err != nil {
		t.Fatalf("aplicar: %v", err)
	}
	if p.MensalidadeDiasAtraso != 0 || !p.MensalidadeMultaAplicada.IsZero() {
		t.Fatal("encargos aplicados em parcela quitada")
	}
}
