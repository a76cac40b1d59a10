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

	"crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
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
	if err := db.AutoMigrate(&model.MaterialModel{}); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	return db
}

func novaParcelaMaterial(aluno, escola uuid.UUID, valor decimal.Decimal, venc time.Time) model.MaterialModel {
	return model.MaterialModel{
		MaterialDescricao:      "Material didático",
		MaterialValor:          valor,
		MaterialDataVencimento: venc,
		MaterialStatus:         mensalidadeModel.StatusOpen,
		MaterialAlunoID:        aluno,
		MaterialEscolaID:       escola,
	}
}

func TestCriarParcelaMaterialDuplicada(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()
	venc := time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC)

	p1 := novaParcelaMaterial(aluno, escola, decimal.NewFromFloat(120.00), venc)
	if err := CriarParcela(db, &p1); err != nil {
		t.Fatalf("primeira: %v", err)
	}

	// Mesma trinca (aluno, vencimento, valor): duplicada.
	p2 := novaParcelaMaterial(aluno, escola, decimal.NewFromFloat(120.00), venc)
	if err := CriarParcela(db, &p2); !errors.Is(err, ErrParcelaDuplicada) {
		t.Fatalf("err = %v, esperado ErrParcelaDuplicada", err)
	}

	// Valor diferente no mesmo vencimento convive.
	p3 := novaParcelaMaterial(aluno, escola, decimal.NewFromFloat(80.00), venc)
	if err := CriarParcela(db, &p3); err != nil {
		t.Fatalf("valor diferente: %v", err)
	}

	// Outro aluno na mesma trinca convive.
	p4 := novaParcelaMaterial(uuid.New(), escola, decimal.NewFromFloat(120.00), venc)
	if err := CriarParcela(db, &p4); err != nil {
		t.Fatalf("outro aluno: %v", err)
	}
}

func TestRegistrarPagamentoMaterial(t *testing.T) {
	db := abrirBanco(t)
	aluno := uuid.New()
	escola := uuid.New()

	p := novaParcelaMaterial(aluno, escola, decimal.NewFromFloat(120.00), time.Date(2027, time.March, 10, 0, 0, 0, 0, time.UTC))
	if err := CriarParcela(db, &p); err != nil {
		t.Fatalf("criar: %v", err)
	}

	valorPago := decimal.NewFromFloat(120.00)
	dataPagamento := time.Date(2027, time.March, 8, 0, 0, 0, 0, time.UTC)
	ok, err := RegistrarPagamento(db, p.MaterialID, escola, valorPago, dataPagamento)
	if err != nil || !ok {
		t.Fatalf("registrar: ok=%v err=%v", ok, err)
	}

	var gravada model.MaterialModel
	if err := db.Where("material_id = ?", p.MaterialID).First(&gravada).Error; err != nil {
		t.Fatalf("reler: %v", err)
	}
	if gravada.MaterialStatus != mensalidadeModel.StatusApproved {
		t.Fatalf("status = %q", gravada.MaterialStatus)
	}
	if gravada.MaterialValorPago == nil || !gravada.MaterialValorPago.Equal(valorPago) {
		t.Fatalf("valor_pago = %v", gravada.MaterialValorPago)
	}
	if gravada.MaterialDataPagamento == nil || !gravada.MaterialDataPagamento.Equal(dataPagamento) {
		t.Fatalf("data_pagamento = %v", gravada.MaterialDataPagamento)
	}

	// Escola errada não alcança a parcela.
	ok, err = RegistrarPagamento(db, p.MaterialID, uuid.New(), valorPago, dataPagamento)
	if err != nil {
		t.Fatalf("registrar outra escola: %v", err)
	}
	if ok {
		t.Fatal("pagamento registrado em parcela de outra escola")
	}
}
