package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"crescer_backend/internals/features/financeiro/encargos"
	"crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
)

var ErrParcelaDuplicada = errors.New("parcela de material duplicada para o aluno")

// CriarParcela grava a parcela de material com a checagem de duplicidade
// na trinca (aluno, vencimento, valor) dentro da transação.
func CriarParcela(db *gorm.DB, parcela *model.MaterialModel) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.MaterialModel{}).
			Where("material_aluno_id = ? AND material_data_vencimento = ? AND material_valor = ?",
				parcela.MaterialAlunoID, parcela.MaterialDataVencimento, parcela.MaterialValor).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrParcelaDuplicada
		}
		return tx.Create(parcela).Error
	})
}

// RegistrarPagamento grava o pagamento informado pela secretaria: valor e
// data do comprovante, status direto para approved. Devolve false quando a
// parcela não existe na escola.
func RegistrarPagamento(db *gorm.DB, parcelaID, escolaID uuid.UUID, valorPago decimal.Decimal, dataPagamento time.Time) (bool, error) {
	res := db.Model(&model.MaterialModel{}).
		Where("material_id = ? AND material_escola_id = ?", parcelaID, escolaID).
		Updates(map[string]any{
			"material_status":         mensalidadeModel.StatusApproved,
			"material_valor_pago":     valorPago.Round(2),
			"material_data_pagamento": dataPagamento,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AplicarEncargos recalcula e persiste os encargos da parcela em aberto,
// dentro do tenant. Mesma régua das mensalidades.
func AplicarEncargos(db *gorm.DB, parcela *model.MaterialModel, escolaID uuid.UUID, hoje time.Time) error {
	if encargos.Quitado(parcela.MaterialStatus) {
		return nil
	}

	calc := encargos.Calcular(parcela.MaterialValor, parcela.MaterialDataVencimento, hoje)
	if calc.DiasAtraso == parcela.MaterialDiasAtraso &&
		calc.Multa.Equal(parcela.MaterialMultaAplicada) &&
		calc.Juros.Equal(parcela.MaterialJurosAplicados) {
		return nil
	}

	err := db.Model(&model.MaterialModel{}).
		Where("material_id = ? AND material_escola_id = ?", parcela.MaterialID, escolaID).
		Updates(map[string]any{
			"material_dias_atraso":     calc.DiasAtraso,
			"material_multa_aplicada":  calc.Multa,
			"material_juros_aplicados": calc.Juros,
		}).Error
	if err != nil {
		return err
	}

	parcela.MaterialDiasAtraso = calc.DiasAtraso
	parcela.MaterialMultaAplicada = calc.Multa
	parcela.MaterialJurosAplicados = calc.Juros
	return nil
}
