package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"crescer_backend/internals/features/financeiro/encargos"
	"crescer_backend/internals/features/financeiro/mensalidades/model"
	"crescer_backend/internals/features/financeiro/planner"
)

var ErrParcelaDuplicada = errors.New("parcela duplicada para o aluno no mês")

// Competencia deriva a competência "AAAA-MM" do vencimento.
func Competencia(vencimento time.Time) string {
	return fmt.Sprintf("%04d-%02d", vencimento.Year(), int(vencimento.Month()))
}

// CriarParcela grava uma parcela com a checagem de duplicidade dentro da
// transação. Mensalidade repete quando o aluno já tem outra mensalidade
// na mesma competência; matrícula e demais lançamentos não entram na
// checagem (a competência deles fica NULL e não colide no índice único).
func CriarParcela(db *gorm.DB, parcela *model.MensalidadeModel) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if parcela.MensalidadeTipo == model.TipoMensalidade {
			comp := Competencia(parcela.MensalidadeDataVencimento)
			parcela.MensalidadeCompetencia = &comp

			var n int64
			if err := tx.Model(&model.MensalidadeModel{}).
				Where("mensalidade_aluno_id = ? AND mensalidade_competencia = ?",
					parcela.MensalidadeAlunoID, comp).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return ErrParcelaDuplicada
			}
		} else {
			parcela.MensalidadeCompetencia = nil
		}
		return tx.Create(parcela).Error
	})
}

// CriarLote lança mensalidades de valor fixo do mês do vencimento inicial
// até dezembro, mantendo o dia. Competência já ocupada é pulada sem abortar
// o lote; o retorno informa quantas entraram e quantas foram puladas.
func CriarLote(db *gorm.DB, alunoID, escolaID uuid.UUID, valor decimal.Decimal, vencimentoInicial time.Time) (criadas, puladas int, err error) {
	ano := vencimentoInicial.Year()
	dia := vencimentoInicial.Day()

	for mes := int(vencimentoInicial.Month()); mes <= 12; mes++ {
		parcela := model.MensalidadeModel{
			MensalidadeTipo:           model.TipoMensalidade,
			MensalidadeDescricao:      fmt.Sprintf("Mensalidade %d/%d", mes, ano),
			MensalidadeValor:          valor.Round(2),
			MensalidadeDataVencimento: planner.Vencimento(ano, time.Month(mes), dia),
			MensalidadeStatus:         model.StatusOpen,
			MensalidadeAlunoID:        alunoID,
			MensalidadeEscolaID:       escolaID,
		}
		switch err := CriarParcela(db, &parcela); {
		case err == nil:
			criadas++
		case errors.Is(err, ErrParcelaDuplicada):
			puladas++
		default:
			return criadas, puladas, err
		}
	}
	return criadas, puladas, nil
}

// RegistrarPagamento grava o pagamento informado pela secretaria: valor e
// data do comprovante, status direto para approved, sem checar o status
// anterior nem conciliar o valor com o devido. Devolve false quando a
// parcela não existe na escola.
func RegistrarPagamento(db *gorm.DB, parcelaID, escolaID uuid.UUID, valorPago decimal.Decimal, dataPagamento time.Time) (bool, error) {
	res := db.Model(&model.MensalidadeModel{}).
		Where("mensalidade_id = ? AND mensalidade_escola_id = ?", parcelaID, escolaID).
		Updates(map[string]any{
			"mensalidade_status":         model.StatusApproved,
			"mensalidade_valor_pago":     valorPago.Round(2),
			"mensalidade_data_pagamento": dataPagamento,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FiltrarPorMes aplica o filtro de mês da listagem. Ele é assimétrico de
// propósito: combinado com status=approved olha a data de PAGAMENTO
// (recebidos no mês); qualquer outro status olha a data de VENCIMENTO
// (carteira do mês).
func FiltrarPorMes(q *gorm.DB, status string, inicio time.Time) *gorm.DB {
	fim := inicio.AddDate(0, 1, 0)
	if status == model.StatusApproved {
		return q.Where("mensalidade_data_pagamento >= ? AND mensalidade_data_pagamento < ?", inicio, fim)
	}
	return q.Where("mensalidade_data_vencimento >= ? AND mensalidade_data_vencimento < ?", inicio, fim)
}

// / ContadoresDoMes alimenta os cartões do painel: pagas conta por data de
// pagamento, em aberto conta por vencimento.
func ContadoresDoMes(db *gorm.DB, escolaID uuid.UUID, mes time.Time) (pagas, abertas int64, err error) {
	inicio := time.Date(mes.Year(), mes.Month(), 1, 0, 0, 0, 0, time.UTC)
	fim := inicio.AddDate(0, 1, 0)

	err = db.Model(&model.MensalidadeModel{}).
		Where("mensalidade_escola_id = ? AND mensalidade_status = ?", escolaID, model.StatusApproved).
		Where("mensalidade_data_pagamento >= ? AND mensalidade_data_pagamento < ?", inicio, fim).
		Count(&pagas).Error
	if err != nil {
		return 0, 0, err
	}

	err = db.Model(&model.MensalidadeModel{}).
		Where("mensalidade_escola_id = ? AND mensalidade_status = ?", escolaID, model.StatusOpen).
		Where("mensalidade_data_vencimento >= ? AND mensalidade_data_vencimento < ?", inicio, fim).
		Count(&abertas).Error
	if err != nil {
		return 0, 0, err
	}
	return pagas, abertas, nil
}

// AplicarEncargos recalcula e persiste os encargos de uma parcela em
// aberto, sempre dentro do tenant. Para um mesmo "hoje" a operação é
// idempotente: valores iguais não geram UPDATE.
func AplicarEncargos(db *gorm.DB, parcela *model.MensalidadeModel, escolaID uuid.UUID, hoje time.Time) error {
	if encargos.Quitado(parcela.MensalidadeStatus) {
		return nil
	}

	calc := encargos.Calcular(parcela.MensalidadeValor, parcela.MensalidadeDataVencimento, hoje)
	if calc.DiasAtraso == parcela.MensalidadeDiasAtraso &&
		calc.Multa.Equal(parcela.MensalidadeMultaAplicada) &&
		calc.Juros.Equal(parcela.MensalidadeJurosAplicados) {
		return nil
	}

	err := db.Model(&model.MensalidadeModel{}).
		Where("mensalidade_id = ? AND mensalidade_escola_id = ?", parcela.MensalidadeID, escolaID).
		Updates(map[string]any{
			"mensalidade_dias_atraso":     calc.DiasAtraso,
			"mensalidade_multa_aplicada":  calc.Multa,
			"mensalidade_juros_aplicados": calc.Juros,
		}).Error
	if err != nil {
		return err
	}

	parcela.MensalidadeDiasAtraso = calc.DiasAtraso
	parcela.MensalidadeMultaAplicada = calc.Multa
	parcela.MensalidadeJurosAplicados = calc.Juros
	return nil
}
