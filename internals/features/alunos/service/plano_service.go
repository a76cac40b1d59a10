package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	alunoModel "crescer_backend/internals/features/alunos/model"
	materialModel "crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
	"crescer_backend/internals/features/financeiro/planner"
)

// TermosFinanceiros são as condições definidas pela escola na admissão:
// o que o planner precisa para montar o carnê do primeiro ano.
type TermosFinanceiros struct {
	Anuidade       decimal.Decimal
	ValorMatricula decimal.Decimal
	DiaVencimento  int // 0 = dia padrão
	ValorMaterial  decimal.Decimal
	MesesMaterial  []int
}

func (t TermosFinanceiros) dia() int {
	if t.DiaVencimento >= 1 {
		return t.DiaVencimento
	}
	return planner.DiaVencimentoPadrao
}

// SemearParcelas grava no livro-razão o plano anual e o do material para o
// aluno recém-criado, dentro da transação do chamador. Termos vazios não
// geram nada; o retorno conta o que entrou de cada lado.
func SemearParcelas(tx *gorm.DB, aluno *alunoModel.AlunoModel, termos TermosFinanceiros, anoLetivo int, hoje time.Time) (mensalidades, materiais int, err error) {
	plano := planner.PlanoAnuidade(termos.Anuidade, termos.ValorMatricula, anoLetivo, termos.dia(), hoje)
	for _, p := range plano {
		parcela := mensalidadeModel.MensalidadeModel{
			MensalidadeTipo:           p.Tipo,
			MensalidadeDescricao:      p.Descricao,
			MensalidadeCompetencia:    p.Competencia,
			MensalidadeValor:          p.Valor,
			MensalidadeDataVencimento: p.Vencimento,
			MensalidadeStatus:         mensalidadeModel.StatusOpen,
			MensalidadeAlunoID:        aluno.AlunoID,
			MensalidadeEscolaID:       aluno.AlunoEscolaID,
		}
		if err := tx.Create(&parcela).Error; err != nil {
			return mensalidades, materiais, err
		}
		mensalidades++
	}

	material := planner.PlanoMaterial(termos.ValorMaterial, termos.MesesMaterial, anoLetivo, termos.dia())
	for _, p := range material {
		parcela := materialModel.MaterialModel{
			MaterialDescricao:      p.Descricao,
			MaterialValor:          p.Valor,
			MaterialDataVencimento: p.Vencimento,
			MaterialStatus:         mensalidadeModel.StatusOpen,
			MaterialAlunoID:        aluno.AlunoID,
			MaterialEscolaID:       aluno.AlunoEscolaID,
		}
		if err := tx.Create(&parcela).Error; err != nil {
			return mensalidades, materiais, err
		}
		materiais++
	}
	return mensalidades, materiais, nil
}

// CriarAlunoComPlano cria aluno + credencial + carnê do primeiro ano em UMA
// transação: falha em qualquer parcela desfaz o aluno junto. Bolsista não
// gera cobrança.
func CriarAlunoComPlano(db *gorm.DB, in NovoAluno, termos TermosFinanceiros, escolaID uuid.UUID, hoje time.Time) (*alunoModel.AlunoModel, error) {
	var criado *alunoModel.AlunoModel
	err := db.Transaction(func(tx *gorm.DB) error {
		a, err := CriarAlunoTx(tx, in, escolaID)
		if err != nil {
			return err
		}
		if !in.Bolsista {
			if _, _, err := SemearParcelas(tx, a, termos, in.AnoInicio, hoje); err != nil {
				return err
			}
		}
		criado = a
		return nil
	})
	return criado, err
}
