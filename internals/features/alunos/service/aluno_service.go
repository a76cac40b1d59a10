package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	alunoModel "crescer_backend/internals/features/alunos/model"
	contratoModel "crescer_backend/internals/features/contratos/model"
	materialModel "crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
	usuarioModel "crescer_backend/internals/features/usuarios/model"
	usuarioService "crescer_backend/internals/features/usuarios/service"
)

var (
	ErrRaSefExiste    = errors.New("ra_sef já cadastrado")
	ErrCpfOutraEscola = errors.New("cpf já vinculado a outra escola")
)

// GerarRaSef gera o registro acadêmico: sequência global (contagem total
// de alunos + 1) com 4 dígitos + ano de início com 4 dígitos. Se o código
// sondado já existir (corrida ou importação antiga), avança a sequência
// e tenta de novo, no máximo 5 vezes; o índice único no banco é o
// backstop final.
func GerarRaSef(tx *gorm.DB, anoInicio int) (string, error) {
	var total int64
	if err := tx.Model(&alunoModel.AlunoModel{}).Unscoped().Count(&total).Error; err != nil {
		return "", err
	}

	seq := total + 1
	for tentativa := 0; tentativa < 5; tentativa++ {
		candidato := fmt.Sprintf("%04d%04d", seq, anoInicio)

		var n int64
		if err := tx.Model(&alunoModel.AlunoModel{}).Unscoped().
			Where("aluno_ra_sef = ?", candidato).
			Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return candidato, nil
		}
		seq++
	}
	return "", fmt.Errorf("não foi possível gerar um ra_sef livre após 5 tentativas")
}

// FindOrCreateResponsavel localiza o responsável pelo CPF dentro da escola,
// criando se não existir. CPF já usado por OUTRA escola é recusado com
// ErrCpfOutraEscola: responsável não atravessa tenant.
func FindOrCreateResponsavel(tx *gorm.DB, dados alunoModel.ResponsavelModel, escolaID uuid.UUID) (*alunoModel.ResponsavelModel, error) {
	var existente alunoModel.ResponsavelModel
	err := tx.Where("responsavel_cpf = ?", dados.ResponsavelCpf).First(&existente).Error
	switch {
	case err == nil:
		if existente.ResponsavelEscolaID != escolaID {
			return nil, ErrCpfOutraEscola
		}
		return &existente, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		dados.ResponsavelEscolaID = escolaID
		if err := tx.Create(&dados).Error; err != nil {
			return nil, err
		}
		return &dados, nil
	default:
		return nil, err
	}
}

// NovoAluno concentra os dados de entrada da criação.
type NovoAluno struct {
	Nome           string
	DataNascimento time.Time
	AnoInicio      int
	Bolsista       bool
	RaSef          string // vazio = gerar
	Observacoes    string

	RespPedNome       string
	RespPedNascimento *time.Time
	RespPedTelefone   string

	TurmaID       *uuid.UUID
	ResponsavelID *uuid.UUID
}

// CriarAlunoTx cria aluno + credencial de login DENTRO da transação do
// chamador; qualquer falha desfaz os dois. Com RaSef explícito
// (importação de planilha) o código já existente devolve ErrRaSefExiste.
func CriarAlunoTx(tx *gorm.DB, in NovoAluno, escolaID uuid.UUID) (*alunoModel.AlunoModel, error) {
	raSef := in.RaSef
	if raSef == "" {
		gerado, err := GerarRaSef(tx, in.AnoInicio)
		if err != nil {
			return nil, err
		}
		raSef = gerado
	} else {
		var n int64
		if err := tx.Model(&alunoModel.AlunoModel{}).Unscoped().
			Where("aluno_ra_sef = ?", raSef).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, ErrRaSefExiste
		}
	}

	aluno := alunoModel.AlunoModel{
		AlunoRaSef:                    raSef,
		AlunoNome:                     in.Nome,
		AlunoDataNascimento:           in.DataNascimento,
		AlunoAnoInicio:                in.AnoInicio,
		AlunoBolsista:                 in.Bolsista,
		AlunoObservacoes:              in.Observacoes,
		AlunoRespPedagogicoNome:       in.RespPedNome,
		AlunoRespPedagogicoNascimento: in.RespPedNascimento,
		AlunoRespPedagogicoTelefone:   in.RespPedTelefone,
		AlunoTurmaID:                  in.TurmaID,
		AlunoResponsavelID:            in.ResponsavelID,
		AlunoEscolaID:                 escolaID,
	}
	if err := tx.Create(&aluno).Error; err != nil {
		return nil, err
	}

	if _, err := usuarioService.CriarCredencialAluno(tx, raSef, in.DataNascimento, aluno.AlunoID, escolaID); err != nil {
		return nil, err
	}
	return &aluno, nil
}

// CriarAluno é o invólucro transacional de CriarAlunoTx.
func CriarAluno(db *gorm.DB, in NovoAluno, escolaID uuid.UUID) (*alunoModel.AlunoModel, error) {
	var criado *alunoModel.AlunoModel
	err := db.Transaction(func(tx *gorm.DB) error {
		a, err := CriarAlunoTx(tx, in, escolaID)
		if err != nil {
			return err
		}
		criado = a
		return nil
	})
	return criado, err
}

// ExcluirAluno remove o aluno e tudo que pende dele (parcelas, materiais,
// contratos, credencial) em uma transação. Devolve false se o aluno não
// existe na escola — resposta idêntica para "não existe" e "é de outra
// escola".
func ExcluirAluno(db *gorm.DB, alunoID, escolaID uuid.UUID) (bool, error) {
	excluiu := false
	err := db.Transaction(func(tx *gorm.DB) error {
		var aluno alunoModel.AlunoModel
		err := tx.Where("aluno_id = ? AND aluno_escola_id = ?", alunoID, escolaID).First(&aluno).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Where("mensalidade_aluno_id = ?", alunoID).Delete(&mensalidadeModel.MensalidadeModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("material_aluno_id = ?", alunoID).Delete(&materialModel.MaterialModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("contrato_aluno_id = ?", alunoID).Delete(&contratoModel.ContratoModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("usuario_aluno_id = ?", alunoID).Delete(&usuarioModel.UsuarioModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&aluno).Error; err != nil {
			return err
		}
		excluiu = true
		return nil
	})
	return excluiu, err
}
