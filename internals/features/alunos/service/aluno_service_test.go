package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	alunoModel "crescer_backend/internals/features/alunos/model"
	contratoModel "crescer_backend/internals/features/contratos/model"
	materialModel "crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
	usuarioModel "crescer_backend/internals/features/usuarios/model"
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
	if err := db.AutoMigrate(
		&alunoModel.ResponsavelModel{},
		&alunoModel.AlunoModel{},
		&usuarioModel.UsuarioModel{},
		&mensalidadeModel.MensalidadeModel{},
		&materialModel.MaterialModel{},
		&contratoModel.ContratoModel{},
	); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	return db
}

func nascimento() time.Time {
	return time.Date(2015, time.March, 7, 0, 0, 0, 0, time.UTC)
}

func TestGerarRaSefFormato(t *testing.T) {
	db := abrirBanco(t)

	ra, err := GerarRaSef(db, 2026)
	if err != nil {
		t.Fatalf("GerarRaSef: %v", err)
	}
	if ra != "00012026" {
		t.Fatalf("primeiro ra_sef = %q, esperado 00012026", ra)
	}
	if len(ra) != 8 {
		t.Fatalf("ra_sef com %d dígitos", len(ra))
	}
}

func TestGerarRaSefAvancaQuandoOcupado(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	// Dois alunos no banco → a sonda começa em 0003, mas esse código já
	// existe (importação antiga). Tem que avançar para 0004.
	if _, err := CriarAlunoTx(db, NovoAluno{Nome: "Primeiro Aluno", DataNascimento: nascimento(), AnoInicio: 2026}, escola); err != nil {
		t.Fatalf("criar primeiro: %v", err)
	}
	if err := db.Create(&alunoModel.AlunoModel{
		AlunoRaSef:          "00032026",
		AlunoNome:           "Ocupante",
		AlunoDataNascimento: nascimento(),
		AlunoAnoInicio:      2026,
		AlunoEscolaID:       escola,
	}).Error; err != nil {
		t.Fatalf("criar ocupante: %v", err)
	}

	ra, err := GerarRaSef(db, 2026)
	if err != nil {
		t.Fatalf("GerarRaSef: %v", err)
	}
	if ra != "00042026" {
		t.Fatalf("ra_sef = %q, esperado 00042026", ra)
	}
}

func TestCriarAlunoTxCredencial(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	aluno, err := CriarAlunoTx(db, NovoAluno{
		Nome:           "Maria Souza",
		DataNascimento: nascimento(),
		AnoInicio:      2026,
	}, escola)
	if err != nil {
		t.Fatalf("CriarAlunoTx: %v", err)
	}

	var usuario usuarioModel.UsuarioModel
	if err := db.Where("usuario_username = ?", aluno.AlunoRaSef).First(&usuario).Error; err != nil {
		t.Fatalf("credencial não criada: %v", err)
	}
	if usuario.UsuarioRole != "aluno_pendente" {
		t.Fatalf("role = %q, esperado aluno_pendente", usuario.UsuarioRole)
	}
	// Senha inicial = nascimento ddmmaaaa.
	if err := bcrypt.CompareHashAndPassword([]byte(usuario.UsuarioSenhaHash), []byte("07032015")); err != nil {
		t.Fatalf("senha inicial não bate com a data de nascimento: %v", err)
	}
	if usuario.UsuarioAlunoID == nil || *usuario.UsuarioAlunoID != aluno.AlunoID {
		t.Fatal("credencial não aponta para o aluno")
	}
}

func TestCriarAlunoTxRaSefExplicitoDuplicado(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	if _, err := CriarAlunoTx(db, NovoAluno{Nome: "Aluno Um", DataNascimento: nascimento(), AnoInicio: 2026, RaSef: "12342026"}, escola); err != nil {
		t.Fatalf("primeiro: %v", err)
	}
	_, err := CriarAlunoTx(db, NovoAluno{Nome: "Aluno Dois", DataNascimento: nascimento(), AnoInicio: 2026, RaSef: "12342026"}, escola)
	if err != ErrRaSefExiste {
		t.Fatalf("err = %v, esperado ErrRaSefExiste", err)
	}
}

func TestFindOrCreateResponsavel(t *testing.T) {
	db := abrirBanco(t)
	escolaA := uuid.New()
	escolaB := uuid.New()

	primeiro, err := FindOrCreateResponsavel(db, alunoModel.ResponsavelModel{
		ResponsavelNome: "José Lima",
		ResponsavelCpf:  "123.456.789-00",
	}, escolaA)
	if err != nil {
		t.Fatalf("criar: %v", err)
	}

	// Mesmo CPF, mesma escola: reaproveita.
	segundo, err := FindOrCreateResponsavel(db, alunoModel.ResponsavelModel{
		ResponsavelNome: "Jose L.",
		ResponsavelCpf:  "123.456.789-00",
	}, escolaA)
	if err != nil {
		t.Fatalf("reaproveitar: %v", err)
	}
	if segundo.ResponsavelID != primeiro.ResponsavelID {
		t.Fatal("criou um segundo cadastro para o mesmo CPF")
	}

	// Mesmo CPF em outra escola: recusa com o sinal próprio.
	if _, err := FindOrCreateResponsavel(db, alunoModel.ResponsavelModel{
		ResponsavelNome: "José Lima",
		ResponsavelCpf:  "123.456.789-00",
	}, escolaB); err != ErrCpfOutraEscola {
		t.Fatalf("err = %v, esperado ErrCpfOutraEscola", err)
	}
}

func TestExcluirAlunoCascata(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	aluno, err := CriarAluno(db, NovoAluno{Nome: "Pedro Dias", DataNascimento: nascimento(), AnoInicio: 2026}, escola)
	if err != nil {
		t.Fatalf("criar: %v", err)
	}
	db.Create(&mensalidadeModel.MensalidadeModel{
		MensalidadeTipo:           mensalidadeModel.TipoMatricula,
		MensalidadeDescricao:      "Matrícula",
		MensalidadeDataVencimento: time.Now(),
		MensalidadeStatus:         mensalidadeModel.StatusOpen,
		MensalidadeAlunoID:        aluno.AlunoID,
		MensalidadeEscolaID:       escola,
	})

	// Outra escola não alcança o aluno.
	if ok, err := ExcluirAluno(db, aluno.AlunoID, uuid.New()); err != nil || ok {
		t.Fatalf("exclusão cross-tenant: ok=%v err=%v", ok, err)
	}

	ok, err := ExcluirAluno(db, aluno.AlunoID, escola)
	if err != nil || !ok {
		t.Fatalf("excluir: ok=%v err=%v", ok, err)
	}

	var n int64
	db.Model(&mensalidadeModel.MensalidadeModel{}).Where("mensalidade_aluno_id = ?", aluno.AlunoID).Count(&n)
	if n != 0 {
		t.Fatalf("%d mensalidades sobraram", n)
	}
	db.Model(&usuarioModel.UsuarioModel{}).Where("usuario_aluno_id = ?", aluno.AlunoID).Count(&n)
	if n != 0 {
		t.Fatalf("%d credenciais sobraram", n)
	}
}

func TestImportarAlunos(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	linhas := [][]string{
		{"Ana Clara Ramos", "12/08/2016", "", "Carlos Ramos", "111.222.333-44", "01001-000", "Praça da Sé", "100", "Sé", "São Paulo", "sp", "(11) 99999-0000", "Beatriz Ramos", "03/02/1985", "(11) 98888-0000"},
		{"Bruno Ramos", "25/01/2018", "", "Carlos Ramos", "111.222.333-44", "01001-000", "Praça da Sé", "100", "Sé", "São Paulo", "sp", "(11) 99999-0000"},
	}

	resultado, err := ImportarAlunos(db, linhas, 2026, escola)
	if err != nil {
		t.Fatalf("importar: %v", err)
	}
	if resultado.Importados != 2 {
		t.Fatalf("importados = %d", resultado.Importados)
	}

	// Irmãos compartilham o responsável (mesmo CPF).
	var responsaveis int64
	db.Model(&alunoModel.ResponsavelModel{}).Count(&responsaveis)
	if responsaveis != 1 {
		t.Fatalf("responsáveis = %d, esperado 1", responsaveis)
	}
}

func TestImportarAlunosNascimentoRespPedagogicoVemDaColuna13(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	// As planilhas legadas trazem a data na coluna 13 (a do telefone) e o
	// telefone na 14; o importador lê a 13 e só usa a 14 como gatilho.
	// A linha da Beatriz é o formato legado; a da Denise preenche as
	// colunas na posição "certa" e por isso fica sem data.
	linhas := [][]string{
		{"Ana Clara Ramos", "12/08/2016", "", "Carlos Ramos", "111.222.333-44", "01001-000", "Praça da Sé", "100", "Sé", "São Paulo", "SP", "(11) 99999-0000", "Beatriz Ramos", "03/02/1985", "(11) 98888-0000"},
		{"Caio Moura", "25/01/2018", "", "Rita Moura", "222.333.444-55", "01001-000", "Praça da Sé", "100", "Sé", "São Paulo", "SP", "(11) 97777-0000", "Denise Moura", "(11) 96666-0000", "10/05/1980"},
		{"Eva Pinto", "01/06/2017", "", "Saulo Pinto", "333.444.555-66", "01001-000", "Praça da Sé", "100", "Sé", "São Paulo", "SP", "(11) 95555-0000", "Fábio Pinto", "(11) 94444-0000", ""},
	}

	if _, err := ImportarAlunos(db, linhas, 2026, escola); err != nil {
		t.Fatalf("importar: %v", err)
	}

	var ana alunoModel.AlunoModel
	if err := db.Where("aluno_nome = ?", "Ana Clara Ramos").First(&ana).Error; err != nil {
		t.Fatalf("buscar ana: %v", err)
	}
	if ana.AlunoRespPedagogicoNascimento == nil {
		t.Fatal("nascimento do resp. pedagógico da planilha legada não importado")
	}
	if got := ana.AlunoRespPedagogicoNascimento.Format("02/01/2006"); got != "03/02/1985" {
		t.Fatalf("nascimento do resp. pedagógico = %s", got)
	}
	if ana.AlunoRespPedagogicoTelefone != "03/02/1985" {
		t.Fatalf("telefone do resp. pedagógico = %q, esperada a própria coluna 13", ana.AlunoRespPedagogicoTelefone)
	}

	// Telefone na 13 não é data: nada parseia, nascimento fica vazio.
	var caio alunoModel.AlunoModel
	if err := db.Where("aluno_nome = ?", "Caio Moura").First(&caio).Error; err != nil {
		t.Fatalf("buscar caio: %v", err)
	}
	if caio.AlunoRespPedagogicoNascimento != nil {
		t.Fatalf("nascimento do resp. pedagógico = %v, esperado vazio", caio.AlunoRespPedagogicoNascimento)
	}
	if caio.AlunoRespPedagogicoTelefone != "(11) 96666-0000" {
		t.Fatalf("telefone do resp. pedagógico = %q", caio.AlunoRespPedagogicoTelefone)
	}

	// Coluna 14 vazia desliga a leitura, mesmo com a 13 preenchida.
	var eva alunoModel.AlunoModel
	if err := db.Where("aluno_nome = ?", "Eva Pinto").First(&eva).Error; err != nil {
		t.Fatalf("buscar eva: %v", err)
	}
	if eva.AlunoRespPedagogicoNascimento != nil {
		t.Fatalf("nascimento do resp. pedagógico = %v, esperado vazio", eva.AlunoRespPedagogicoNascimento)
	}
}

func TestImportarAlunosComCondicoesFinanceiras(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	// Colunas 15–19: matrícula, anuidade (vírgula decimal), dia de
	// vencimento, material e parcelas do material.
	linhas := [][]string{
		{"Gabriela Nunes", "12/08/2016", "", "Helena Nunes", "444.555.666-77", "01001-000", "Praça da Sé", "100", "Sé", "São Paulo", "SP", "(11) 93333-0000", "", "", "", "500,00", "1700,00", "5", "300", "3"},
	}

	resultado, err := ImportarAlunos(db, linhas, 2030, escola)
	if err != nil {
		t.Fatalf("importar: %v", err)
	}
	// Matrícula + 12 mensalidades de (1700-500)/12.
	if resultado.MensalidadesGeradas != 13 {
		t.Fatalf("mensalidades geradas = %d", resultado.MensalidadesGeradas)
	}
	if resultado.MateriaisGerados != 3 {
		t.Fatalf("materiais gerados = %d", resultado.MateriaisGerados)
	}

	var aluno alunoModel.AlunoModel
	if err := db.Where("aluno_nome = ?", "Gabriela Nunes").First(&aluno).Error; err != nil {
		t.Fatalf("buscar: %v", err)
	}

	var mensal mensalidadeModel.MensalidadeModel
	if err := db.Where("mensalidade_aluno_id = ? AND mensalidade_tipo = ?", aluno.AlunoID, mensalidadeModel.TipoMensalidade).
		Order("mensalidade_data_vencimento").First(&mensal).Error; err != nil {
		t.Fatalf("buscar mensalidade: %v", err)
	}
	if !mensal.MensalidadeValor.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("valor da mensalidade = %s", mensal.MensalidadeValor)
	}
	if mensal.MensalidadeDataVencimento.Day() != 5 {
		t.Fatalf("dia de vencimento = %d, esperado 5", mensal.MensalidadeDataVencimento.Day())
	}

	var materiais int64
	db.Model(&materialModel.MaterialModel{}).Where("material_aluno_id = ?", aluno.AlunoID).Count(&materiais)
	if materiais != 3 {
		t.Fatalf("materiais no banco = %d", materiais)
	}
}

func TestCriarAlunoComPlano(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()
	hoje := time.Date(2029, time.October, 20, 0, 0, 0, 0, time.UTC)

	termos := TermosFinanceiros{
		Anuidade:       decimal.NewFromInt(1700),
		ValorMatricula: decimal.NewFromInt(500),
		DiaVencimento:  15,
		ValorMaterial:  decimal.NewFromInt(300),
		MesesMaterial:  []int{1, 2, 3},
	}

	aluno, err := CriarAlunoComPlano(db, NovoAluno{Nome: "Igor Prado", DataNascimento: nascimento(), AnoInicio: 2030}, termos, escola, hoje)
	if err != nil {
		t.Fatalf("criar com plano: %v", err)
	}

	var mensalidades, materiais int64
	db.Model(&mensalidadeModel.MensalidadeModel{}).Where("mensalidade_aluno_id = ?", aluno.AlunoID).Count(&mensalidades)
	db.Model(&materialModel.MaterialModel{}).Where("material_aluno_id = ?", aluno.AlunoID).Count(&materiais)
	if mensalidades != 13 {
		t.Fatalf("mensalidades = %d, esperadas 13", mensalidades)
	}
	if materiais != 3 {
		t.Fatalf("materiais = %d, esperados 3", materiais)
	}

	// Bolsista não gera carnê nenhum.
	bolsista, err := CriarAlunoComPlano(db, NovoAluno{Nome: "Júlia Prado", DataNascimento: nascimento(), AnoInicio: 2030, Bolsista: true}, termos, escola, hoje)
	if err != nil {
		t.Fatalf("criar bolsista: %v", err)
	}
	db.Model(&mensalidadeModel.MensalidadeModel{}).Where("mensalidade_aluno_id = ?", bolsista.AlunoID).Count(&mensalidades)
	db.Model(&materialModel.MaterialModel{}).Where("material_aluno_id = ?", bolsista.AlunoID).Count(&materiais)
	if mensalidades != 0 || materiais != 0 {
		t.Fatalf("bolsista com %d mensalidades e %d materiais", mensalidades, materiais)
	}
}

func TestImportarAlunosTudoOuNada(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	linhas := [][]string{
		{"Aluno Válido", "12/08/2016", "", "Resp Um", "999.888.777-66", "01001-000", "Rua A", "1", "Centro", "Cidade", "SP", "(11) 90000-0000"},
		{"Aluno Quebrado", "data-ruim", "", "Resp Dois", "555.444.333-22", "01001-000", "Rua B", "2", "Centro", "Cidade", "SP", "(11) 90000-0001"},
	}

	if _, err := ImportarAlunos(db, linhas, 2026, escola); err == nil {
		t.Fatal("esperava erro na linha quebrada")
	}

	var n int64
	db.Model(&alunoModel.AlunoModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("%d alunos gravados apesar do rollback", n)
	}
}
