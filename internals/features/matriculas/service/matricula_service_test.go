package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	alunoModel "crescer_backend/internals/features/alunos/model"
	contratoModel "crescer_backend/internals/features/contratos/model"
	contratoService "crescer_backend/internals/features/contratos/service"
	materialModel "crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
	"crescer_backend/internals/features/matriculas/model"
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
		&model.MatriculaPendenteModel{},
	); err != nil {
		t.Fatalf("migrar: %v", err)
	}
	return db
}

func TestGerarToken(t *testing.T) {
	visto := map[string]bool{}
	for i := 0; i < 50; i++ {
		token, err := GerarToken()
		if err != nil {
			t.Fatalf("GerarToken: %v", err)
		}
		if len(token) != 64 {
			t.Fatalf("token com %d caracteres", len(token))
		}
		if visto[token] {
			t.Fatal("token repetido")
		}
		visto[token] = true
	}
}

func TestStatusEfetivo(t *testing.T) {
	agora := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	ontem := agora.AddDate(0, 0, -1)
	amanha := agora.AddDate(0, 0, 1)

	casos := []struct {
		status string
		prazo  time.Time
		quer   string
	}{
		{model.StatusAguardando, amanha, model.StatusAguardando},
		{model.StatusAguardando, ontem, model.StatusForaDoPrazo},
		{model.StatusPreenchido, ontem, model.StatusPreenchido}, // preenchido nunca expira
		{model.StatusForaDoPrazo, ontem, model.StatusForaDoPrazo},
	}
	for _, c := range casos {
		if got := StatusEfetivo(c.status, c.prazo, agora); got != c.quer {
			t.Errorf("StatusEfetivo(%q, prazo=%s) = %q, esperado %q", c.status, c.prazo, got, c.quer)
		}
	}
}

func matriculaPreenchida(escola uuid.UUID) *model.MatriculaPendenteModel {
	nascimento := time.Date(2016, time.May, 20, 0, 0, 0, 0, time.UTC)
	preenchido := time.Now()
	return &model.MatriculaPendenteModel{
		MatriculaToken:            "a1b2",
		MatriculaStatus:           model.StatusPreenchido,
		MatriculaPrazo:            time.Now().AddDate(0, 0, 7),
		MatriculaAnuidade:         decimal.NewFromInt(12000),
		MatriculaValorMatricula:   decimal.NewFromInt(1000),
		MatriculaValorMaterial:    decimal.NewFromInt(300),
		MatriculaMaterialMeses:    datatypes.JSON([]byte(`[2,3,4]`)),
		MatriculaAnoLetivo:        time.Now().Year() + 1,
		MatriculaEmailResponsavel: "resp@example.com",
		MatriculaAlunoNome:        "Laura Mendes",
		MatriculaAlunoNascimento:  &nascimento,
		MatriculaRespNome:         "Ricardo Mendes",
		MatriculaRespCpf:          "321.654.987-00",
		MatriculaRespTelefone:     "(11) 97777-0000",
		MatriculaPreenchidoEm:     &preenchido,
		MatriculaEscolaID:         escola,
	}
}

func TestAceitarCriaTudoEmUmaTransacao(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	matricula := matriculaPreenchida(escola)
	if err := db.Create(matricula).Error; err != nil {
		t.Fatalf("criar pendente: %v", err)
	}

	resultado, err := Aceitar(db, contratoService.NewHTMLRenderer(), matricula, time.Now(), filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("Aceitar: %v", err)
	}

	// Aluno com ra_sef e credencial.
	if len(resultado.Aluno.AlunoRaSef) != 8 {
		t.Fatalf("ra_sef = %q", resultado.Aluno.AlunoRaSef)
	}
	var credenciais int64
	db.Model(&usuarioModel.UsuarioModel{}).Where("usuario_username = ?", resultado.Aluno.AlunoRaSef).Count(&credenciais)
	if credenciais != 1 {
		t.Fatalf("credenciais = %d", credenciais)
	}

	// Ano letivo futuro: matrícula + 12 mensalidades.
	var parcelas int64
	db.Model(&mensalidadeModel.MensalidadeModel{}).Where("mensalidade_aluno_id = ?", resultado.Aluno.AlunoID).Count(&parcelas)
	if parcelas != 13 {
		t.Fatalf("parcelas = %d, esperado 13", parcelas)
	}

	// Material em 3 meses.
	var materiais int64
	db.Model(&materialModel.MaterialModel{}).Where("material_aluno_id = ?", resultado.Aluno.AlunoID).Count(&materiais)
	if materiais != 3 {
		t.Fatalf("materiais = %d, esperado 3", materiais)
	}

	// Contrato com fotografia e linha pendente removida.
	if resultado.Contrato == nil || len(resultado.Contrato.ContratoCampos) == 0 {
		t.Fatal("contrato sem fotografia")
	}
	var pendentes int64
	db.Model(&model.MatriculaPendenteModel{}).Count(&pendentes)
	if pendentes != 0 {
		t.Fatalf("pendentes = %d", pendentes)
	}
}

func TestAceitarRespeitaDiaDeVencimentoDaMatricula(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	matricula := matriculaPreenchida(escola)
	matricula.MatriculaDiaVencimento = 5
	if err := db.Create(matricula).Error; err != nil {
		t.Fatalf("criar pendente: %v", err)
	}

	resultado, err := Aceitar(db, contratoService.NewHTMLRenderer(), matricula, time.Now(), "")
	if err != nil {
		t.Fatalf("Aceitar: %v", err)
	}

	// Todas as mensalidades do carnê vencem no dia escolhido pela escola.
	var parcelas []mensalidadeModel.MensalidadeModel
	if err := db.Where("mensalidade_aluno_id = ? AND mensalidade_tipo = ?",
		resultado.Aluno.AlunoID, mensalidadeModel.TipoMensalidade).Find(&parcelas).Error; err != nil {
		t.Fatalf("buscar parcelas: %v", err)
	}
	if len(parcelas) != 12 {
		t.Fatalf("parcelas = %d", len(parcelas))
	}
	for _, p := range parcelas {
		if p.MensalidadeDataVencimento.Day() != 5 {
			t.Fatalf("vencimento em %s, esperado dia 5", p.MensalidadeDataVencimento.Format("2006-01-02"))
		}
	}

	var materiais []materialModel.MaterialModel
	if err := db.Where("material_aluno_id = ?", resultado.Aluno.AlunoID).Find(&materiais).Error; err != nil {
		t.Fatalf("buscar materiais: %v", err)
	}
	for _, m := range materiais {
		if m.MaterialDataVencimento.Day() != 5 {
			t.Fatalf("material vencendo em %s, esperado dia 5", m.MaterialDataVencimento.Format("2006-01-02"))
		}
	}
}

func TestAceitarBolsistaNaoGeraCobranca(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	matricula := matriculaPreenchida(escola)
	matricula.MatriculaBolsista = true
	if err := db.Create(matricula).Error; err != nil {
		t.Fatalf("criar pendente: %v", err)
	}

	resultado, err := Aceitar(db, contratoService.NewHTMLRenderer(), matricula, time.Now(), "")
	if err != nil {
		t.Fatalf("Aceitar: %v", err)
	}

	var parcelas, materiais int64
	db.Model(&mensalidadeModel.MensalidadeModel{}).Where("mensalidade_aluno_id = ?", resultado.Aluno.AlunoID).Count(&parcelas)
	db.Model(&materialModel.MaterialModel{}).Where("material_aluno_id = ?", resultado.Aluno.AlunoID).Count(&materiais)
	if parcelas != 0 || materiais != 0 {
		t.Fatalf("bolsista com cobrança: %d mensalidades, %d materiais", parcelas, materiais)
	}
}

func TestAceitarExigeFormularioPreenchido(t *testing.T) {
	db := abrirBanco(t)
	escola := uuid.New()

	matricula := matriculaPreenchida(escola)
	matricula.MatriculaStatus = model.StatusAguardando
	if err := db.Create(matricula).Error; err != nil {
		t.Fatalf("criar pendente: %v", err)
	}

	if _, err := Aceitar(db, contratoService.NewHTMLRenderer(), matricula, time.Now(), ""); !errors.Is(err, ErrFormularioIncompleto) {
		t.Fatalf("err = %v, esperado ErrFormularioIncompleto", err)
	}

	// Nada foi criado.
	var alunos int64
	db.Model(&alunoModel.AlunoModel{}).Count(&alunos)
	if alunos != 0 {
		t.Fatalf("alunos = %d", alunos)
	}
}

func TestAceitarCpfDeOutraEscolaDesfazTudo(t *testing.T) {
	db := abrirBanco(t)
	escolaA := uuid.New()
	escolaB := uuid.New()

	// CPF do responsável já pertence à escola A.
	if err := db.Create(&alunoModel.ResponsavelModel{
		ResponsavelNome:     "Ricardo Mendes",
		ResponsavelCpf:      "321.654.987-00",
		ResponsavelEscolaID: escolaA,
	}).Error; err != nil {
		t.Fatalf("semear responsável: %v", err)
	}

	matricula := matriculaPreenchida(escolaB)
	if err := db.Create(matricula).Error; err != nil {
		t.Fatalf("criar pendente: %v", err)
	}

	if _, err := Aceitar(db, contratoService.NewHTMLRenderer(), matricula, time.Now(), ""); err == nil {
		t.Fatal("esperava recusa do CPF de outra escola")
	}

	// A pendente continua lá para a escola tratar.
	var pendentes, alunos int64
	db.Model(&model.MatriculaPendenteModel{}).Count(&pendentes)
	db.Model(&alunoModel.AlunoModel{}).Count(&alunos)
	if pendentes != 1 || alunos != 0 {
		t.Fatalf("transação vazou: pendentes=%d alunos=%d", pendentes, alunos)
	}
}
