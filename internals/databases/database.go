package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	alunoModel "crescer_backend/internals/features/alunos/model"
	contratoModel "crescer_backend/internals/features/contratos/model"
	escolaModel "crescer_backend/internals/features/escolas/model"
	materialModel "crescer_backend/internals/features/financeiro/materiais/model"
	mensalidadeModel "crescer_backend/internals/features/financeiro/mensalidades/model"
	matriculaModel "crescer_backend/internals/features/matriculas/model"
	turmaModel "crescer_backend/internals/features/turmas/model"
	usuarioModel "crescer_backend/internals/features/usuarios/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Conectando ao PostgreSQL...")

	// DSN completo + statement_timeout alinhado com o timeout HTTP.
	// Com PgBouncer (transaction pooling) mantenha PreferSimpleProtocol=true.
	sslmode := getenv("DB_SSLMODE", "require")
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=crescer&options=-c statement_timeout=3000",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"),
		sslmode,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no banco: %v", err)
	}
	DB = db
	log.Println("✅ Banco conectado.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Migrate cria/ajusta o esquema. Os índices únicos aqui são o backstop
// estrutural contra corrida no check-then-insert de parcelas e ra_sef.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&escolaModel.EscolaModel{},
		&usuarioModel.UsuarioModel{},
		&turmaModel.TurmaModel{},
		&alunoModel.ResponsavelModel{},
		&alunoModel.AlunoModel{},
		&mensalidadeModel.MensalidadeModel{},
		&materialModel.MaterialModel{},
		&matriculaModel.MatriculaPendenteModel{},
		&contratoModel.ContratoModel{},
	)
}

func WarmUp() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
