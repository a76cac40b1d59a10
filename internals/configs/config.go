package configs

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	JWTSecret        string
	JWTRefreshSecret string

	// Webhooks do n8n (mensageria). Best-effort: falha nunca derruba a operação.
	WebhookEnvioMatricula  string
	WebhookConfirmacaoForm string
	WebhookEnvioContrato   string

	ViaCepBaseURL string

	// URL base pública onde o formulário do responsável está hospedado.
	FormularioBaseURL string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env não encontrado, usando ENV do sistema")
		} else {
			log.Println("✅ .env carregado!")
		}
	} else {
		log.Println("🚀 Rodando no Railway, usando ENV do sistema")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")

	WebhookEnvioMatricula = GetEnv("WEBHOOK_ENVIO_MATRICULA")
	WebhookConfirmacaoForm = GetEnv("WEBHOOK_CONFIRMACAO_RESPOSTA")
	WebhookEnvioContrato = GetEnv("WEBHOOK_ENVIAR_CONTRATO")

	ViaCepBaseURL = GetEnv("VIACEP_BASE_URL", "https://viacep.com.br/ws")
	FormularioBaseURL = GetEnv("FORMULARIO_BASE_URL", "http://localhost:3000/public")

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET não está setado!")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}
