// Package webhook dispara notificações para automações externas (envio de
// e-mail de matrícula, confirmação de formulário, envio de contrato).
// Entrega é melhor-esforço: falha vira log, nunca erro para o chamador.
package webhook

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

var client = &http.Client{Timeout: 30 * time.Second}

// Send faz o POST do payload em JSON para url. Respeita o contexto do
// chamador além do timeout próprio de 30s.
func Send(ctx context.Context, url string, payload any) {
	if url == "" {
		return
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ [webhook] payload inválido para %s: %v", url, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("⚠️ [webhook] request inválido para %s: %v", url, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("⚠️ [webhook] falha ao enviar para %s: %v", url, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("⚠️ [webhook] %s respondeu %d", url, resp.StatusCode)
		return
	}
	log.Printf("📨 [webhook] enviado para %s", url)
}

// SendAsync dispara em goroutine própria, desacoplada do ciclo da request.
func SendAsync(url string, payload any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		Send(ctx, url, payload)
	}()
}
