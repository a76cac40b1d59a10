// Package viacep consulta o endereço de um CEP na API pública ViaCEP.
package viacep

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"crescer_backend/internals/configs"
)

var client = &http.Client{Timeout: 5 * time.Second}

type Endereco struct {
	Cep        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Cidade     string `json:"localidade"`
	Uf         string `json:"uf"`
}

type respostaViaCep struct {
	Endereco
	Erro bool `json:"erro"`
}

// Lookup busca o CEP (só dígitos são considerados). CEP inexistente
// devolve (nil, nil): endereço não encontrado não é erro de sistema.
func Lookup(ctx context.Context, cep string) (*Endereco, error) {
	limpo := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, cep)
	if len(limpo) != 8 {
		return nil, fmt.Errorf("cep inválido: %q", cep)
	}

	url := fmt.Sprintf("%s/%s/json/", configs.ViaCepBaseURL, limpo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("viacep respondeu %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var out respostaViaCep
	if err := sonic.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if out.Erro {
		return nil, nil
	}
	return &out.Endereco, nil
}
