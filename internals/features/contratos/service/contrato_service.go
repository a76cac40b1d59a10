package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"crescer_backend/internals/features/contratos/model"
)

// Renderer transforma os campos do contrato no documento final. A
// implementação padrão gera HTML; uma implementação com conversor de PDF
// pode ser plugada sem tocar no fluxo de matrícula.
type Renderer interface {
	RenderContrato(campos map[string]string) ([]byte, error)
}

// HTMLRenderer é o renderer padrão: template HTML do contrato de
// prestação de serviços educacionais.
type HTMLRenderer struct {
	tmpl *template.Template
}

var contratoTmpl = template.Must(template.New("contrato").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="utf-8"><title>Contrato de Prestação de Serviços Educacionais</title></head>
<body>
<h1>Contrato de Prestação de Serviços Educacionais — {{.ano_letivo}}</h1>
<p><strong>Contratante:</strong> {{.responsavel_nome}}, CPF {{.responsavel_cpf}}</p>
<p><strong>Aluno(a):</strong> {{.aluno_nome}}, RA/SEF {{.aluno_ra_sef}}</p>
<p><strong>Anuidade:</strong> R$ {{.anuidade}} — <strong>Matrícula:</strong> R$ {{.valor_matricula}}</p>
<p><strong>Material didático:</strong> R$ {{.valor_material}}</p>
<p>Endereço do contratante: {{.endereco}}</p>
</body>
</html>
`))

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: contratoTmpl}
}

func (r *HTMLRenderer) RenderContrato(campos map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, campos); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GerarContrato renderiza e grava o contrato DENTRO da transação do
// aceite de matrícula. A fotografia dos campos vai em JSON na linha;
// a escrita do arquivo em disco é melhor-esforço (falha vira log, o
// contrato continua reproduzível pela fotografia).
func GerarContrato(tx *gorm.DB, r Renderer, campos map[string]string, alunoID, escolaID uuid.UUID, anoLetivo int, uploadsDir string) (*model.ContratoModel, error) {
	snapshot, err := sonic.Marshal(campos)
	if err != nil {
		return nil, err
	}

	contrato := model.ContratoModel{
		ContratoAnoLetivo: anoLetivo,
		ContratoCampos:    datatypes.JSON(snapshot),
		ContratoAlunoID:   alunoID,
		ContratoEscolaID:  escolaID,
	}

	doc, err := r.RenderContrato(campos)
	if err != nil {
		return nil, err
	}

	if uploadsDir != "" {
		nome := fmt.Sprintf("contrato_%s_%d.html", alunoID, anoLetivo)
		caminho := filepath.Join(uploadsDir, nome)
		if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
			log.Printf("⚠️ [contrato] criar dir de uploads: %v", err)
		} else if err := os.WriteFile(caminho, doc, 0o644); err != nil {
			log.Printf("⚠️ [contrato] gravar %s: %v", caminho, err)
		} else {
			contrato.ContratoCaminho = caminho
		}
	}

	if err := tx.Create(&contrato).Error; err != nil {
		return nil, err
	}
	return &contrato, nil
}
