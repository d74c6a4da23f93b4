// Package pdf converte relatórios HTML em PDF usando o binário wkhtmltopdf
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/vfg2006/sales-analytics-api/internal/config"
)

type Renderer struct{}

func NewRenderer(cfg config.Export) *Renderer {
	if cfg.WkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(cfg.WkhtmltopdfPath)
	}
	return &Renderer{}
}

// Render gera um PDF A4 em paisagem a partir do HTML recebido
func (r *Renderer) Render(ctx context.Context, html []byte) ([]byte, error) {
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("erro ao criar gerador de PDF: %w", err)
	}

	pdfg.Dpi.Set(150)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationLandscape)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html))
	page.FooterRight.Set("[page]/[topage]")
	page.FooterFontSize.Set(8)
	pdfg.AddPage(page)

	if err := pdfg.CreateContext(ctx); err != nil {
		return nil, fmt.Errorf("erro ao gerar PDF: %w", err)
	}

	return pdfg.Bytes(), nil
}
