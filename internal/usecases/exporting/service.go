// Package exporting gera os relatórios baixáveis do dashboard (CSV, texto para WhatsApp e PDF)
package exporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-analytics-api/internal/domain"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/analyzing"
	"github.com/vfg2006/sales-analytics-api/internal/usecases/cataloging"
	"golang.org/x/sync/errgroup"
)

type Format string

const (
	FormatCSV      Format = "csv"
	FormatWhatsApp Format = "whatsapp"
	FormatPDF      Format = "pdf"
)

var ErrUnsupportedFormat = errors.New("formato de exportação não suportado")

// PDFRenderer converte o relatório HTML em PDF
type PDFRenderer interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

type Document struct {
	FileName    string
	ContentType string
	Body        []byte
}

type Exporter interface {
	Export(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery, format Format) (*Document, error)
}

type Service struct {
	analyzer    analyzing.Analyzer
	catalog     cataloging.Cataloger
	renderer    PDFRenderer
	companyName string
	now         func() time.Time
}

func NewService(analyzer analyzing.Analyzer, catalog cataloging.Cataloger, renderer PDFRenderer, companyName string) Exporter {
	return &Service{
		analyzer:    analyzer,
		catalog:     catalog,
		renderer:    renderer,
		companyName: companyName,
		now:         time.Now,
	}
}

// ParseFormat aceita o formato vindo da query string; vazio significa CSV
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatWhatsApp, FormatPDF:
		return f, nil
	}
	return "", errors.Wrap(ErrUnsupportedFormat, s)
}

func (s *Service) Export(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery, format Format) (*Document, error) {
	var (
		doc *Document
		err error
	)

	switch format {
	case FormatCSV:
		doc, err = s.csv(ctx, session, q)
	case FormatWhatsApp:
		doc, err = s.whatsApp(ctx, session, q)
	case FormatPDF:
		doc, err = s.pdf(ctx, session, q)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, string(format))
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"format":  format,
		"user_id": session.UserID(),
		"bytes":   len(doc.Body),
	}).Info("Relatório exportado")
	return doc, nil
}

func (s *Service) fileName(ext string) string {
	return fmt.Sprintf("vendas-%s.%s", s.now().Format("2006-01-02"), ext)
}

// csv lista as vendas do período seguidas das linhas de resumo
func (s *Service) csv(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*Document, error) {
	var (
		rows          []domain.Transaction
		summary       *domain.SummaryReport
		platformNames map[string]string
		storeNames    map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, _, err = s.analyzer.Transactions(gctx, session, q)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.analyzer.Summary(gctx, session, q)
		return err
	})
	g.Go(func() error {
		var err error
		platformNames, storeNames, err = s.catalog.Names(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"data", "plataforma", "loja", "sku", "produto", "cliente", "preco_venda", "preco_custo", "lucro", "quantidade", "status"})
	for _, t := range rows {
		_ = w.Write([]string{
			t.OccurredAt.Format(time.RFC3339),
			nameOr(platformNames, t.PlatformID),
			nameOr(storeNames, t.StoreID),
			t.ProductSKU,
			t.ProductName,
			t.CustomerName,
			t.SellingPrice.StringFixed(2),
			t.CostPrice.StringFixed(2),
			t.Profit.StringFixed(2),
			strconv.Itoa(t.Quantity),
			string(t.DeliveryStatus),
		})
	}

	cur := summary.Current
	_ = w.Write(nil)
	_ = w.Write([]string{"resumo", "valor", "variacao_percentual"})
	for _, line := range []struct {
		label  string
		value  string
		metric domain.MetricName
	}{
		{"receita_total", cur.TotalRevenue.StringFixed(2), domain.MetricTotalRevenue},
		{"lucro_total", cur.TotalProfit.StringFixed(2), domain.MetricTotalProfit},
		{"vendas", strconv.Itoa(cur.TransactionCount), domain.MetricTransactionCount},
		{"vendas_concluidas", strconv.Itoa(cur.CompletedCount), domain.MetricCompletedCount},
		{"ticket_medio", cur.AvgOrderValue.StringFixed(2), domain.MetricAvgOrderValue},
		{"margem_lucro", cur.ProfitMargin.StringFixed(2), domain.MetricProfitMargin},
		{"taxa_conclusao", cur.CompletionRate.StringFixed(2), domain.MetricCompletionRate},
	} {
		_ = w.Write([]string{line.label, line.value, strconv.FormatFloat(summary.Changes[line.metric].Value, 'f', 2, 64)})
	}
	if summary.Truncated {
		_ = w.Write([]string{"aviso", truncationNotice(summary.RowsLimit), ""})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "erro ao gerar CSV")
	}

	return &Document{
		FileName:    s.fileName("csv"),
		ContentType: "text/csv; charset=utf-8",
		Body:        buf.Bytes(),
	}, nil
}

// whatsApp monta um texto curto com a formatação de negrito do WhatsApp
func (s *Service) whatsApp(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*Document, error) {
	var (
		summary   *domain.SummaryReport
		platforms *domain.PerformanceReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.analyzer.Summary(gctx, session, q)
		return err
	})
	g.Go(func() error {
		var err error
		top := q
		top.RankBy, top.Limit = "", 3
		platforms, err = s.analyzer.Platforms(gctx, session, top)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cur := summary.Current
	var b strings.Builder
	fmt.Fprintf(&b, "*Resumo de vendas - %s*\n", timeframeLabel(summary.Periods.Timeframe))
	fmt.Fprintf(&b, "%s\n\n", formatPeriod(summary.Periods.Current))
	if summary.Truncated {
		fmt.Fprintf(&b, "_%s_\n\n", truncationNotice(summary.RowsLimit))
	}
	fmt.Fprintf(&b, "Receita: %s (%s)\n", formatBRL(cur.TotalRevenue), formatChange(summary.Changes[domain.MetricTotalRevenue]))
	fmt.Fprintf(&b, "Lucro: %s (%s)\n", formatBRL(cur.TotalProfit), formatChange(summary.Changes[domain.MetricTotalProfit]))
	fmt.Fprintf(&b, "Vendas: %d (%d concluídas)\n", cur.TransactionCount, cur.CompletedCount)
	fmt.Fprintf(&b, "Ticket médio: %s\n", formatBRL(cur.AvgOrderValue))
	fmt.Fprintf(&b, "Margem: %s\n", formatPercent(cur.ProfitMargin.InexactFloat64()))

	if len(platforms.Groups) > 0 {
		b.WriteString("\n*Top plataformas*\n")
		for _, p := range platforms.Groups {
			fmt.Fprintf(&b, "%d. %s: %s (%s)\n", p.Position, groupName(p.Current), formatBRL(p.Current.TotalRevenue), formatPercent(p.Share))
		}
	}

	return &Document{
		FileName:    s.fileName("txt"),
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(b.String()),
	}, nil
}

type pdfData struct {
	Company     string
	GeneratedAt string
	Timeframe   string
	Period      string
	Notice      string
	Metrics     []pdfMetric
	Platforms   []pdfPlatform
	Insights    []domain.Insight
}

type pdfMetric struct {
	Label  string
	Value  string
	Change string
}

type pdfPlatform struct {
	Position int
	Name     string
	Revenue  string
	Profit   string
	Share    string
	Change   string
}

func (s *Service) pdf(ctx context.Context, session *domain.Session, q domain.AnalyticsQuery) (*Document, error) {
	if s.renderer == nil {
		return nil, errors.Wrap(ErrUnsupportedFormat, "gerador de PDF não configurado")
	}

	var (
		summary   *domain.SummaryReport
		platforms *domain.PerformanceReport
		insights  *domain.InsightsReport
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.analyzer.Summary(gctx, session, q)
		return err
	})
	g.Go(func() error {
		var err error
		top := q
		top.RankBy = ""
		platforms, err = s.analyzer.Platforms(gctx, session, top)
		return err
	})
	g.Go(func() error {
		var err error
		insights, err = s.analyzer.Insights(gctx, session, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	html, err := renderReportHTML(s.buildPDFData(summary, platforms, insights))
	if err != nil {
		return nil, err
	}

	body, err := s.renderer.Render(ctx, html)
	if err != nil {
		return nil, err
	}

	return &Document{
		FileName:    s.fileName("pdf"),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

func (s *Service) buildPDFData(summary *domain.SummaryReport, platforms *domain.PerformanceReport, insights *domain.InsightsReport) pdfData {
	cur := summary.Current
	data := pdfData{
		Company:     s.companyName,
		GeneratedAt: s.now().Format("02/01/2006 15:04"),
		Timeframe:   timeframeLabel(summary.Periods.Timeframe),
		Period:      formatPeriod(summary.Periods.Current),
		Metrics: []pdfMetric{
			{"Receita total", formatBRL(cur.TotalRevenue), formatChange(summary.Changes[domain.MetricTotalRevenue])},
			{"Lucro total", formatBRL(cur.TotalProfit), formatChange(summary.Changes[domain.MetricTotalProfit])},
			{"Vendas", strconv.Itoa(cur.TransactionCount), formatChange(summary.Changes[domain.MetricTransactionCount])},
			{"Ticket médio", formatBRL(cur.AvgOrderValue), formatChange(summary.Changes[domain.MetricAvgOrderValue])},
			{"Margem de lucro", formatPercent(cur.ProfitMargin.InexactFloat64()), formatChange(summary.Changes[domain.MetricProfitMargin])},
			{"Taxa de conclusão", formatPercent(cur.CompletionRate.InexactFloat64()), formatChange(summary.Changes[domain.MetricCompletionRate])},
		},
		Insights: insights.Insights,
	}
	if summary.Truncated {
		data.Notice = truncationNotice(summary.RowsLimit)
	}

	for _, p := range platforms.Groups {
		data.Platforms = append(data.Platforms, pdfPlatform{
			Position: p.Position,
			Name:     groupName(p.Current),
			Revenue:  formatBRL(p.Current.TotalRevenue),
			Profit:   formatBRL(p.Current.TotalProfit),
			Share:    formatPercent(p.Share),
			Change:   formatChange(p.Changes[domain.MetricTotalRevenue]),
		})
	}
	return data
}

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

func renderReportHTML(data pdfData) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "erro ao montar HTML do relatório")
	}
	return buf.Bytes(), nil
}

func groupName(g domain.GroupAggregate) string {
	if g.Label != "" {
		return g.Label
	}
	return g.Key
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return id
}

const reportHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Relatório de vendas</title>
<style>
body { font-family: Arial, sans-serif; color: #333; margin: 24px; }
h1 { font-size: 22px; color: #1f4e79; margin-bottom: 4px; }
h2 { font-size: 16px; margin-top: 28px; border-bottom: 1px solid #ddd; padding-bottom: 4px; }
.meta { color: #777; font-size: 12px; }
.notice { background: #fff4e5; border: 1px solid #f0a030; padding: 6px 10px; margin: 10px 0; font-size: 12px; }
table { width: 100%; border-collapse: collapse; font-size: 13px; }
th, td { padding: 6px 8px; border-bottom: 1px solid #eee; text-align: left; }
th { background: #f5f7fa; }
.insight { margin-bottom: 12px; }
.negative { color: #b42318; }
.positive { color: #067647; }
</style>
</head>
<body>
<h1>{{.Company}} - Relatório de vendas</h1>
<div class="meta">{{.Timeframe}} ({{.Period}}) - gerado em {{.GeneratedAt}}</div>
{{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}

<h2>Resumo</h2>
<table>
<tr><th>Indicador</th><th>Valor</th><th>Variação</th></tr>
{{range .Metrics}}<tr><td>{{.Label}}</td><td>{{.Value}}</td><td>{{.Change}}</td></tr>
{{end}}</table>

{{if .Platforms}}<h2>Plataformas</h2>
<table>
<tr><th>#</th><th>Plataforma</th><th>Receita</th><th>Lucro</th><th>Participação</th><th>Variação</th></tr>
{{range .Platforms}}<tr><td>{{.Position}}</td><td>{{.Name}}</td><td>{{.Revenue}}</td><td>{{.Profit}}</td><td>{{.Share}}</td><td>{{.Change}}</td></tr>
{{end}}</table>{{end}}

{{if .Insights}}<h2>Insights</h2>
{{range .Insights}}<div class="insight {{.Sentiment}}"><strong>{{.Title}}</strong><br>{{.Description}}
{{if .Recommendations}}<ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>{{end}}</div>
{{end}}{{end}}
</body>
</html>
`
