package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	salesapp "github.com/storefront/backend/internal/application/sales"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/invoice.html
var templateFS embed.FS

var _ salesapp.InvoiceRenderer = (*InvoicePrinter)(nil)

// InvoicePrinter fills the invoice template and prints it to PDF
type InvoicePrinter struct {
	renderer  PDFRenderer
	tmpl      *template.Template
	paperSize PaperSize
}

// NewInvoicePrinter parses the embedded invoice template
func NewInvoicePrinter(renderer PDFRenderer, paperSize PaperSize) (*InvoicePrinter, error) {
	if !paperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(paperSize), nil)
	}
	tmpl, err := template.New("invoice.html").Funcs(templateFuncs()).ParseFS(templateFS, "templates/invoice.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse invoice template", err)
	}
	return &InvoicePrinter{renderer: renderer, tmpl: tmpl, paperSize: paperSize}, nil
}

// RenderHTML executes the invoice template
func (p *InvoicePrinter) RenderHTML(data salesapp.InvoiceData) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute invoice template", err)
	}
	return buf.String(), nil
}

// RenderInvoice renders the invoice of one order to PDF
func (p *InvoicePrinter) RenderInvoice(ctx context.Context, data salesapp.InvoiceData) ([]byte, error) {
	doc, err := p.RenderHTML(data)
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(ctx, &RenderRequest{
		HTML:       doc,
		PaperSize:  p.paperSize,
		Margins:    DefaultMargins(),
		Title:      "Invoice " + data.Order.Number,
		FooterHTML: `<div style="font-size:8px;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

var titleCaser = cases.Title(language.English)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatMoney": formatMoney,
		"formatDate":  formatDate,
		"title":       func(s string) string { return titleCaser.String(s) },
		"humanize":    func(s string) string { return strings.ReplaceAll(s, "_", " ") },
		"default": func(def, v string) string {
			if strings.TrimSpace(v) == "" {
				return def
			}
			return v
		},
	}
}

// formatMoney renders a decimal with thousand separators and two decimals
func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	parts := strings.SplitN(d.StringFixed(2), ".", 2)
	intPart := parts[0]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String() + "." + parts[1]
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}
