// Package renderer turns a validated invoice into a PDF document by printing
// an HTML layout through headless Chromium.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/globalinvoice/invoiceflow/internal/domain/model"
)

// Renderer produces PDF bytes for an invoice record.
type Renderer interface {
	Render(ctx context.Context, invoice *model.Invoice) ([]byte, error)
}

// ChromiumRenderer implements Renderer via a local Chromium binary.
type ChromiumRenderer struct {
	chromiumPath string
	timeout      time.Duration
}

// NewChromiumRenderer constructs the renderer. An empty path falls back to
// whatever chromedp discovers on PATH.
func NewChromiumRenderer(chromiumPath string, timeout time.Duration) *ChromiumRenderer {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ChromiumRenderer{chromiumPath: chromiumPath, timeout: timeout}
}

// Render builds the invoice HTML and prints it to PDF. Chromium being
// unavailable surfaces as an error so the caller can skip or report it.
func (r *ChromiumRenderer) Render(ctx context.Context, invoice *model.Invoice) ([]byte, error) {
	html, err := RenderHTML(invoice)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	if r.chromiumPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.chromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	runCtx, cancelRun := chromedp.NewContext(allocCtx)
	defer cancelRun()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, r.timeout)
	defer cancelTimeout()

	var pdf []byte
	dataURL := "data:text/html," + url.PathEscape(html)
	err = chromedp.Run(runCtx,
		chromedp.Navigate(dataURL),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, printErr := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if printErr == nil {
				pdf = buf
			}
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromium print failed: %w", err)
	}
	return pdf, nil
}

type documentData struct {
	ID       string
	Date     string
	Fields   model.InvoiceFields
	Tax      string
	HasItems bool
}

// RenderHTML produces the printable invoice document.
func RenderHTML(invoice *model.Invoice) (string, error) {
	data := documentData{
		ID:       invoice.ID,
		Date:     time.Now().UTC().Format("2006-01-02"),
		Fields:   invoice.Fields,
		HasItems: len(invoice.Fields.LineItems) > 0,
	}
	if !invoice.Fields.TaxAmount.Empty() {
		data.Tax = string(invoice.Fields.TaxAmount)
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var documentTemplate = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 22px; }
table { border-collapse: collapse; width: 100%; margin-top: 16px; }
th, td { border: 1px solid #444; padding: 6px 10px; text-align: left; }
th { background: #777; color: #fff; }
.details td:first-child { font-weight: bold; width: 30%; background: #f4efe3; }
</style>
</head>
<body>
<h1>INVOICE #{{.ID}}</h1>
<table class="details">
<tr><td>Invoice Number</td><td>{{.ID}}</td></tr>
<tr><td>Date</td><td>{{.Date}}</td></tr>
<tr><td>Customer</td><td>{{.Fields.CustomerName}}</td></tr>
<tr><td>Total Amount</td><td>{{.Fields.TotalAmount}} {{.Fields.Currency}}</td></tr>
{{if .Tax}}<tr><td>Tax Amount</td><td>{{.Tax}} {{.Fields.Currency}}</td></tr>{{end}}
<tr><td>Currency</td><td>{{.Fields.Currency}}</td></tr>
</table>
{{if .HasItems}}
<h2>Line Items</h2>
<table>
<tr><th>Description</th><th>Quantity</th><th>Unit Price</th><th>Total</th></tr>
{{range .Fields.LineItems}}
<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Total}}</td></tr>
{{end}}
</table>
{{end}}
</body>
</html>`))
