// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/pkg/money"
)

// Service renders printable cart quotes
type Service struct {
	company CompanyInfo
	now     func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg config.PDFConfig) *Service {
	return &Service{
		company: CompanyInfo{
			Name:    cfg.CompanyName,
			Website: cfg.CompanyWebsite,
			Email:   cfg.CompanyEmail,
		},
		now: time.Now,
	}
}

// QuoteData represents the data passed to the quote template
type QuoteData struct {
	QuoteNumber string          `json:"quote_number"`
	QuoteDate   string          `json:"quote_date"`
	ValidUntil  string          `json:"valid_until"`
	Items       []cart.LineItem `json:"items"`
	Quote       cart.Quote      `json:"quote"`
	Company     CompanyInfo     `json:"company"`
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string `json:"name"`
	Website string `json:"website"`
	Email   string `json:"email"`
}

// NewQuoteData stamps the items and totals with a quote number and dates
func (s *Service) NewQuoteData(items []cart.LineItem, quote cart.Quote) QuoteData {
	now := s.now()
	return QuoteData{
		QuoteNumber: "Q-" + now.UTC().Format("20060102-150405"),
		QuoteDate:   now.Format("January 2, 2006"),
		ValidUntil:  now.AddDate(0, 0, 7).Format("January 2, 2006"),
		Items:       items,
		Quote:       quote,
		Company:     s.company,
	}
}

// GenerateQuote renders the cart quote as a PDF
func (s *Service) GenerateQuote(data QuoteData) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

var quoteTmpl = template.Must(template.New("quote").Funcs(template.FuncMap{
	"price":  money.FormatFloat,
	"amount": money.Format,
}).Parse(quoteTemplate))

func (s *Service) generateHTML(data QuoteData) (string, error) {
	var buf bytes.Buffer
	if err := quoteTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const quoteTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Quote {{.QuoteNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .quote-title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 12px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; font-weight: bold; }
        .items-table .num { text-align: right; width: 90px; }
        .totals { float: right; width: 300px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; text-align: right; }
        .total-row { font-size: 18px; font-weight: bold; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div class="quote-title">QUOTE</div>
        <p><strong>{{.Company.Name}}</strong> &middot; {{.Company.Website}}</p>
        <p>Quote #: {{.QuoteNumber}}<br>Date: {{.QuoteDate}}<br>Valid until: {{.ValidUntil}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th>SKU</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>
                    <strong>{{.Name}}</strong><br>
                    <small>{{.Brand}} &middot; {{.SelectedSize}} / {{.SelectedColor}}</small>
                </td>
                <td>{{.SKU}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{price .Price}}</td>
                <td class="num">{{price .TotalPrice}}</td>
            </tr>
            {{else}}
            <tr><td colspan="5">Your cart is empty</td></tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr><td>Subtotal:</td><td>{{amount .Quote.Summary.Subtotal}}</td></tr>
            {{if .Quote.PromoCode}}
            <tr><td>Discount ({{.Quote.PromoCode}}):</td><td>-{{amount .Quote.Discount}}</td></tr>
            {{end}}
            <tr><td>Shipping:</td><td>{{if .Quote.Summary.Shipping.IsZero}}FREE{{else}}{{amount .Quote.Summary.Shipping}}{{end}}</td></tr>
            <tr><td>Tax:</td><td>{{amount .Quote.Summary.Tax}}</td></tr>
            <tr class="total-row"><td>Total:</td><td>{{amount .Quote.Total}}</td></tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Prices and availability are confirmed at checkout.</p>
        <p>Questions? Contact us at {{.Company.Email}}</p>
    </div>
</body>
</html>
`
