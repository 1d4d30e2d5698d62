package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/hypernova-labs/agency-functions/internal/pdf"
	"github.com/sirupsen/logrus"
)

// Geometría de la página, en puntos medidos desde el borde superior
const (
	marginX      = 40.0
	pageRight    = pdf.A4Width - marginX
	headerHeight = 90.0
	rowHeight    = 18.0
	totalsStep   = 16.0
	footerTop    = pdf.A4Height - 90
	maxNoteLines = 4
)

// Columnas de la tabla de documentos
const (
	colDocument    = marginX
	colDocumentW   = 185.0
	colLanguages   = 232.0
	colLanguagesW  = 150.0
	colWordsRight  = 430.0
	colRateRight   = 490.0
	colAmountRight = pageRight
)

var (
	defaultBrand = [3]uint8{12, 35, 64}
	textColor    = [3]uint8{33, 37, 41}
	mutedColor   = [3]uint8{108, 117, 125}
	tableFill    = [3]uint8{241, 243, 245}
	ruleColor    = [3]uint8{206, 212, 218}
)

// InvoiceDocument agrupa las filas necesarias para dibujar una factura
type InvoiceDocument struct {
	Invoice  *models.Invoice
	Customer *models.Customer
	Order    *models.OrderShipping
	Items    []models.LineItem
}

// DocumentGenerator maneja la generación del PDF de facturas
type DocumentGenerator struct {
	company config.CompanyConfig
	logger  *logrus.Logger
}

// NewDocumentGenerator crea una nueva instancia del generador
func NewDocumentGenerator(company config.CompanyConfig, logger *logrus.Logger) *DocumentGenerator {
	return &DocumentGenerator{
		company: company,
		logger:  logger,
	}
}

// GenerateInvoicePDF genera una factura A4 de una sola página
func (d *DocumentGenerator) GenerateInvoicePDF(doc *InvoiceDocument) ([]byte, error) {
	if doc == nil || doc.Invoice == nil || doc.Customer == nil {
		return nil, fmt.Errorf("invoice document is incomplete")
	}

	content := d.layout(doc)
	data, err := pdf.SinglePage(pdf.A4Width, pdf.A4Height, content, pdf.Helvetica, pdf.HelveticaBold)
	if err != nil {
		return nil, fmt.Errorf("error assembling PDF: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"invoice_id":     doc.Invoice.ID,
		"invoice_number": doc.Invoice.InvoiceNumber,
		"line_items":     len(doc.Items),
		"stream_bytes":   content.Len(),
		"pdf_bytes":      len(data),
	}).Debug("Invoice PDF rendered")

	return data, nil
}

// page envuelve el contenido para trabajar con distancias desde arriba
type page struct {
	c *pdf.Content
}

func (p page) color(rgb [3]uint8) {
	p.c.FillColor(rgb[0], rgb[1], rgb[2])
}

func (p page) text(font pdf.Font, size, x, top float64, s string) {
	p.c.Text(font, size, x, pdf.A4Height-top, s)
}

func (p page) textRight(font pdf.Font, size, right, top float64, s string) {
	p.c.TextRight(font, size, right, pdf.A4Height-top, s)
}

func (p page) textCenter(font pdf.Font, size, top float64, s string) {
	x := (pdf.A4Width - pdf.TextWidth(font, size, s)) / 2
	p.c.Text(font, size, x, pdf.A4Height-top, s)
}

func (p page) rule(top float64, width float64) {
	p.c.StrokeColor(ruleColor[0], ruleColor[1], ruleColor[2])
	p.c.Line(marginX, pdf.A4Height-top, pageRight, pdf.A4Height-top, width)
}

func (p page) band(top, height float64, rgb [3]uint8) {
	p.color(rgb)
	p.c.Rect(0, pdf.A4Height-top-height, pdf.A4Width, height)
}

// layout dibuja la factura de arriba hacia abajo
func (d *DocumentGenerator) layout(doc *InvoiceDocument) *pdf.Content {
	p := page{c: pdf.NewContent()}
	inv := doc.Invoice

	top := d.drawHeader(p)
	top = d.drawMetadata(p, doc, top+35)
	top = d.drawAddresses(p, doc, top+25)

	totals := totalLines(inv)
	notes := noteLines(inv)
	reserved := float64(len(totals))*totalsStep + 30
	if len(notes) > 0 {
		reserved += float64(len(notes))*12 + 34
	}

	top = d.drawTable(p, tableRows(doc.Items, inv.Subtotal), top+25, footerTop-reserved)
	top = d.drawTotals(p, totals, top+24)
	if len(notes) > 0 {
		d.drawNotes(p, notes, top+20)
	}
	d.drawFooter(p)

	return p.c
}

func (d *DocumentGenerator) drawHeader(p page) float64 {
	p.band(0, headerHeight, d.brandColor())

	p.color([3]uint8{255, 255, 255})
	p.text(pdf.HelveticaBold, 18, marginX, 45, d.company.Name)
	if d.company.Website != "" {
		p.text(pdf.Helvetica, 9, marginX, 64, d.company.Website)
	}
	p.textRight(pdf.HelveticaBold, 24, pageRight, 52, "INVOICE")

	return headerHeight
}

func (d *DocumentGenerator) drawMetadata(p page, doc *InvoiceDocument, top float64) float64 {
	inv := doc.Invoice

	rows := [][2]string{
		{"Invoice Number:", inv.InvoiceNumber},
		{"Invoice Date:", formatDate(inv.InvoiceDate)},
	}
	if inv.DueDate != nil {
		rows = append(rows, [2]string{"Due Date:", formatDate(*inv.DueDate)})
	}
	if doc.Order != nil && doc.Order.OrderNumber != "" {
		rows = append(rows, [2]string{"Order Number:", doc.Order.OrderNumber})
	}
	rows = append(rows, [2]string{"Status:", inv.Status})

	left := top
	for _, row := range rows {
		p.color(mutedColor)
		p.text(pdf.HelveticaBold, 10, marginX, left, row[0])
		p.color(textColor)
		p.text(pdf.Helvetica, 10, marginX+100, left, pdf.Truncate(pdf.Helvetica, 10, 150, row[1]))
		left += 15
	}

	// Datos de la agencia alineados a la derecha
	right := top
	p.color(textColor)
	p.textRight(pdf.HelveticaBold, 10, pageRight, right, d.company.Name)
	right += 13
	for _, line := range nonEmpty(d.company.AddressLine1, d.company.AddressLine2, d.company.Email, d.company.Phone) {
		p.color(mutedColor)
		p.textRight(pdf.Helvetica, 9, pageRight, right, pdf.Truncate(pdf.Helvetica, 9, 240, line))
		right += 12
	}

	return math.Max(left, right)
}

func (d *DocumentGenerator) drawAddresses(p page, doc *InvoiceDocument, top float64) float64 {
	const columnWidth = 240.0
	shipX := marginX + 270

	customer := doc.Customer
	billing := []string{customer.BillingName()}
	if customer.CompanyName != nil && *customer.CompanyName != "" && customer.FullName != "" {
		billing = append(billing, "Attn: "+customer.FullName)
	}
	billing = append(billing, customer.BillingAddress()...)
	billing = append(billing, nonEmpty(customer.Email, deref(customer.Phone))...)

	var shipping []string
	if doc.Order != nil {
		shipping = doc.Order.ShippingAddress()
		if len(shipping) == 0 {
			shipping = []string{"Same as billing address"}
		}
	}

	p.color(d.brandColor())
	p.text(pdf.HelveticaBold, 11, marginX, top, "Bill To")
	if shipping != nil {
		p.text(pdf.HelveticaBold, 11, shipX, top, "Ship To")
	}

	p.color(textColor)
	bottom := top + 4
	for i, line := range billing {
		lineTop := top + 16 + float64(i)*12
		p.text(pdf.Helvetica, 10, marginX, lineTop, pdf.Truncate(pdf.Helvetica, 10, columnWidth, line))
		bottom = math.Max(bottom, lineTop)
	}
	for i, line := range shipping {
		lineTop := top + 16 + float64(i)*12
		p.text(pdf.Helvetica, 10, shipX, lineTop, pdf.Truncate(pdf.Helvetica, 10, columnWidth, line))
		bottom = math.Max(bottom, lineTop)
	}

	return bottom
}

// tableRow es una fila ya formateada de la tabla de documentos
type tableRow struct {
	document  string
	languages string
	words     string
	rate      string
	amount    string
	subtotal  float64
}

// tableRows arma las filas; sin documentos facturables se usa una fila
// sintética con el subtotal de la factura
func tableRows(items []models.LineItem, subtotal float64) []tableRow {
	if len(items) == 0 {
		return []tableRow{{document: "Translation Services", amount: formatMoney(subtotal), subtotal: subtotal}}
	}

	rows := make([]tableRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, tableRow{
			document:  item.FileName,
			languages: languagePair(item.SourceLanguage, item.TargetLanguage),
			words:     strconv.Itoa(item.WordCount),
			rate:      formatMoney(item.RatePerWord),
			amount:    formatMoney(item.Subtotal),
			subtotal:  item.Subtotal,
		})
	}
	return rows
}

func (d *DocumentGenerator) drawTable(p page, rows []tableRow, top, limit float64) float64 {
	p.color(tableFill)
	p.c.Rect(marginX-6, pdf.A4Height-top-20, pageRight-marginX+12, 20)

	headerTop := top + 14
	p.color(textColor)
	p.text(pdf.HelveticaBold, 9, colDocument, headerTop, "Document")
	p.text(pdf.HelveticaBold, 9, colLanguages, headerTop, "Languages")
	p.textRight(pdf.HelveticaBold, 9, colWordsRight, headerTop, "Words")
	p.textRight(pdf.HelveticaBold, 9, colRateRight, headerTop, "Rate")
	p.textRight(pdf.HelveticaBold, 9, colAmountRight, headerTop, "Amount")

	rows = fitRows(rows, int((limit-top-20)/rowHeight))

	rowTop := top + 20
	for _, row := range rows {
		baseline := rowTop + 12
		p.color(textColor)
		p.text(pdf.Helvetica, 9, colDocument, baseline, pdf.Truncate(pdf.Helvetica, 9, colDocumentW, row.document))
		p.text(pdf.Helvetica, 9, colLanguages, baseline, pdf.Truncate(pdf.Helvetica, 9, colLanguagesW, row.languages))
		if row.words != "" {
			p.textRight(pdf.Helvetica, 9, colWordsRight, baseline, row.words)
		}
		if row.rate != "" {
			p.textRight(pdf.Helvetica, 9, colRateRight, baseline, row.rate)
		}
		p.textRight(pdf.Helvetica, 9, colAmountRight, baseline, row.amount)

		rowTop += rowHeight
		p.rule(rowTop, 0.5)
	}

	return rowTop
}

// fitRows recorta la tabla a limit filas, resumiendo las sobrantes en la última
func fitRows(rows []tableRow, limit int) []tableRow {
	if limit < 1 {
		limit = 1
	}
	if len(rows) <= limit {
		return rows
	}

	kept := rows[:limit-1]
	rest := rows[limit-1:]
	var sum float64
	for _, r := range rest {
		sum += r.subtotal
	}

	summary := tableRow{
		document: fmt.Sprintf("+ %d more documents", len(rest)),
		amount:   formatMoney(sum),
		subtotal: sum,
	}
	return append(append([]tableRow{}, kept...), summary)
}

// totalLine es una línea del bloque de totales
type totalLine struct {
	text string
	bold bool
	rule bool
}

// totalLines omite los cargos en cero y las líneas de pago sin monto
func totalLines(inv *models.Invoice) []totalLine {
	lines := []totalLine{{text: "Subtotal: " + formatMoney(inv.Subtotal)}}
	if inv.CertificationTotal > 0 {
		lines = append(lines, totalLine{text: "Certification: " + formatMoney(inv.CertificationTotal)})
	}
	if inv.RushFee > 0 {
		lines = append(lines, totalLine{text: "Rush Fee: " + formatMoney(inv.RushFee)})
	}
	if inv.DeliveryFee > 0 {
		lines = append(lines, totalLine{text: "Delivery: " + formatMoney(inv.DeliveryFee)})
	}
	if inv.TaxAmount > 0 {
		lines = append(lines, totalLine{text: fmt.Sprintf("Tax (%s): %s", formatRate(inv.TaxRate), formatMoney(inv.TaxAmount))})
	}
	lines = append(lines, totalLine{text: "Total: " + formatMoney(inv.TotalAmount), bold: true, rule: true})
	if inv.AmountPaid > 0 {
		lines = append(lines, totalLine{text: "Amount Paid: " + formatMoney(inv.AmountPaid)})
	}
	if inv.BalanceDue > 0 {
		lines = append(lines, totalLine{text: "Balance Due: " + formatMoney(inv.BalanceDue), bold: true})
	}
	return lines
}

func (d *DocumentGenerator) drawTotals(p page, lines []totalLine, top float64) float64 {
	for _, line := range lines {
		if line.rule {
			p.c.StrokeColor(ruleColor[0], ruleColor[1], ruleColor[2])
			p.c.Line(pageRight-180, pdf.A4Height-top+11, pageRight, pdf.A4Height-top+11, 0.75)
			top += 4
		}

		font, size := pdf.Helvetica, 10.0
		if line.bold {
			font, size = pdf.HelveticaBold, 11.0
		}
		p.color(textColor)
		p.textRight(font, size, pageRight, top, line.text)
		top += totalsStep
	}
	return top
}

func noteLines(inv *models.Invoice) []string {
	if inv.Notes == nil {
		return nil
	}
	lines := pdf.Wrap(pdf.Helvetica, 9, pageRight-marginX, *inv.Notes)
	if len(lines) > maxNoteLines {
		lines = lines[:maxNoteLines]
		last := lines[maxNoteLines-1] + "..."
		lines[maxNoteLines-1] = pdf.Truncate(pdf.Helvetica, 9, pageRight-marginX, last)
	}
	return lines
}

func (d *DocumentGenerator) drawNotes(p page, lines []string, top float64) {
	p.color(textColor)
	p.text(pdf.HelveticaBold, 10, marginX, top, "Notes")
	for i, line := range lines {
		p.color(mutedColor)
		p.text(pdf.Helvetica, 9, marginX, top+14+float64(i)*12, line)
	}
}

func (d *DocumentGenerator) drawFooter(p page) {
	p.rule(footerTop+20, 0.5)

	p.color(textColor)
	p.textCenter(pdf.Helvetica, 9, footerTop+38, "Thank you for your business.")

	contact := strings.Join(nonEmpty(d.company.Website, d.company.Email, d.company.Phone), " | ")
	if contact != "" {
		p.color(mutedColor)
		p.textCenter(pdf.Helvetica, 8, footerTop+52, contact)
	}
}

// brandColor interpreta el color de marca "#RRGGBB"
func (d *DocumentGenerator) brandColor() [3]uint8 {
	hex := strings.TrimPrefix(d.company.BrandColor, "#")
	if len(hex) != 6 {
		return defaultBrand
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return defaultBrand
	}
	return [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// formatRate acepta la tasa como fracción (0.13) y la imprime como porcentaje
func formatRate(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func languagePair(source, target string) string {
	source, target = strings.TrimSpace(source), strings.TrimSpace(target)
	switch {
	case source != "" && target != "":
		return source + " to " + target
	case target != "":
		return target
	default:
		return source
	}
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
