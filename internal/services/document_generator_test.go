package services

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCompany = config.CompanyConfig{
	Name:         "CETHOS Translation Services",
	AddressLine1: "100 King St W",
	AddressLine2: "Toronto, ON M5X 1A9",
	Email:        "billing@cethos.com",
	Phone:        "+1 416 555 0199",
	Website:      "www.cethos.com",
	BrandColor:   "#0C2340",
}

// exampleInvoice es la factura de referencia: sin documentos ni cargo urgente
func exampleInvoice(customerID uuid.UUID) *models.Invoice {
	orderID := uuid.New()
	due := time.Date(2026, 4, 13, 0, 0, 0, 0, time.UTC)
	return &models.Invoice{
		ID:                 uuid.New(),
		InvoiceNumber:      "INV-2026-0042",
		OrderID:            &orderID,
		CustomerID:         customerID,
		Subtotal:           100.00,
		CertificationTotal: 25.00,
		RushFee:            0,
		DeliveryFee:        10.00,
		TaxRate:            0.13,
		TaxAmount:          17.55,
		TotalAmount:        152.55,
		AmountPaid:         0,
		BalanceDue:         152.55,
		InvoiceDate:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		DueDate:            &due,
		Status:             "sent",
	}
}

func renderContent(t *testing.T, doc *InvoiceDocument) (string, []byte) {
	t.Helper()
	gen := NewDocumentGenerator(testCompany, quietLogger())
	data, err := gen.GenerateInvoicePDF(doc)
	require.NoError(t, err)
	return contentStream(t, data), data
}

// contentStream extrae el stream declarado por /Length
func contentStream(t *testing.T, data []byte) string {
	t.Helper()
	m := regexp.MustCompile(`<< /Length (\d+) >>\nstream\n`).FindSubmatchIndex(data)
	require.NotNil(t, m)
	length, err := strconv.Atoi(string(data[m[2]:m[3]]))
	require.NoError(t, err)
	start := m[1]
	require.True(t, bytes.HasPrefix(data[start+length:], []byte("\nendstream")), "stream length mismatch")
	return string(data[start : start+length])
}

var textOp = regexp.MustCompile(`(?m)^BT /F[12] [0-9.]+ Tf [0-9.-]+ [0-9.-]+ Td \((.*)\) Tj ET$`)

func TestRenderExampleInvoice(t *testing.T) {
	customer := testCustomer()
	stream, data := renderContent(t, &InvoiceDocument{
		Invoice:  exampleInvoice(customer.ID),
		Customer: customer,
	})

	assert.Equal(t, "%PDF-1.4", string(data[:8]))
	assert.True(t, bytes.HasSuffix(data, []byte("%%EOF")))
	assert.Contains(t, string(data), "/Root 1 0 R")

	assert.Contains(t, stream, "Td (Translation Services) Tj")
	assert.Contains(t, stream, "($100.00) Tj")
	assert.Contains(t, stream, "(Certification: $25.00) Tj")
	assert.Contains(t, stream, "(Delivery: $10.00) Tj")
	assert.Contains(t, stream, `(Tax \(13.0%\): $17.55) Tj`)
	assert.Contains(t, stream, "(Total: $152.55) Tj")
	assert.Contains(t, stream, "(Balance Due: $152.55) Tj")
	assert.Contains(t, stream, "(INV-2026-0042) Tj")
	assert.Contains(t, stream, "(Mar 14, 2026) Tj")
	assert.Contains(t, stream, "(sent) Tj")
	assert.NotContains(t, stream, "Rush Fee")
	assert.NotContains(t, stream, "Amount Paid")
}

func TestRenderRushFeeOnlyWhenPositive(t *testing.T) {
	customer := testCustomer()
	inv := exampleInvoice(customer.ID)
	inv.RushFee = 12.50
	inv.TotalAmount = 165.05
	inv.BalanceDue = 165.05

	stream, _ := renderContent(t, &InvoiceDocument{Invoice: inv, Customer: customer})
	assert.Contains(t, stream, "(Rush Fee: $12.50) Tj")
}

func TestRenderTotalsSumToTotal(t *testing.T) {
	customer := testCustomer()
	lineRe := regexp.MustCompile(`\((?:Subtotal|Certification|Rush Fee|Delivery|Tax \\\(.*?\\\)): \$(\d+\.\d{2})\) Tj`)
	totalRe := regexp.MustCompile(`\(Total: \$(\d+\.\d{2})\) Tj`)

	cases := []struct{ subtotal, cert, rush, delivery, tax float64 }{
		{100, 25, 0, 10, 17.55},
		{100, 25, 12.5, 10, 19.18},
		{48.3, 0, 0, 0, 0},
		{0.01, 0, 0, 0, 0},
		{1234.56, 75, 150, 24.99, 193.53},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.2f", tc.subtotal), func(t *testing.T) {
			inv := exampleInvoice(customer.ID)
			inv.Subtotal, inv.CertificationTotal, inv.RushFee, inv.DeliveryFee, inv.TaxAmount = tc.subtotal, tc.cert, tc.rush, tc.delivery, tc.tax
			inv.TotalAmount = tc.subtotal + tc.cert + tc.rush + tc.delivery + tc.tax
			inv.BalanceDue = inv.TotalAmount

			stream, _ := renderContent(t, &InvoiceDocument{Invoice: inv, Customer: customer})

			var sum float64
			for _, m := range lineRe.FindAllStringSubmatch(stream, -1) {
				v, err := strconv.ParseFloat(m[1], 64)
				require.NoError(t, err)
				sum += v
			}
			total := totalRe.FindStringSubmatch(stream)
			require.NotNil(t, total)
			printed, err := strconv.ParseFloat(total[1], 64)
			require.NoError(t, err)

			assert.InDelta(t, inv.TotalAmount, printed, 0.005)
			assert.InDelta(t, printed, sum, 0.01)
		})
	}
}

func TestRenderEscapesFreeText(t *testing.T) {
	customer := testCustomer()
	customer.FullName = `O'Brien (Legal) \ Partners`
	notes := `Rush (same day) \ certified`
	inv := exampleInvoice(customer.ID)
	inv.Notes = &notes
	quoteID := uuid.New()
	inv.QuoteID = &quoteID

	stream, _ := renderContent(t, &InvoiceDocument{
		Invoice:  inv,
		Customer: customer,
		Items: []models.LineItem{
			{FileName: "passport (copy).pdf", SourceLanguage: "Spanish", TargetLanguage: "English", WordCount: 250, RatePerWord: 0.12, Subtotal: 30},
		},
	})

	assert.Contains(t, stream, `(O'Brien \(Legal\) \\ Partners) Tj`)
	assert.Contains(t, stream, `passport \(copy\).pdf`)
	assert.Contains(t, stream, `Rush \(same day\) \\ certified`)
	assert.NotContains(t, stream, "O'Brien (Legal)")

	ops := textOp.FindAllStringSubmatch(stream, -1)
	require.NotEmpty(t, ops)
	for _, op := range ops {
		assert.True(t, balancedLiteral(op[1]), "unescaped delimiter in %q", op[1])
	}
	assert.Equal(t, strings.Count(stream, " Tj"), len(ops))
}

func TestRenderLineItems(t *testing.T) {
	customer := testCustomer()
	inv := exampleInvoice(customer.ID)

	stream, _ := renderContent(t, &InvoiceDocument{
		Invoice:  inv,
		Customer: customer,
		Items: []models.LineItem{
			{FileName: "birth-certificate.pdf", SourceLanguage: "French", TargetLanguage: "English", WordCount: 320, RatePerWord: 0.15, Subtotal: 48},
			{FileName: "a-very-long-scanned-document-name-from-the-customer-upload-form.pdf", SourceLanguage: "Portuguese", TargetLanguage: "English", WordCount: 1000, RatePerWord: 0.05, Subtotal: 52},
		},
	})

	assert.Contains(t, stream, "(birth-certificate.pdf) Tj")
	assert.Contains(t, stream, "(French to English) Tj")
	assert.Contains(t, stream, "(320) Tj")
	assert.Contains(t, stream, "($48.00) Tj")
	assert.Contains(t, stream, "...) Tj")
	assert.NotContains(t, stream, "customer-upload-form.pdf")
	assert.NotContains(t, stream, "Td (Translation Services) Tj")
}

func TestRenderSummarizesOverflowingRows(t *testing.T) {
	customer := testCustomer()
	inv := exampleInvoice(customer.ID)

	items := make([]models.LineItem, 60)
	for i := range items {
		items[i] = models.LineItem{FileName: fmt.Sprintf("page-%02d.pdf", i+1), WordCount: 100, RatePerWord: 0.1, Subtotal: 10}
	}

	stream, _ := renderContent(t, &InvoiceDocument{Invoice: inv, Customer: customer, Items: items})

	assert.Contains(t, stream, "more documents) Tj")
	assert.NotContains(t, stream, "(page-60.pdf) Tj")
	assert.NotContains(t, stream, "Td (Translation Services) Tj")
	assert.Contains(t, stream, "(Total: $152.55) Tj")
}

func TestFitRowsSumsOverflowAmounts(t *testing.T) {
	rows := []tableRow{
		{document: "a.pdf", subtotal: 10.10},
		{document: "b.pdf", subtotal: 20.20},
		{document: "c.pdf", subtotal: 1234.56},
		{document: "d.pdf", subtotal: 0.04},
	}

	fitted := fitRows(rows, 2)
	require.Len(t, fitted, 2)
	assert.Equal(t, "a.pdf", fitted[0].document)
	assert.Equal(t, "+ 3 more documents", fitted[1].document)
	assert.InDelta(t, 1254.80, fitted[1].subtotal, 0.001)
	assert.Equal(t, "$1254.80", fitted[1].amount)

	assert.Len(t, fitRows(rows, 4), 4)
	assert.Len(t, fitRows(rows, 0), 1)
}

func TestRenderShippingAndNotes(t *testing.T) {
	customer := testCustomer()
	inv := exampleInvoice(customer.ID)
	notes := "Certified copies mailed by Canada Post."
	inv.Notes = &notes
	name, street, city := "Maria Lopez", "22 Queen St E", "Toronto"

	stream, _ := renderContent(t, &InvoiceDocument{
		Invoice:  inv,
		Customer: customer,
		Order: &models.OrderShipping{
			ID:                   *inv.OrderID,
			OrderNumber:          "ORD-7781",
			ShippingName:         &name,
			ShippingAddressLine1: &street,
			ShippingCity:         &city,
		},
	})

	assert.Contains(t, stream, "(Ship To) Tj")
	assert.Contains(t, stream, "(22 Queen St E) Tj")
	assert.Contains(t, stream, "(ORD-7781) Tj")
	assert.Contains(t, stream, "(Notes) Tj")
	assert.Contains(t, stream, "(Certified copies mailed by Canada Post.) Tj")
}

func TestRenderIsDeterministic(t *testing.T) {
	customer := testCustomer()
	doc := &InvoiceDocument{Invoice: exampleInvoice(customer.ID), Customer: customer}

	_, first := renderContent(t, doc)
	_, second := renderContent(t, doc)
	assert.Equal(t, first, second)
}

func TestBrandColor(t *testing.T) {
	gen := NewDocumentGenerator(config.CompanyConfig{BrandColor: "#FF8000"}, quietLogger())
	assert.Equal(t, [3]uint8{255, 128, 0}, gen.brandColor())

	gen = NewDocumentGenerator(config.CompanyConfig{BrandColor: "navy"}, quietLogger())
	assert.Equal(t, defaultBrand, gen.brandColor())
}

func TestGenerateInvoicePDFRejectsIncompleteDocument(t *testing.T) {
	gen := NewDocumentGenerator(testCompany, quietLogger())
	_, err := gen.GenerateInvoicePDF(&InvoiceDocument{Invoice: exampleInvoice(uuid.New())})
	assert.Error(t, err)
}

// balancedLiteral reporta si s no tiene paréntesis ni barras sin escapar
func balancedLiteral(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return false
			}
			i++
		case '(', ')':
			return false
		}
	}
	return true
}
