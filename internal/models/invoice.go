package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileCategoryToTranslate es la categoría de archivos facturables de una cotización
const FileCategoryToTranslate = "to_translate"

// Invoice representa una factura emitida a un cliente
type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	InvoiceNumber string     `json:"invoice_number" db:"invoice_number"`
	OrderID       *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	CustomerID    uuid.UUID  `json:"customer_id" db:"customer_id"`
	QuoteID       *uuid.UUID `json:"quote_id,omitempty" db:"quote_id"`

	// Montos
	Subtotal           float64 `json:"subtotal" db:"subtotal"`
	CertificationTotal float64 `json:"certification_total" db:"certification_total"`
	RushFee            float64 `json:"rush_fee" db:"rush_fee"`
	DeliveryFee        float64 `json:"delivery_fee" db:"delivery_fee"`
	TaxRate            float64 `json:"tax_rate" db:"tax_rate"`
	TaxAmount          float64 `json:"tax_amount" db:"tax_amount"`
	TotalAmount        float64 `json:"total_amount" db:"total_amount"`
	AmountPaid         float64 `json:"amount_paid" db:"amount_paid"`
	BalanceDue         float64 `json:"balance_due" db:"balance_due"`

	InvoiceDate time.Time  `json:"invoice_date" db:"invoice_date"`
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	Status      string     `json:"status" db:"status"`
	Notes       *string    `json:"notes,omitempty" db:"notes"`

	PDFStoragePath *string    `json:"pdf_storage_path,omitempty" db:"pdf_storage_path"`
	PDFGeneratedAt *time.Time `json:"pdf_generated_at,omitempty" db:"pdf_generated_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// StoragePath retorna la ruta del PDF dentro del bucket de facturas
func (i *Invoice) StoragePath() string {
	return i.CustomerID.String() + "/" + i.FileName()
}

// FileName retorna el nombre de archivo del PDF
func (i *Invoice) FileName() string {
	return i.InvoiceNumber + ".pdf"
}

// OrderShipping representa los campos de envío de un pedido
type OrderShipping struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	OrderNumber          string    `json:"order_number" db:"order_number"`
	ShippingName         *string   `json:"shipping_name,omitempty" db:"shipping_name"`
	ShippingAddressLine1 *string   `json:"shipping_address_line1,omitempty" db:"shipping_address_line1"`
	ShippingAddressLine2 *string   `json:"shipping_address_line2,omitempty" db:"shipping_address_line2"`
	ShippingCity         *string   `json:"shipping_city,omitempty" db:"shipping_city"`
	ShippingProvince     *string   `json:"shipping_province,omitempty" db:"shipping_province"`
	ShippingPostalCode   *string   `json:"shipping_postal_code,omitempty" db:"shipping_postal_code"`
	ShippingCountry      *string   `json:"shipping_country,omitempty" db:"shipping_country"`
}

// ShippingAddress retorna las líneas de dirección de envío no vacías
func (o *OrderShipping) ShippingAddress() []string {
	return addressLines([]*string{o.ShippingName, o.ShippingAddressLine1, o.ShippingAddressLine2},
		o.ShippingCity, o.ShippingProvince, o.ShippingPostalCode, o.ShippingCountry)
}

// LineItem representa un documento facturable de la cotización
type LineItem struct {
	FileName       string  `json:"file_name" db:"original_filename"`
	SourceLanguage string  `json:"source_language" db:"source_language"`
	TargetLanguage string  `json:"target_language" db:"target_language"`
	WordCount      int     `json:"word_count" db:"word_count"`
	RatePerWord    float64 `json:"rate_per_word" db:"rate_per_word"`
	Subtotal       float64 `json:"subtotal" db:"line_total"`
}

// GenerateInvoicePDFRequest representa el body del endpoint de PDF
type GenerateInvoicePDFRequest struct {
	InvoiceID *string `json:"invoice_id,omitempty" form:"invoice_id"`
	OrderID   *string `json:"order_id,omitempty" form:"order_id"`
	SendEmail bool    `json:"send_email,omitempty" form:"-"`
}

// GenerateInvoicePDFResponse representa el acuse para llamadas programáticas
type GenerateInvoicePDFResponse struct {
	Success        bool      `json:"success"`
	InvoiceID      uuid.UUID `json:"invoice_id"`
	InvoiceNumber  string    `json:"invoice_number"`
	PDFStoragePath string    `json:"pdf_storage_path"`
}

// InvoiceEmail es el correo con la factura adjunta
type InvoiceEmail struct {
	To            string
	CustomerName  string
	InvoiceNumber string
	FileName      string
	PDF           []byte
	TotalAmount   float64
	BalanceDue    float64
	DueDate       *time.Time
}

// addressLines descarta las partes vacías y une ciudad/provincia/código en una línea
func addressLines(street []*string, city, province, postal, country *string) []string {
	var lines []string
	for _, p := range street {
		if v := strings.TrimSpace(deref(p)); v != "" {
			lines = append(lines, v)
		}
	}

	var locality []string
	for _, p := range []*string{city, province, postal} {
		if v := strings.TrimSpace(deref(p)); v != "" {
			locality = append(locality, v)
		}
	}
	if len(locality) > 0 {
		lines = append(lines, strings.Join(locality, ", "))
	}

	if v := strings.TrimSpace(deref(country)); v != "" {
		lines = append(lines, v)
	}
	return lines
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
