package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/sirupsen/logrus"
)

// ContentTypePDF es el content type de los PDF subidos y descargados
const ContentTypePDF = "application/pdf"

// InvoiceStore es la persistencia de facturas y sus documentos facturables
type InvoiceStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	GetLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error)
	UpdatePDFInfo(ctx context.Context, id uuid.UUID, storagePath string, generatedAt time.Time) error
	ListBillableLineItems(ctx context.Context, quoteID uuid.UUID) ([]models.LineItem, error)
}

// OrderStore obtiene los datos de envío de un pedido
type OrderStore interface {
	GetShippingByID(ctx context.Context, id uuid.UUID) (*models.OrderShipping, error)
}

// BlobStore guarda objetos sobrescribiendo la ruta si ya existe
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
}

// InvoiceMailer envía el PDF de una factura al cliente
type InvoiceMailer interface {
	SendInvoicePDF(ctx context.Context, msg models.InvoiceEmail) error
}

// GenerateInvoicePDFInput identifica la factura a generar. InvoiceID tiene
// prioridad sobre OrderID.
type GenerateInvoicePDFInput struct {
	InvoiceID string
	OrderID   string
	SendEmail bool
}

// GenerateInvoicePDFResult contiene el PDF generado y su ubicación
type GenerateInvoicePDFResult struct {
	Invoice     *models.Invoice
	StoragePath string
	FileName    string
	PDF         []byte
	EmailSent   bool
}

// InvoicePDFService maneja la generación y publicación del PDF de facturas
type InvoicePDFService struct {
	invoices  InvoiceStore
	orders    OrderStore
	customers CustomerReader
	blobs     BlobStore
	generator *DocumentGenerator
	mailer    InvoiceMailer
	events    EventPublisher
	logger    *logrus.Logger
	now       func() time.Time
}

// NewInvoicePDFService crea una nueva instancia del servicio. mailer y events pueden ser nil.
func NewInvoicePDFService(
	invoices InvoiceStore,
	orders OrderStore,
	customers CustomerReader,
	blobs BlobStore,
	generator *DocumentGenerator,
	mailer InvoiceMailer,
	events EventPublisher,
	logger *logrus.Logger,
) *InvoicePDFService {
	return &InvoicePDFService{
		invoices:  invoices,
		orders:    orders,
		customers: customers,
		blobs:     blobs,
		generator: generator,
		mailer:    mailer,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Generate dibuja el PDF, lo sube al storage y recién entonces marca la factura
func (s *InvoicePDFService) Generate(ctx context.Context, in GenerateInvoicePDFInput) (*GenerateInvoicePDFResult, error) {
	doc, err := s.Render(ctx, in)
	if err != nil {
		return nil, err
	}
	inv := doc.Invoice

	data, err := s.generator.GenerateInvoicePDF(doc)
	if err != nil {
		return nil, fmt.Errorf("error generating invoice PDF: %w", err)
	}

	path := inv.StoragePath()
	if err := s.blobs.Upload(ctx, path, data, ContentTypePDF); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"invoice_id": inv.ID,
			"path":       path,
		}).Error("Failed to upload invoice PDF")
		return nil, fmt.Errorf("%w: %v", models.ErrStorageFailure, err)
	}

	generatedAt := s.now()
	if err := s.invoices.UpdatePDFInfo(ctx, inv.ID, path, generatedAt); err != nil {
		return nil, fmt.Errorf("error saving invoice PDF info: %w", err)
	}
	inv.PDFStoragePath = &path
	inv.PDFGeneratedAt = &generatedAt

	result := &GenerateInvoicePDFResult{
		Invoice:     inv,
		StoragePath: path,
		FileName:    inv.FileName(),
		PDF:         data,
	}

	if in.SendEmail {
		result.EmailSent = s.sendEmail(ctx, doc, result)
	}

	s.logger.WithFields(logrus.Fields{
		"invoice_id":     inv.ID,
		"invoice_number": inv.InvoiceNumber,
		"path":           path,
		"size":           len(data),
		"email_sent":     result.EmailSent,
	}).Info("Invoice PDF generated successfully")

	s.publish(ctx, EventInvoicePDFGenerated, map[string]interface{}{
		"invoice_id":       inv.ID.String(),
		"invoice_number":   inv.InvoiceNumber,
		"customer_id":      inv.CustomerID.String(),
		"pdf_storage_path": path,
	})

	return result, nil
}

// Render resuelve la factura y reúne las filas que la acompañan, sin efectos
func (s *InvoicePDFService) Render(ctx context.Context, in GenerateInvoicePDFInput) (*InvoiceDocument, error) {
	inv, err := s.resolveInvoice(ctx, in)
	if err != nil {
		return nil, err
	}

	doc := &InvoiceDocument{Invoice: inv}

	if inv.OrderID != nil {
		order, err := s.orders.GetShippingByID(ctx, *inv.OrderID)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: order %s not found", models.ErrIntegrity, *inv.OrderID)
			}
			return nil, fmt.Errorf("error loading order: %w", err)
		}
		doc.Order = order
	}

	customer, err := s.customers.GetByID(ctx, inv.CustomerID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer %s not found", models.ErrIntegrity, inv.CustomerID)
		}
		return nil, fmt.Errorf("error loading customer: %w", err)
	}
	doc.Customer = customer

	if inv.QuoteID != nil {
		items, err := s.invoices.ListBillableLineItems(ctx, *inv.QuoteID)
		if err != nil {
			return nil, fmt.Errorf("error loading line items: %w", err)
		}
		doc.Items = items
	}

	return doc, nil
}

func (s *InvoicePDFService) resolveInvoice(ctx context.Context, in GenerateInvoicePDFInput) (*models.Invoice, error) {
	invoiceID := strings.TrimSpace(in.InvoiceID)
	orderID := strings.TrimSpace(in.OrderID)

	switch {
	case invoiceID != "":
		id, err := uuid.Parse(invoiceID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid invoice_id", models.ErrMissingInput)
		}
		inv, err := s.invoices.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: invoice not found", models.ErrNotFound)
			}
			return nil, fmt.Errorf("error loading invoice: %w", err)
		}
		return inv, nil

	case orderID != "":
		id, err := uuid.Parse(orderID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid order_id", models.ErrMissingInput)
		}
		inv, err := s.invoices.GetLatestByOrderID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: no invoice for order", models.ErrNotFound)
			}
			return nil, fmt.Errorf("error loading invoice: %w", err)
		}
		return inv, nil

	default:
		return nil, fmt.Errorf("%w: invoice_id or order_id is required", models.ErrMissingInput)
	}
}

func (s *InvoicePDFService) sendEmail(ctx context.Context, doc *InvoiceDocument, result *GenerateInvoicePDFResult) bool {
	log := s.logger.WithField("invoice_id", doc.Invoice.ID)
	if s.mailer == nil {
		log.Warn("Invoice email requested but no mailer is configured")
		return false
	}

	err := s.mailer.SendInvoicePDF(ctx, models.InvoiceEmail{
		To:            doc.Customer.Email,
		CustomerName:  doc.Customer.BillingName(),
		InvoiceNumber: doc.Invoice.InvoiceNumber,
		FileName:      result.FileName,
		PDF:           result.PDF,
		TotalAmount:   doc.Invoice.TotalAmount,
		BalanceDue:    doc.Invoice.BalanceDue,
		DueDate:       doc.Invoice.DueDate,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to send invoice email")
		return false
	}
	return true
}

func (s *InvoicePDFService) publish(ctx context.Context, name string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, name, data); err != nil {
		s.logger.WithError(err).WithField("event", name).Warn("Failed to publish event")
	}
}
