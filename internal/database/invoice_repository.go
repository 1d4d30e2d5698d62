package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/sirupsen/logrus"
)

// InvoiceRepository maneja las operaciones de base de datos para facturas de clientes
type InvoiceRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewInvoiceRepository crea una nueva instancia del repositorio
func NewInvoiceRepository(db *DB, logger *logrus.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

const invoiceColumns = `
	id, invoice_number, order_id, customer_id, quote_id,
	subtotal, certification_total, rush_fee, delivery_fee, tax_rate, tax_amount,
	total_amount, amount_paid, balance_due, invoice_date, due_date, status, notes,
	pdf_storage_path, pdf_generated_at, created_at, updated_at`

// GetByID obtiene una factura por ID
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM customer_invoices WHERE id = $1`

	invoice, err := r.scanInvoice(ctx, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice %s: %w", id, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("error querying invoice: %w", err)
	}
	return invoice, nil
}

// GetLatestByOrderID obtiene la factura creada más recientemente para un pedido
func (r *InvoiceRepository) GetLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM customer_invoices
		WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	invoice, err := r.scanInvoice(ctx, query, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("invoice for order %s: %w", orderID, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("error querying invoice by order: %w", err)
	}
	return invoice, nil
}

// UpdatePDFInfo registra la ruta del PDF generado
func (r *InvoiceRepository) UpdatePDFInfo(ctx context.Context, id uuid.UUID, storagePath string, generatedAt time.Time) error {
	query := `
		UPDATE customer_invoices
		SET pdf_storage_path = $1, pdf_generated_at = $2, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecWithTimeout(ctx, query, storagePath, generatedAt, id)
	if err != nil {
		return fmt.Errorf("error updating invoice pdf info: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("invoice %s: %w", id, models.ErrRecordNotFound)
	}
	return nil
}

// ListBillableLineItems obtiene los documentos a traducir de una cotización
func (r *InvoiceRepository) ListBillableLineItems(ctx context.Context, quoteID uuid.UUID) ([]models.LineItem, error) {
	query := `
		SELECT original_filename, source_language, target_language,
			   word_count, rate_per_word, line_total
		FROM quote_files
		WHERE quote_id = $1 AND file_category = $2
		ORDER BY created_at, original_filename
	`

	rows, cancel, err := r.db.QueryWithTimeout(ctx, query, quoteID, models.FileCategoryToTranslate)
	if err != nil {
		return nil, fmt.Errorf("error querying quote files: %w", err)
	}
	defer cancel()
	defer rows.Close()

	var items []models.LineItem
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(
			&item.FileName, &item.SourceLanguage, &item.TargetLanguage,
			&item.WordCount, &item.RatePerWord, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("error scanning quote file: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quote files: %w", err)
	}

	return items, nil
}

func (r *InvoiceRepository) scanInvoice(ctx context.Context, query string, arg interface{}) (*models.Invoice, error) {
	var invoice models.Invoice
	var orderID, quoteID uuid.NullUUID
	var dueDate, pdfGeneratedAt sql.NullTime

	err := r.db.QueryRowWithTimeout(ctx, query, []interface{}{arg},
		&invoice.ID, &invoice.InvoiceNumber, &orderID, &invoice.CustomerID, &quoteID,
		&invoice.Subtotal, &invoice.CertificationTotal, &invoice.RushFee, &invoice.DeliveryFee,
		&invoice.TaxRate, &invoice.TaxAmount, &invoice.TotalAmount, &invoice.AmountPaid,
		&invoice.BalanceDue, &invoice.InvoiceDate, &dueDate, &invoice.Status, &invoice.Notes,
		&invoice.PDFStoragePath, &pdfGeneratedAt, &invoice.CreatedAt, &invoice.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		invoice.OrderID = &orderID.UUID
	}
	if quoteID.Valid {
		invoice.QuoteID = &quoteID.UUID
	}
	if dueDate.Valid {
		invoice.DueDate = &dueDate.Time
	}
	if pdfGeneratedAt.Valid {
		invoice.PDFGeneratedAt = &pdfGeneratedAt.Time
	}
	return &invoice, nil
}
