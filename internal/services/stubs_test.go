package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubSessionStore struct {
	mu      sync.Mutex
	rows    map[string]*models.LoginSession
	created []*models.LoginSession
}

func newStubSessionStore(rows ...*models.LoginSession) *stubSessionStore {
	s := &stubSessionStore{rows: make(map[string]*models.LoginSession)}
	for _, r := range rows {
		s.rows[r.TokenHash] = r
	}
	return s
}

func (s *stubSessionStore) GetByTokenHash(ctx context.Context, tokenHash string, sessionType models.SessionType) (*models.LoginSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[tokenHash]
	if !ok || row.SessionType != sessionType {
		return nil, models.ErrRecordNotFound
	}
	copied := *row
	if row.UsedAt != nil {
		usedAt := *row.UsedAt
		copied.UsedAt = &usedAt
	}
	return &copied, nil
}

func (s *stubSessionStore) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.ID != id {
			continue
		}
		if row.UsedAt != nil {
			return false, nil
		}
		at := usedAt
		row.UsedAt = &at
		return true, nil
	}
	return false, nil
}

func (s *stubSessionStore) Create(ctx context.Context, session *models.LoginSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.created = append(s.created, &copied)
	s.rows[session.TokenHash] = &copied
	return nil
}

func (s *stubSessionStore) row(tokenHash string) *models.LoginSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[tokenHash]
}

type stubCustomerStore struct {
	mu         sync.Mutex
	customers  map[uuid.UUID]*models.Customer
	updateErr  error
	lastLogins map[uuid.UUID]time.Time
}

func newStubCustomerStore(customers ...*models.Customer) *stubCustomerStore {
	s := &stubCustomerStore{
		customers:  make(map[uuid.UUID]*models.Customer),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
	for _, c := range customers {
		s.customers[c.ID] = c
	}
	return s
}

func (s *stubCustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *stubCustomerStore) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return s.updateErr
	}
	s.lastLogins[id] = at
	return nil
}

type stubEvents struct {
	mu    sync.Mutex
	names []string
	data  []map[string]interface{}
	err   error
}

func (s *stubEvents) Publish(ctx context.Context, name string, data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.names = append(s.names, name)
	s.data = append(s.data, data)
	return s.err
}

type pdfUpdate struct {
	id   uuid.UUID
	path string
	at   time.Time
}

type stubInvoiceStore struct {
	invoices      map[uuid.UUID]*models.Invoice
	latestByOrder map[uuid.UUID]*models.Invoice
	items         map[uuid.UUID][]models.LineItem
	updates       []pdfUpdate
}

func newStubInvoiceStore(invoices ...*models.Invoice) *stubInvoiceStore {
	s := &stubInvoiceStore{
		invoices:      make(map[uuid.UUID]*models.Invoice),
		latestByOrder: make(map[uuid.UUID]*models.Invoice),
		items:         make(map[uuid.UUID][]models.LineItem),
	}
	for _, inv := range invoices {
		s.invoices[inv.ID] = inv
		if inv.OrderID != nil {
			s.latestByOrder[*inv.OrderID] = inv
		}
	}
	return s
}

func (s *stubInvoiceStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	inv, ok := s.invoices[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	copied := *inv
	return &copied, nil
}

func (s *stubInvoiceStore) GetLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Invoice, error) {
	inv, ok := s.latestByOrder[orderID]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	copied := *inv
	return &copied, nil
}

func (s *stubInvoiceStore) UpdatePDFInfo(ctx context.Context, id uuid.UUID, storagePath string, generatedAt time.Time) error {
	s.updates = append(s.updates, pdfUpdate{id: id, path: storagePath, at: generatedAt})
	return nil
}

func (s *stubInvoiceStore) ListBillableLineItems(ctx context.Context, quoteID uuid.UUID) ([]models.LineItem, error) {
	return s.items[quoteID], nil
}

type stubOrderStore struct {
	orders map[uuid.UUID]*models.OrderShipping
}

func (s *stubOrderStore) GetShippingByID(ctx context.Context, id uuid.UUID) (*models.OrderShipping, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return o, nil
}

type upload struct {
	data        []byte
	contentType string
}

type stubBlobStore struct {
	uploads map[string]upload
	err     error
}

func (s *stubBlobStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if s.err != nil {
		return s.err
	}
	if s.uploads == nil {
		s.uploads = make(map[string]upload)
	}
	s.uploads[path] = upload{data: data, contentType: contentType}
	return nil
}

type stubMailer struct {
	sent []models.InvoiceEmail
	err  error
}

func (s *stubMailer) SendInvoicePDF(ctx context.Context, msg models.InvoiceEmail) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}
