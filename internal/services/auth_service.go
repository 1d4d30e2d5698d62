package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/agency-functions/internal/config"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/sirupsen/logrus"
)

// Nombres de los eventos publicados por los servicios
const (
	EventLoginVerified       = "customer/login.verified"
	EventInvoicePDFGenerated = "invoice/pdf.generated"
)

// LoginSessionStore es la persistencia de tokens y sesiones
type LoginSessionStore interface {
	GetByTokenHash(ctx context.Context, tokenHash string, sessionType models.SessionType) (*models.LoginSession, error)
	MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)
	Create(ctx context.Context, session *models.LoginSession) error
}

// CustomerReader obtiene clientes por ID
type CustomerReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// CustomerStore agrega la actualización del último login
type CustomerStore interface {
	CustomerReader
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// EventPublisher publica eventos de dominio; los errores nunca abortan la operación
type EventPublisher interface {
	Publish(ctx context.Context, name string, data map[string]interface{}) error
}

// VerifyLoginInput representa una verificación de enlace mágico
type VerifyLoginInput struct {
	Token     string
	IPAddress string
	UserAgent string
}

// VerifyLoginResult contiene la sesión emitida. SessionToken solo se entrega aquí.
type VerifyLoginResult struct {
	SessionToken string
	ExpiresAt    time.Time
	Customer     *models.Customer
}

// AuthService maneja la verificación de enlaces mágicos
type AuthService struct {
	sessions   LoginSessionStore
	customers  CustomerStore
	events     EventPublisher
	logger     *logrus.Logger
	sessionTTL time.Duration
	tokenBytes int
	now        func() time.Time
	random     io.Reader
}

// NewAuthService crea una nueva instancia del servicio. events puede ser nil.
func NewAuthService(sessions LoginSessionStore, customers CustomerStore, events EventPublisher, cfg config.AuthConfig, logger *logrus.Logger) *AuthService {
	tokenBytes := cfg.SessionTokenBytes
	if tokenBytes < config.MinSessionTokenBytes {
		tokenBytes = config.MinSessionTokenBytes
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &AuthService{
		sessions:   sessions,
		customers:  customers,
		events:     events,
		logger:     logger,
		sessionTTL: ttl,
		tokenBytes: tokenBytes,
		now:        time.Now,
		random:     rand.Reader,
	}
}

// HashToken retorna el SHA-256 del token en hex minúscula
func HashToken(token string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(token)))
}

// Verify consume un enlace mágico y emite una sesión nueva
func (s *AuthService) Verify(ctx context.Context, in VerifyLoginInput) (*VerifyLoginResult, error) {
	token := strings.TrimSpace(in.Token)
	if token == "" {
		return nil, models.ErrMissingInput
	}

	tokenHash := HashToken(token)
	log := s.logger.WithField("token_hash_prefix", tokenHash[:8])

	link, err := s.sessions.GetByTokenHash(ctx, tokenHash, models.SessionTypeMagicLink)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.Info("Login token not found")
			return nil, models.ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("error looking up login token: %w", err)
	}

	now := s.now()
	if link.UsedAt != nil {
		log.WithField("session_id", link.ID).Info("Login token already used")
		return nil, models.ErrAlreadyUsed
	}
	if link.ExpiresAt.Before(now) {
		log.WithField("session_id", link.ID).Info("Login token expired")
		return nil, models.ErrExpired
	}

	consumed, err := s.sessions.MarkUsed(ctx, link.ID, now)
	if err != nil {
		return nil, fmt.Errorf("error consuming login token: %w", err)
	}
	if !consumed {
		log.WithField("session_id", link.ID).Warn("Login token consumed by a concurrent request")
		return nil, models.ErrAlreadyUsed
	}

	customer, err := s.customers.GetByID(ctx, link.CustomerID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			log.WithField("customer_id", link.CustomerID).Error("Login token references a missing customer")
			return nil, fmt.Errorf("%w: customer not found", models.ErrIntegrity)
		}
		return nil, fmt.Errorf("error loading customer: %w", err)
	}

	if err := s.customers.UpdateLastLogin(ctx, customer.ID, now); err != nil {
		log.WithError(err).WithField("customer_id", customer.ID).Warn("Failed to update last login")
	} else {
		customer.LastLoginAt = &now
	}

	sessionToken, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}

	session := &models.LoginSession{
		ID:          uuid.New(),
		CustomerID:  customer.ID,
		SessionType: models.SessionTypeSession,
		TokenHash:   HashToken(sessionToken),
		ExpiresAt:   now.Add(s.sessionTTL),
		IPAddress:   optional(in.IPAddress),
		UserAgent:   optional(in.UserAgent),
		CreatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	log.WithFields(logrus.Fields{
		"customer_id": customer.ID,
		"session_id":  session.ID,
		"expires_at":  session.ExpiresAt,
	}).Info("Customer login verified")

	s.publish(ctx, EventLoginVerified, map[string]interface{}{
		"customer_id": customer.ID.String(),
		"session_id":  session.ID.String(),
		"ip_address":  in.IPAddress,
	})

	return &VerifyLoginResult{
		SessionToken: sessionToken,
		ExpiresAt:    session.ExpiresAt,
		Customer:     customer,
	}, nil
}

func (s *AuthService) newToken() (string, error) {
	buf := make([]byte, s.tokenBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *AuthService) publish(ctx context.Context, name string, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, name, data); err != nil {
		s.logger.WithError(err).WithField("event", name).Warn("Failed to publish event")
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
