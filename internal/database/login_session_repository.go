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

// LoginSessionRepository maneja los tokens de enlace mágico y las sesiones emitidas
type LoginSessionRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewLoginSessionRepository crea una nueva instancia del repositorio
func NewLoginSessionRepository(db *DB, logger *logrus.Logger) *LoginSessionRepository {
	return &LoginSessionRepository{
		db:     db,
		logger: logger,
	}
}

// GetByTokenHash obtiene la fila cuyo hash coincide, sin filtrar por uso ni expiración
func (r *LoginSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string, sessionType models.SessionType) (*models.LoginSession, error) {
	query := `
		SELECT id, customer_id, session_type, token_hash, expires_at, used_at,
			   ip_address, user_agent, created_at
		FROM customer_sessions
		WHERE token_hash = $1 AND session_type = $2
	`

	var session models.LoginSession
	var usedAt sql.NullTime
	err := r.db.QueryRowWithTimeout(ctx, query, []interface{}{tokenHash, sessionType},
		&session.ID, &session.CustomerID, &session.SessionType, &session.TokenHash,
		&session.ExpiresAt, &usedAt, &session.IPAddress, &session.UserAgent, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}
		return nil, fmt.Errorf("error querying login session: %w", err)
	}

	if usedAt.Valid {
		session.UsedAt = &usedAt.Time
	}
	return &session, nil
}

// MarkUsed consume el token solo si sigue sin usar. Retorna false si otra
// petición lo consumió primero.
func (r *LoginSessionRepository) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	query := `
		UPDATE customer_sessions
		SET used_at = $1
		WHERE id = $2 AND used_at IS NULL
	`

	result, err := r.db.ExecWithTimeout(ctx, query, usedAt, id)
	if err != nil {
		return false, fmt.Errorf("error marking login session used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error getting rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

// Create inserta una nueva fila de sesión
func (r *LoginSessionRepository) Create(ctx context.Context, session *models.LoginSession) error {
	query := `
		INSERT INTO customer_sessions (
			id, customer_id, session_type, token_hash, expires_at, used_at,
			ip_address, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err := r.db.ExecWithTimeout(ctx, query,
		session.ID, session.CustomerID, session.SessionType, session.TokenHash,
		session.ExpiresAt, session.UsedAt, session.IPAddress, session.UserAgent,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error creating login session: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"session_id":   session.ID,
		"customer_id":  session.CustomerID,
		"session_type": session.SessionType,
		"expires_at":   session.ExpiresAt,
	}).Debug("Login session created")

	return nil
}
