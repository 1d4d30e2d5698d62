package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionType distingue los enlaces mágicos de las sesiones emitidas
type SessionType string

const (
	SessionTypeMagicLink SessionType = "magic_link"
	SessionTypeSession   SessionType = "session"
)

// LoginSession representa un token de un solo uso o una sesión de navegador
type LoginSession struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	CustomerID  uuid.UUID   `json:"customer_id" db:"customer_id"`
	SessionType SessionType `json:"session_type" db:"session_type"`
	TokenHash   string      `json:"-" db:"token_hash"`
	ExpiresAt   time.Time   `json:"expires_at" db:"expires_at"`
	UsedAt      *time.Time  `json:"used_at,omitempty" db:"used_at"`
	IPAddress   *string     `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent   *string     `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// VerifyLoginRequest representa el body del endpoint de verificación
type VerifyLoginRequest struct {
	Token string `json:"token"`
}

// SessionInfo representa el token de sesión entregado al navegador
type SessionInfo struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerifyLoginResponse representa la respuesta exitosa de verificación
type VerifyLoginResponse struct {
	Success  bool            `json:"success"`
	Session  SessionInfo     `json:"session"`
	Customer CustomerProfile `json:"customer"`
}
