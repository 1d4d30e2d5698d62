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

// CustomerRepository maneja las operaciones de base de datos para Customer
type CustomerRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewCustomerRepository crea una nueva instancia del repositorio
func NewCustomerRepository(db *DB, logger *logrus.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

const customerColumns = `
	id, email, full_name, phone, customer_type, company_name, auth_user_id,
	address_line1, address_line2, city, province, postal_code, country,
	last_login_at, created_at, updated_at`

// GetByID obtiene un cliente por ID
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	var customer models.Customer
	var authUserID uuid.NullUUID
	var lastLoginAt sql.NullTime
	err := r.db.QueryRowWithTimeout(ctx, query, []interface{}{id},
		&customer.ID, &customer.Email, &customer.FullName, &customer.Phone,
		&customer.CustomerType, &customer.CompanyName, &authUserID,
		&customer.AddressLine1, &customer.AddressLine2, &customer.City,
		&customer.Province, &customer.PostalCode, &customer.Country,
		&lastLoginAt, &customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("customer %s: %w", id, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("error querying customer: %w", err)
	}

	if authUserID.Valid {
		customer.AuthUserID = &authUserID.UUID
	}
	if lastLoginAt.Valid {
		customer.LastLoginAt = &lastLoginAt.Time
	}
	return &customer, nil
}

// UpdateLastLogin registra el último inicio de sesión del cliente
func (r *CustomerRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE customers
		SET last_login_at = $1, updated_at = $1
		WHERE id = $2
	`

	result, err := r.db.ExecWithTimeout(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("error updating customer last login: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("customer %s: %w", id, models.ErrRecordNotFound)
	}
	return nil
}
