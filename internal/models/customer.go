package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer representa un cliente de la agencia
type Customer struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	FullName     string     `json:"full_name" db:"full_name"`
	Phone        *string    `json:"phone,omitempty" db:"phone"`
	CustomerType string     `json:"customer_type" db:"customer_type"`
	CompanyName  *string    `json:"company_name,omitempty" db:"company_name"`
	AuthUserID   *uuid.UUID `json:"-" db:"auth_user_id"`
	AddressLine1 *string    `json:"-" db:"address_line1"`
	AddressLine2 *string    `json:"-" db:"address_line2"`
	City         *string    `json:"-" db:"city"`
	Province     *string    `json:"-" db:"province"`
	PostalCode   *string    `json:"-" db:"postal_code"`
	Country      *string    `json:"-" db:"country"`
	LastLoginAt  *time.Time `json:"-" db:"last_login_at"`
	CreatedAt    time.Time  `json:"-" db:"created_at"`
	UpdatedAt    time.Time  `json:"-" db:"updated_at"`
}

// CustomerProfile es la proyección pública de un cliente
type CustomerProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone"`
	CustomerType string    `json:"customer_type"`
	CompanyName  *string   `json:"company_name"`
}

// Profile retorna la proyección sin campos internos
func (c *Customer) Profile() CustomerProfile {
	return CustomerProfile{
		ID:           c.ID,
		Email:        c.Email,
		FullName:     c.FullName,
		Phone:        c.Phone,
		CustomerType: c.CustomerType,
		CompanyName:  c.CompanyName,
	}
}

// BillingName retorna el nombre a imprimir en la factura
func (c *Customer) BillingName() string {
	if c.CompanyName != nil && *c.CompanyName != "" {
		return *c.CompanyName
	}
	return c.FullName
}

// BillingAddress retorna las líneas de dirección no vacías
func (c *Customer) BillingAddress() []string {
	return addressLines([]*string{c.AddressLine1, c.AddressLine2}, c.City, c.Province, c.PostalCode, c.Country)
}
