package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/sirupsen/logrus"
)

// OrderRepository lee los datos de envío de los pedidos
type OrderRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewOrderRepository crea una nueva instancia del repositorio
func NewOrderRepository(db *DB, logger *logrus.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

// GetShippingByID obtiene solo los campos de envío de un pedido
func (r *OrderRepository) GetShippingByID(ctx context.Context, id uuid.UUID) (*models.OrderShipping, error) {
	query := `
		SELECT id, order_number, shipping_name, shipping_address_line1, shipping_address_line2,
			   shipping_city, shipping_province, shipping_postal_code, shipping_country
		FROM orders
		WHERE id = $1
	`

	var order models.OrderShipping
	err := r.db.QueryRowWithTimeout(ctx, query, []interface{}{id},
		&order.ID, &order.OrderNumber, &order.ShippingName, &order.ShippingAddressLine1,
		&order.ShippingAddressLine2, &order.ShippingCity, &order.ShippingProvince,
		&order.ShippingPostalCode, &order.ShippingCountry,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, models.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("error querying order: %w", err)
	}
	return &order, nil
}
