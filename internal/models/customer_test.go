package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestBillingName(t *testing.T) {
	c := &Customer{FullName: "Maria Lopez"}
	assert.Equal(t, "Maria Lopez", c.BillingName())

	c.CompanyName = strPtr("")
	assert.Equal(t, "Maria Lopez", c.BillingName())

	c.CompanyName = strPtr("Lopez Legal LLP")
	assert.Equal(t, "Lopez Legal LLP", c.BillingName())
}

func TestBillingAddressSkipsEmptyParts(t *testing.T) {
	c := &Customer{
		AddressLine1: strPtr("100 King St W"),
		AddressLine2: strPtr("  "),
		City:         strPtr("Toronto"),
		Province:     strPtr("ON"),
		PostalCode:   strPtr("M5X 1A9"),
	}
	assert.Equal(t, []string{"100 King St W", "Toronto, ON, M5X 1A9"}, c.BillingAddress())
}

func TestInvoiceStoragePath(t *testing.T) {
	inv := &Invoice{InvoiceNumber: "INV-7"}
	assert.Equal(t, inv.CustomerID.String()+"/INV-7.pdf", inv.StoragePath())
}
