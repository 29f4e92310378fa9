package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleItemRequest línea de venta. Tax es el impuesto explícito de la línea;
// si es nil se calcula con el TaxRate de la venta.
type CreateSaleItemRequest struct {
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Discount  decimal.Decimal  `json:"discount"`
	Tax       *decimal.Decimal `json:"tax,omitempty"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	CustomerID     string                  `json:"customerId"`
	Items          []CreateSaleItemRequest `json:"items"`
	PaymentMethod  string                  `json:"paymentMethod"` // CASH (default), CREDIT_CARD, CREDIT, MOBILE_MONEY
	Channel        string                  `json:"channel"`
	Notes          string                  `json:"notes"`
	CurrencyCode   string                  `json:"currencyCode"`
	CurrencySymbol string                  `json:"currencySymbol"`
	TaxRate        decimal.Decimal         `json:"taxRate"`           // porcentaje 0-100
	DueDate        string                  `json:"dueDate,omitempty"` // YYYY-MM-DD o RFC 3339; solo ventas a crédito
}

// SaleItemResponse línea de venta congelada.
type SaleItemResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"productId"`
	Quantity  int              `json:"quantity"`
	Price     decimal.Decimal  `json:"price"`
	Discount  decimal.Decimal  `json:"discount"`
	Tax       decimal.Decimal  `json:"tax"`
	Cost      *decimal.Decimal `json:"cost"`
}

// InvoiceResponse factura de una venta a crédito.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	AmountDue     decimal.Decimal `json:"amountDue"`
	DueDate       time.Time       `json:"dueDate"`
	Status        string          `json:"status"`
	IsPaid        bool            `json:"isPaid"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	PaidAt        *time.Time      `json:"paidAt"`
}

// SaleResponse venta creada con sus líneas y, si es a crédito, su factura.
type SaleResponse struct {
	ID             string             `json:"id"`
	OwnerID        string             `json:"ownerId"`
	CustomerID     string             `json:"customerId,omitempty"`
	TotalAmount    decimal.Decimal    `json:"totalAmount"`
	TaxAmount      decimal.Decimal    `json:"taxAmount"`
	Discount       decimal.Decimal    `json:"discount"`
	PaymentMethod  string             `json:"paymentMethod"`
	Status         string             `json:"status"`
	Channel        string             `json:"channel"`
	Notes          string             `json:"notes"`
	CurrencyCode   string             `json:"currencyCode"`
	CurrencySymbol string             `json:"currencySymbol"`
	CreatedAt      time.Time          `json:"createdAt"`
	Items          []SaleItemResponse `json:"items"`
	Invoice        *InvoiceResponse   `json:"invoice,omitempty"`
}
