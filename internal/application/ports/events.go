package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SaleCreatedItem cantidad vendida de un producto.
type SaleCreatedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// SaleCreatedEvent se publica después del commit de una venta.
type SaleCreatedEvent struct {
	EventID       string            `json:"eventId"`
	SaleID        string            `json:"saleId"`
	OwnerID       string            `json:"ownerId"`
	CustomerID    string            `json:"customerId,omitempty"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        string            `json:"status"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	InvoiceNumber string            `json:"invoiceNumber,omitempty"`
	Items         []SaleCreatedItem `json:"items"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

// SaleEventPublisher publica eventos de ventas hacia otros sistemas.
type SaleEventPublisher interface {
	PublishSaleCreated(ctx context.Context, event SaleCreatedEvent) error
}
