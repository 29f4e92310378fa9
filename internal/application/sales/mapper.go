package sales

import (
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem, inv *entity.Invoice) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		CustomerID:     s.CustomerID,
		TotalAmount:    s.TotalAmount,
		TaxAmount:      s.TaxAmount,
		Discount:       s.Discount,
		PaymentMethod:  s.PaymentMethod,
		Status:         s.Status,
		Channel:        s.Channel,
		Notes:          s.Notes,
		CurrencyCode:   s.CurrencyCode,
		CurrencySymbol: s.CurrencySymbol,
		CreatedAt:      s.CreatedAt,
		Items:          make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Discount:  it.Discount,
			Tax:       it.Tax,
			Cost:      it.Cost,
		})
	}
	if inv != nil {
		resp.Invoice = &dto.InvoiceResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.InvoiceNumber,
			AmountDue:     inv.AmountDue,
			DueDate:       inv.DueDate,
			Status:        inv.Status,
			IsPaid:        inv.IsPaid,
			PaidAmount:    inv.PaidAmount,
			PaidAt:        inv.PaidAt,
		}
	}
	return resp
}

func toEvent(s *entity.Sale, items []*entity.SaleItem, inv *entity.Invoice) ports.SaleCreatedEvent {
	ev := ports.SaleCreatedEvent{
		SaleID:        s.ID,
		OwnerID:       s.OwnerID,
		CustomerID:    s.CustomerID,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		TotalAmount:   s.TotalAmount,
		OccurredAt:    s.CreatedAt,
		Items:         make([]ports.SaleCreatedItem, 0, len(items)),
	}
	for _, it := range items {
		ev.Items = append(ev.Items, ports.SaleCreatedItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if inv != nil {
		ev.InvoiceNumber = inv.InvoiceNumber
	}
	return ev
}
