package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
)

// SaleService operaciones de ventas que expone el handler.
type SaleService interface {
	CreateSale(ctx context.Context, ownerID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, ownerID, saleID string) (*dto.SaleResponse, error)
}

// SalesHandler maneja las peticiones HTTP de ventas (protegido).
type SalesHandler struct {
	uc SaleService
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc SaleService) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// Create POST /api/sales
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	ownerID := GetOwnerID(c)
	if ownerID == "" {
		return unauthorized(c, "owner_id no encontrado en el token")
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.CreateSale(c.UserContext(), ownerID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID GET /api/sales/:id
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	ownerID := GetOwnerID(c)
	if ownerID == "" {
		return unauthorized(c, "owner_id no encontrado en el token")
	}
	sale, err := h.uc.GetSale(c.UserContext(), ownerID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(sale)
}
