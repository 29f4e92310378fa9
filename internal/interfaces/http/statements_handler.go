package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
)

// StatementsService estados financieros por propietario.
type StatementsService interface {
	ProfitLoss(ctx context.Context, ownerID string, q dto.StatementQuery) (*dto.ProfitLossDTO, error)
	CashFlow(ctx context.Context, ownerID string, q dto.StatementQuery) (*dto.CashFlowDTO, error)
	BalanceSheet(ctx context.Context, ownerID string, q dto.StatementQuery) (*dto.BalanceSheetDTO, error)
}

// StatementsHandler maneja /api/statements/*.
type StatementsHandler struct {
	uc StatementsService
}

// NewStatementsHandler construye el handler.
func NewStatementsHandler(uc StatementsService) *StatementsHandler {
	return &StatementsHandler{uc: uc}
}

func statement[T any](fn func(context.Context, string, dto.StatementQuery) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerID := GetOwnerID(c)
		if ownerID == "" {
			return unauthorized(c, "owner_id no encontrado en el token")
		}
		var q dto.StatementQuery
		if err := c.QueryParser(&q); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARAMS", Message: "parámetros de consulta inválidos"})
		}
		out, err := fn(c.UserContext(), ownerID, q)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
}

// ProfitLoss GET /api/statements/profit-loss?periodType=MONTHLY&year=2026&month=10
func (h *StatementsHandler) ProfitLoss() fiber.Handler { return statement(h.uc.ProfitLoss) }

// CashFlow GET /api/statements/cash-flow
func (h *StatementsHandler) CashFlow() fiber.Handler { return statement(h.uc.CashFlow) }

// BalanceSheet GET /api/statements/balance-sheet?asOf=2026-10-14
func (h *StatementsHandler) BalanceSheet() fiber.Handler { return statement(h.uc.BalanceSheet) }
