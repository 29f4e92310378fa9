package statements

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/period"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// BalanceSheet genera el balance general estimado a la fecha de corte q.AsOf
// (por defecto ahora; una fecha sin hora incluye el día completo).
func (uc *StatementsUseCase) BalanceSheet(ctx context.Context, ownerID string, q dto.StatementQuery) (*dto.BalanceSheetDTO, error) {
	ctx, span := tracer.Start(ctx, "statements.BalanceSheet")
	defer span.End()
	defer uc.observe("balance_sheet", time.Now())

	asOf, err := uc.cutoff(q.AsOf)
	if err != nil {
		return nil, err
	}

	var (
		f           *facts
		receivables []*entity.Invoice
		products    []*entity.Product
		payables    []repository.ExpenseFact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		f, err = uc.loadFacts(gctx, ownerID, nil, &asOf, true)
		return err
	})
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListInvoices(gctx, repository.InvoiceFilter{
			OwnerID: ownerID, CreatedBefore: &asOf, IsPaid: repository.Ptr(false),
		})
		if err != nil {
			return fmt.Errorf("statements: cuentas por cobrar: %w", err)
		}
		receivables = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListProducts(gctx, repository.ProductFilter{OwnerID: ownerID})
		if err != nil {
			return fmt.Errorf("statements: productos: %w", err)
		}
		products = rows
		return nil
	})
	g.Go(func() error {
		rows, err := uc.analyticsRepo.ListExpenses(gctx, repository.ExpenseFilter{
			OwnerID: ownerID, To: &asOf, Status: repository.Ptr(entity.ExpenseStatusPending),
		})
		if err != nil {
			return fmt.Errorf("statements: cuentas por pagar: %w", err)
		}
		payables = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	// ── Activos ────────────────────────────────────────────────────────────────
	cash := f.operatingCash().NetOperating
	ar := decimal.Zero
	for _, inv := range receivables {
		ar = ar.Add(inv.Outstanding())
	}
	inventory := decimal.Zero
	for _, p := range products {
		inventory = inventory.Add(p.CostOrZero().Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	currentAssets := cash.Add(ar).Add(inventory)
	totalAssets := currentAssets // sin activos fijos

	// ── Pasivos ────────────────────────────────────────────────────────────────
	ap := decimal.Zero
	for _, e := range payables {
		if e.Status == entity.ExpenseStatusPending {
			ap = ap.Add(e.Amount)
		}
	}
	totalLiabilities := ap // sin deuda de largo plazo

	// ── Patrimonio ─────────────────────────────────────────────────────────────
	retained := buildProfitLoss(period.FinancialPeriod{}, f).NetIncome
	equity := totalAssets.Sub(totalLiabilities)

	return &dto.BalanceSheetDTO{
		AsOf: asOf,
		Assets: dto.AssetsDTO{
			Cash:               cash.Round(2),
			AccountsReceivable: ar.Round(2),
			Inventory:          inventory.Round(2),
			TotalCurrent:       currentAssets.Round(2),
			FixedAssets:        decimal.Zero,
			Total:              totalAssets.Round(2),
		},
		Liabilities: dto.LiabilitiesDTO{
			AccountsPayable: ap.Round(2),
			TotalCurrent:    ap.Round(2),
			LongTerm:        decimal.Zero,
			Total:           totalLiabilities.Round(2),
		},
		Equity: dto.EquityDTO{
			RetainedEarnings: retained,
			OwnersEquity:     equity.Sub(retained).Round(2),
			Total:            equity.Round(2),
		},
		Ratios: dto.BalanceRatiosDTO{
			CurrentRatio:   ratio(currentAssets, ap),
			DebtToEquity:   ratio(totalLiabilities, equity),
			WorkingCapital: currentAssets.Sub(ap).Round(2),
		},
	}, nil
}

// cutoff convierte asOf en un instante exclusivo. Vacío usa ahora.
func (uc *StatementsUseCase) cutoff(raw string) (time.Time, error) {
	now := uc.now()
	if strings.TrimSpace(raw) == "" {
		return now, nil
	}
	t, dateOnly, err := period.ParseDate(raw, now.Location())
	if err != nil {
		return time.Time{}, domain.NewValidationError("asOf", "fecha inválida %q", raw)
	}
	if dateOnly {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}
