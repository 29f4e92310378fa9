package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"

	"github.com/jhoicas/ventas-api/internal/application/dto"
)

// sheet acumula filas "concepto<TAB>monto" alineadas con tabwriter.
type sheet struct {
	tw *tabwriter.Writer
	p  *message.Printer
}

func newSheet(w io.Writer, p *message.Printer) *sheet {
	return &sheet{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight), p: p}
}

func (s *sheet) title(text string) { fmt.Fprintf(s.tw, "%s\t\t\n", text) }
func (s *sheet) blank()            { fmt.Fprint(s.tw, "\t\t\n") }

func (s *sheet) amount(label string, v decimal.Decimal) {
	fmt.Fprintf(s.tw, "%s\t%s\t\n", label, s.p.Sprintf("%.2f", v.InexactFloat64()))
}

func (s *sheet) percent(label string, v decimal.Decimal) {
	fmt.Fprintf(s.tw, "%s\t%s\t\n", label, s.p.Sprintf("%.2f %%", v.InexactFloat64()))
}

func (s *sheet) categories(rows []dto.CategoryAmountDTO) {
	for _, r := range rows {
		s.amount("  "+r.CategoryName, r.Amount)
	}
}

func (s *sheet) flush() error { return s.tw.Flush() }

func renderProfitLoss(w io.Writer, p *message.Printer, pl *dto.ProfitLossDTO) error {
	s := newSheet(w, p)
	s.title("Estado de resultados " + pl.Period.PeriodName)
	s.amount("Ventas totales", pl.Revenue.TotalSales)
	s.amount("Descuentos", pl.Revenue.Discounts)
	s.amount("Ingresos netos", pl.Revenue.NetRevenue)
	s.categories(pl.Revenue.ByCategory)
	s.amount("Costo de ventas", pl.CostOfGoodsSold.Total)
	s.amount("Utilidad bruta", pl.GrossProfit)
	s.amount("Gastos operativos", pl.OperatingExpenses.Total)
	s.categories(pl.OperatingExpenses.ByCategory)
	s.amount("Utilidad operativa", pl.OperatingIncome)
	s.amount("Utilidad neta", pl.NetIncome)
	s.blank()
	s.percent("Margen bruto", pl.Ratios.GrossMargin)
	s.percent("Margen operativo", pl.Ratios.OperatingMargin)
	s.percent("Margen neto", pl.Ratios.NetMargin)
	if c := pl.Comparison; c != nil {
		s.blank()
		s.title("Comparación con " + c.PreviousPeriod.PeriodName)
		s.percent("Crecimiento de ingresos", c.RevenueGrowth)
		s.percent("Crecimiento utilidad bruta", c.GrossProfitGrowth)
		s.percent("Crecimiento utilidad neta", c.NetIncomeGrowth)
	}
	return s.flush()
}

func renderCashFlow(w io.Writer, p *message.Printer, cf *dto.CashFlowDTO) error {
	s := newSheet(w, p)
	s.title("Flujo de caja " + cf.Period.PeriodName)
	s.amount("Ventas de contado", cf.Operating.CashFromSales)
	s.amount("Cobros de crédito", cf.Operating.CollectedFromCredit)
	s.amount("Pagos a proveedores", cf.Operating.CashToSuppliers)
	s.amount("Pagos de gastos", cf.Operating.CashForExpenses)
	s.amount("Flujo operativo", cf.Operating.NetOperating)
	s.amount("Variación neta", cf.NetChange)
	s.amount("Caja final", cf.EndingCash)
	if len(cf.MonthlyTrend) > 0 {
		s.blank()
		s.title("Tendencia mensual")
		for _, m := range cf.MonthlyTrend {
			s.amount("  "+m.Period, m.Net)
		}
	}
	return s.flush()
}

func renderBalanceSheet(w io.Writer, p *message.Printer, bs *dto.BalanceSheetDTO) error {
	s := newSheet(w, p)
	s.title("Balance general al " + bs.AsOf.Format("02/01/2006"))
	s.amount("Caja", bs.Assets.Cash)
	s.amount("Cuentas por cobrar", bs.Assets.AccountsReceivable)
	s.amount("Inventario", bs.Assets.Inventory)
	s.amount("Total activos", bs.Assets.Total)
	s.amount("Cuentas por pagar", bs.Liabilities.AccountsPayable)
	s.amount("Total pasivos", bs.Liabilities.Total)
	s.amount("Utilidades retenidas", bs.Equity.RetainedEarnings)
	s.amount("Capital del propietario", bs.Equity.OwnersEquity)
	s.amount("Total patrimonio", bs.Equity.Total)
	s.blank()
	s.amount("Razón corriente", bs.Ratios.CurrentRatio)
	s.amount("Deuda / patrimonio", bs.Ratios.DebtToEquity)
	s.amount("Capital de trabajo", bs.Ratios.WorkingCapital)
	return s.flush()
}
