package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementQuery parámetros de GET /api/statements/*.
type StatementQuery struct {
	PeriodType string `query:"periodType"` // MONTHLY|QUARTERLY|YEARLY|CUSTOM
	Year       int    `query:"year"`
	Month      int    `query:"month"`
	Quarter    int    `query:"quarter"`
	StartDate  string `query:"startDate"`
	EndDate    string `query:"endDate"`
	AsOf       string `query:"asOf"` // solo balance general; por defecto ahora
}

// FinancialPeriodDTO período del estado financiero (fin exclusivo).
type FinancialPeriodDTO struct {
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	PeriodName string    `json:"periodName"`
	PeriodType string    `json:"periodType"`
}

// CategoryAmountDTO monto de una categoría y su participación porcentual.
type CategoryAmountDTO struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   decimal.Decimal `json:"percentage"`
}

// ── Estado de resultados ─────────────────────────────────────────────────────

// RevenueSectionDTO ingresos del período.
type RevenueSectionDTO struct {
	TotalSales decimal.Decimal     `json:"totalSales"`
	SalesTax   decimal.Decimal     `json:"salesTax"`
	Discounts  decimal.Decimal     `json:"discounts"`
	NetRevenue decimal.Decimal     `json:"netRevenue"`
	SalesCount int                 `json:"salesCount"`
	ByCategory []CategoryAmountDTO `json:"byCategory"`
}

// AmountSectionDTO total con desglose por categoría (COGS, gastos).
type AmountSectionDTO struct {
	Total      decimal.Decimal     `json:"total"`
	ByCategory []CategoryAmountDTO `json:"byCategory"`
}

// MarginRatiosDTO márgenes en porcentaje sobre ingresos netos.
type MarginRatiosDTO struct {
	GrossMargin     decimal.Decimal `json:"grossMargin"`
	OperatingMargin decimal.Decimal `json:"operatingMargin"`
	NetMargin       decimal.Decimal `json:"netMargin"`
}

// ComparisonDTO crecimiento porcentual contra el período anterior.
type ComparisonDTO struct {
	PreviousPeriod    FinancialPeriodDTO `json:"previousPeriod"`
	PreviousRevenue   decimal.Decimal    `json:"previousRevenue"`
	PreviousNetIncome decimal.Decimal    `json:"previousNetIncome"`
	RevenueGrowth     decimal.Decimal    `json:"revenueGrowth"`
	GrossProfitGrowth decimal.Decimal    `json:"grossProfitGrowth"`
	NetIncomeGrowth   decimal.Decimal    `json:"netIncomeGrowth"`
}

// ProfitLossDTO estado de resultados.
type ProfitLossDTO struct {
	Period            FinancialPeriodDTO `json:"period"`
	Revenue           RevenueSectionDTO  `json:"revenue"`
	CostOfGoodsSold   AmountSectionDTO   `json:"costOfGoodsSold"`
	GrossProfit       decimal.Decimal    `json:"grossProfit"`
	OperatingExpenses AmountSectionDTO   `json:"operatingExpenses"`
	OperatingIncome   decimal.Decimal    `json:"operatingIncome"`
	OtherIncome       decimal.Decimal    `json:"otherIncome"`
	OtherExpenses     decimal.Decimal    `json:"otherExpenses"`
	NetIncome         decimal.Decimal    `json:"netIncome"`
	Ratios            MarginRatiosDTO    `json:"ratios"`
	Comparison        *ComparisonDTO     `json:"comparison,omitempty"`
}

// ── Flujo de caja ─────────────────────────────────────────────────────────────

// OperatingCashDTO actividades de operación (cifras estimadas).
type OperatingCashDTO struct {
	CashFromSales       decimal.Decimal `json:"cashFromSales"`       // ventas no a crédito
	CollectedFromCredit decimal.Decimal `json:"collectedFromCredit"` // pagos de facturas recibidos
	CashToSuppliers     decimal.Decimal `json:"cashToSuppliers"`     // 80% del COGS
	CashForExpenses     decimal.Decimal `json:"cashForExpenses"`     // gastos aprobados
	NetOperating        decimal.Decimal `json:"netOperating"`
}

// CashTrendDTO entradas y salidas estimadas de un mes.
type CashTrendDTO struct {
	Period  string          `json:"period"`
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlowDTO estado de flujo de caja.
type CashFlowDTO struct {
	Period        FinancialPeriodDTO `json:"period"`
	Operating     OperatingCashDTO   `json:"operating"`
	NetInvesting  decimal.Decimal    `json:"netInvesting"`
	NetFinancing  decimal.Decimal    `json:"netFinancing"`
	NetChange     decimal.Decimal    `json:"netChange"`
	BeginningCash decimal.Decimal    `json:"beginningCash"`
	EndingCash    decimal.Decimal    `json:"endingCash"`
	MonthlyTrend  []CashTrendDTO     `json:"monthlyTrend"`
}

// ── Balance general ───────────────────────────────────────────────────────────

// AssetsDTO activos estimados.
type AssetsDTO struct {
	Cash               decimal.Decimal `json:"cash"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
	Inventory          decimal.Decimal `json:"inventory"`
	TotalCurrent       decimal.Decimal `json:"totalCurrent"`
	FixedAssets        decimal.Decimal `json:"fixedAssets"`
	Total              decimal.Decimal `json:"total"`
}

// LiabilitiesDTO pasivos estimados.
type LiabilitiesDTO struct {
	AccountsPayable decimal.Decimal `json:"accountsPayable"` // gastos PENDING
	TotalCurrent    decimal.Decimal `json:"totalCurrent"`
	LongTerm        decimal.Decimal `json:"longTerm"`
	Total           decimal.Decimal `json:"total"`
}

// EquityDTO patrimonio.
type EquityDTO struct {
	RetainedEarnings decimal.Decimal `json:"retainedEarnings"`
	OwnersEquity     decimal.Decimal `json:"ownersEquity"`
	Total            decimal.Decimal `json:"total"`
}

// BalanceRatiosDTO indicadores de liquidez y endeudamiento.
type BalanceRatiosDTO struct {
	CurrentRatio   decimal.Decimal `json:"currentRatio"`
	DebtToEquity   decimal.Decimal `json:"debtToEquity"`
	WorkingCapital decimal.Decimal `json:"workingCapital"`
}

// BalanceSheetDTO balance general a una fecha de corte.
type BalanceSheetDTO struct {
	AsOf        time.Time        `json:"asOf"`
	Assets      AssetsDTO        `json:"assets"`
	Liabilities LiabilitiesDTO   `json:"liabilities"`
	Equity      EquityDTO        `json:"equity"`
	Ratios      BalanceRatiosDTO `json:"ratios"`
}
