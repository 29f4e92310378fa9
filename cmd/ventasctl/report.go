package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/statements"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
)

var reportCmd = &cobra.Command{
	Use:       "report pl|cashflow|balance",
	Short:     "Genera un estado financiero del propietario",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"pl", "cashflow", "balance"},
	Example: `  # Estado de resultados de octubre de 2026
  ventasctl report pl --owner 6f1c... --period-type MONTHLY --year 2026 --month 10

  # Balance general al cierre del trimestre, en JSON
  ventasctl report balance --owner 6f1c... --as-of 2026-09-30 --json`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	f := reportCmd.Flags()
	f.String("owner", "", "Propietario (tenant) del reporte")
	f.String("period-type", "MONTHLY", "MONTHLY|QUARTERLY|YEARLY|CUSTOM")
	f.Int("year", 0, "Año del período (default: año actual)")
	f.Int("month", 0, "Mes 1-12 para MONTHLY")
	f.Int("quarter", 0, "Trimestre 1-4 para QUARTERLY")
	f.String("start", "", "Inicio YYYY-MM-DD para CUSTOM")
	f.String("end", "", "Fin YYYY-MM-DD para CUSTOM")
	f.String("as-of", "", "Fecha de corte del balance (YYYY-MM-DD)")
	f.Bool("json", false, "Imprime el resultado en JSON")
	_ = reportCmd.MarkFlagRequired("owner")
}

func statementQuery(cmd *cobra.Command) dto.StatementQuery {
	f := cmd.Flags()
	var q dto.StatementQuery
	q.PeriodType, _ = f.GetString("period-type")
	q.Year, _ = f.GetInt("year")
	q.Month, _ = f.GetInt("month")
	q.Quarter, _ = f.GetInt("quarter")
	q.StartDate, _ = f.GetString("start")
	q.EndDate, _ = f.GetString("end")
	q.AsOf, _ = f.GetString("as-of")
	return q
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	owner, _ := cmd.Flags().GetString("owner")
	asJSON, _ := cmd.Flags().GetBool("json")
	q := statementQuery(cmd)

	pool, err := postgres.NewPool(ctx, app.cfg.DB, app.log.Component("postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()
	uc := statements.NewStatementsUseCase(postgres.NewAnalyticsRepository(pool), nil, app.log.Component("statements"))

	var out any
	switch args[0] {
	case "pl":
		out, err = uc.ProfitLoss(ctx, owner, q)
	case "cashflow":
		out, err = uc.CashFlow(ctx, owner, q)
	case "balance":
		out, err = uc.BalanceSheet(ctx, owner, q)
	}
	if err != nil {
		return fmt.Errorf("report %s: %w", args[0], err)
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	p := message.NewPrinter(language.Spanish)
	switch v := out.(type) {
	case *dto.ProfitLossDTO:
		return renderProfitLoss(w, p, v)
	case *dto.CashFlowDTO:
		return renderCashFlow(w, p, v)
	case *dto.BalanceSheetDTO:
		return renderBalanceSheet(w, p, v)
	}
	return nil
}
