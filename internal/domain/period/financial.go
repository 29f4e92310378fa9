package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
)

// Type es el tipo de un período financiero.
type Type string

const (
	TypeMonthly   Type = "MONTHLY"
	TypeQuarterly Type = "QUARTERLY"
	TypeYearly    Type = "YEARLY"
	TypeCustom    Type = "CUSTOM"
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName devuelve el nombre en español del mes, ej: "Octubre".
func MonthName(m time.Month) string { return monthNames[m-1] }

// MonthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", MonthName(t.Month()), t.Year())
}

// FinancialPeriod es el período de un estado financiero (objeto valor, nunca se persiste).
// El rango es semiabierto [StartDate, EndDate).
type FinancialPeriod struct {
	StartDate  time.Time
	EndDate    time.Time
	PeriodName string
	PeriodType Type
}

// Range expone el período como un Range para los filtros de consulta.
func (p FinancialPeriod) Range() Range {
	return Range{Token: Custom, Start: p.StartDate, End: p.EndDate}
}

// Previous devuelve el período inmediatamente anterior de igual duración:
// termina donde empieza p y dura lo mismo.
func (p FinancialPeriod) Previous() FinancialPeriod {
	d := p.EndDate.Sub(p.StartDate)
	start := p.StartDate.Add(-d)
	return FinancialPeriod{
		StartDate:  start,
		EndDate:    p.StartDate,
		PeriodName: customName(start, p.StartDate),
		PeriodType: p.PeriodType,
	}
}

// FinancialRequest son los parámetros para construir un FinancialPeriod.
// Year/Month/Quarter en cero toman el valor actual.
type FinancialRequest struct {
	Type      string
	Year      int
	Month     int
	Quarter   int
	StartDate string
	EndDate   string
}

// NewFinancial construye el período solicitado con respecto a now.
// Tipo vacío equivale a MONTHLY.
func NewFinancial(now time.Time, req FinancialRequest) (FinancialPeriod, error) {
	loc := now.Location()
	year := req.Year
	if year == 0 {
		year = now.Year()
	}
	switch Type(strings.ToUpper(strings.TrimSpace(req.Type))) {
	case TypeMonthly, "":
		month := req.Month
		if month == 0 {
			month = int(now.Month())
		}
		if month < 1 || month > 12 {
			return FinancialPeriod{}, domain.NewValidationError("month", "mes fuera de rango: %d", month)
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		return FinancialPeriod{StartDate: start, EndDate: start.AddDate(0, 1, 0), PeriodName: MonthLabel(start), PeriodType: TypeMonthly}, nil
	case TypeQuarterly:
		q := req.Quarter
		if q == 0 {
			q = (int(now.Month())-1)/3 + 1
		}
		if q < 1 || q > 4 {
			return FinancialPeriod{}, domain.NewValidationError("quarter", "trimestre fuera de rango: %d", q)
		}
		start := time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, loc)
		return FinancialPeriod{StartDate: start, EndDate: start.AddDate(0, 3, 0), PeriodName: fmt.Sprintf("T%d %d", q, year), PeriodType: TypeQuarterly}, nil
	case TypeYearly:
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		return FinancialPeriod{StartDate: start, EndDate: start.AddDate(1, 0, 0), PeriodName: fmt.Sprintf("%d", year), PeriodType: TypeYearly}, nil
	case TypeCustom:
		r, err := resolveCustom(now, req.StartDate, req.EndDate)
		if err != nil {
			return FinancialPeriod{}, err
		}
		return FinancialPeriod{StartDate: r.Start, EndDate: r.End, PeriodName: customName(r.Start, r.End), PeriodType: TypeCustom}, nil
	default:
		return FinancialPeriod{}, domain.NewValidationError("periodType", "tipo de período desconocido %q", req.Type)
	}
}

// customName etiqueta un rango semiabierto con su último día inclusive: "01/10/2026 - 14/10/2026".
func customName(start, end time.Time) string {
	last := end.Add(-time.Nanosecond)
	return fmt.Sprintf("%s - %s", start.Format("02/01/2006"), last.Format("02/01/2006"))
}
