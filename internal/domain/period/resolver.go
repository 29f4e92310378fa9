// Package period resuelve tokens de período (day, week, month, year, custom) a rangos
// de fechas concretos y construye los períodos de los estados financieros.
package period

import (
	"strings"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
)

// Token identifica un período lógico de consulta.
type Token string

const (
	Day    Token = "day"
	Week   Token = "week"
	Month  Token = "month"
	Year   Token = "year"
	Custom Token = "custom"
)

const dateLayout = "2006-01-02"

// Range es un rango semiabierto [Start, End).
// Fallback es true cuando el token recibido no se reconoció y se aplicó "month".
type Range struct {
	Token    Token
	Start    time.Time
	End      time.Time
	Fallback bool
}

// Contains indica si t cae dentro del rango.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Duration devuelve la longitud del rango.
func (r Range) Duration() time.Duration { return r.End.Sub(r.Start) }

// Resolve convierte un token más límites explícitos opcionales en un rango.
// Es una función pura de now y de sus entradas. Un token vacío equivale a "month";
// un token desconocido también, pero marca Fallback.
func Resolve(now time.Time, token, explicitStart, explicitEnd string) (Range, error) {
	t := Token(strings.ToLower(strings.TrimSpace(token)))
	switch t {
	case Day:
		start := StartOfDay(now)
		return Range{Token: Day, Start: start, End: start.AddDate(0, 0, 1)}, nil
	case Week:
		return Range{Token: Week, Start: now.AddDate(0, 0, -7), End: now}, nil
	case Month, "":
		return Range{Token: Month, Start: now.AddDate(0, -1, 0), End: now}, nil
	case Year:
		return Range{Token: Year, Start: now.AddDate(-1, 0, 0), End: now}, nil
	case Custom:
		return resolveCustom(now, explicitStart, explicitEnd)
	default:
		return Range{Token: Month, Start: now.AddDate(0, -1, 0), End: now, Fallback: true}, nil
	}
}

func resolveCustom(now time.Time, rawStart, rawEnd string) (Range, error) {
	if strings.TrimSpace(rawStart) == "" || strings.TrimSpace(rawEnd) == "" {
		return Range{}, domain.NewValidationError("period", "el período custom requiere startDate y endDate")
	}
	start, _, err := ParseDate(rawStart, now.Location())
	if err != nil {
		return Range{}, domain.NewValidationError("startDate", "fecha inválida %q", rawStart)
	}
	end, dateOnly, err := ParseDate(rawEnd, now.Location())
	if err != nil {
		return Range{}, domain.NewValidationError("endDate", "fecha inválida %q", rawEnd)
	}
	if start.After(end) {
		return Range{}, domain.NewValidationError("startDate", "startDate no puede ser posterior a endDate")
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1) // inclusive hasta el final del día
	}
	return Range{Token: Custom, Start: start, End: end}, nil
}

// ParseDate acepta "YYYY-MM-DD" (en loc) o RFC 3339. dateOnly indica el primer formato.
func ParseDate(raw string, loc *time.Location) (t time.Time, dateOnly bool, err error) {
	raw = strings.TrimSpace(raw)
	if t, err = time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, true, nil
	}
	t, err = time.Parse(time.RFC3339, raw)
	return t, false, err
}

// StartOfDay devuelve la medianoche de t en su zona horaria.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
