// Package timeseries agrupa hechos con fecha (ventas, líneas, gastos) en buckets por período
// o por una dimensión discreta (canal, método de pago, cliente, producto).
package timeseries

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/period"
)

// Granularity es la unidad de agrupación temporal.
type Granularity string

const (
	Daily   Granularity = "day"
	Weekly  Granularity = "week"
	Monthly Granularity = "month"
	Yearly  Granularity = "year"
)

// ParseGranularity valida una granularidad; vacío devuelve ("", nil) para que el
// llamador aplique DefaultGranularity.
func ParseGranularity(raw string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case "", Daily, Weekly, Monthly, Yearly:
		return g, nil
	}
	return "", domain.NewValidationError("granularity", "granularidad desconocida %q", raw)
}

// DefaultGranularity elige la granularidad para un rango resuelto:
// día para day/week/month, mes para year, y para custom día si abarca hasta 31 días.
func DefaultGranularity(r period.Range) Granularity {
	switch r.Token {
	case period.Year:
		return Monthly
	case period.Custom:
		if r.Duration() > 31*24*time.Hour {
			return Monthly
		}
	}
	return Daily
}

// Floor devuelve el inicio del período que contiene t. La semana empieza en domingo.
func (g Granularity) Floor(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Weekly:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// Advance mueve t n períodos hacia adelante (n negativo retrocede).
func (g Granularity) Advance(t time.Time, n int) time.Time {
	switch g {
	case Weekly:
		return t.AddDate(0, 0, 7*n)
	case Monthly:
		return t.AddDate(0, n, 0)
	case Yearly:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, 0, n)
	}
}

// Key formatea la clave del período de t:
// day YYYY-MM-DD, week fecha del domingo que inicia la semana, month YYYY-MM, year YYYY.
func (g Granularity) Key(t time.Time) string {
	switch g {
	case Weekly:
		return g.Floor(t).Format("2006-01-02")
	case Monthly:
		return t.Format("2006-01")
	case Yearly:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}

// ── Agregación temporal ──────────────────────────────────────────────────────

// Fact es un hecho numérico con fecha.
type Fact struct {
	Timestamp time.Time
	Value     decimal.Decimal
}

// Bucket es la suma de los hechos de un período.
type Bucket struct {
	Key   string
	Start time.Time
	Total decimal.Decimal
	Count int
}

// Series es una secuencia de buckets.
type Series []Bucket

// Aggregate suma los hechos por período. Las claves aparecen en el orden en que se
// vieron por primera vez en la entrada, no necesariamente cronológico.
func Aggregate(facts []Fact, g Granularity) Series {
	index := make(map[string]int)
	out := make(Series, 0)
	for _, f := range facts {
		key := g.Key(f.Timestamp)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Bucket{Key: key, Start: g.Floor(f.Timestamp), Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(f.Value)
		out[i].Count++
	}
	return out
}

// Sorted devuelve una copia ordenada cronológicamente por clave.
func (s Series) Sorted() Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Filled devuelve la serie ordenada con los períodos vacíos intermedios en cero.
func (s Series) Filled(g Granularity) Series {
	sorted := s.Sorted()
	if len(sorted) < 2 {
		return sorted
	}
	out := make(Series, 0, len(sorted))
	next := sorted[0].Start
	for _, b := range sorted {
		for next.Before(b.Start) {
			out = append(out, Bucket{Key: g.Key(next), Start: next, Total: decimal.Zero})
			next = g.Advance(next, 1)
		}
		out = append(out, b)
		next = g.Advance(b.Start, 1)
	}
	return out
}

// FilledRange devuelve la serie ordenada cubriendo todos los períodos entre from y to
// (semiabierto), con los períodos sin hechos en cero. Los buckets fuera del rango se conservan.
func (s Series) FilledRange(g Granularity, from, to time.Time) Series {
	sorted := s.Sorted()
	if !from.Before(to) {
		return sorted.Filled(g)
	}
	first, last := g.Floor(from), g.Floor(to.Add(-time.Nanosecond))
	if len(sorted) > 0 {
		if b := sorted[0].Start; b.Before(first) {
			first = b
		}
		if b := sorted[len(sorted)-1].Start; b.After(last) {
			last = b
		}
	}
	byKey := make(map[string]Bucket, len(sorted))
	for _, b := range sorted {
		byKey[b.Key] = b
	}
	out := make(Series, 0, len(sorted))
	for next := first; !next.After(last); next = g.Advance(next, 1) {
		key := g.Key(next)
		if b, ok := byKey[key]; ok {
			out = append(out, b)
			continue
		}
		out = append(out, Bucket{Key: key, Start: next, Total: decimal.Zero})
	}
	return out
}

// Values devuelve los totales como float64, en el orden de la serie.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Total.InexactFloat64()
	}
	return out
}

// ── Agrupación por dimensión ─────────────────────────────────────────────────

// KeyedFact es un hecho asociado a una clave discreta. Label es un nombre legible opcional.
type KeyedFact struct {
	Key      string
	Label    string
	Value    decimal.Decimal
	Quantity int64
}

// Group acumula suma, cantidad y número de hechos de una clave.
type Group struct {
	Key      string
	Label    string
	Sum      decimal.Decimal
	Quantity int64
	Count    int
}

// GroupBy agrupa por clave conservando el orden de primera aparición.
// La etiqueta del grupo es la primera no vacía encontrada.
func GroupBy(facts []KeyedFact) []Group {
	index := make(map[string]int)
	out := make([]Group, 0)
	for _, f := range facts {
		i, ok := index[f.Key]
		if !ok {
			i = len(out)
			index[f.Key] = i
			out = append(out, Group{Key: f.Key, Sum: decimal.Zero})
		}
		g := &out[i]
		if g.Label == "" {
			g.Label = f.Label
		}
		g.Sum = g.Sum.Add(f.Value)
		g.Quantity += f.Quantity
		g.Count++
	}
	return out
}

// Metric selecciona el criterio de ordenamiento de TopN.
type Metric int

const (
	BySum Metric = iota
	ByQuantity
	ByCount
)

// TopN ordena descendente por la métrica y trunca a limit (limit <= 0 no trunca).
// Los empates conservan el orden de primera aparición.
func TopN(groups []Group, m Metric, limit int) []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	sort.SliceStable(out, func(i, j int) bool {
		switch m {
		case ByQuantity:
			return out[i].Quantity > out[j].Quantity
		case ByCount:
			return out[i].Count > out[j].Count
		default:
			return out[i].Sum.GreaterThan(out[j].Sum)
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
