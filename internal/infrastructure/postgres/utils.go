package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// where acumula predicados opcionales y sus argumentos posicionales ($1, $2, ...).
type where struct {
	preds []string
	args  []any
}

// add agrega el predicado con un único placeholder "?" reemplazado por su posición.
func (w *where) add(pred string, arg any) {
	w.args = append(w.args, arg)
	w.preds = append(w.preds, strings.Replace(pred, "?", fmt.Sprintf("$%d", len(w.args)), 1))
}

func (w *where) String() string {
	if len(w.preds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.preds, " AND ")
}
