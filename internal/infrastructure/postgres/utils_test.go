package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

func TestWhere_NumeraPlaceholders(t *testing.T) {
	w := &where{}
	assert.Equal(t, "", w.String())

	w.add("owner_id = ?", "owner-a")
	w.add("stock <= ?", 10)

	assert.Equal(t, "WHERE owner_id = $1 AND stock <= $2", w.String())
	assert.Equal(t, []any{"owner-a", 10}, w.args)
}

func TestSaleWhere_SoloPredicadosPresentes(t *testing.T) {
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	w := saleWhere(repository.SaleFilter{
		OwnerID:       "owner-a",
		From:          &from,
		PaymentMethod: repository.Ptr("CREDIT"),
	})

	assert.Equal(t, "WHERE s.owner_id = $1 AND s.created_at >= $2 AND s.payment_method = $3", w.String())
	assert.Len(t, w.args, 3)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestMigrationsEmbebidas(t *testing.T) {
	script, err := migrationsFS.ReadFile("migrations/001_schema.sql")
	assert.NoError(t, err)
	assert.Contains(t, string(script), "uq_invoices_owner_number")
	assert.Contains(t, string(script), "CHECK (stock >= 0)")
}
