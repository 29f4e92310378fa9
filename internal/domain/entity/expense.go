package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un gasto. Solo los aprobados entran en los estados financieros.
const (
	ExpenseStatusPending  = "PENDING"
	ExpenseStatusApproved = "APPROVED"
	ExpenseStatusRejected = "REJECTED"
)

// Expense representa un gasto operativo del propietario.
type Expense struct {
	ID          string
	OwnerID     string
	CategoryID  string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
	Status      string
	CreatedAt   time.Time
}
