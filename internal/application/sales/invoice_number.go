package sales

import (
	"fmt"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// FormatInvoiceNumber arma el consecutivo INV-YYYYMMDD-NNN para el día (UTC) de day.
// seq empieza en 1 para la primera factura del día.
func FormatInvoiceNumber(day time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%03d", entity.InvoiceNumberPrefix, day.UTC().Format("20060102"), seq)
}
