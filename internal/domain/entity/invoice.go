package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

// Estados de una factura.
const (
	InvoiceStatusPending = "PENDING" // Inicial; única en la que se puede editar
	InvoiceStatusPaid    = "PAID"    // Pagada; no se edita ni se elimina, sí se puede anular
	InvoiceStatusVoid    = "VOID"    // Anulada; terminal
)

// TaxRate IVA aplicado sobre el subtotal (19%). No es configurable.
var TaxRate = decimal.RequireFromString("0.19")

// invoiceNumberLayout FAC-YYYYMMDDHHMMSS en UTC.
const invoiceNumberLayout = "20060102150405"

// Invoice representa la cabecera de una factura con sus líneas.
// Subtotal, Tax y Total son derivados: solo CalculateTotals los escribe.
type Invoice struct {
	ID           string
	Number       string
	CustomerID   string
	CustomerName string // resuelto al cargar, no se persiste
	Date         time.Time
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
	Status       string
	Lines        []*InvoiceLine
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewInvoice crea una factura PENDING sin líneas, fechada en now (UTC).
func NewInvoice(id, customerID string, now time.Time) *Invoice {
	now = now.UTC()
	return &Invoice{
		ID:         id,
		Number:     GenerateInvoiceNumber(now),
		CustomerID: customerID,
		Date:       now,
		Subtotal:   decimal.Zero,
		Tax:        decimal.Zero,
		Total:      decimal.Zero,
		Status:     InvoiceStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// GenerateInvoiceNumber número de factura a partir del instante de creación: FAC-YYYYMMDDHHMMSS.
func GenerateInvoiceNumber(now time.Time) string {
	return "FAC-" + now.UTC().Format(invoiceNumberLayout)
}

// ParseInvoiceStatus normaliza un estado recibido del exterior.
func ParseInvoiceStatus(s string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(s))
	switch status {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusVoid:
		return status, nil
	}
	return "", domain.Validation("invalid invoice status '%s': expected PENDING, PAID or VOID", s)
}

// CalculateTotals recalcula subtotal, IVA (redondeado a 2 decimales) y total desde las líneas.
// Debe llamarse tras cualquier cambio en Lines y antes de persistir.
func (i *Invoice) CalculateTotals() {
	subtotal := decimal.Zero
	for _, l := range i.Lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	i.Subtotal = subtotal
	i.Tax = subtotal.Mul(TaxRate).Round(2)
	i.Total = i.Subtotal.Add(i.Tax)
}

// AddLine agrega una línea. Un producto aparece a lo sumo una vez por factura.
func (i *Invoice) AddLine(line *InvoiceLine) error {
	if line.Quantity <= 0 {
		return domain.Validation("line quantity must be greater than zero, got %d", line.Quantity)
	}
	for _, l := range i.Lines {
		if l.ProductID == line.ProductID {
			return domain.Validation("product %s appears more than once in the invoice", line.ProductID)
		}
	}
	line.InvoiceID = i.ID
	i.Lines = append(i.Lines, line)
	return nil
}

// ClearLines quita todas las líneas y las devuelve para que el caller las elimine del store.
func (i *Invoice) ClearLines() []*InvoiceLine {
	removed := i.Lines
	i.Lines = nil
	return removed
}

// CanEdit solo las facturas PENDING admiten cambios de cliente o líneas.
func (i *Invoice) CanEdit() bool { return i.Status == InvoiceStatusPending }

// EnsureEditable devuelve InvalidState si la factura no es editable.
func (i *Invoice) EnsureEditable() error {
	if !i.CanEdit() {
		return domain.InvalidState("only PENDING invoices can be edited, current status: %s", i.Status)
	}
	return nil
}

// MarkAsPaid PENDING → PAID. Repetirlo sobre una PAID no cambia nada; sobre una VOID falla.
func (i *Invoice) MarkAsPaid() error {
	if i.Status == InvoiceStatusVoid {
		return domain.InvalidState("cannot pay a voided invoice")
	}
	i.Status = InvoiceStatusPaid
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// Void PENDING → VOID o PAID → VOID. El caller debe devolver el stock de cada línea.
// Anular dos veces falla para no restaurar el stock dos veces.
func (i *Invoice) Void() error {
	if i.Status == InvoiceStatusVoid {
		return domain.InvalidState("invoice is already void")
	}
	i.Status = InvoiceStatusVoid
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// Reopen solo acepta PENDING → PENDING; no hay camino de regreso desde PAID o VOID.
func (i *Invoice) Reopen() error {
	if i.Status != InvoiceStatusPending {
		return domain.InvalidState("cannot move a %s invoice back to PENDING", i.Status)
	}
	i.UpdatedAt = time.Now().UTC()
	return nil
}

// EnsureDeletable una factura pagada no se elimina.
func (i *Invoice) EnsureDeletable() error {
	if i.Status == InvoiceStatusPaid {
		return domain.InvalidState("cannot delete a paid invoice")
	}
	return nil
}

// HoldsStock indica si las líneas tienen stock reservado (todo estado excepto VOID).
func (i *Invoice) HoldsStock() bool { return i.Status != InvoiceStatusVoid }
