package entity

import "github.com/shopspring/decimal"

// InvoiceLine representa una línea de detalle de una factura.
// UnitPrice es el precio del producto al momento de crear la línea, no el precio vigente.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	ProductID   string
	ProductCode string // resuelto al cargar
	ProductName string // resuelto al cargar
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewInvoiceLine crea una línea tomando el precio actual del producto como snapshot.
func NewInvoiceLine(id string, product *Product, quantity int) *InvoiceLine {
	return &InvoiceLine{
		ID:          id,
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
	}
}

// Subtotal Quantity × UnitPrice.
func (l *InvoiceLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
