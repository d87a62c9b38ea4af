package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCustomerRequest body para POST /api/customers.
// BirthDate en formato YYYY-MM-DD.
type CreateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	BirthDate string `json:"birth_date"`
	Age       int    `json:"age"`
	Address   string `json:"address,omitempty"`
	Active    bool   `json:"active"`
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	CustomerID string               `json:"customer_id"`
	Lines      []InvoiceLineRequest `json:"lines"`
}

// InvoiceLineRequest línea solicitada: producto y cantidad. El precio se toma del producto.
type InvoiceLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id.
// Las líneas reemplazan por completo a las actuales.
type UpdateInvoiceRequest struct {
	CustomerID string                     `json:"customer_id"`
	Lines      []UpdateInvoiceLineRequest `json:"lines"`
}

// UpdateInvoiceLineRequest línea de edición. ID referencia la línea previa (nil = línea nueva).
type UpdateInvoiceLineRequest struct {
	ID        *string `json:"id,omitempty"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
}

// ChangeInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type ChangeInvoiceStatusRequest struct {
	Status string `json:"status"` // PENDING | PAID | VOID
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID           string                `json:"id"`
	Number       string                `json:"number"`
	CustomerID   string                `json:"customer_id"`
	CustomerName string                `json:"customer_name,omitempty"`
	Date         time.Time             `json:"date"`
	Subtotal     decimal.Decimal       `json:"subtotal"`
	Tax          decimal.Decimal       `json:"tax"`
	Total        decimal.Decimal       `json:"total"`
	Status       string                `json:"status"`
	Lines        []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea de detalle en la respuesta.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
