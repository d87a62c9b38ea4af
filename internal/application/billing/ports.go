package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repos de facturación.
// Si fn retorna error no se persiste nada.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// Tipos de evento del ciclo de vida de una factura.
const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceUpdated       = "invoice.updated"
	EventInvoiceStatusChanged = "invoice.status_changed"
	EventInvoiceDeleted       = "invoice.deleted"
)

// InvoiceEvent notificación emitida después de confirmar la transacción.
type InvoiceEvent struct {
	Type               string          `json:"type"`
	InvoiceID          string          `json:"invoice_id"`
	Number             string          `json:"number"`
	CustomerID         string          `json:"customer_id"`
	Status             string          `json:"status"`
	Total              decimal.Decimal `json:"total"`
	LowStockProductIDs []string        `json:"low_stock_product_ids,omitempty"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

// EventPublisher puerto de salida para eventos de facturación (Kafka o no-op).
type EventPublisher interface {
	Publish(ctx context.Context, event InvoiceEvent) error
}

// InvoicePDFGenerator puerto de salida para la representación gráfica de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, customer *entity.Customer) ([]byte, error)
}
