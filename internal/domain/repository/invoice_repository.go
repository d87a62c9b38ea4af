package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// ProductSalesResult fila del reporte de ventas por producto en un año.
type ProductSalesResult struct {
	ProductID    string
	ProductCode  string
	ProductName  string
	Quantity     int
	Amount       decimal.Decimal // suma de quantity * unit_price
	InvoiceCount int             // facturas distintas
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create persiste cabecera y líneas.
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	DeleteLine(ctx context.Context, lineID string) error
	// Update persiste cliente, totales, estado y updated_at de la cabecera.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete elimina la factura y en cascada sus líneas.
	Delete(ctx context.Context, id string) error
	// GetByID carga la factura con nombre del cliente y líneas con código/nombre de producto.
	// Devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List todas las facturas con líneas, más recientes primero.
	List(ctx context.Context) ([]*entity.Invoice, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error)
	ExistsNumber(ctx context.Context, number string) (bool, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	// SalesByProduct agrega líneas de facturas no anuladas del año, ordenado por monto desc.
	SalesByProduct(ctx context.Context, year int) ([]ProductSalesResult, error)
	// PurchaseDatesByCustomer fechas de las facturas no anuladas del cliente, ascendente.
	PurchaseDatesByCustomer(ctx context.Context, customerID string) ([]time.Time, error)
}
