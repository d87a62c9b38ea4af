package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

// LowStockThreshold unidades a partir de las cuales un producto se considera con stock bajo.
const LowStockThreshold = 5

// Product representa un producto del catálogo con su stock disponible.
// Version se incrementa en cada escritura de stock (compare-and-swap en el repositorio).
type Product struct {
	ID          string
	Code        string // SKU, único
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Active      bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate verifica las invariantes del catálogo: precio > 0 y stock >= 0.
func (p *Product) Validate() error {
	if p.Code == "" || p.Name == "" {
		return domain.Validation("product code and name are required")
	}
	if !p.Price.GreaterThan(decimal.Zero) {
		return domain.Validation("product price must be greater than zero")
	}
	if p.Stock < 0 {
		return domain.Validation("product stock cannot be negative")
	}
	return nil
}

// HasSufficientStock indica si hay stock para la cantidad solicitada.
func (p *Product) HasSufficientStock(quantity int) bool {
	return p.Stock >= quantity
}

// ReduceStock descuenta stock. Si no alcanza, falla y deja el stock intacto.
func (p *Product) ReduceStock(quantity int) error {
	if quantity <= 0 {
		return domain.Validation("quantity to reduce must be greater than zero, got %d", quantity)
	}
	if !p.HasSufficientStock(quantity) {
		return domain.InsufficientStock(
			"insufficient stock for product '%s'. Available: %d, Requested: %d",
			p.Name, p.Stock, quantity,
		)
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IncreaseStock devuelve unidades al inventario (edición, anulación o eliminación de una factura).
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return domain.Validation("quantity to add must be greater than zero, got %d", quantity)
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// IsLowStock stock <= 5.
func (p *Product) IsLowStock() bool { return p.Stock <= LowStockThreshold }

// IsOutOfStock stock == 0.
func (p *Product) IsOutOfStock() bool { return p.Stock == 0 }
