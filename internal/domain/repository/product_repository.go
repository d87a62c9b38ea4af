package repository

import (
	"context"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// ProductWithLastSale producto con el año de su última venta no anulada (nil si nunca se vendió).
type ProductWithLastSale struct {
	Product      *entity.Product
	LastSaleYear *int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetBy* devuelven (nil, nil) cuando el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción en curso.
	// Fuera de una transacción se comporta como GetByID.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update actualiza los datos de catálogo; no toca Stock ni Version.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateStock escribe Stock solo si Version no cambió desde la lectura (compare-and-swap).
	// En éxito incrementa product.Version; si otra operación ganó devuelve domain.ErrConcurrentModification.
	UpdateStock(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// List todos los productos por nombre con el año de última venta.
	List(ctx context.Context) ([]ProductWithLastSale, error)
	// ListActive productos activos ordenados por nombre (lista de precios).
	ListActive(ctx context.Context) ([]*entity.Product, error)
	// ListLowStock productos activos con stock <= threshold, por stock y nombre.
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)
	HasInvoiceLines(ctx context.Context, productID string) (bool, error)
}
