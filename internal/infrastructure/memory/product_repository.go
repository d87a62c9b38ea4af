package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	db access
}

// NewProductRepository construye el repositorio sobre el store.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{db: store}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.db.write(func(s *state) error {
		if _, ok := s.products[product.ID]; ok {
			return domain.Conflict("product %s already exists", product.ID)
		}
		if codeTaken(s, product.Code, product.ID) {
			return domain.Conflict("a product with code '%s' already exists", product.Code)
		}
		if product.Version == 0 {
			product.Version = 1
		}
		s.products[product.ID] = *product
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(func(s *state) error {
		if p, ok := s.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate en memoria la transacción ya es exclusiva; basta con leer.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetByCode(_ context.Context, code string) (*entity.Product, error) {
	var out *entity.Product
	err := r.db.read(func(s *state) error {
		for _, p := range s.products {
			if p.Code == code {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update escribe los datos de catálogo; Stock y Version se conservan.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.db.write(func(s *state) error {
		current, ok := s.products[product.ID]
		if !ok {
			return nil
		}
		if codeTaken(s, product.Code, product.ID) {
			return domain.Conflict("a product with code '%s' already exists", product.Code)
		}
		current.Code = product.Code
		current.Name = product.Name
		current.Description = product.Description
		current.Price = product.Price
		current.Active = product.Active
		current.UpdatedAt = product.UpdatedAt
		s.products[product.ID] = current
		return nil
	})
}

// UpdateStock compare-and-swap sobre Version.
func (r *ProductRepo) UpdateStock(_ context.Context, product *entity.Product) error {
	return r.db.write(func(s *state) error {
		current, ok := s.products[product.ID]
		if !ok || current.Version != product.Version {
			return domain.ErrConcurrentModification
		}
		current.Stock = product.Stock
		current.Version++
		current.UpdatedAt = product.UpdatedAt
		s.products[product.ID] = current
		product.Version = current.Version
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.db.write(func(s *state) error {
		delete(s.products, id)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context) ([]repository.ProductWithLastSale, error) {
	var out []repository.ProductWithLastSale
	err := r.db.read(func(s *state) error {
		lastSale := make(map[string]int)
		for _, row := range s.lines {
			inv, ok := s.invoices[row.line.InvoiceID]
			if !ok || inv.Status == entity.InvoiceStatusVoid {
				continue
			}
			if y := inv.Date.UTC().Year(); y > lastSale[row.line.ProductID] {
				lastSale[row.line.ProductID] = y
			}
		}
		for _, p := range sortedProducts(s, func(entity.Product) bool { return true }) {
			item := repository.ProductWithLastSale{Product: p}
			if y, ok := lastSale[p.ID]; ok {
				year := y
				item.LastSaleYear = &year
			}
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.read(func(s *state) error {
		out = sortedProducts(s, func(p entity.Product) bool { return p.Active })
		return nil
	})
	return out, err
}

func (r *ProductRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.db.read(func(s *state) error {
		out = sortedProducts(s, func(p entity.Product) bool { return p.Active && p.Stock <= threshold })
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
		return nil
	})
	return out, err
}

func (r *ProductRepo) HasInvoiceLines(_ context.Context, productID string) (bool, error) {
	var found bool
	err := r.db.read(func(s *state) error {
		for _, row := range s.lines {
			if row.line.ProductID == productID {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func codeTaken(s *state, code, exceptID string) bool {
	for _, p := range s.products {
		if p.Code == code && p.ID != exceptID {
			return true
		}
	}
	return false
}

// sortedProducts copia los productos que cumplen keep, ordenados por nombre.
func sortedProducts(s *state, keep func(entity.Product) bool) []*entity.Product {
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}
