package billing

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// stockSet productos bloqueados por una operación junto al stock leído al bloquearlos.
// Los cambios de stock se hacen en memoria y se escriben una sola vez con persist.
type stockSet struct {
	products map[string]*entity.Product
	original map[string]int
	order    []string
}

// lockProducts bloquea los productos en orden ascendente de id para evitar interbloqueos
// entre operaciones concurrentes. Los ids inexistentes se omiten; get los reporta.
func lockProducts(ctx context.Context, repo repository.ProductRepository, ids []string) (*stockSet, error) {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	set := &stockSet{
		products: make(map[string]*entity.Product, len(unique)),
		original: make(map[string]int, len(unique)),
	}
	for _, id := range unique {
		p, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", id, err)
		}
		if p == nil {
			continue
		}
		set.products[id] = p
		set.original[id] = p.Stock
		set.order = append(set.order, id)
	}
	return set, nil
}

func (s *stockSet) get(id string) (*entity.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.NotFound("product %s not found", id)
	}
	return p, nil
}

// restore devuelve al inventario las cantidades de las líneas.
func (s *stockSet) restore(lines []*entity.InvoiceLine) error {
	for _, l := range lines {
		p, err := s.get(l.ProductID)
		if err != nil {
			return err
		}
		if err := p.IncreaseStock(l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// persist escribe el stock de los productos que cambiaron (compare-and-swap por versión).
func (s *stockSet) persist(ctx context.Context, repo repository.ProductRepository) error {
	for _, id := range s.order {
		p := s.products[id]
		if p.Stock == s.original[id] {
			continue
		}
		if err := repo.UpdateStock(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// lowStockIDs productos que quedaron con stock bajo después de la operación.
func (s *stockSet) lowStockIDs() []string {
	var ids []string
	for _, id := range s.order {
		if s.products[id].IsLowStock() {
			ids = append(ids, id)
		}
	}
	return ids
}
