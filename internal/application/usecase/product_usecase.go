package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía facturas.
type ProductUseCase struct {
	repo              repository.ProductRepository
	lowStockThreshold int
}

// NewProductUseCase construye el caso de uso. lowStockThreshold <= 0 usa entity.LowStockThreshold.
func NewProductUseCase(repo repository.ProductRepository, lowStockThreshold int) *ProductUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = entity.LowStockThreshold
	}
	return &ProductUseCase{repo: repo, lowStockThreshold: lowStockThreshold}
}

// Create crea un nuevo producto activo. El código es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Stock:       in.Stock,
		Active:      true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, product.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("a product with code '%s' already exists", product.Code)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// Update actualiza los datos de catálogo. No modifica Stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(in.Code)
	if code != product.Code {
		other, err := uc.repo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != product.ID {
			return nil, domain.Conflict("a product with code '%s' already exists", code)
		}
	}
	product.Code = code
	product.Name = strings.TrimSpace(in.Name)
	product.Description = strings.TrimSpace(in.Description)
	product.Price = in.Price
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, nil), nil
}

// List lista todos los productos por nombre, con el año de su última venta.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p.Product, p.LastSaleYear))
	}
	return items, nil
}

// Delete elimina un producto que no aparece en ninguna factura.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	used, err := uc.repo.HasInvoiceLines(ctx, id)
	if err != nil {
		return err
	}
	if used {
		return domain.Conflict("cannot delete product %s: it is referenced by invoices", id)
	}
	return uc.repo.Delete(ctx, id)
}

// PriceList productos activos ordenados por nombre.
func (uc *ProductUseCase) PriceList(ctx context.Context) ([]dto.PriceListItem, error) {
	list, err := uc.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PriceListItem, 0, len(list))
	for _, p := range list {
		items = append(items, dto.PriceListItem{ID: p.ID, Code: p.Code, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return items, nil
}

// LowStock productos activos con stock <= threshold (0 usa el umbral configurado).
func (uc *ProductUseCase) LowStock(ctx context.Context, threshold int) ([]dto.LowStockItem, error) {
	if threshold < 0 {
		return nil, domain.Validation("threshold cannot be negative")
	}
	if threshold == 0 {
		threshold = uc.lowStockThreshold
	}
	list, err := uc.repo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItem, 0, len(list))
	for _, p := range list {
		items = append(items, dto.LowStockItem{
			ID:         p.ID,
			Code:       p.Code,
			Name:       p.Name,
			Price:      p.Price,
			Stock:      p.Stock,
			OutOfStock: p.IsOutOfStock(),
		})
	}
	return items, nil
}

func (uc *ProductUseCase) find(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NotFound("product %s not found", id)
	}
	return product, nil
}

func toProductResponse(p *entity.Product, lastSaleYear *int) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		Active:       p.Active,
		LowStock:     p.IsLowStock(),
		LastSaleYear: lastSaleYear,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
