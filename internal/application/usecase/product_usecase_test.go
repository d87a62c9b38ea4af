package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/application/usecase"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
)

func newProductUseCase(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return usecase.NewProductUseCase(memory.NewProductRepository(store), 0), store
}

func createProduct(t *testing.T, uc *usecase.ProductUseCase, code, name, price string, stock int) *dto.ProductResponse {
	t.Helper()
	p, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Code: code, Name: name, Price: decimal.RequireFromString(price), Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func TestProduct_CreateValidation(t *testing.T) {
	uc, _ := newProductUseCase(t)
	tests := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin código", dto.CreateProductRequest{Name: "A", Price: decimal.NewFromInt(1)}},
		{"precio cero", dto.CreateProductRequest{Code: "A", Name: "A", Price: decimal.Zero}},
		{"stock negativo", dto.CreateProductRequest{Code: "A", Name: "A", Price: decimal.NewFromInt(1), Stock: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProduct_DuplicateCode(t *testing.T) {
	uc, _ := newProductUseCase(t)
	createProduct(t, uc, "SKU-1", "Café", "10", 1)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Code: "SKU-1", Name: "Otro", Price: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestProduct_UpdateKeepsStock(t *testing.T) {
	uc, _ := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", "Café", "10", 8)
	createProduct(t, uc, "SKU-2", "Té", "5", 1)

	_, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Code: "SKU-2", Name: "Café", Price: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrConflict)

	updated, err := uc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Code: "SKU-1", Name: "Café molido", Price: decimal.NewFromInt(12)})
	require.NoError(t, err)
	assert.Equal(t, "Café molido", updated.Name)
	assert.Equal(t, 8, updated.Stock)
	assert.True(t, decimal.NewFromInt(12).Equal(updated.Price))
}

func TestProduct_PriceListAndLowStock(t *testing.T) {
	uc, _ := newProductUseCase(t)
	createProduct(t, uc, "A", "Zanahoria", "1", 0)
	createProduct(t, uc, "B", "Arroz", "2", 5)
	createProduct(t, uc, "C", "Leche", "3", 30)
	inactive := createProduct(t, uc, "D", "Bolsa", "1", 1)
	off := false
	_, err := uc.Update(context.Background(), inactive.ID, dto.UpdateProductRequest{Code: "D", Name: "Bolsa", Price: decimal.NewFromInt(1), Active: &off})
	require.NoError(t, err)

	prices, err := uc.PriceList(context.Background())
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Equal(t, []string{"Arroz", "Leche", "Zanahoria"}, []string{prices[0].Name, prices[1].Name, prices[2].Name})

	low, err := uc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Zanahoria", low[0].Name)
	assert.True(t, low[0].OutOfStock)
	assert.Equal(t, "Arroz", low[1].Name)
	assert.False(t, low[1].OutOfStock)

	_, err = uc.LowStock(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProduct_DeleteReferencedFails(t *testing.T) {
	uc, store := newProductUseCase(t)
	p := createProduct(t, uc, "SKU-1", "Café", "10", 8)
	spare := createProduct(t, uc, "SKU-2", "Té", "5", 1)

	customers := memory.NewCustomerRepository(store)
	require.NoError(t, customers.Create(context.Background(), &entity.Customer{ID: "c1", FirstName: "A", LastName: "B", Email: "a@b.co"}))
	invoices := billing.NewInvoiceUseCase(memory.NewTxRunner(store), customers, memory.NewInvoiceRepository(store), zerolog.Nop(),
		billing.WithClock(func() time.Time { return time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC) }))
	_, err := invoices.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "c1", Lines: []dto.InvoiceLineRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(context.Background(), p.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(context.Background(), spare.ID))
	_, err = uc.GetByID(context.Background(), spare.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LastSaleYear)
	assert.Equal(t, 2023, *list[0].LastSaleYear)
	assert.Equal(t, 6, list[0].Stock)
}
