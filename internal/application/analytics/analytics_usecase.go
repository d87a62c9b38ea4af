// Package analytics contiene los casos de uso para reportes de ventas y la
// estimación de la próxima compra de un cliente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	domanalytics "github.com/jhoicas/facturacion-api/internal/domain/analytics"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// Rango de años aceptado por el reporte de ventas.
const (
	minReportYear = 1900
	maxReportYear = 9999
)

// AnalyticsUseCase reportes read-only sobre facturas no anuladas.
type AnalyticsUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	now          func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(invoiceRepo repository.InvoiceRepository, customerRepo repository.CustomerRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{invoiceRepo: invoiceRepo, customerRepo: customerRepo, now: time.Now}
}

// SetClock reemplaza el reloj usado como "hoy" en la clasificación.
func (uc *AnalyticsUseCase) SetClock(now func() time.Time) { uc.now = now }

// SalesByProduct cantidades y montos vendidos por producto en el año, de mayor a menor monto.
func (uc *AnalyticsUseCase) SalesByProduct(ctx context.Context, year int) ([]dto.ProductSalesDTO, error) {
	if year < minReportYear || year > maxReportYear {
		return nil, domain.Validation("year must be between %d and %d, got %d", minReportYear, maxReportYear, year)
	}
	rows, err := uc.invoiceRepo.SalesByProduct(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("ventas por producto: %w", err)
	}
	out := make([]dto.ProductSalesDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ProductSalesDTO{
			ProductID:    r.ProductID,
			ProductCode:  r.ProductCode,
			ProductName:  r.ProductName,
			Quantity:     r.Quantity,
			Amount:       r.Amount.Round(2),
			InvoiceCount: r.InvoiceCount,
		})
	}
	return out, nil
}

// NextPurchase estima la próxima compra del cliente con el intervalo promedio entre sus facturas.
//
// Dos consultas en paralelo:
//  1. GetByID(cliente)                → NotFound si no existe
//  2. PurchaseDatesByCustomer(cliente) → fechas ascendentes de facturas no anuladas
func (uc *AnalyticsUseCase) NextPurchase(ctx context.Context, customerID string) (*dto.NextPurchaseDTO, error) {
	var (
		customer *entity.Customer
		dates    []time.Time
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customer, err = uc.customerRepo.GetByID(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		dates, err = uc.invoiceRepo.PurchaseDatesByCustomer(gctx, customerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("próxima compra: %w", err)
	}
	if customer == nil {
		return nil, domain.NotFound("customer %s not found", customerID)
	}

	est, err := domanalytics.EstimateNextPurchase(dates, uc.now())
	if err != nil {
		return nil, err
	}
	return &dto.NextPurchaseDTO{
		CustomerID:       customer.ID,
		CustomerName:     customer.FullName(),
		TotalPurchases:   est.TotalPurchases,
		LastPurchase:     est.LastPurchase,
		AverageGapDays:   est.RoundedGapDays,
		EstimatedDate:    est.EstimatedDate,
		PredictionStatus: est.PredictionStatus,
	}, nil
}
