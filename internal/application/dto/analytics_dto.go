package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductSalesDTO fila de GET /api/reports/sales-by-product?year=YYYY.
type ProductSalesDTO struct {
	ProductID    string          `json:"product_id"`
	ProductCode  string          `json:"product_code"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	Amount       decimal.Decimal `json:"amount"`
	InvoiceCount int             `json:"invoice_count"`
}

// NextPurchaseDTO respuesta de GET /api/customers/:id/next-purchase.
type NextPurchaseDTO struct {
	CustomerID       string    `json:"customer_id"`
	CustomerName     string    `json:"customer_name"`
	TotalPurchases   int       `json:"total_purchases"`
	LastPurchase     time.Time `json:"last_purchase"`
	AverageGapDays   int       `json:"average_gap_days"`
	EstimatedDate    time.Time `json:"estimated_date"`
	PredictionStatus string    `json:"prediction_status"` // VENCIDA | PRÓXIMA | FUTURA
}
