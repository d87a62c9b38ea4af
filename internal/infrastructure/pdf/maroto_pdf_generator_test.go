package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "$0,00",
		"9.5":        "$9,50",
		"999.99":     "$999,99",
		"1000":       "$1.000,00",
		"1234567.5":  "$1.234.567,50",
		"-25000.125": "-$25.000,13",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	inv := &entity.Invoice{
		ID:           "inv-1",
		Number:       "FAC-20240315100000",
		CustomerID:   "cust-1",
		CustomerName: "Ana Pérez",
		Date:         time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC),
		Status:       entity.InvoiceStatusPending,
		Lines: []*entity.InvoiceLine{
			{ID: "l-1", InvoiceID: "inv-1", ProductID: "p-1", ProductCode: "P001", ProductName: "Café", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
	inv.CalculateTotals()
	customer := &entity.Customer{ID: "cust-1", FirstName: "Ana", LastName: "Pérez", Email: "ana@example.com"}

	out, err := NewMarotoPDFGenerator("Mi Negocio").GenerateInvoicePDF(context.Background(), inv, customer)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewMarotoPDFGenerator("").GenerateInvoicePDF(context.Background(), nil, nil)
	assert.Error(t, err)
}
