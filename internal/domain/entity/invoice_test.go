package entity

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

func newProduct(id, price string, stock int) *Product {
	return &Product{ID: id, Code: "C-" + id, Name: "Producto " + id, Price: decimal.RequireFromString(price), Stock: stock, Active: true}
}

func TestGenerateInvoiceNumber(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	at := time.Date(2024, 12, 31, 20, 30, 5, 0, bogota)
	assert.Equal(t, "FAC-20250101013005", GenerateInvoiceNumber(at))
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name                  string
		prices                []string
		qty                   []int
		subtotal, tax, total string
	}{
		{"sin líneas", nil, nil, "0", "0", "0"},
		{"dos líneas", []string{"100", "50"}, []int{3, 2}, "400", "76", "476"},
		{"medio centavo sube", []string{"1.50"}, []int{1}, "1.50", "0.29", "1.79"},
		{"medio centavo sube (2)", []string{"2.50"}, []int{1}, "2.50", "0.48", "2.98"},
		{"debajo de la mitad baja", []string{"0.02"}, []int{1}, "0.02", "0", "0.02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvoice("inv", "cust", time.Now())
			for i, price := range tt.prices {
				p := newProduct(string(rune('a'+i)), price, 100)
				require.NoError(t, inv.AddLine(NewInvoiceLine("l"+p.ID, p, tt.qty[i])))
			}
			inv.CalculateTotals()
			assert.True(t, decimal.RequireFromString(tt.subtotal).Equal(inv.Subtotal), "subtotal %s", inv.Subtotal)
			assert.True(t, decimal.RequireFromString(tt.tax).Equal(inv.Tax), "tax %s", inv.Tax)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(inv.Total), "total %s", inv.Total)
			assert.True(t, inv.Total.Equal(inv.Subtotal.Add(inv.Tax)))

			// Recalcular sin cambios no altera nada.
			before := *inv
			inv.CalculateTotals()
			assert.True(t, before.Subtotal.Equal(inv.Subtotal))
			assert.True(t, before.Tax.Equal(inv.Tax))
			assert.True(t, before.Total.Equal(inv.Total))
		})
	}
}

func TestAddLine_Rules(t *testing.T) {
	inv := NewInvoice("inv", "cust", time.Now())
	p := newProduct("p1", "10", 5)

	require.NoError(t, inv.AddLine(NewInvoiceLine("l1", p, 2)))
	assert.Equal(t, "inv", inv.Lines[0].InvoiceID)
	assert.ErrorIs(t, inv.AddLine(NewInvoiceLine("l2", p, 1)), domain.ErrInvalidInput)
	assert.ErrorIs(t, inv.AddLine(NewInvoiceLine("l3", newProduct("p2", "1", 1), 0)), domain.ErrInvalidInput)
	assert.Len(t, inv.Lines, 1)

	removed := inv.ClearLines()
	assert.Len(t, removed, 1)
	assert.Empty(t, inv.Lines)
}

func TestLinePriceIsSnapshot(t *testing.T) {
	p := newProduct("p1", "10", 5)
	line := NewInvoiceLine("l1", p, 2)
	p.Price = decimal.NewFromInt(99)
	assert.True(t, decimal.NewFromInt(20).Equal(line.Subtotal()))
}

func TestStatusMachine(t *testing.T) {
	t.Run("PENDING a PAID a VOID", func(t *testing.T) {
		inv := NewInvoice("inv", "cust", time.Now())
		require.NoError(t, inv.MarkAsPaid())
		require.NoError(t, inv.MarkAsPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.False(t, inv.CanEdit())
		assert.ErrorIs(t, inv.EnsureDeletable(), domain.ErrInvalidState)
		assert.ErrorIs(t, inv.Reopen(), domain.ErrInvalidState)

		require.NoError(t, inv.Void())
		assert.Equal(t, InvoiceStatusVoid, inv.Status)
		assert.False(t, inv.HoldsStock())
	})

	t.Run("VOID es terminal", func(t *testing.T) {
		inv := NewInvoice("inv", "cust", time.Now())
		require.NoError(t, inv.Void())
		assert.EqualError(t, inv.MarkAsPaid(), "cannot pay a voided invoice")
		assert.ErrorIs(t, inv.Void(), domain.ErrInvalidState)
		assert.ErrorIs(t, inv.EnsureEditable(), domain.ErrInvalidState)
		assert.NoError(t, inv.EnsureDeletable())
	})

	t.Run("PENDING es editable", func(t *testing.T) {
		inv := NewInvoice("inv", "cust", time.Now())
		assert.NoError(t, inv.EnsureEditable())
		assert.NoError(t, inv.Reopen())
		assert.True(t, inv.HoldsStock())
	})
}

func TestParseInvoiceStatus(t *testing.T) {
	s, err := ParseInvoiceStatus(" void ")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusVoid, s)

	_, err = ParseInvoiceStatus("CANCELLED")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
