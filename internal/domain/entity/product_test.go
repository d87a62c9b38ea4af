package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

func TestReduceStock(t *testing.T) {
	p := newProduct("p1", "10", 5)

	err := p.ReduceStock(6)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "insufficient stock for product 'Producto p1'. Available: 5, Requested: 6", err.Error())
	assert.Equal(t, 5, p.Stock)

	assert.ErrorIs(t, p.ReduceStock(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.ReduceStock(-3), domain.ErrInvalidInput)
	assert.Equal(t, 5, p.Stock)

	require.NoError(t, p.ReduceStock(5))
	assert.Equal(t, 0, p.Stock)
	assert.True(t, p.IsOutOfStock())
}

func TestIncreaseStock(t *testing.T) {
	p := newProduct("p1", "10", 1)
	assert.ErrorIs(t, p.IncreaseStock(0), domain.ErrInvalidInput)
	assert.ErrorIs(t, p.IncreaseStock(-3), domain.ErrInvalidInput)
	require.NoError(t, p.IncreaseStock(4))
	assert.Equal(t, 5, p.Stock)
	assert.True(t, p.IsLowStock())
	require.NoError(t, p.IncreaseStock(1))
	assert.False(t, p.IsLowStock())
}

func TestReduceThenIncreaseRoundTrip(t *testing.T) {
	p := newProduct("p1", "10", 12)
	for _, q := range []int{1, 4, 7} {
		require.NoError(t, p.ReduceStock(q))
		require.NoError(t, p.IncreaseStock(q))
		assert.Equal(t, 12, p.Stock)
	}
	assert.False(t, p.HasSufficientStock(13))
	assert.True(t, p.HasSufficientStock(12))
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, newProduct("p1", "0.01", 0).Validate())
	assert.ErrorIs(t, newProduct("p1", "0", 0).Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, newProduct("p1", "1", -1).Validate(), domain.ErrInvalidInput)
}

func TestCustomerAge(t *testing.T) {
	c := &Customer{FirstName: "Ana", LastName: "Pérez", BirthDate: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 33, c.Age(time.Date(2024, 5, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 34, c.Age(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Ana Pérez", c.FullName())
	assert.Equal(t, 0, (&Customer{}).Age(time.Now()))
}
