package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
)

func newCustomerUseCase() *billing.CustomerUseCase {
	store := memory.NewStore()
	return billing.NewCustomerUseCase(memory.NewCustomerRepository(store), memory.NewInvoiceRepository(store))
}

func validCustomer(email string) dto.CreateCustomerRequest {
	return dto.CreateCustomerRequest{
		FirstName: "Luis",
		LastName:  "Gómez",
		Email:     email,
		BirthDate: "1990-05-20",
	}
}

func TestCustomer_CreateAndGet(t *testing.T) {
	uc := newCustomerUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, validCustomer("Luis@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "luis@example.com", created.Email)
	assert.Equal(t, "Luis Gómez", created.FullName)
	assert.Equal(t, "1990-05-20", created.BirthDate)
	assert.True(t, created.Active)

	got, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestCustomer_DuplicateEmail(t *testing.T) {
	uc := newCustomerUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, validCustomer("luis@example.com"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, validCustomer("LUIS@example.com"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCustomer_Validation(t *testing.T) {
	uc := newCustomerUseCase()
	tests := []struct {
		name string
		in   dto.CreateCustomerRequest
	}{
		{"sin nombre", dto.CreateCustomerRequest{LastName: "X", Email: "a@b.co"}},
		{"email inválido", dto.CreateCustomerRequest{FirstName: "A", LastName: "B", Email: "no-es-email"}},
		{"fecha mal formada", dto.CreateCustomerRequest{FirstName: "A", LastName: "B", Email: "a@b.co", BirthDate: "20/05/1990"}},
		{"fecha futura", dto.CreateCustomerRequest{FirstName: "A", LastName: "B", Email: "a@b.co", BirthDate: "2999-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCustomer_UpdateEmailConflict(t *testing.T) {
	uc := newCustomerUseCase()
	ctx := context.Background()
	a, err := uc.Create(ctx, validCustomer("a@example.com"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, validCustomer("b@example.com"))
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{FirstName: "A", LastName: "A", Email: "b@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	inactive := false
	updated, err := uc.Update(ctx, a.ID, dto.UpdateCustomerRequest{FirstName: "Ana", LastName: "A", Email: "a@example.com", Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Ana A", updated.FullName)
	assert.False(t, updated.Active)
}

func TestCustomer_DeleteWithInvoicesFails(t *testing.T) {
	f := newFixture(t)
	f.createScenarioA(t)

	uc := billing.NewCustomerUseCase(f.customers, f.invoices)
	err := uc.Delete(context.Background(), f.customer)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCustomer_Delete(t *testing.T) {
	uc := newCustomerUseCase()
	ctx := context.Background()
	c, err := uc.Create(ctx, validCustomer("a@example.com"))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, c.ID))
	_, err = uc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, c.ID), domain.ErrNotFound)
}
