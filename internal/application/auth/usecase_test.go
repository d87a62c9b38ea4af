package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/application/auth"
	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/facturacion-api/pkg/jwt"
)

const testSecret = "test-secret"

func newAuthUseCase(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	store := memory.NewStore()
	return auth.NewAuthUseCase(memory.NewUserRepository(store), auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 30, Issuer: "facturacion-api",
	})
}

func TestRegisterUser(t *testing.T) {
	uc := newAuthUseCase(t)
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: " admin ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
	assert.Equal(t, "admin", u.Name)
	assert.Equal(t, "active", u.Status)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "admin", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "corto", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Username: "  ", Password: "secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	uc := newAuthUseCase(t)
	ctx := context.Background()
	registered, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "admin", Password: "secret123", Name: "Administrador"})
	require.NoError(t, err)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Administrador", res.User.Name)
	assert.False(t, res.ExpiresAt.IsZero())

	userID, username, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, "admin", username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	uc := newAuthUseCase(t)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Username: "admin", Password: "secret123"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   dto.LoginRequest
	}{
		{"password incorrecto", dto.LoginRequest{Username: "admin", Password: "nope"}},
		{"usuario inexistente", dto.LoginRequest{Username: "nadie", Password: "secret123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Login(ctx, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
			assert.Equal(t, "invalid username or password", err.Error())
		})
	}
}
