package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturacion-api/internal/domain"
)

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.NotFound("invoice x not found"), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.Conflict("dup"), fiber.StatusConflict, "CONFLICT"},
		{fmt.Errorf("persist: %w", domain.ErrConcurrentModification), fiber.StatusConflict, "CONCURRENT_MODIFICATION"},
		{&domain.Error{Kind: domain.ErrUnauthorized, Message: "nope"}, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.Validation("bad"), fiber.StatusBadRequest, "VALIDATION"},
		{domain.InsufficientStock("short"), fiber.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{domain.InvalidState("cannot pay a voided invoice"), fiber.StatusBadRequest, "INVALID_STATE"},
		{domain.InsufficientHistory("need two"), fiber.StatusBadRequest, "INSUFFICIENT_HISTORY"},
		{errors.New("connection reset"), fiber.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		status, code := errorStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestRequestLogger_IncludesRequestID(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger(zerolog.New(&buf)))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	line := buf.String()
	assert.Contains(t, line, `"request_id":"req-123"`)
	assert.Contains(t, line, `"path":"/ping"`)
	assert.Contains(t, line, `"status":200`)
}
