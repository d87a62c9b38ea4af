package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseProducts_SemicolonUTF8(t *testing.T) {
	in := "codigo;nombre;descripcion;precio;stock\nP001;Café;Molido 500g;12,50;10\nP002;Arroz;;3.10;0\n"
	got, err := parseProducts(strings.NewReader(in), false)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Café", got[0].Name)
	assert.Equal(t, "12.5", got[0].Price.String())
	assert.Equal(t, 10, got[0].Stock)
	assert.Equal(t, "", got[1].Description)
	assert.Equal(t, 0, got[1].Stock)
}

func TestParseProducts_Latin1Comma(t *testing.T) {
	utf8 := "code,name,description,price,stock\nP010,Azúcar,Bolsa,2.00,5\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	got, err := parseProducts(bytes.NewReader([]byte(latin1)), true)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Azúcar", got[0].Name)
	assert.Equal(t, "P010", got[0].Code)
}

func TestParseProducts_Errors(t *testing.T) {
	_, err := parseProducts(strings.NewReader("a;b;c;d;e\nP1;X;;abc;1\n"), false)
	assert.ErrorContains(t, err, "precio inválido")

	_, err = parseProducts(strings.NewReader("a;b;c;d;e\nP1;X;;1;dos\n"), false)
	assert.ErrorContains(t, err, "stock inválido")

	_, err = parseProducts(strings.NewReader("a;b;c;d;e\nP1;X\n"), false)
	assert.ErrorContains(t, err, "5 columnas")

	got, err := parseProducts(strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Empty(t, got)
}
