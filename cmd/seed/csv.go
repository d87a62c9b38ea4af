package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
)

// parseProducts lee el CSV de catálogo. Detecta el separador (; o ,) en el encabezado.
// Acepta precio con coma decimal ("12,50").
func parseProducts(r io.Reader, latin1 bool) ([]dto.CreateProductRequest, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	br := bufio.NewReader(r)
	header, err := br.Peek(256)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}

	reader := csv.NewReader(br)
	reader.Comma = ','
	if firstLine, _, _ := strings.Cut(string(header), "\n"); strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		reader.Comma = ';'
	}
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsear CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	out := make([]dto.CreateProductRequest, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperaban 5 columnas, hay %d", line, len(rec))
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio inválido %q", line, rec[3])
		}
		stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, rec[4])
		}
		out = append(out, dto.CreateProductRequest{
			Code:        strings.TrimSpace(rec[0]),
			Name:        strings.TrimSpace(rec[1]),
			Description: strings.TrimSpace(rec[2]),
			Price:       price,
			Stock:       stock,
		})
	}
	return out, nil
}
