package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// invoiceSelect cabecera con el nombre del cliente resuelto.
const invoiceSelect = `
	SELECT i.id, i.number, i.customer_id, COALESCE(c.first_name || ' ' || c.last_name, ''),
	       i.date, i.subtotal, i.tax, i.total, i.status, i.created_at, i.updated_at
	FROM invoices i
	LEFT JOIN customers c ON c.id = i.customer_id`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la factura y sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, customer_id, date, subtotal, tax, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.Number, invoice.CustomerID, invoice.Date,
		invoice.Subtotal, invoice.Tax, invoice.Total, invoice.Status,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("invoice number '%s' already exists", invoice.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for _, line := range invoice.Lines {
		if err := r.CreateLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// CreateLine persiste una línea de detalle.
func (r *InvoiceRepo) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, line.ID, line.InvoiceID, line.ProductID, line.Quantity, line.UnitPrice)
	if err != nil {
		return fmt.Errorf("insert invoice line: %w", err)
	}
	return nil
}

// DeleteLine elimina una línea por ID.
func (r *InvoiceRepo) DeleteLine(ctx context.Context, lineID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE id = $1`, lineID); err != nil {
		return fmt.Errorf("delete invoice line: %w", err)
	}
	return nil
}

// Update actualiza cliente, totales y estado de la cabecera.
func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $2,
		    subtotal    = $3,
		    tax         = $4,
		    total       = $5,
		    status      = $6,
		    updated_at  = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		invoice.ID, invoice.CustomerID, invoice.Subtotal, invoice.Tax, invoice.Total, invoice.Status, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

// Delete elimina la factura; las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, invoiceSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if err := r.attachLines(ctx, []*entity.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

// List todas las facturas, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context) ([]*entity.Invoice, error) {
	return r.list(ctx, invoiceSelect+` ORDER BY i.date DESC, i.number DESC`)
}

// ListByCustomer facturas de un cliente, más recientes primero.
func (r *InvoiceRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	if !validID(customerID) {
		return nil, nil
	}
	return r.list(ctx, invoiceSelect+` WHERE i.customer_id = $1 ORDER BY i.date DESC, i.number DESC`, customerID)
}

// ExistsNumber indica si ya hay una factura con ese número.
func (r *InvoiceRepo) ExistsNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE number = $1)`, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// CountByCustomer cantidad de facturas (cualquier estado) del cliente.
func (r *InvoiceRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	if !validID(customerID) {
		return 0, nil
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count customer invoices: %w", err)
	}
	return n, nil
}

// SalesByProduct agrega las líneas de facturas no anuladas del año (UTC), de mayor a menor monto.
func (r *InvoiceRepo) SalesByProduct(ctx context.Context, year int) ([]repository.ProductSalesResult, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	query := `
		SELECT l.product_id, p.code, p.name,
		       SUM(l.quantity)::int              AS quantity,
		       SUM(l.quantity * l.unit_price)    AS amount,
		       COUNT(DISTINCT l.invoice_id)::int AS invoice_count
		FROM invoice_lines l
		JOIN invoices i ON i.id = l.invoice_id
		JOIN products p ON p.id = l.product_id
		WHERE i.status <> 'VOID' AND i.date >= $1 AND i.date < $2
		GROUP BY l.product_id, p.code, p.name
		ORDER BY amount DESC, p.name`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by product: %w", err)
	}
	defer rows.Close()
	var out []repository.ProductSalesResult
	for rows.Next() {
		var s repository.ProductSalesResult
		if err := rows.Scan(&s.ProductID, &s.ProductCode, &s.ProductName, &s.Quantity, &s.Amount, &s.InvoiceCount); err != nil {
			return nil, fmt.Errorf("scan sales row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PurchaseDatesByCustomer fechas de las facturas no anuladas del cliente, ascendente.
func (r *InvoiceRepo) PurchaseDatesByCustomer(ctx context.Context, customerID string) ([]time.Time, error) {
	if !validID(customerID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT date FROM invoices WHERE customer_id = $1 AND status <> 'VOID' ORDER BY date`, customerID)
	if err != nil {
		return nil, fmt.Errorf("purchase dates: %w", err)
	}
	defer rows.Close()
	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan purchase date: %w", err)
		}
		dates = append(dates, d.UTC())
	}
	return dates, rows.Err()
}

func (r *InvoiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if err := r.attachLines(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// attachLines carga en una sola consulta las líneas de todas las facturas, con código y nombre de producto.
func (r *InvoiceRepo) attachLines(ctx context.Context, invoices []*entity.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Invoice, len(invoices))
	ids := make([]string, 0, len(invoices))
	for _, inv := range invoices {
		inv.Lines = make([]*entity.InvoiceLine, 0)
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}
	query := `
		SELECT l.id, l.invoice_id, l.product_id, COALESCE(p.code, ''), COALESCE(p.name, ''), l.quantity, l.unit_price
		FROM invoice_lines l
		LEFT JOIN products p ON p.id = l.product_id
		WHERE l.invoice_id = ANY($1::text[]::uuid[])
		ORDER BY l.seq`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.ProductCode, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return fmt.Errorf("scan invoice line: %w", err)
		}
		if inv, ok := byID[l.InvoiceID]; ok {
			inv.Lines = append(inv.Lines, &l)
		}
	}
	return rows.Err()
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := row.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.CustomerName, &inv.Date,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	inv.Date = inv.Date.UTC()
	return &inv, nil
}
