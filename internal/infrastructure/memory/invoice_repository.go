package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación en memoria de InvoiceRepository.
type InvoiceRepo struct {
	db access
}

// NewInvoiceRepository construye el repositorio sobre el store.
func NewInvoiceRepository(store *Store) *InvoiceRepo {
	return &InvoiceRepo{db: store}
}

func (r *InvoiceRepo) Create(_ context.Context, invoice *entity.Invoice) error {
	return r.db.write(func(s *state) error {
		if _, ok := s.invoices[invoice.ID]; ok {
			return domain.Conflict("invoice %s already exists", invoice.ID)
		}
		for _, inv := range s.invoices {
			if inv.Number == invoice.Number {
				return domain.Conflict("invoice number '%s' already exists", invoice.Number)
			}
		}
		header := *invoice
		header.Lines = nil
		s.invoices[invoice.ID] = header
		for _, l := range invoice.Lines {
			if err := insertLine(s, l); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *InvoiceRepo) CreateLine(_ context.Context, line *entity.InvoiceLine) error {
	return r.db.write(func(s *state) error {
		if _, ok := s.invoices[line.InvoiceID]; !ok {
			return domain.NotFound("invoice %s not found", line.InvoiceID)
		}
		return insertLine(s, line)
	})
}

func (r *InvoiceRepo) DeleteLine(_ context.Context, lineID string) error {
	return r.db.write(func(s *state) error {
		delete(s.lines, lineID)
		return nil
	})
}

// Update escribe cliente, totales, estado y updated_at.
func (r *InvoiceRepo) Update(_ context.Context, invoice *entity.Invoice) error {
	return r.db.write(func(s *state) error {
		current, ok := s.invoices[invoice.ID]
		if !ok {
			return nil
		}
		current.CustomerID = invoice.CustomerID
		current.Subtotal = invoice.Subtotal
		current.Tax = invoice.Tax
		current.Total = invoice.Total
		current.Status = invoice.Status
		current.UpdatedAt = invoice.UpdatedAt
		s.invoices[invoice.ID] = current
		return nil
	})
}

// Delete elimina la factura y sus líneas.
func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	return r.db.write(func(s *state) error {
		delete(s.invoices, id)
		for lineID, row := range s.lines {
			if row.line.InvoiceID == id {
				delete(s.lines, lineID)
			}
		}
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.db.read(func(s *state) error {
		if inv, ok := s.invoices[id]; ok {
			out = hydrate(s, inv)
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) List(_ context.Context) ([]*entity.Invoice, error) {
	return r.filter(func(entity.Invoice) bool { return true })
}

func (r *InvoiceRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Invoice, error) {
	return r.filter(func(inv entity.Invoice) bool { return inv.CustomerID == customerID })
}

func (r *InvoiceRepo) ExistsNumber(_ context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.read(func(s *state) error {
		for _, inv := range s.invoices {
			if inv.Number == number {
				exists = true
				return nil
			}
		}
		return nil
	})
	return exists, err
}

func (r *InvoiceRepo) CountByCustomer(_ context.Context, customerID string) (int, error) {
	var n int
	err := r.db.read(func(s *state) error {
		for _, inv := range s.invoices {
			if inv.CustomerID == customerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// SalesByProduct agrupa líneas de facturas no anuladas del año por producto.
func (r *InvoiceRepo) SalesByProduct(_ context.Context, year int) ([]repository.ProductSalesResult, error) {
	var out []repository.ProductSalesResult
	err := r.db.read(func(s *state) error {
		byProduct := make(map[string]*repository.ProductSalesResult)
		invoicesByProduct := make(map[string]map[string]struct{})
		for _, row := range s.lines {
			inv, ok := s.invoices[row.line.InvoiceID]
			if !ok || inv.Status == entity.InvoiceStatusVoid || inv.Date.UTC().Year() != year {
				continue
			}
			l := row.line
			agg, ok := byProduct[l.ProductID]
			if !ok {
				agg = &repository.ProductSalesResult{ProductID: l.ProductID, Amount: decimal.Zero}
				if p, ok := s.products[l.ProductID]; ok {
					agg.ProductCode = p.Code
					agg.ProductName = p.Name
				}
				byProduct[l.ProductID] = agg
				invoicesByProduct[l.ProductID] = make(map[string]struct{})
			}
			agg.Quantity += l.Quantity
			agg.Amount = agg.Amount.Add(l.Subtotal())
			invoicesByProduct[l.ProductID][l.InvoiceID] = struct{}{}
		}
		out = make([]repository.ProductSalesResult, 0, len(byProduct))
		for id, agg := range byProduct {
			agg.InvoiceCount = len(invoicesByProduct[id])
			out = append(out, *agg)
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Amount.Equal(out[j].Amount) {
				return out[i].Amount.GreaterThan(out[j].Amount)
			}
			return out[i].ProductName < out[j].ProductName
		})
		return nil
	})
	return out, err
}

// PurchaseDatesByCustomer fechas de facturas no anuladas en orden ascendente.
func (r *InvoiceRepo) PurchaseDatesByCustomer(_ context.Context, customerID string) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.read(func(s *state) error {
		for _, inv := range s.invoices {
			if inv.CustomerID == customerID && inv.Status != entity.InvoiceStatusVoid {
				dates = append(dates, inv.Date)
			}
		}
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		return nil
	})
	return dates, err
}

// filter facturas que cumplen keep, de la más reciente a la más antigua.
func (r *InvoiceRepo) filter(keep func(entity.Invoice) bool) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.db.read(func(s *state) error {
		for _, inv := range s.invoices {
			if keep(inv) {
				out = append(out, hydrate(s, inv))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if !out[i].Date.Equal(out[j].Date) {
				return out[i].Date.After(out[j].Date)
			}
			return out[i].Number > out[j].Number
		})
		return nil
	})
	return out, err
}

func insertLine(s *state, line *entity.InvoiceLine) error {
	if _, ok := s.lines[line.ID]; ok {
		return domain.Conflict("invoice line %s already exists", line.ID)
	}
	s.seq++
	s.lines[line.ID] = lineRow{line: *line, seq: s.seq}
	return nil
}

// hydrate arma la factura con nombre de cliente y líneas con código y nombre de producto,
// como lo haría un JOIN.
func hydrate(s *state, header entity.Invoice) *entity.Invoice {
	inv := header
	if c, ok := s.customers[inv.CustomerID]; ok {
		inv.CustomerName = c.FullName()
	}
	rows := make([]lineRow, 0)
	for _, row := range s.lines {
		if row.line.InvoiceID == inv.ID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	inv.Lines = make([]*entity.InvoiceLine, 0, len(rows))
	for _, row := range rows {
		l := row.line
		if p, ok := s.products[l.ProductID]; ok {
			l.ProductCode = p.Code
			l.ProductName = p.Name
		}
		inv.Lines = append(inv.Lines, &l)
	}
	return &inv
}
