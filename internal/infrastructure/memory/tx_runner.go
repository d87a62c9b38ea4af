package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/facturacion-api/internal/application/billing"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks sobre una copia del estado; confirma solo si fn no falla
// y el contexto sigue vivo.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// RunBilling equivalente en memoria de BEGIN / fn / COMMIT.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	return r.store.write(func(st *state) error {
		tx := txAccess{st: st}
		if err := fn(&ProductRepo{db: tx}, &CustomerRepo{db: tx}, &InvoiceRepo{db: tx}); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}
