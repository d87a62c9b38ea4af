package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// InvoiceUseCase crea, edita, cambia de estado y elimina facturas manteniendo el stock consistente.
// Cada operación de escritura corre en una sola transacción: o se persiste todo o nada.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	publisher    EventPublisher
	logger       zerolog.Logger
	now          func() time.Time
}

// InvoiceOption configura dependencias opcionales del caso de uso.
type InvoiceOption func(*InvoiceUseCase)

// WithClock reemplaza el reloj (fecha de emisión y número de factura).
func WithClock(now func() time.Time) InvoiceOption {
	return func(uc *InvoiceUseCase) { uc.now = now }
}

// WithPublisher publica los eventos de factura después de cada commit.
func WithPublisher(p EventPublisher) InvoiceOption {
	return func(uc *InvoiceUseCase) { uc.publisher = p }
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	logger zerolog.Logger,
	opts ...InvoiceOption,
) *InvoiceUseCase {
	uc := &InvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		logger:       logger.With().Str("component", "invoice_usecase").Logger(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Create crea la factura PENDING, toma el precio vigente de cada producto y descuenta el stock.
// Si una línea falla (producto inexistente o sin stock) no se persiste nada.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	reqs := make([]lineRequest, 0, len(in.Lines))
	for _, l := range in.Lines {
		reqs = append(reqs, lineRequest{productID: l.ProductID, quantity: l.Quantity})
	}
	if err := validateInvoiceInput(in.CustomerID, reqs); err != nil {
		return nil, uc.fail(err, "crear factura")
	}
	uc.logger.Info().Str("customer_id", in.CustomerID).Int("lines", len(reqs)).Msg("creando factura")

	var (
		created *entity.Invoice
		stock   *stockSet
	)
	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := ensureCustomer(ctx, customerRepo, in.CustomerID); err != nil {
			return err
		}
		var err error
		stock, err = lockProducts(ctx, productRepo, productIDs(reqs))
		if err != nil {
			return err
		}

		inv := entity.NewInvoice(uuid.New().String(), in.CustomerID, uc.now())
		inv.Number, err = uniqueInvoiceNumber(ctx, invoiceRepo, inv.Number)
		if err != nil {
			return err
		}
		if err := reserveLines(inv, stock, reqs, nil); err != nil {
			return err
		}
		inv.CalculateTotals()

		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		if err := stock.persist(ctx, productRepo); err != nil {
			return err
		}
		created, err = reload(ctx, invoiceRepo, inv.ID)
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "crear factura")
	}

	uc.logger.Info().
		Str("invoice_id", created.ID).
		Str("number", created.Number).
		Str("total", created.Total.StringFixed(2)).
		Msg("factura creada")
	uc.publish(ctx, EventInvoiceCreated, created, stock.lowStockIDs())
	return ToInvoiceResponse(created), nil
}

// Update reemplaza cliente y líneas de una factura PENDING.
// Primero devuelve el stock de todas las líneas actuales y luego reserva las nuevas,
// de modo que repetir las mismas líneas siempre es satisfacible y deja el stock igual.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	reqs := make([]lineRequest, 0, len(in.Lines))
	for _, l := range in.Lines {
		reqs = append(reqs, lineRequest{lineID: l.ID, productID: l.ProductID, quantity: l.Quantity})
	}
	if err := validateInvoiceInput(in.CustomerID, reqs); err != nil {
		return nil, uc.fail(err, "editar factura")
	}
	uc.logger.Info().Str("invoice_id", id).Int("lines", len(reqs)).Msg("editando factura")

	var (
		updated *entity.Invoice
		stock   *stockSet
	)
	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := loadInvoice(ctx, invoiceRepo, id)
		if err != nil {
			return err
		}
		if err := inv.EnsureEditable(); err != nil {
			return err
		}
		if err := ensureCustomer(ctx, customerRepo, in.CustomerID); err != nil {
			return err
		}

		ids := productIDs(reqs)
		for _, l := range inv.Lines {
			ids = append(ids, l.ProductID)
		}
		stock, err = lockProducts(ctx, productRepo, ids)
		if err != nil {
			return err
		}

		if err := stock.restore(inv.Lines); err != nil {
			return err
		}
		removed := inv.ClearLines()
		previous := make(map[string]struct{}, len(removed))
		for _, l := range removed {
			previous[l.ID] = struct{}{}
			if err := invoiceRepo.DeleteLine(ctx, l.ID); err != nil {
				return err
			}
		}

		inv.CustomerID = in.CustomerID
		if err := reserveLines(inv, stock, reqs, previous); err != nil {
			return err
		}
		inv.CalculateTotals()
		inv.UpdatedAt = uc.now().UTC()

		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		for _, l := range inv.Lines {
			if err := invoiceRepo.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		if err := stock.persist(ctx, productRepo); err != nil {
			return err
		}
		updated, err = reload(ctx, invoiceRepo, inv.ID)
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "editar factura")
	}

	uc.logger.Info().Str("invoice_id", updated.ID).Str("total", updated.Total.StringFixed(2)).Msg("factura editada")
	uc.publish(ctx, EventInvoiceUpdated, updated, stock.lowStockIDs())
	return ToInvoiceResponse(updated), nil
}

// ChangeStatus aplica la máquina de estados:
// PENDING→PAID, PAID→PAID (sin cambios), PENDING|PAID→VOID (devuelve stock), PENDING→PENDING.
// Cualquier otra transición falla con ErrInvalidState.
func (uc *InvoiceUseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	target, err := entity.ParseInvoiceStatus(in.Status)
	if err != nil {
		return nil, uc.fail(err, "cambiar estado")
	}
	uc.logger.Info().Str("invoice_id", id).Str("target", target).Msg("cambiando estado de factura")

	var (
		updated *entity.Invoice
		stock   *stockSet
	)
	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := loadInvoice(ctx, invoiceRepo, id)
		if err != nil {
			return err
		}

		switch target {
		case entity.InvoiceStatusPaid:
			err = inv.MarkAsPaid()
		case entity.InvoiceStatusVoid:
			if err = inv.Void(); err != nil {
				break
			}
			if stock, err = lockInvoiceProducts(ctx, productRepo, inv); err != nil {
				break
			}
			if err = stock.restore(inv.Lines); err != nil {
				break
			}
			err = stock.persist(ctx, productRepo)
		case entity.InvoiceStatusPending:
			err = inv.Reopen()
		}
		if err != nil {
			return err
		}
		inv.UpdatedAt = uc.now().UTC()

		if err := invoiceRepo.Update(ctx, inv); err != nil {
			return err
		}
		updated, err = reload(ctx, invoiceRepo, inv.ID)
		return err
	})
	if err != nil {
		return nil, uc.fail(err, "cambiar estado")
	}

	uc.logger.Info().Str("invoice_id", updated.ID).Str("status", updated.Status).Msg("estado de factura actualizado")
	var lowStock []string
	if stock != nil {
		lowStock = stock.lowStockIDs()
	}
	uc.publish(ctx, EventInvoiceStatusChanged, updated, lowStock)
	return ToInvoiceResponse(updated), nil
}

// Delete elimina una factura no pagada. Si no estaba anulada devuelve el stock de sus líneas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	uc.logger.Info().Str("invoice_id", id).Msg("eliminando factura")

	var deleted *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		inv, err := loadInvoice(ctx, invoiceRepo, id)
		if err != nil {
			return err
		}
		if err := inv.EnsureDeletable(); err != nil {
			return err
		}
		if inv.HoldsStock() {
			stock, err := lockInvoiceProducts(ctx, productRepo, inv)
			if err != nil {
				return err
			}
			if err := stock.restore(inv.Lines); err != nil {
				return err
			}
			if err := stock.persist(ctx, productRepo); err != nil {
				return err
			}
		}
		if err := invoiceRepo.Delete(ctx, inv.ID); err != nil {
			return err
		}
		deleted = inv
		return nil
	})
	if err != nil {
		return uc.fail(err, "eliminar factura")
	}

	uc.logger.Info().Str("invoice_id", id).Str("number", deleted.Number).Msg("factura eliminada")
	uc.publish(ctx, EventInvoiceDeleted, deleted, nil)
	return nil
}

// Get obtiene una factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.invoiceRepo, id)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponse(inv), nil
}

// List todas las facturas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(list), nil
}

// ListByCustomer facturas de un cliente existente.
func (uc *InvoiceUseCase) ListByCustomer(ctx context.Context, customerID string) ([]*dto.InvoiceResponse, error) {
	if err := ensureCustomer(ctx, uc.customerRepo, customerID); err != nil {
		return nil, err
	}
	list, err := uc.invoiceRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponses(list), nil
}

// fail registra el error: Warn si es una regla de negocio, Error si es de infraestructura.
func (uc *InvoiceUseCase) fail(err error, op string) error {
	if domain.IsBusinessError(err) {
		uc.logger.Warn().Str("op", op).Msg(err.Error())
		return err
	}
	uc.logger.Error().Err(err).Str("op", op).Msg("error de infraestructura")
	return err
}

// publish emite el evento sin afectar el resultado: la transacción ya se confirmó.
func (uc *InvoiceUseCase) publish(ctx context.Context, eventType string, inv *entity.Invoice, lowStock []string) {
	if uc.publisher == nil {
		return
	}
	event := InvoiceEvent{
		Type:               eventType,
		InvoiceID:          inv.ID,
		Number:             inv.Number,
		CustomerID:         inv.CustomerID,
		Status:             inv.Status,
		Total:              inv.Total,
		LowStockProductIDs: lowStock,
		OccurredAt:         uc.now().UTC(),
	}
	if err := uc.publisher.Publish(ctx, event); err != nil {
		uc.logger.Warn().Err(err).Str("invoice_id", inv.ID).Str("type", eventType).Msg("no se pudo publicar el evento")
	}
}

// lineRequest línea solicitada, común a creación y edición.
type lineRequest struct {
	lineID    *string
	productID string
	quantity  int
}

func validateInvoiceInput(customerID string, reqs []lineRequest) error {
	if strings.TrimSpace(customerID) == "" {
		return domain.Validation("customer id is required")
	}
	if len(reqs) == 0 {
		return domain.Validation("the invoice must have at least one line")
	}
	seen := make(map[string]struct{}, len(reqs))
	seenLines := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		if strings.TrimSpace(r.productID) == "" {
			return domain.Validation("product id is required on every line")
		}
		if r.quantity <= 0 {
			return domain.Validation("line quantity must be greater than zero, got %d", r.quantity)
		}
		if _, dup := seen[r.productID]; dup {
			return domain.Validation("product %s appears more than once in the invoice", r.productID)
		}
		seen[r.productID] = struct{}{}
		if r.lineID != nil && *r.lineID != "" {
			if _, dup := seenLines[*r.lineID]; dup {
				return domain.Validation("line %s appears more than once in the invoice", *r.lineID)
			}
			seenLines[*r.lineID] = struct{}{}
		}
	}
	return nil
}

func productIDs(reqs []lineRequest) []string {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.productID)
	}
	return ids
}

// reserveLines procesa las líneas en orden: precio vigente como snapshot y descuento de stock.
// previous son los ids de las líneas que tenía la factura; un lineID fuera de ese conjunto es un error.
func reserveLines(inv *entity.Invoice, stock *stockSet, reqs []lineRequest, previous map[string]struct{}) error {
	for _, r := range reqs {
		product, err := stock.get(r.productID)
		if err != nil {
			return err
		}
		lineID := uuid.New().String()
		if r.lineID != nil && *r.lineID != "" {
			if _, ok := previous[*r.lineID]; !ok {
				return domain.NotFound("invoice line %s not found in invoice %s", *r.lineID, inv.ID)
			}
			lineID = *r.lineID
		}
		if err := product.ReduceStock(r.quantity); err != nil {
			return err
		}
		if err := inv.AddLine(entity.NewInvoiceLine(lineID, product, r.quantity)); err != nil {
			return err
		}
	}
	return nil
}

func lockInvoiceProducts(ctx context.Context, repo repository.ProductRepository, inv *entity.Invoice) (*stockSet, error) {
	ids := make([]string, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		ids = append(ids, l.ProductID)
	}
	return lockProducts(ctx, repo, ids)
}

// uniqueInvoiceNumber agrega -2, -3... si el número FAC-YYYYMMDDHHMMSS ya existe.
func uniqueInvoiceNumber(ctx context.Context, repo repository.InvoiceRepository, base string) (string, error) {
	number := base
	for i := 2; ; i++ {
		exists, err := repo.ExistsNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check invoice number: %w", err)
		}
		if !exists {
			return number, nil
		}
		number = fmt.Sprintf("%s-%d", base, i)
	}
}

func ensureCustomer(ctx context.Context, repo repository.CustomerRepository, id string) error {
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("customer %s not found", id)
	}
	return nil
}

func loadInvoice(ctx context.Context, repo repository.InvoiceRepository, id string) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.NotFound("invoice %s not found", id)
	}
	return inv, nil
}

// reload relee la factura dentro de la transacción para devolver nombres de cliente y productos.
func reload(ctx context.Context, repo repository.InvoiceRepository, id string) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, errors.New("invoice vanished after write")
	}
	return inv, nil
}
