package billing

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/facturacion-api/internal/application/dto"
	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo        repository.CustomerRepository
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, invoiceRepo repository.InvoiceRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, invoiceRepo: invoiceRepo, now: time.Now}
}

// Create crea un nuevo cliente. El email es único.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	birth, err := uc.validate(in.FirstName, in.LastName, in.Email, in.BirthDate)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("a customer with email '%s' already exists", email)
	}
	now := uc.now().UTC()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Phone:     strings.TrimSpace(in.Phone),
		BirthDate: birth,
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer, now), nil
}

// Get obtiene un cliente por ID.
func (uc *CustomerUseCase) Get(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(c, uc.now()), nil
}

// List lista clientes ordenados por apellido y nombre.
func (uc *CustomerUseCase) List(ctx context.Context) ([]*dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c, now))
	}
	return out, nil
}

// Update modifica los datos de un cliente; el email sigue siendo único entre los demás.
func (uc *CustomerUseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	birth, err := uc.validate(in.FirstName, in.LastName, in.Email, in.BirthDate)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)
	if email != c.Email {
		other, err := uc.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != c.ID {
			return nil, domain.Conflict("a customer with email '%s' already exists", email)
		}
	}
	c.FirstName = strings.TrimSpace(in.FirstName)
	c.LastName = strings.TrimSpace(in.LastName)
	c.Email = email
	c.Phone = strings.TrimSpace(in.Phone)
	c.BirthDate = birth
	c.Address = strings.TrimSpace(in.Address)
	if in.Active != nil {
		c.Active = *in.Active
	}
	c.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c, c.UpdatedAt), nil
}

// Delete elimina un cliente sin facturas.
func (uc *CustomerUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	count, err := uc.invoiceRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.InvalidState("cannot delete customer %s: it has %d invoice(s)", id, count)
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *CustomerUseCase) find(ctx context.Context, id string) (*entity.Customer, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("customer %s not found", id)
	}
	return c, nil
}

func (uc *CustomerUseCase) validate(firstName, lastName, email, birthDate string) (time.Time, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return time.Time{}, domain.Validation("first name and last name are required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return time.Time{}, domain.Validation("invalid email '%s'", email)
	}
	if strings.TrimSpace(birthDate) == "" {
		return time.Time{}, nil
	}
	birth, err := time.Parse(birthDateLayout, strings.TrimSpace(birthDate))
	if err != nil {
		return time.Time{}, domain.Validation("invalid birth date '%s', expected YYYY-MM-DD", birthDate)
	}
	if birth.After(uc.now()) {
		return time.Time{}, domain.Validation("birth date cannot be in the future")
	}
	return birth, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
