package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/facturacion-api/internal/domain"
	"github.com/jhoicas/facturacion-api/internal/domain/entity"
	"github.com/jhoicas/facturacion-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación en memoria de CustomerRepository.
type CustomerRepo struct {
	db access
}

// NewCustomerRepository construye el repositorio sobre el store.
func NewCustomerRepository(store *Store) *CustomerRepo {
	return &CustomerRepo{db: store}
}

func (r *CustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	return r.db.write(func(s *state) error {
		if _, ok := s.customers[customer.ID]; ok {
			return domain.Conflict("customer %s already exists", customer.ID)
		}
		if emailTaken(s, customer.Email, customer.ID) {
			return domain.Conflict("a customer with email '%s' already exists", customer.Email)
		}
		s.customers[customer.ID] = *customer
		return nil
	})
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.db.read(func(s *state) error {
		if c, ok := s.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.db.read(func(s *state) error {
		for _, c := range s.customers {
			if c.Email == email {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List por apellido y nombre.
func (r *CustomerRepo) List(_ context.Context) ([]*entity.Customer, error) {
	var out []*entity.Customer
	err := r.db.read(func(s *state) error {
		out = make([]*entity.Customer, 0, len(s.customers))
		for _, c := range s.customers {
			c := c
			out = append(out, &c)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].LastName != out[j].LastName {
				return out[i].LastName < out[j].LastName
			}
			return out[i].FirstName < out[j].FirstName
		})
		return nil
	})
	return out, err
}

func (r *CustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	return r.db.write(func(s *state) error {
		if _, ok := s.customers[customer.ID]; !ok {
			return nil
		}
		if emailTaken(s, customer.Email, customer.ID) {
			return domain.Conflict("a customer with email '%s' already exists", customer.Email)
		}
		s.customers[customer.ID] = *customer
		return nil
	})
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	return r.db.write(func(s *state) error {
		delete(s.customers, id)
		return nil
	})
}

func emailTaken(s *state, email, exceptID string) bool {
	for _, c := range s.customers {
		if c.Email == email && c.ID != exceptID {
			return true
		}
	}
	return false
}
