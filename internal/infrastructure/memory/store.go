// Package memory implementa los puertos de persistencia sobre mapas en memoria.
// Se usa en tests y en modo demo; las transacciones trabajan sobre una copia del estado
// que solo reemplaza al original si el callback termina sin error.
package memory

import (
	"sync"

	"github.com/jhoicas/facturacion-api/internal/domain/entity"
)

// lineRow línea persistida; seq conserva el orden de inserción.
type lineRow struct {
	line entity.InvoiceLine
	seq  int64
}

// state filas por tabla. Se guardan valores, no punteros, para que copiar el estado
// no comparta entidades entre una transacción y el estado confirmado.
type state struct {
	products  map[string]entity.Product
	customers map[string]entity.Customer
	invoices  map[string]entity.Invoice // sin Lines
	lines     map[string]lineRow
	users     map[string]entity.User
	seq       int64
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
		invoices:  make(map[string]entity.Invoice),
		lines:     make(map[string]lineRow),
		users:     make(map[string]entity.User),
	}
}

func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]entity.Product, len(s.products)),
		customers: make(map[string]entity.Customer, len(s.customers)),
		invoices:  make(map[string]entity.Invoice, len(s.invoices)),
		lines:     make(map[string]lineRow, len(s.lines)),
		users:     make(map[string]entity.User, len(s.users)),
		seq:       s.seq,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.customers {
		c.customers[k] = v
	}
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	return c
}

// access abstrae cómo un repositorio llega al estado: con locks (Store) o
// directamente dentro de una transacción ya serializada (txAccess).
type access interface {
	read(fn func(s *state) error) error
	write(fn func(s *state) error) error
}

// Store estado compartido en memoria.
// txMu serializa escritores (transacciones y escrituras sueltas); mu protege el puntero al estado.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

// write aplica fn sobre una copia y la publica solo si fn no falla.
func (s *Store) write(fn func(st *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// txAccess acceso sin locks para el estado de trabajo de una transacción en curso.
type txAccess struct {
	st *state
}

func (t txAccess) read(fn func(st *state) error) error  { return fn(t.st) }
func (t txAccess) write(fn func(st *state) error) error { return fn(t.st) }
