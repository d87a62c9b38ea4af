package entity

import (
	"strings"
	"time"
)

// Customer representa un cliente de facturación. Email es único.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BirthDate time.Time
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName nombre y apellido.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Age edad en años cumplidos a la fecha now.
func (c *Customer) Age(now time.Time) int {
	if c.BirthDate.IsZero() {
		return 0
	}
	age := now.Year() - c.BirthDate.Year()
	// Aún no cumple años este año
	if now.Month() < c.BirthDate.Month() ||
		(now.Month() == c.BirthDate.Month() && now.Day() < c.BirthDate.Day()) {
		age--
	}
	return age
}
