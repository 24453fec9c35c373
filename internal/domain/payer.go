package domain

import "context"

// Payer is the person a ticket will be issued to: the session user in the
// customer flow, or a customer looked up by national id in the vendor flow.
type Payer struct {
	CustomerID int
	FullName   string
	NationalID string
}

type Customer struct {
	ID         int
	FirstName  string
	LastName   string
	NationalID string
	Email      string
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

type CustomerService interface {
	GetByNationalID(ctx context.Context, token, nationalID string) (*Customer, error)
}
