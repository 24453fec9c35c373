package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Ticket is the backend's confirmation of a committed purchase.
type Ticket struct {
	ID                 int
	TripID             int
	PayerID            int
	PayerName          string
	SeatNumber         int
	Price              decimal.Decimal
	PaymentReferenceID string
	IssuedAt           time.Time
}

type PurchaseRequest struct {
	TripID             int
	PayerID            int
	SeatNumber         int
	PaymentReferenceID string
}

type TicketService interface {
	Purchase(ctx context.Context, token string, req PurchaseRequest) (*Ticket, error)
	GetTicketsOfUser(ctx context.Context, token string, page, pageSize int) ([]Ticket, error)
}
