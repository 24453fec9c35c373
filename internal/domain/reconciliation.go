package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationEntry records a payment that was captured by the provider but
// rejected by the backend at ticket issuance. These are worked off manually by
// support; the gateway never retries the commit on its own.
type ReconciliationEntry struct {
	ID                 int
	PaymentReferenceID string
	TripID             int
	PayerID            int
	SeatNumber         int
	Amount             decimal.Decimal
	Cause              string
	Resolved           bool
	CreatedAt          time.Time
}

type ReconciliationRepository interface {
	Record(ctx context.Context, entry *ReconciliationEntry) error
	GetByPaymentReference(ctx context.Context, paymentReferenceID string) (*ReconciliationEntry, error)
}
