package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type CaptureStatus string

const (
	CaptureCompleted CaptureStatus = "COMPLETED"
	CaptureDeclined  CaptureStatus = "DECLINED"
	CaptureFailed    CaptureStatus = "FAILED"
)

type PaymentOrder struct {
	ID string
}

type Capture struct {
	ID     string
	Status CaptureStatus
}

func (c *Capture) Completed() bool {
	return c.Status == CaptureCompleted
}

// PaymentService brokers the provider's two-phase order flow through the
// platform API. The approval step in between happens in the browser widget.
type PaymentService interface {
	CreateOrder(ctx context.Context, token string, amount decimal.Decimal) (*PaymentOrder, error)
	CaptureOrder(ctx context.Context, token, orderID string) (*Capture, error)
}
