package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

type createOrderRequest struct {
	Amount string `json:"amount"`
}

type orderResponse struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder asks the platform to open a provider order for the amount.
// The wire format for money is a string with exactly two decimal digits.
func (c *Client) CreateOrder(ctx context.Context, token string, amount decimal.Decimal) (*domain.PaymentOrder, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("order amount must be positive, got %s", amount)
	}

	req := createOrderRequest{Amount: amount.StringFixed(2)}

	var resp orderResponse

	err := c.do(ctx, http.MethodPost, "/payment/orders", token, req, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Id == "" {
		return nil, fmt.Errorf("platform API returned an order without an id")
	}

	return &domain.PaymentOrder{ID: resp.Id}, nil
}

func (c *Client) CaptureOrder(ctx context.Context, token, orderID string) (*domain.Capture, error) {
	var resp orderResponse

	path := fmt.Sprintf("/payment/orders/%s/capture", url.PathEscape(orderID))

	err := c.do(ctx, http.MethodPost, path, token, nil, &resp)
	if err != nil {
		return nil, err
	}

	return &domain.Capture{
		ID:     resp.Id,
		Status: domain.CaptureStatus(resp.Status),
	}, nil
}
