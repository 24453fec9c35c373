package upstream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/shopspring/decimal"
)

type purchaseRequest struct {
	TripId             int    `json:"tripId"`
	PayerId            int    `json:"payerId"`
	SeatNumber         int    `json:"seatNumber"`
	PaymentReferenceId string `json:"paymentReferenceId"`
}

type ticketResponse struct {
	Id                 int             `json:"id"`
	TripId             int             `json:"tripId"`
	PayerId            int             `json:"payerId"`
	PayerName          string          `json:"payerName"`
	SeatNumber         int             `json:"seatNumber"`
	Price              decimal.Decimal `json:"price"`
	PaymentReferenceId string          `json:"paymentReferenceId"`
	IssuedAt           time.Time       `json:"issuedAt"`
}

type ticketListResponse struct {
	Tickets []ticketResponse `json:"tickets"`
}

func (c *Client) Purchase(ctx context.Context, token string, req domain.PurchaseRequest) (*domain.Ticket, error) {
	body := purchaseRequest{
		TripId:             req.TripID,
		PayerId:            req.PayerID,
		SeatNumber:         req.SeatNumber,
		PaymentReferenceId: req.PaymentReferenceID,
	}

	var resp ticketResponse

	err := c.do(ctx, http.MethodPost, "/tickets/purchase", token, body, &resp)
	if err != nil {
		// A conflict here means the backend would not issue the ticket,
		// typically because the seat was sold in the meantime.
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.ErrSeatConflict
		}

		return nil, err
	}

	ticket := toTicket(resp)

	return &ticket, nil
}

func (c *Client) GetTicketsOfUser(ctx context.Context, token string, page, pageSize int) ([]domain.Ticket, error) {
	var resp ticketListResponse

	path := fmt.Sprintf("/tickets?page=%d&pageSize=%d", page, pageSize)

	err := c.do(ctx, http.MethodGet, path, token, nil, &resp)
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, len(resp.Tickets))
	for i, v := range resp.Tickets {
		tickets[i] = toTicket(v)
	}

	return tickets, nil
}

func toTicket(resp ticketResponse) domain.Ticket {
	return domain.Ticket{
		ID:                 resp.Id,
		TripID:             resp.TripId,
		PayerID:            resp.PayerId,
		PayerName:          resp.PayerName,
		SeatNumber:         resp.SeatNumber,
		Price:              resp.Price,
		PaymentReferenceID: resp.PaymentReferenceId,
		IssuedAt:           resp.IssuedAt,
	}
}
