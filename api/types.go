// Package api holds the request and response types of the gateway's HTTP
// surface. Payload shapes are declared here and validated at the boundary
// instead of being trusted at use sites.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
	RequestId        string            `json:"requestId,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type RegisterRequest struct {
	FirstName  string `json:"firstName" validate:"required,max=50"`
	LastName   string `json:"lastName" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
	NationalId string `json:"nationalId" validate:"required,national_id"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
}

type UserResponse struct {
	Id         int       `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	NationalId string    `json:"nationalId"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CurrentUserResponse struct {
	Id       int    `json:"id"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	User UserResponse `json:"user"`
}

type Seat struct {
	Number int    `json:"number"`
	Status string `json:"status"`
}

type SeatMapResponse struct {
	TripId      int             `json:"tripId"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Departure   time.Time       `json:"departure"`
	Price       decimal.Decimal `json:"price"`
	Capacity    int             `json:"capacity"`
	Seats       []Seat          `json:"seats"`
}

type OccupiedSeatsResponse struct {
	TripId              int   `json:"tripId"`
	OccupiedSeatNumbers []int `json:"occupiedSeatNumbers"`
}

type CheckoutPayer struct {
	CustomerId int    `json:"customerId"`
	FullName   string `json:"fullName"`
	NationalId string `json:"nationalId,omitempty"`
}

type CheckoutResponse struct {
	CheckoutId     string          `json:"checkoutId"`
	TripId         int             `json:"tripId"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	Departure      time.Time       `json:"departure"`
	Price          decimal.Decimal `json:"price"`
	Seats          []Seat          `json:"seats"`
	SelectedSeat   *int            `json:"selectedSeat,omitempty"`
	Payer          *CheckoutPayer  `json:"payer,omitempty"`
	AttemptState   string          `json:"attemptState"`
	OrderId        string          `json:"orderId,omitempty"`
	FailureMessage string          `json:"failureMessage,omitempty"`
	CanSubmit      bool            `json:"canSubmit"`

	// PaymentClientId initializes the provider's browser widget.
	PaymentClientId string `json:"paymentClientId,omitempty"`
}

type SelectSeatRequest struct {
	SeatNumber int `json:"seatNumber" validate:"required,min=1"`
}

type ResolvePayerRequest struct {
	// NationalId is set in the vendor flow to look the customer up; when
	// absent the session user becomes the payer.
	NationalId *string `json:"nationalId,omitempty" validate:"omitempty,national_id"`
}

type CreateOrderResponse struct {
	OrderId string `json:"orderId"`
}

type PaymentErrorRequest struct {
	Message string `json:"message" validate:"max=500"`
}

type TicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type Ticket struct {
	Id                 int             `json:"id"`
	TripId             int             `json:"tripId"`
	SeatNumber         int             `json:"seatNumber"`
	PayerName          string          `json:"payerName"`
	Price              decimal.Decimal `json:"price"`
	PaymentReferenceId string          `json:"paymentReferenceId"`
	IssuedAt           time.Time       `json:"issuedAt"`
}

type TicketListResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type ReconciliationEntryResponse struct {
	Id                 int             `json:"id"`
	PaymentReferenceId string          `json:"paymentReferenceId"`
	TripId             int             `json:"tripId"`
	PayerId            int             `json:"payerId"`
	SeatNumber         int             `json:"seatNumber"`
	Amount             decimal.Decimal `json:"amount"`
	Cause              string          `json:"cause"`
	Resolved           bool            `json:"resolved"`
	CreatedAt          time.Time       `json:"createdAt"`
}
