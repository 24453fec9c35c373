package domain

import (
	"time"

	"github.com/google/uuid"
)

type AttemptState string

const (
	AttemptIdle             AttemptState = "IDLE"
	AttemptOrderCreating    AttemptState = "ORDER_CREATING"
	AttemptAwaitingApproval AttemptState = "AWAITING_APPROVAL"
	AttemptCapturing        AttemptState = "CAPTURING"
	AttemptCommitting       AttemptState = "COMMITTING"
	AttemptSucceeded        AttemptState = "SUCCEEDED"
	AttemptFailed           AttemptState = "FAILED"
	AttemptCommitFailed     AttemptState = "COMMIT_FAILED"
)

// PaymentAttempt tracks one pass through the order-create / approve / capture /
// commit sequence. Every transition is guarded so capture can never run before
// approval and commit can never run before a completed capture, regardless of
// how callbacks arrive from the payment widget.
type PaymentAttempt struct {
	State          AttemptState
	OrderID        string
	FailureMessage string
}

// Terminal reports whether the attempt has finished, successfully or not.
// A new attempt can start only after an explicit reset.
func (a *PaymentAttempt) Terminal() bool {
	return a.State == AttemptSucceeded || a.State == AttemptFailed || a.State == AttemptCommitFailed
}

func (a *PaymentAttempt) BeginOrder() error {
	if a.State != AttemptIdle {
		return ErrInvalidAttemptState
	}

	a.State = AttemptOrderCreating

	return nil
}

func (a *PaymentAttempt) OrderCreated(orderID string) error {
	if a.State != AttemptOrderCreating {
		return ErrInvalidAttemptState
	}

	a.State = AttemptAwaitingApproval
	a.OrderID = orderID

	return nil
}

// BeginCapture moves the attempt past the approval stage. The approved order
// must be the one this attempt created.
func (a *PaymentAttempt) BeginCapture(orderID string) error {
	if a.State != AttemptAwaitingApproval || a.OrderID != orderID {
		return ErrInvalidAttemptState
	}

	a.State = AttemptCapturing

	return nil
}

func (a *PaymentAttempt) BeginCommit() error {
	if a.State != AttemptCapturing {
		return ErrInvalidAttemptState
	}

	a.State = AttemptCommitting

	return nil
}

func (a *PaymentAttempt) Complete() error {
	if a.State != AttemptCommitting {
		return ErrInvalidAttemptState
	}

	a.State = AttemptSucceeded

	return nil
}

// Fail covers every pre-commit failure: order creation errors, approval
// cancellation, and capture errors. At none of these points has the backend
// issued a ticket.
func (a *PaymentAttempt) Fail(message string) error {
	switch a.State {
	case AttemptOrderCreating, AttemptAwaitingApproval, AttemptCapturing:
	default:
		return ErrInvalidAttemptState
	}

	a.State = AttemptFailed
	a.FailureMessage = message

	return nil
}

// FailCommit is the post-capture failure: funds are captured but no ticket was
// issued. The order id is kept as the reconciliation reference.
func (a *PaymentAttempt) FailCommit(message string) error {
	if a.State != AttemptCommitting {
		return ErrInvalidAttemptState
	}

	a.State = AttemptCommitFailed
	a.FailureMessage = message

	return nil
}

func (a *PaymentAttempt) reset() error {
	if !a.Terminal() {
		return ErrInvalidAttemptState
	}

	*a = PaymentAttempt{State: AttemptIdle}

	return nil
}

// CheckoutSession is the server-held state of one user's checkout: the trip
// snapshot taken when the checkout started, at most one selected seat, the
// resolved payer, and the payment attempt.
type CheckoutSession struct {
	ID           string
	Trip         Trip
	SelectedSeat int // 0 means no selection
	Payer        *Payer
	Attempt      PaymentAttempt
	Version      int // incremented on every store write
	CreatedAt    time.Time
}

func NewCheckoutSession(trip *Trip) CheckoutSession {
	return CheckoutSession{
		ID:        uuid.New().String(),
		Trip:      *trip,
		Attempt:   PaymentAttempt{State: AttemptIdle},
		CreatedAt: time.Now(),
	}
}

// SelectSeat toggles the selection. Occupied or out-of-range seats, and any
// click after the payment attempt has left Idle, are silent no-ops.
func (c *CheckoutSession) SelectSeat(seatNumber int) {
	if c.Attempt.State != AttemptIdle {
		return
	}

	if seatNumber < 1 || seatNumber > c.Trip.Capacity {
		return
	}

	if c.Trip.Occupied(seatNumber) {
		return
	}

	if c.SelectedSeat == seatNumber {
		c.SelectedSeat = 0
		return
	}

	c.SelectedSeat = seatNumber
}

func (c *CheckoutSession) SeatMap() []Seat {
	return BuildSeatMap(c.Trip.Capacity, c.Trip.OccupiedSeats, c.SelectedSeat)
}

func (c *CheckoutSession) CanSubmit() bool {
	return c.SelectedSeat != 0 && c.Payer != nil && c.Attempt.State == AttemptIdle
}

// Reset returns a finished attempt to Idle so the same session can buy again.
// After a successful purchase the sold seat joins the occupied set and the
// selection is cleared; a failed attempt keeps its selection.
func (c *CheckoutSession) Reset() error {
	succeeded := c.Attempt.State == AttemptSucceeded

	err := c.Attempt.reset()
	if err != nil {
		return err
	}

	if succeeded && c.SelectedSeat != 0 {
		c.Trip.OccupiedSeats = append(c.Trip.OccupiedSeats, c.SelectedSeat)
		c.SelectedSeat = 0
	}

	return nil
}
