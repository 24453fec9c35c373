package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mvillagran/bus-ticketing-gateway/api"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
)

const (
	msgPaymentNotCompleted = "The payment could not be completed; you have not been charged"
	msgPaymentCanceled     = "The payment was canceled before completing; you have not been charged"
	msgCommitFailed        = "Your payment was captured but the ticket could not be issued. " +
		"Support will resolve this with your payment reference; do not pay again"
)

// CreatePaymentOrder is the widget's createOrder callback. It opens a provider
// order for the trip price and hands the order id back; on any failure the
// endpoint errors so the widget never shows an approval UI for a broken order.
func (app *Application) CreatePaymentOrder(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	checkout, err := app.loadCheckout(r.Context())
	if err != nil {
		app.checkoutLoadError(w, r, err)
		return
	}

	if !checkout.CanSubmit() {
		app.editConflictResponseWithErr(w, r, fmt.Errorf("checkout is not ready for payment"))
		return
	}

	if !checkout.Trip.Price.IsPositive() {
		logger.Error("checkout holds a non-positive trip price", "trip_id", checkout.Trip.ID, "price", checkout.Trip.Price)
		app.badRequestResponse(w, r, fmt.Errorf("trip price is not valid for payment"))
		return
	}

	err = checkout.Attempt.BeginOrder()
	if err != nil {
		app.editConflictResponseWithErr(w, r, err)
		return
	}

	order, err := app.payments.CreateOrder(r.Context(), app.contextGetToken(r), checkout.Trip.Price)
	if err != nil {
		checkout.Attempt.Fail(msgPaymentNotCompleted)

		if saveErr := app.saveCheckout(r.Context(), checkout); saveErr != nil {
			app.checkoutSaveError(w, r, saveErr)
			return
		}

		app.badGatewayResponse(w, r, err, "The payment order could not be created")
		return
	}

	err = checkout.Attempt.OrderCreated(order.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.saveCheckout(r.Context(), checkout)
	if err != nil {
		app.checkoutSaveError(w, r, err)
		return
	}

	logger.Info("payment order created", "order_id", order.ID, "trip_id", checkout.Trip.ID)

	resp := api.CreateOrderResponse{OrderId: order.ID}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// CaptureOrder is the widget's onApprove callback. It captures the approved
// order and, only on a completed capture, commits the purchase to the backend.
// A commit rejection after capture is journaled for reconciliation and
// reported distinctly: at that point the buyer has been charged.
func (app *Application) CaptureOrder(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	orderID := chi.URLParam(r, "orderId")

	checkout, err := app.loadCheckout(r.Context())
	if err != nil {
		app.checkoutLoadError(w, r, err)
		return
	}

	err = checkout.Attempt.BeginCapture(orderID)
	if err != nil {
		app.editConflictResponseWithErr(w, r, fmt.Errorf("order %s is not awaiting approval", orderID))
		return
	}

	err = app.saveCheckout(r.Context(), checkout)
	if err != nil {
		app.checkoutSaveError(w, r, err)
		return
	}

	token := app.contextGetToken(r)

	capture, err := app.payments.CaptureOrder(r.Context(), token, orderID)
	if err != nil {
		logger.Error("capture request failed", "order_id", orderID, "error", err)

		// The capture outcome is unknown, so the message must not promise
		// the buyer was not charged.
		app.failAttempt(w, r, checkout, "The payment could not be confirmed; please contact support before retrying")
		return
	}

	if !capture.Completed() {
		logger.Warn("capture did not complete", "order_id", orderID, "status", capture.Status)
		app.failAttempt(w, r, checkout, msgPaymentNotCompleted)
		return
	}

	err = checkout.Attempt.BeginCommit()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	purchase := domain.PurchaseRequest{
		TripID:             checkout.Trip.ID,
		PayerID:            checkout.Payer.CustomerID,
		SeatNumber:         checkout.SelectedSeat,
		PaymentReferenceID: capture.ID,
	}

	ticket, err := app.tickets.Purchase(r.Context(), token, purchase)
	if err != nil {
		app.commitFailed(w, r, checkout, purchase, err)
		return
	}

	err = checkout.Attempt.Complete()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.saveCheckout(r.Context(), checkout)
	if err != nil {
		app.checkoutSaveError(w, r, err)
		return
	}

	logger.Info("purchase committed",
		"order_id", orderID,
		"ticket_id", ticket.ID,
		"trip_id", ticket.TripID,
		"seat", ticket.SeatNumber,
	)

	resp := api.TicketResponse{Ticket: toApiTicket(ticket)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ReportPaymentError is the widget's onError/onCancel callback: the approval
// stage ended without an approved order, so nothing was charged.
func (app *Application) ReportPaymentError(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.PaymentErrorRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	checkout, err := app.loadCheckout(r.Context())
	if err != nil {
		app.checkoutLoadError(w, r, err)
		return
	}

	err = checkout.Attempt.Fail(msgPaymentCanceled)
	if err != nil {
		app.editConflictResponseWithErr(w, r, fmt.Errorf("there is no payment in progress to fail"))
		return
	}

	logger.Warn("payment widget reported an error", "detail", input.Message)

	err = app.saveCheckout(r.Context(), checkout)
	if err != nil {
		app.checkoutSaveError(w, r, err)
		return
	}

	resp := app.toCheckoutResponse(checkout)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) failAttempt(
	w http.ResponseWriter,
	r *http.Request,
	checkout *domain.CheckoutSession,
	message string) {

	err := checkout.Attempt.Fail(message)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.saveCheckout(r.Context(), checkout)
	if err != nil {
		app.checkoutSaveError(w, r, err)
		return
	}

	app.errorResponse(w, r, http.StatusBadGateway, message)
}

// commitFailed handles the paid-but-not-ticketed case: record the capture for
// support, park the attempt in its own terminal state, and answer with wording
// that is clearly not a retryable payment failure.
func (app *Application) commitFailed(
	w http.ResponseWriter,
	r *http.Request,
	checkout *domain.CheckoutSession,
	purchase domain.PurchaseRequest,
	cause error) {

	logger := app.contextGetLogger(r)

	logger.Error("purchase commit rejected after capture",
		"payment_reference", purchase.PaymentReferenceID,
		"trip_id", purchase.TripID,
		"seat", purchase.SeatNumber,
		"error", cause,
	)

	err := checkout.Attempt.FailCommit(msgCommitFailed)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	entry := domain.ReconciliationEntry{
		PaymentReferenceID: purchase.PaymentReferenceID,
		TripID:             purchase.TripID,
		PayerID:            purchase.PayerID,
		SeatNumber:         purchase.SeatNumber,
		Amount:             checkout.Trip.Price,
		Cause:              cause.Error(),
	}

	err = app.reconciliations.Record(r.Context(), &entry)
	if err != nil && !errors.Is(err, domain.ErrAlreadyRecorded) {
		// The journal write failed; the log line above is now the only
		// trace of the captured charge, so keep it loud.
		logger.Error("failed to journal reconciliation entry",
			"payment_reference", purchase.PaymentReferenceID,
			"error", err,
		)
	}

	err = app.saveCheckout(r.Context(), checkout)
	if err != nil {
		app.checkoutSaveError(w, r, err)
		return
	}

	app.errorResponse(w, r, http.StatusConflict, fmt.Sprintf("%s. Payment reference: %s",
		msgCommitFailed, purchase.PaymentReferenceID))
}

// GetReconciliationEntry looks a journaled capture up by its payment
// reference, for support resolving a paid-but-not-ticketed report.
func (app *Application) GetReconciliationEntry(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "paymentReference")

	entry, err := app.reconciliations.GetByPaymentReference(r.Context(), reference)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ReconciliationEntryResponse{
		Id:                 entry.ID,
		PaymentReferenceId: entry.PaymentReferenceID,
		TripId:             entry.TripID,
		PayerId:            entry.PayerID,
		SeatNumber:         entry.SeatNumber,
		Amount:             entry.Amount,
		Cause:              entry.Cause,
		Resolved:           entry.Resolved,
		CreatedAt:          entry.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiTicket(ticket *domain.Ticket) api.Ticket {
	return api.Ticket{
		Id:                 ticket.ID,
		TripId:             ticket.TripID,
		SeatNumber:         ticket.SeatNumber,
		PayerName:          ticket.PayerName,
		Price:              ticket.Price,
		PaymentReferenceId: ticket.PaymentReferenceID,
		IssuedAt:           ticket.IssuedAt,
	}
}
