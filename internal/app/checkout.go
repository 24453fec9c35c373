package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mvillagran/bus-ticketing-gateway/api"
	"github.com/mvillagran/bus-ticketing-gateway/internal/domain"
	"github.com/redis/go-redis/v9"
)

const checkoutTTL = 30 * time.Minute

func checkoutKey(sessionToken string) string {
	return "checkout:" + sessionToken
}

// StartCheckout pins a trip snapshot (price, capacity, occupied seats) and
// opens a fresh checkout for the session. Starting over replaces any previous
// checkout, finished or not.
func (app *Application) StartCheckout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	tripID, err := tripIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	token := app.contextGetToken(r)

	trip, err := app.trips.GetTripDetail(r.Context(), token, tripID)
	if err != nil {
		app.handleUpstreamError(w, r, err)
		return
	}

	checkout := domain.NewCheckoutSession(trip)

	err = app.storeCheckout(r.Context(), &checkout)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	logger.Info("checkout started", "trip_id", tripID, "checkout_id", checkout.ID)

	resp := app.toCheckoutResponse(&checkout)

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := app.loadCheckout(r.Context())
	if err != nil {
		app.checkoutLoadError(w, r, err)
		return
	}

	resp := app.toCheckoutResponse(checkout)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SelectSeat toggles the seat in the request body. Clicks on occupied seats,
// or once payment is underway, change nothing; the response always carries the
// current map so the caller re-renders from it.
func (app *Application) SelectSeat(w http.ResponseWriter, r *http.Request) {
	var input api.SelectSeatRequest

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

	checkout.SelectSeat(input.SeatNumber)

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

// ResolvePayer sets who the ticket is issued to. Without a national id in the
// body the session user pays (customer flow); with one, the customer is looked
// up and echoed back for confirmation (vendor flow). A failed lookup leaves
// any previously resolved payer untouched.
func (app *Application) ResolvePayer(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.ResolvePayerRequest

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

	if checkout.Attempt.State != domain.AttemptIdle {
		app.editConflictResponseWithErr(w, r, fmt.Errorf("payer cannot change while a payment is in progress"))
		return
	}

	if input.NationalId == nil {
		checkout.Payer = &domain.Payer{
			CustomerID: app.contextGetUserId(r),
			FullName:   app.contextGetUserName(r),
		}
	} else {
		customer, err := app.customers.GetByNationalID(r.Context(), app.contextGetToken(r), *input.NationalId)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				logger.Warn("payer lookup found no customer")
				app.notFoundResponseWithErr(w, r, fmt.Errorf("no customer found with the given national id"))
				return
			}

			app.handleUpstreamError(w, r, err)
			return
		}

		checkout.Payer = &domain.Payer{
			CustomerID: customer.ID,
			FullName:   customer.FullName(),
			NationalID: customer.NationalID,
		}
	}

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

// ResetCheckout returns a finished attempt to Idle. This is the only way back;
// nothing resets automatically after success or failure.
func (app *Application) ResetCheckout(w http.ResponseWriter, r *http.Request) {
	checkout, err := app.loadCheckout(r.Context())
	if err != nil {
		app.checkoutLoadError(w, r, err)
		return
	}

	err = checkout.Reset()
	if err != nil {
		app.editConflictResponseWithErr(w, r, fmt.Errorf("only a finished payment attempt can be reset"))
		return
	}

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

func (app *Application) loadCheckout(ctx context.Context) (*domain.CheckoutSession, error) {
	sessionToken := app.sessionManager.Token(ctx)

	data, err := app.redis.Get(ctx, checkoutKey(sessionToken)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCheckoutNotFound
		}

		return nil, err
	}

	var checkout domain.CheckoutSession

	err = json.Unmarshal(data, &checkout)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkout session: %w", err)
	}

	return &checkout, nil
}

// saveCheckoutScript writes the checkout only while the stored copy is still
// the version this request loaded. Two concurrent widget callbacks can both
// pass an attempt-state guard in memory; the second save must lose.
var saveCheckoutScript = redis.NewScript(`
local cur = redis.call("GET", KEYS[1])
if cur then
	local stored = cjson.decode(cur)
	if stored["Version"] ~= tonumber(ARGV[1]) then
		return 0
	end
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

func (app *Application) saveCheckout(ctx context.Context, checkout *domain.CheckoutSession) error {
	sessionToken := app.sessionManager.Token(ctx)

	expected := checkout.Version
	checkout.Version++

	data, err := json.Marshal(checkout)
	if err != nil {
		return err
	}

	ok, err := saveCheckoutScript.Run(ctx, app.redis, []string{checkoutKey(sessionToken)},
		expected, string(data), checkoutTTL.Milliseconds()).Int()
	if err != nil {
		return err
	}

	if ok == 0 {
		return domain.ErrCheckoutModified
	}

	return nil
}

// storeCheckout writes unconditionally. Only StartCheckout uses it: starting
// over replaces whatever checkout the session held before.
func (app *Application) storeCheckout(ctx context.Context, checkout *domain.CheckoutSession) error {
	sessionToken := app.sessionManager.Token(ctx)

	data, err := json.Marshal(checkout)
	if err != nil {
		return err
	}

	return app.redis.Set(ctx, checkoutKey(sessionToken), data, checkoutTTL).Err()
}

func (app *Application) checkoutLoadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrCheckoutNotFound) {
		app.notFoundResponseWithErr(w, r, err)
		return
	}

	app.serverErrorResponse(w, r, err)
}

func (app *Application) checkoutSaveError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrCheckoutModified) {
		app.editConflictResponseWithErr(w, r, err)
		return
	}

	app.serverErrorResponse(w, r, err)
}

// toCheckoutResponse renders the session view, including the payment provider
// client id the browser widget needs to initialize.
func (app *Application) toCheckoutResponse(checkout *domain.CheckoutSession) api.CheckoutResponse {
	resp := api.CheckoutResponse{
		CheckoutId:     checkout.ID,
		TripId:         checkout.Trip.ID,
		Origin:         checkout.Trip.Origin,
		Destination:    checkout.Trip.Destination,
		Departure:      checkout.Trip.Departure,
		Price:          checkout.Trip.Price,
		Seats:          toApiSeats(checkout.SeatMap()),
		AttemptState:   string(checkout.Attempt.State),
		OrderId:        checkout.Attempt.OrderID,
		FailureMessage: checkout.Attempt.FailureMessage,
		CanSubmit:      checkout.CanSubmit(),

		PaymentClientId: app.config.payment.clientID,
	}

	if checkout.SelectedSeat != 0 {
		seat := checkout.SelectedSeat
		resp.SelectedSeat = &seat
	}

	if checkout.Payer != nil {
		resp.Payer = &api.CheckoutPayer{
			CustomerId: checkout.Payer.CustomerID,
			FullName:   checkout.Payer.FullName,
			NationalId: checkout.Payer.NationalID,
		}
	}

	return resp
}
