package app

import (
	"net/http"
	"strconv"

	"github.com/mvillagran/bus-ticketing-gateway/api"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func (app *Application) GetTicketsOfUser(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", DefaultPage)
	pageSize := queryInt(r, "pageSize", DefaultPageSize)

	tickets, err := app.tickets.GetTicketsOfUser(r.Context(), app.contextGetToken(r), page, pageSize)
	if err != nil {
		app.handleUpstreamError(w, r, err)
		return
	}

	apiTickets := make([]api.Ticket, len(tickets))
	for i := range tickets {
		apiTickets[i] = toApiTicket(&tickets[i])
	}

	resp := api.TicketListResponse{Tickets: apiTickets}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}

	return n
}
