package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"event-tickets-backend/logger"
	"event-tickets-backend/middleware"
	"event-tickets-backend/model"
	"event-tickets-backend/response"
	"event-tickets-backend/ticket"

	"github.com/gorilla/mux"
)

func Checkout(service *ticket.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventId"]
		caller := middleware.IdentityFromContext(ctx)

		var req model.CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Errorf(ctx, "checkout: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body").Send(ctx, w)
			return
		}
		if err := req.Validate(); err != nil {
			response.BadRequest(err.Error()).Send(ctx, w)
			return
		}

		result, err := service.Checkout(ctx, eventID, caller, req)
		if err != nil {
			var availability *ticket.AvailabilityError
			switch {
			case errors.Is(err, ticket.ErrEventNotFound):
				response.ResourceNotFound("Event not found").Send(ctx, w)
			case errors.Is(err, ticket.ErrEventNotActive):
				response.Conflict("Event is not available for purchase").Send(ctx, w)
			case errors.As(err, &availability):
				response.Conflict(availability.Error()).Send(ctx, w)
			default:
				logger.Errorf(ctx, "checkout: unable to start checkout for event %s: %+v", eventID, err)
				response.SomethingWrong().Send(ctx, w)
			}
			return
		}

		response.OK(result).Send(w)
	}
}

func IssueCompTicket(service *ticket.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventId"]

		caller := middleware.IdentityFromContext(ctx)
		if !caller.IsAdmin() {
			response.Forbidden("").Send(ctx, w)
			return
		}

		var req model.CompTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Errorf(ctx, "issueCompTicket: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body").Send(ctx, w)
			return
		}
		if err := req.Validate(); err != nil {
			response.BadRequest(err.Error()).Send(ctx, w)
			return
		}

		t, err := service.IssueComp(ctx, eventID, caller, req)
		if err != nil {
			switch {
			case errors.Is(err, ticket.ErrEventNotFound):
				response.ResourceNotFound("Event not found").Send(ctx, w)
			case errors.Is(err, ticket.ErrEventNotEligible):
				response.Conflict("Cannot issue comp tickets for this event").Send(ctx, w)
			default:
				logger.Errorf(ctx, "issueCompTicket: unable to issue comp for event %s: %+v", eventID, err)
				response.SomethingWrong().Send(ctx, w)
			}
			return
		}

		response.Created(t).Send(w)
	}
}

// GetTicket returns one ticket. Access is limited to the purchaser and
// admins; comp tickets have no registered owner, so only admins see them.
func GetTicket(service *ticket.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ticketID := mux.Vars(r)["ticketId"]
		caller := middleware.IdentityFromContext(ctx)

		t, err := service.Get(ctx, ticketID)
		if errors.Is(err, ticket.ErrNotFound) {
			response.ResourceNotFound("Ticket not found").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "getTicket: unable to fetch ticket %s: %+v", ticketID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		if !caller.IsAdmin() && t.UserEmail != caller.Email {
			response.Forbidden("").Send(ctx, w)
			return
		}

		response.OK(t).Send(w)
	}
}

func ListMyTickets(service *ticket.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller := middleware.IdentityFromContext(ctx)

		tickets, err := service.ListByUser(ctx, caller.Email)
		if err != nil {
			logger.Errorf(ctx, "listMyTickets: unable to list tickets: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(tickets).Send(w)
	}
}

func ListEventTickets(service *ticket.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventId"]

		caller := middleware.IdentityFromContext(ctx)
		if !caller.IsAdmin() {
			response.Forbidden("").Send(ctx, w)
			return
		}

		tickets, err := service.ListByEvent(ctx, eventID)
		if err != nil {
			logger.Errorf(ctx, "listEventTickets: unable to list tickets for event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(tickets).Send(w)
	}
}

// ValidateTicket runs the check-in scan. The result is written flat, not
// in the data envelope, because scanner clients key off the top-level
// valid field.
func ValidateTicket(service *ticket.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		caller := middleware.IdentityFromContext(ctx)
		if !caller.CanValidate() {
			response.Forbidden("").Send(ctx, w)
			return
		}

		var req model.ValidateTicketRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Errorf(ctx, "validateTicket: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body").Send(ctx, w)
			return
		}
		if err := req.Validate(); err != nil {
			response.BadRequest(err.Error()).Send(ctx, w)
			return
		}

		result, err := service.Validate(ctx, req.QRToken, caller)
		if err != nil {
			logger.Errorf(ctx, "validateTicket: unable to validate ticket: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result)
	}
}
