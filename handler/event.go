package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"event-tickets-backend/event"
	"event-tickets-backend/logger"
	"event-tickets-backend/middleware"
	"event-tickets-backend/model"
	"event-tickets-backend/response"

	"github.com/gorilla/mux"
)

const defaultListLimit = 50

func CreateEvent(service *event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		caller := middleware.IdentityFromContext(ctx)
		if !caller.IsAdmin() {
			response.Forbidden("").Send(ctx, w)
			return
		}

		var req model.CreateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Errorf(ctx, "createEvent: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body").Send(ctx, w)
			return
		}
		if err := req.Validate(); err != nil {
			response.BadRequest(err.Error()).Send(ctx, w)
			return
		}

		e, err := service.Create(ctx, caller.UserID, req)
		if err != nil {
			logger.Errorf(ctx, "createEvent: unable to create event: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.Created(e).Send(w)
	}
}

func GetEvent(service *event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventId"]

		e, err := service.Get(ctx, eventID)
		if errors.Is(err, event.ErrNotFound) {
			response.ResourceNotFound("Event not found").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "getEvent: unable to fetch event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(e).Send(w)
	}
}

// ListEvents serves the public storefront listing. Only ACTIVE events are
// visible unless an admin asks for another status explicitly.
func ListEvents(service *event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := model.EventStatusActive
		if s := r.URL.Query().Get("status"); s != "" {
			requested := model.EventStatus(s)
			if !model.ValidEventStatus(requested) {
				response.BadRequest("invalid event status").Send(ctx, w)
				return
			}
			caller := middleware.IdentityFromContext(ctx)
			if requested != model.EventStatusActive && !caller.IsAdmin() {
				response.Forbidden("").Send(ctx, w)
				return
			}
			status = requested
		}

		limit := defaultListLimit
		if l := r.URL.Query().Get("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 1 || n > 100 {
				response.BadRequest("limit must be between 1 and 100").Send(ctx, w)
				return
			}
			limit = n
		}

		events, err := service.List(ctx, status, limit)
		if err != nil {
			logger.Errorf(ctx, "listEvents: unable to list events: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(events).Send(w)
	}
}

func UpdateEvent(service *event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventId"]

		caller := middleware.IdentityFromContext(ctx)
		if !caller.IsAdmin() {
			response.Forbidden("").Send(ctx, w)
			return
		}

		var req model.UpdateEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Errorf(ctx, "updateEvent: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body").Send(ctx, w)
			return
		}
		if err := req.Validate(); err != nil {
			response.BadRequest(err.Error()).Send(ctx, w)
			return
		}

		e, err := service.Update(ctx, eventID, req)
		if errors.Is(err, event.ErrNotFound) {
			response.ResourceNotFound("Event not found").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "updateEvent: unable to update event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(e).Send(w)
	}
}

func DeleteEvent(service *event.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		eventID := mux.Vars(r)["eventId"]

		caller := middleware.IdentityFromContext(ctx)
		if !caller.IsAdmin() {
			response.Forbidden("").Send(ctx, w)
			return
		}

		err := service.Delete(ctx, eventID)
		if errors.Is(err, event.ErrNotFound) {
			response.ResourceNotFound("Event not found").Send(ctx, w)
			return
		}
		if errors.Is(err, event.ErrHasTickets) {
			response.Conflict("Event has issued tickets and can only be cancelled").Send(ctx, w)
			return
		}
		if err != nil {
			logger.Errorf(ctx, "deleteEvent: unable to cancel event %s: %+v", eventID, err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(map[string]string{"id": eventID, "status": string(model.EventStatusCancelled)}).Send(w)
	}
}
