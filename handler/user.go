package handler

import (
	"encoding/json"
	"net/http"

	"event-tickets-backend/logger"
	"event-tickets-backend/middleware"
	"event-tickets-backend/model"
	"event-tickets-backend/response"
	"event-tickets-backend/user"
)

func GetProfile(service *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller := middleware.IdentityFromContext(ctx)

		u, err := service.GetOrCreate(ctx, caller)
		if err != nil {
			logger.Errorf(ctx, "getProfile: unable to load profile: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(u).Send(w)
	}
}

func UpdateProfile(service *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		caller := middleware.IdentityFromContext(ctx)

		var req model.UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Errorf(ctx, "updateProfile: error unmarshalling request body: %+v", err)
			response.BadRequest("invalid request body").Send(ctx, w)
			return
		}
		if err := req.Validate(); err != nil {
			response.BadRequest(err.Error()).Send(ctx, w)
			return
		}

		u, err := service.Update(ctx, caller, req)
		if err != nil {
			logger.Errorf(ctx, "updateProfile: unable to update profile: %+v", err)
			response.SomethingWrong().Send(ctx, w)
			return
		}

		response.OK(u).Send(w)
	}
}
