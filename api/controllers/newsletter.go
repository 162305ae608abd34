package controllers

import (
	"net/http"

	"github.com/relovedshop/reloved-backend/api/responses"
	"github.com/relovedshop/reloved-backend/api/validators"
	"github.com/relovedshop/reloved-backend/internal/newsletter"
	"github.com/relovedshop/reloved-backend/pkg/logger"
)

type unsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func SubscribeNewsletter(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body newsletter.SubscribeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Subscribe(r.Context(), body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"subscribed": true})
	}
}

func UnsubscribeNewsletter(svc newsletter.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body unsubscribeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Unsubscribe(r.Context(), body.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"subscribed": false})
	}
}
