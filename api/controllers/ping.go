package controllers

import (
	"net/http"

	"github.com/newsroute/newsroute-backend/api/middleware"
	"github.com/newsroute/newsroute-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if actor := middleware.ActorFromContext(r.Context()); actor != nil {
			payload["role"] = actor.Role.String()
		}
		responses.WriteSuccess(w, payload)
	}
}
