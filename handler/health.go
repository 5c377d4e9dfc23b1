package handler

import (
	"net/http"

	"github.com/go-chi/render"
)

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"app":     app_name,
		"version": app_version,
	})
}
