package controllers

import (
	"net/http"

	"github.com/totofurniture/furnistore-backend/api/responses"
	"github.com/totofurniture/furnistore-backend/internal/dashboard"
	"github.com/totofurniture/furnistore-backend/pkg/logger"
)

func DashboardSummary(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
