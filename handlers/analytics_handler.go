package handlers

import (
	"context"
	"net/http"
	"time"

	service "a3project/services"
	"a3project/utils"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
	}
}

func (h *AnalyticsHandler) GetPortfolioStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats, err := h.service.GetPortfolioStats(ctx)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Portfolio stats retrieved successfully", stats, http.StatusOK)
}

func (h *AnalyticsHandler) GetLagLeadComparison(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	comparison, err := h.service.GetLagLeadComparison(ctx, series)
	if err != nil {
		if err == service.ErrSeriesNotFound {
			utils.HandleMessageResponse(w, "A3 not found", http.StatusNotFound)
			return
		}
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Comparison retrieved successfully", comparison, http.StatusOK)
}
