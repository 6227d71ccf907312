package handlers

import (
	"context"
	"net/http"
	"time"

	middleware "a3project/middlewares"
	"a3project/models"
	service "a3project/services"
	"a3project/utils"
)

type A3Handler struct {
	service  service.A3Service
	versions service.VersionService
}

func NewA3Handler(service service.A3Service, versions service.VersionService) *A3Handler {
	return &A3Handler{
		service:  service,
		versions: versions,
	}
}

func (h *A3Handler) CreateA3(w http.ResponseWriter, r *http.Request) {
	var a3 models.A3
	if err := utils.DecodeAndValidate(w, r, &a3); err != nil {
		return
	}

	// Get username from JWT context
	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	createdA3, err := h.service.CreateA3(ctx, &a3, username)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "A3 created successfully", createdA3, http.StatusCreated)
}

func (h *A3Handler) GetAllA3s(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	a3s, err := h.service.GetAllA3s(ctx)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "A3s retrieved successfully", a3s, http.StatusOK)
}

func (h *A3Handler) GetA3BySeries(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	a3, err := h.service.GetA3BySeries(ctx, series)
	if err != nil {
		if err == service.ErrSeriesNotFound {
			utils.HandleMessageResponse(w, "A3 not found", http.StatusNotFound)
			return
		}
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "A3 retrieved successfully", a3, http.StatusOK)
}

func (h *A3Handler) SaveA3(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")

	var a3 models.A3
	if err := utils.DecodeAndValidate(w, r, &a3); err != nil {
		return
	}

	// Get username from JWT context
	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	savedA3, err := h.service.SaveA3(ctx, series, &a3, username)
	if err != nil {
		if err == service.ErrSeriesNotFound {
			utils.HandleMessageResponse(w, "A3 not found", http.StatusNotFound)
			return
		}
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "A3 saved successfully", savedA3, http.StatusOK)
}

func (h *A3Handler) DeleteA3(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	err := h.service.DeleteA3(ctx, id)
	if err != nil {
		if err == service.ErrSeriesNotFound {
			utils.HandleMessageResponse(w, "A3 not found", http.StatusNotFound)
			return
		}
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleMessageResponse(w, "A3 deleted successfully", http.StatusOK)
}

func (h *A3Handler) GetVersions(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	versions, err := h.versions.GetSeriesVersions(ctx, series)
	if err != nil {
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Versions retrieved successfully", versions, http.StatusOK)
}

func (h *A3Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")
	label := r.PathValue("label")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	snapshot, err := h.versions.GetVersion(ctx, series, label)
	if err != nil {
		if err == service.ErrVersionNotFound {
			utils.HandleMessageResponse(w, "Version not found", http.StatusNotFound)
			return
		}
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Version retrieved successfully", snapshot, http.StatusOK)
}

// versionCreatedResponse pairs the new label with its snapshot metadata.
type versionCreatedResponse struct {
	Label string             `json:"label"`
	Meta  models.VersionMeta `json:"meta"`
}

func (h *A3Handler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	series := r.PathValue("series")

	// Get username from JWT context
	username := middleware.GetUsernameFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	label, meta, err := h.versions.CreateVersion(ctx, series, username)
	if err != nil {
		if err == service.ErrSeriesNotFound {
			utils.HandleMessageResponse(w, "A3 not found", http.StatusNotFound)
			return
		}
		utils.HandleMessageResponse(w, err.Error(), http.StatusInternalServerError)
		return
	}

	utils.HandleDataResponse(w, "Version created successfully", versionCreatedResponse{
		Label: label,
		Meta:  *meta,
	}, http.StatusCreated)
}
