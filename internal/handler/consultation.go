package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/medlink/portal-server-go/internal/errors"
	"github.com/medlink/portal-server-go/internal/middleware"
	"github.com/medlink/portal-server-go/internal/model"
	"github.com/medlink/portal-server-go/internal/service"
	"github.com/medlink/portal-server-go/internal/util"
)

type ConsultationService interface {
	Create(ctx context.Context, accountID string, params service.CreateConsultationParams) (*model.ConsultationRequest, error)
	List(ctx context.Context, accountID string, status *model.ConsultationStatus) ([]model.ConsultationRequest, error)
	Get(ctx context.Context, accountID, id string) (*model.ConsultationRequest, error)
	Approve(ctx context.Context, accountID, requestID string) (*model.ConsultationRequest, *model.Appointment, error)
	Reject(ctx context.Context, accountID, requestID string) (*model.ConsultationRequest, error)
	ListAppointments(ctx context.Context, accountID string) ([]model.Appointment, error)
}

// ConsultationHandler serves the per-tenant consultation and appointment
// endpoints. Every route is mounted behind the session guard; the account id
// is read from the request context, never from the payload.
type ConsultationHandler struct {
	svc ConsultationService
}

func NewConsultationHandler(svc ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{svc: svc}
}

func (h *ConsultationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/approve", h.Approve)
	r.Post("/{id}/reject", h.Reject)

	return r
}

func (h *ConsultationHandler) Create(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	var params service.CreateConsultationParams
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, err)
		return
	}

	req, err := h.svc.Create(r.Context(), account.ID, params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, req)
}

func (h *ConsultationHandler) List(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	var status *model.ConsultationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, ok := model.ParseConsultationStatus(raw)
		if !ok {
			writeError(w, apperrors.InvalidInput("status", "must be pending, accepted or rejected"))
			return
		}
		status = &parsed
	}

	reqs, err := h.svc.List(r.Context(), account.ID, status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"consultationRequests": reqs})
}

func (h *ConsultationHandler) Get(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("Consultation request"))
		return
	}

	req, err := h.svc.Get(r.Context(), account.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

func (h *ConsultationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("Consultation request"))
		return
	}

	req, appt, err := h.svc.Approve(r.Context(), account.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"consultationRequest": req,
		"appointment":         appt,
	})
}

func (h *ConsultationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if !util.IsValidUUID(id) {
		writeError(w, apperrors.NotFound("Consultation request"))
		return
	}

	req, err := h.svc.Reject(r.Context(), account.ID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"consultationRequest": req})
}

func (h *ConsultationHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	account := middleware.GetAccount(r.Context())
	if account == nil {
		writeError(w, apperrors.Unauthorized("Unauthorized"))
		return
	}

	appts, err := h.svc.ListAppointments(r.Context(), account.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"appointments": appts})
}
