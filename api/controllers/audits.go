package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/slabworks/slabstock-backend/api/middleware"
	"github.com/slabworks/slabstock-backend/api/responses"
	"github.com/slabworks/slabstock-backend/api/validators"
	auditsvc "github.com/slabworks/slabstock-backend/internal/audits"
	"github.com/slabworks/slabstock-backend/pkg/enums"
	pkgerrors "github.com/slabworks/slabstock-backend/pkg/errors"
	"github.com/slabworks/slabstock-backend/pkg/logger"
)

type startSessionRequest struct {
	StorageLocationID string `json:"storageLocationId" validate:"required"`
}

// StartAuditSession handles POST /v1/audits.
func StartAuditSession(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload startSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		session, err := svc.StartSession(r.Context(), payload.StorageLocationID, middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, session)
	}
}

type confirmItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	Method string `json:"confirmationMethod" validate:"required"`
}

// ConfirmAuditItem handles POST /v1/audits/{sessionID}/confirm.
func ConfirmAuditItem(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload confirmItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		method, err := enums.ParseConfirmationMethod(strings.TrimSpace(payload.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid confirmation method"))
			return
		}
		detail, err := svc.ConfirmItem(r.Context(), chi.URLParam(r, "sessionID"), payload.ItemID, method, middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

type reportDiscrepancyRequest struct {
	DetailID    string `json:"detailId" validate:"required"`
	Kind        string `json:"discrepancyKind" validate:"required"`
	Reason      string `json:"discrepancyReason" validate:"required"`
	ActionTaken string `json:"actionTaken"`
}

// ReportAuditDiscrepancy handles POST /v1/audits/{sessionID}/discrepancy.
func ReportAuditDiscrepancy(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload reportDiscrepancyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := enums.ParseDiscrepancyKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid discrepancy kind"))
			return
		}
		detail, err := svc.ReportDiscrepancy(r.Context(), auditsvc.DiscrepancyInput{
			SessionID:   chi.URLParam(r, "sessionID"),
			DetailID:    payload.DetailID,
			Kind:        kind,
			Reason:      payload.Reason,
			ActionTaken: payload.ActionTaken,
		}, middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

func PauseAuditSession(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.PauseSession(r.Context(), chi.URLParam(r, "sessionID"), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

func ResumeAuditSession(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.ResumeSession(r.Context(), chi.URLParam(r, "sessionID"), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

func CompleteAuditSession(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.CompleteSession(r.Context(), chi.URLParam(r, "sessionID"), middleware.ActorFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// AuditSessionProgress handles GET /v1/audits/{sessionID}.
func AuditSessionProgress(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.Progress(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

// ListActiveAuditSessions handles GET /v1/audits/active.
func ListActiveAuditSessions(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := svc.ActiveSessions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessions)
	}
}

// ListAuditHistory handles GET /v1/audits.
func ListAuditHistory(svc auditsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		history, err := svc.History(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
