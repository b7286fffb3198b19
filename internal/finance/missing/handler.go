package missing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/syndik/syndik/internal/platform/httpx"
	"github.com/syndik/syndik/internal/rbac"
	"github.com/syndik/syndik/internal/shared"
)

// ReminderEnqueuer hands a reminder batch to the background worker.
// Implemented by the jobs client.
type ReminderEnqueuer interface {
	EnqueueReminderBatch(ctx context.Context, orgID int64, month, year int) (string, error)
}

// Handler exposes the missing-payments endpoints.
type Handler struct {
	logger     *slog.Logger
	service    *Service
	dispatcher *Dispatcher
	enqueuer   ReminderEnqueuer
	rbac       rbac.Middleware
	validator  *validator.Validate
}

// NewHandler builds a Handler instance. The enqueuer may be nil when no
// worker is deployed; the enqueue endpoint then answers 503.
func NewHandler(logger *slog.Logger, service *Service, dispatcher *Dispatcher, enqueuer ReminderEnqueuer, rbacMW rbac.Middleware) *Handler {
	return &Handler{
		logger:     logger,
		service:    service,
		dispatcher: dispatcher,
		enqueuer:   enqueuer,
		rbac:       rbacMW,
		validator:  validator.New(),
	}
}

// MountRoutes registers routes under /missing-payments.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermFinanceView))
		r.Get("/", h.query)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermFinanceManage))
		r.Post("/reminders", h.dispatchAll)
		r.Post("/reminders/unit", h.dispatchOne)
		r.Post("/reminders/enqueue", h.enqueue)
	})
}

type periodRequest struct {
	Month int `json:"month" validate:"required,min=1,max=12"`
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
}

type unitReminderRequest struct {
	Month  int   `json:"month" validate:"required,min=1,max=12"`
	Year   int   `json:"year" validate:"required,min=2000,max=2100"`
	UnitID int64 `json:"unitId" validate:"required,gt=0"`
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month query parameter is required")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "year query parameter is required")
		return
	}

	set, err := h.service.MissingPayments(r.Context(), orgID, month, year)
	if errors.Is(err, ErrInvalidPeriod) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("missing payments query", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, set)
}

func (h *Handler) dispatchAll(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req periodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	set, err := h.service.MissingPayments(r.Context(), orgID, req.Month, req.Year)
	if errors.Is(err, ErrInvalidPeriod) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("missing payments dispatch query", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	report := h.dispatcher.SendAll(r.Context(), orgID, set.Period, set.Units)
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) dispatchOne(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req unitReminderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	unit, err := h.service.FindMissingUnit(r.Context(), orgID, req.Month, req.Year, req.UnitID)
	if errors.Is(err, ErrInvalidPeriod) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period", err.Error())
		return
	}
	if err != nil {
		h.logger.Error("missing unit lookup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if unit == nil {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unit is not missing a payment for this period")
		return
	}

	period, _ := ResolvePeriod(req.Month, req.Year)
	if err := h.dispatcher.SendOne(r.Context(), orgID, period, unit.BilledUnit); err != nil {
		h.logger.Error("single reminder dispatch", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Dispatch Failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"unitId": unit.UnitID,
		"status": "sent",
	})
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	if h.enqueuer == nil {
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	var req periodRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if _, err := ResolvePeriod(req.Month, req.Year); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Period", err.Error())
		return
	}

	taskID, err := h.enqueuer.EnqueueReminderBatch(r.Context(), orgID, req.Month, req.Year)
	if err != nil {
		h.logger.Error("enqueue reminder batch", slog.Any("error", err))
		httpx.RespondError(w, httpx.ErrUnavailable)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]any{"taskId": taskID})
}
