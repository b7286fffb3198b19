package finance

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/syndik/syndik/internal/platform/httpx"
	"github.com/syndik/syndik/internal/rbac"
	"github.com/syndik/syndik/internal/shared"
)

// Handler manages income and expense endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	rbac      rbac.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, rbac: rbacMW, validator: validator.New()}
}

// MountRoutes registers finance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermFinanceView))
		r.Get("/incomes", h.listIncomes)
		r.Get("/incomes/{id}", h.showIncome)
		r.Get("/expenses", h.listExpenses)
		r.Get("/expenses/{id}", h.showExpense)
		r.Get("/summary", h.summary)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(rbac.PermFinanceManage))
		r.Post("/incomes", h.createIncome)
		r.Delete("/incomes/{id}", h.deleteIncome)
		r.Post("/expenses", h.createExpense)
		r.Delete("/expenses/{id}", h.deleteExpense)
	})
}

type entryRequest struct {
	UnitID   *int64     `json:"unitId,omitempty" validate:"omitempty,gt=0"`
	Amount   string     `json:"amount" validate:"required"`
	Month    int        `json:"month" validate:"required,min=1,max=12"`
	Year     int        `json:"year" validate:"required,min=2000,max=2100"`
	Category string     `json:"category" validate:"max=40"`
	Note     string     `json:"note" validate:"max=500"`
	Date     *time.Time `json:"date,omitempty"`
}

func periodParams(r *http.Request) (month, year int, ok bool) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}

func (h *Handler) listIncomes(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	month, year, ok := periodParams(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month and year query parameters are required")
		return
	}
	list, err := h.service.Incomes(r.Context(), orgID, month, year)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"incomes": list})
}

func (h *Handler) showIncome(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid income id")
		return
	}
	in, err := h.service.Income(r.Context(), orgID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, in)
}

func (h *Handler) createIncome(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req entryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal string")
		return
	}
	in := Income{
		OrgID:    orgID,
		UnitID:   req.UnitID,
		Amount:   amount,
		Month:    req.Month,
		Year:     req.Year,
		Category: req.Category,
		Note:     req.Note,
	}
	if req.Date != nil {
		in.ReceivedAt = *req.Date
	}
	created, err := h.service.RecordIncome(r.Context(), in)
	if err != nil {
		h.logger.Error("create income", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteIncome(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid income id")
		return
	}
	if err := h.service.DeleteIncome(r.Context(), orgID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	month, year, ok := periodParams(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month and year query parameters are required")
		return
	}
	list, err := h.service.Expenses(r.Context(), orgID, month, year)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"expenses": list})
}

func (h *Handler) showExpense(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid expense id")
		return
	}
	ex, err := h.service.Expense(r.Context(), orgID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ex)
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	var req entryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a decimal string")
		return
	}
	ex := Expense{
		OrgID:    orgID,
		UnitID:   req.UnitID,
		Amount:   amount,
		Month:    req.Month,
		Year:     req.Year,
		Category: req.Category,
		Note:     req.Note,
	}
	if req.Date != nil {
		ex.PaidAt = *req.Date
	}
	created, err := h.service.RecordExpense(r.Context(), ex)
	if err != nil {
		h.logger.Error("create expense", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid expense id")
		return
	}
	if err := h.service.DeleteExpense(r.Context(), orgID, id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	orgID, ok := shared.OrgFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, httpx.ErrUnauthorized)
		return
	}
	month, year, ok := periodParams(r)
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month and year query parameters are required")
		return
	}
	summary, err := h.service.Summary(r.Context(), orgID, month, year)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
