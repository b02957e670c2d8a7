package expense

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/group"
	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/ledger/split"
	"github.com/tallyhq/tally/internal/money"
	"github.com/tallyhq/tally/pkg/middleware"
	"github.com/tallyhq/tally/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)

	return r
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Record an expense paid by the authenticated user and split it among participants
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	payerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.service.Create(r.Context(), payerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, money.ErrInvalidAmount),
			errors.Is(err, split.ErrInvalidSplit),
			errors.Is(err, ErrNoParticipants):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ledger.ErrUnknownParticipant),
			errors.Is(err, group.ErrGroupNotFound):
			response.NotFound(w, err.Error())
		default:
			response.InternalError(w, "Failed to create expense")
		}
		return
	}

	response.JSON(w, http.StatusCreated, ToResponse(rec))
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get one expense record with its shares
// @Tags         expenses
// @Produce      json
// @Param        id path string true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.GetByID(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrExpenseNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(rec))
}

// ListMine handles GET /expenses
// @Summary      List my expenses
// @Description  List expenses the authenticated user paid for or owes a share of, newest first
// @Tags         expenses
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	records := h.service.ListByUser(userID)
	expenseResponses := make([]*ExpenseResponse, len(records))
	for i := range records {
		expenseResponses[i] = ToResponse(&records[i])
	}

	response.JSON(w, http.StatusOK, expenseResponses)
}
