package balance

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/pkg/middleware"
	"github.com/tallyhq/tally/pkg/response"
)

// Handler handles HTTP requests for balance queries
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.DetailedPositions)
	r.Get("/total", h.TotalPosition)
	r.Get("/pairs", h.AllNonzeroPairs)

	return r
}

// TotalPosition handles GET /balances/total
// @Summary      Get my total position
// @Description  Get the authenticated user's aggregate net balance; positive means they are owed money
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=TotalPositionResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /balances/total [get]
func (h *Handler) TotalPosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	pos, err := h.service.TotalPosition(userID)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownParticipant) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get balance")
		return
	}

	response.JSON(w, http.StatusOK, pos)
}

// DetailedPositions handles GET /balances
// @Summary      Get my itemized balances
// @Description  List the authenticated user's nonzero counterparties ordered by counterparty id
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]PositionResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /balances [get]
func (h *Handler) DetailedPositions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	positions, err := h.service.DetailedPositions(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownParticipant) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get balances")
		return
	}

	response.JSON(w, http.StatusOK, positions)
}

// AllNonzeroPairs handles GET /balances/pairs
// @Summary      List all outstanding pairs
// @Description  Global audit view of every nonzero pairwise balance, ordered by canonical pair
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]PairResponse}
// @Router       /balances/pairs [get]
func (h *Handler) AllNonzeroPairs(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.AllNonzeroPairs())
}
