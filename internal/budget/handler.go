package budget

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/triplogue/backend/pkg/middleware"
	"github.com/triplogue/backend/pkg/response"
)

// Handler handles HTTP requests for budget and expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new budget handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for budget endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/trip/{tripId}", h.Create)
	r.Get("/trip/{tripId}", h.GetSnapshot)
	r.Patch("/trip/{tripId}", h.UpdateBaseBudget)
	r.Patch("/trip/{tripId}/members/{userId}", h.UpdateMemberContribution)
	r.Post("/trip/{tripId}/clone", h.Clone)
	r.Post("/trip/{tripId}/expenses", h.CreateExpense)

	r.Patch("/expenses/{expenseId}", h.UpdateExpense)
	r.Delete("/expenses/{expenseId}", h.DeleteExpense)

	return r
}

// Create handles POST /budgets/trip/{tripId}
// @Summary      Create a trip's budget
// @Description  Create the budget for a trip, dividing a flat total across members or using explicit contributions
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        request body CreateBudgetRequest true "Budget creation request"
// @Success      201 {object} response.APIResponse{data=Snapshot}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /budgets/trip/{tripId} [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	var req CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snapshot, err := h.service.CreateBudget(r.Context(), tripID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, snapshot)
}

// GetSnapshot handles GET /budgets/trip/{tripId}
// @Summary      Get a trip's budget snapshot
// @Description  Get the budget, its expenses, and the derived summaries
// @Tags         budgets
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=Snapshot}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /budgets/trip/{tripId} [get]
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), tripID, callerID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snapshot)
}

// UpdateBaseBudget handles PATCH /budgets/trip/{tripId}
// @Summary      Update the base budget amount
// @Description  Set or clear the budget's target total (creator only)
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        request body UpdateBudgetRequest true "Base amount update"
// @Success      200 {object} response.APIResponse{data=Snapshot}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /budgets/trip/{tripId} [patch]
func (h *Handler) UpdateBaseBudget(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	var req UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snapshot, err := h.service.UpdateBaseBudget(r.Context(), tripID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snapshot)
}

// UpdateMemberContribution handles PATCH /budgets/trip/{tripId}/members/{userId}
// @Summary      Update a member's planned contribution
// @Description  Change a budget member's planned contribution; it may not drop below their spent total
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        userId path int true "Member user ID"
// @Param        request body UpdateMemberContributionRequest true "Contribution update"
// @Success      200 {object} response.APIResponse{data=Snapshot}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /budgets/trip/{tripId}/members/{userId} [patch]
func (h *Handler) UpdateMemberContribution(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	targetUserID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req UpdateMemberContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snapshot, err := h.service.UpdateMemberContribution(r.Context(), tripID, targetUserID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snapshot)
}

// Clone handles POST /budgets/trip/{tripId}/clone
// @Summary      Clone a budget into another trip
// @Description  Copy a budget's structure (TEMPLATE, PLANNING, or FULL_HISTORY mode) into a trip without one
// @Tags         budgets
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Source trip ID"
// @Param        request body CloneBudgetRequest true "Clone request"
// @Success      201 {object} response.APIResponse{data=Snapshot}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /budgets/trip/{tripId}/clone [post]
func (h *Handler) Clone(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	var req CloneBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snapshot, err := h.service.CloneBudget(r.Context(), tripID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, snapshot)
}

// CreateExpense handles POST /budgets/trip/{tripId}/expenses
// @Summary      Record an expense
// @Description  Create an expense with automatic split calculation using the EQUAL, CUSTOM, or PERCENTAGE strategy
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=Snapshot}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /budgets/trip/{tripId}/expenses [post]
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snapshot, err := h.service.CreateExpense(r.Context(), tripID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, snapshot)
}

// UpdateExpense handles PATCH /budgets/expenses/{expenseId}
// @Summary      Update an expense
// @Description  Update an expense's mutable fields; split method, payer, and trip are fixed
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        expenseId path int true "Expense ID"
// @Param        request body UpdateExpenseRequest true "Expense update request"
// @Success      200 {object} response.APIResponse{data=Snapshot}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /budgets/expenses/{expenseId} [patch]
func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, callerID, ok := h.expenseCaller(w, r)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	snapshot, err := h.service.UpdateExpense(r.Context(), expenseID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snapshot)
}

// DeleteExpense handles DELETE /budgets/expenses/{expenseId}
// @Summary      Delete an expense
// @Description  Hard-delete an expense and re-sync the trip's totals
// @Tags         expenses
// @Produce      json
// @Param        expenseId path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=Snapshot}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /budgets/expenses/{expenseId} [delete]
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, callerID, ok := h.expenseCaller(w, r)
	if !ok {
		return
	}

	snapshot, err := h.service.DeleteExpense(r.Context(), expenseID, callerID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, snapshot)
}

// tripCaller parses the trip id and the authenticated caller
func (h *Handler) tripCaller(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return 0, 0, false
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return 0, 0, false
	}

	return tripID, callerID, true
}

// expenseCaller parses the expense id and the authenticated caller
func (h *Handler) expenseCaller(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	expenseID, err := strconv.ParseInt(chi.URLParam(r, "expenseId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return 0, 0, false
	}

	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return 0, 0, false
	}

	return expenseID, callerID, true
}
