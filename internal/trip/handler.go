package trip

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/triplogue/backend/pkg/middleware"
	"github.com/triplogue/backend/pkg/response"
)

// Handler handles HTTP requests for trip operations
type Handler struct {
	service *Service
}

// NewHandler creates a new trip handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for trip endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{tripId}", h.GetByID)
	r.Patch("/{tripId}", h.Update)
	r.Post("/{tripId}/members", h.AddMember)
	r.Delete("/{tripId}/members/{userId}", h.RemoveMember)

	return r
}

// Create handles POST /trips
// @Summary      Create a trip
// @Description  Create a trip; the caller becomes its owner
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        request body CreateTripRequest true "Trip creation request"
// @Success      201 {object} response.APIResponse{data=TripResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /trips [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Create(r.Context(), callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, t.ToResponse())
}

// List handles GET /trips
// @Summary      List the caller's trips
// @Tags         trips
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]TripResponse}
// @Router       /trips [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	trips, err := h.service.ListByUserID(r.Context(), callerID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	responses := make([]*TripResponse, len(trips))
	for i, t := range trips {
		responses[i] = t.ToResponse()
	}
	response.JSON(w, http.StatusOK, responses)
}

// GetByID handles GET /trips/{tripId}
// @Summary      Get a trip
// @Description  Get a trip with its member roster
// @Tags         trips
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{tripId} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	t, members, err := h.service.GetByIDWithMembers(r.Context(), tripID, callerID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	resp := t.ToResponse()
	resp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		resp.Members[i] = m.ToResponse()
	}
	response.JSON(w, http.StatusOK, resp)
}

// Update handles PATCH /trips/{tripId}
// @Summary      Update a trip
// @Description  Update a trip's name or description (creator only)
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        request body UpdateTripRequest true "Trip update request"
// @Success      200 {object} response.APIResponse{data=TripResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{tripId} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	var req UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	t, err := h.service.Update(r.Context(), tripID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, t.ToResponse())
}

// AddMember handles POST /trips/{tripId}/members
// @Summary      Add a trip member
// @Description  Add a user to the trip roster (creator only)
// @Tags         trips
// @Accept       json
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        request body AddMemberRequest true "Member to add"
// @Success      201 {object} response.APIResponse{data=MemberResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /trips/{tripId}/members [post]
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.AddMember(r.Context(), tripID, callerID, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// RemoveMember handles DELETE /trips/{tripId}/members/{userId}
// @Summary      Remove a trip member
// @Description  Mark a member as having left the trip; they become a past budget member
// @Tags         trips
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /trips/{tripId}/members/{userId} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	tripID, callerID, ok := h.tripCaller(w, r)
	if !ok {
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), tripID, userID, callerID); err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed from trip"})
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
