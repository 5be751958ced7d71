package trip

// CreateTripRequest represents the request to create a new trip
type CreateTripRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// UpdateTripRequest represents the request to update a trip
type UpdateTripRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// AddMemberRequest represents the request to add a member to a trip
type AddMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required"`
}

// BudgetSummaryResponse is the trip's cached budget summary
type BudgetSummaryResponse struct {
	Total float64 `json:"total"`
	Spent float64 `json:"spent"`
}

// TripResponse represents the response for a trip
type TripResponse struct {
	ID            int64                  `json:"id"`
	Name          string                 `json:"name"`
	Description   *string                `json:"description,omitempty"`
	CreatedBy     int64                  `json:"created_by"`
	BudgetSummary *BudgetSummaryResponse `json:"budget_summary"`
	CreatedAt     string                 `json:"created_at"`
	Members       []*MemberResponse      `json:"members,omitempty"`
}

// MemberResponse represents a member in a trip response
type MemberResponse struct {
	UserID   int64        `json:"user_id"`
	Role     MemberRole   `json:"role"`
	Status   MemberStatus `json:"status"`
	JoinedAt string       `json:"joined_at"`
}

// ToResponse converts a Trip model to a TripResponse DTO
func (t *Trip) ToResponse() *TripResponse {
	return &TripResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		BudgetSummary: &BudgetSummaryResponse{
			Total: t.BudgetTotal,
			Spent: t.BudgetSpent,
		},
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Role:     m.Role,
		Status:   m.Status,
		JoinedAt: m.JoinedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
