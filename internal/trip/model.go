package trip

import "time"

// MemberStatus represents the status of a trip member
type MemberStatus string

const (
	MemberStatusActive MemberStatus = "ACTIVE"
	MemberStatusLeft   MemberStatus = "LEFT"
)

// MemberRole represents the role of a trip member
type MemberRole string

const (
	MemberRoleOwner  MemberRole = "OWNER"
	MemberRoleMember MemberRole = "MEMBER"
)

// Trip represents a trip in the system
type Trip struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	// Denormalized budget summary, kept in sync by the budget service
	BudgetTotal float64 `json:"budget_total"`
	BudgetSpent float64 `json:"budget_spent"`
}

// Member represents a user's membership in a trip
type Member struct {
	ID       int64        `json:"id"`
	TripID   int64        `json:"trip_id"`
	UserID   int64        `json:"user_id"`
	Role     MemberRole   `json:"role"`
	Status   MemberStatus `json:"status"`
	JoinedAt time.Time    `json:"joined_at"`
}
