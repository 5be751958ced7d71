package budget

import (
	"time"

	"github.com/triplogue/backend/internal/budget/split"
)

// MemberRole represents the role of a budget member
type MemberRole string

const (
	RoleCreator MemberRole = "CREATOR"
	RoleMember  MemberRole = "MEMBER"
)

// CloneMode selects how much of a budget is carried into a clone
type CloneMode string

const (
	CloneModeTemplate    CloneMode = "TEMPLATE"
	CloneModePlanning    CloneMode = "PLANNING"
	CloneModeFullHistory CloneMode = "FULL_HISTORY"
)

// IsValid reports whether the clone mode is one of the known modes
func (m CloneMode) IsValid() bool {
	switch m {
	case CloneModeTemplate, CloneModePlanning, CloneModeFullHistory:
		return true
	}
	return false
}

// Rules are the per-budget permission flags for non-creator members
type Rules struct {
	AllowMemberContributionEdits bool `json:"allow_member_contribution_edits"`
	AllowMemberExpenseCreation   bool `json:"allow_member_expense_creation"`
	AllowMemberExpenseEdits      bool `json:"allow_member_expense_edits"`
}

// DefaultRules returns the permissive defaults applied at budget creation
func DefaultRules() Rules {
	return Rules{
		AllowMemberContributionEdits: true,
		AllowMemberExpenseCreation:   true,
		AllowMemberExpenseEdits:      true,
	}
}

// Budget represents a trip's budget configuration
type Budget struct {
	ID               int64     `json:"id"`
	TripID           int64     `json:"trip_id"`
	BaseCurrency     string    `json:"base_currency"`
	BaseBudgetAmount *float64  `json:"base_budget_amount,omitempty"`
	CreatedBy        int64     `json:"created_by"`
	Rules            Rules     `json:"rules"`
	CreatedAt        time.Time `json:"created_at"`

	Members []*Member `json:"members"`
}

// Member represents a user's participation in a budget
type Member struct {
	ID                  int64      `json:"id"`
	BudgetID            int64      `json:"budget_id"`
	UserID              int64      `json:"user_id"`
	PlannedContribution float64    `json:"planned_contribution"`
	Role                MemberRole `json:"role"`
	IsPastMember        bool       `json:"is_past_member"`
	JoinedAt            time.Time  `json:"joined_at"`
}

// FindMember returns the member record for a user, or nil
func (b *Budget) FindMember(userID int64) *Member {
	for _, m := range b.Members {
		if m.UserID == userID {
			return m
		}
	}
	return nil
}

// ActiveMemberIDs returns the user ids of all active members in stored order
func (b *Budget) ActiveMemberIDs() []int64 {
	ids := make([]int64, 0, len(b.Members))
	for _, m := range b.Members {
		if !m.IsPastMember {
			ids = append(ids, m.UserID)
		}
	}
	return ids
}

// ActiveMemberIDSet returns the active member ids as a lookup set
func (b *Budget) ActiveMemberIDSet() map[int64]bool {
	set := make(map[int64]bool, len(b.Members))
	for _, m := range b.Members {
		if !m.IsPastMember {
			set[m.UserID] = true
		}
	}
	return set
}

// CreatorCount returns the number of members with the creator role
func (b *Budget) CreatorCount() int {
	count := 0
	for _, m := range b.Members {
		if m.Role == RoleCreator {
			count++
		}
	}
	return count
}

// Expense represents a single recorded cost split across budget members
type Expense struct {
	ID          int64        `json:"id"`
	TripID      int64        `json:"trip_id"`
	BudgetID    int64        `json:"budget_id"`
	Title       *string      `json:"title,omitempty"`
	Amount      float64      `json:"amount"`
	Currency    string       `json:"currency"`
	Category    *string      `json:"category,omitempty"`
	PaidBy      int64        `json:"paid_by"`
	CreatedBy   int64        `json:"created_by"`
	SplitMethod split.Method `json:"split_method"`
	Date        time.Time    `json:"date"`
	Notes       *string      `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`

	Splits []*ExpenseSplit `json:"splits"`
}

// ExpenseSplit is one member's share of an expense
type ExpenseSplit struct {
	ID        int64   `json:"id"`
	ExpenseID int64   `json:"expense_id"`
	UserID    int64   `json:"user_id"`
	Amount    float64 `json:"amount"`
}

// SplitFor returns the split entry for a user, or nil
func (e *Expense) SplitFor(userID int64) *ExpenseSplit {
	for _, s := range e.Splits {
		if s.UserID == userID {
			return s
		}
	}
	return nil
}
