package budget

import (
	"github.com/triplogue/backend/internal/budget/split"
)

// MemberContributionInput names a member and their planned contribution
type MemberContributionInput struct {
	UserID              int64   `json:"user_id" validate:"required"`
	PlannedContribution float64 `json:"planned_contribution" validate:"gte=0"`
}

// CreateBudgetRequest represents the request to create a trip's budget.
// Either TotalBudgetAmount (divided equally among trip members) or an
// explicit Members list may be supplied.
type CreateBudgetRequest struct {
	BaseCurrency      string                     `json:"base_currency" validate:"required,len=3"`
	TotalBudgetAmount *float64                   `json:"total_budget_amount,omitempty"`
	Members           []*MemberContributionInput `json:"members,omitempty"`
}

// UpdateBudgetRequest sets or clears the budget's base amount. A null or
// absent base_budget_amount clears it.
type UpdateBudgetRequest struct {
	BaseBudgetAmount *float64 `json:"base_budget_amount"`
}

// UpdateMemberContributionRequest changes one member's planned contribution
type UpdateMemberContributionRequest struct {
	PlannedContribution float64 `json:"planned_contribution" validate:"gte=0"`
}

// CloneBudgetRequest copies a budget's structure into another trip
type CloneBudgetRequest struct {
	TargetTripID int64     `json:"target_trip_id" validate:"required"`
	Mode         CloneMode `json:"mode,omitempty"`
}

// CreateExpenseRequest represents the request to record an expense
type CreateExpenseRequest struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,max=255"`
	Amount      float64       `json:"amount" validate:"gte=0"`
	Currency    string        `json:"currency,omitempty"`
	Category    *string       `json:"category,omitempty"`
	PaidBy      int64         `json:"paid_by" validate:"required"`
	SplitMethod split.Method  `json:"split_method" validate:"required"`
	Splits      []split.Input `json:"splits,omitempty"`
	Date        string        `json:"date,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
}

// UpdateExpenseRequest represents the request to update an expense.
// SplitMethod, PaidBy, CreatedBy and TripID are immutable; they are accepted
// here only so that an attempt to change them can be rejected explicitly.
type UpdateExpenseRequest struct {
	Title       *string       `json:"title,omitempty"`
	Amount      *float64      `json:"amount,omitempty"`
	Category    *string       `json:"category,omitempty"`
	Splits      []split.Input `json:"splits,omitempty"`
	Date        *string       `json:"date,omitempty"`
	Notes       *string       `json:"notes,omitempty"`
	SplitMethod *split.Method `json:"split_method,omitempty"`
	PaidBy      *int64        `json:"paid_by,omitempty"`
	CreatedBy   *int64        `json:"created_by,omitempty"`
	TripID      *int64        `json:"trip_id,omitempty"`
}

// MemberResponse represents a budget member in responses
type MemberResponse struct {
	UserID              int64      `json:"user_id"`
	PlannedContribution float64    `json:"planned_contribution"`
	Role                MemberRole `json:"role"`
	IsPastMember        bool       `json:"is_past_member"`
	JoinedAt            string     `json:"joined_at"`
}

// BudgetResponse represents a budget in responses
type BudgetResponse struct {
	ID               int64             `json:"id"`
	TripID           int64             `json:"trip_id"`
	BaseCurrency     string            `json:"base_currency"`
	BaseBudgetAmount *float64          `json:"base_budget_amount,omitempty"`
	CreatedBy        int64             `json:"created_by"`
	Rules            Rules             `json:"rules"`
	Members          []*MemberResponse `json:"members"`
	CreatedAt        string            `json:"created_at"`
}

// SplitResponse represents one member's share of an expense in responses
type SplitResponse struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

// ExpenseResponse represents an expense in responses
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	TripID      int64            `json:"trip_id"`
	Title       *string          `json:"title,omitempty"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
	Category    *string          `json:"category,omitempty"`
	PaidBy      int64            `json:"paid_by"`
	CreatedBy   int64            `json:"created_by"`
	SplitMethod split.Method     `json:"split_method"`
	Splits      []*SplitResponse `json:"splits"`
	Date        string           `json:"date"`
	Notes       *string          `json:"notes,omitempty"`
	CreatedAt   string           `json:"created_at"`
}

// Summary aggregates planned and spent totals across the whole budget
type Summary struct {
	TotalPlanned float64 `json:"total_planned"`
	TotalSpent   float64 `json:"total_spent"`
	Remaining    float64 `json:"remaining"`
}

// MemberSummary pairs one member's planned contribution with their share of
// all recorded expenses
type MemberSummary struct {
	UserID    int64   `json:"user_id"`
	Planned   float64 `json:"planned"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// Snapshot is the complete derived view returned by every budget operation.
// It is always rebuilt from the current budget and expense set, never stored.
type Snapshot struct {
	Budget          *BudgetResponse   `json:"budget"`
	Expenses        []*ExpenseResponse `json:"expenses"`
	Summary         *Summary          `json:"summary"`
	MemberSummaries []*MemberSummary  `json:"member_summaries"`
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:              m.UserID,
		PlannedContribution: split.Round(m.PlannedContribution),
		Role:                m.Role,
		IsPastMember:        m.IsPastMember,
		JoinedAt:            m.JoinedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Budget model to a BudgetResponse DTO
func (b *Budget) ToResponse() *BudgetResponse {
	members := make([]*MemberResponse, len(b.Members))
	for i, m := range b.Members {
		members[i] = m.ToResponse()
	}
	return &BudgetResponse{
		ID:               b.ID,
		TripID:           b.TripID,
		BaseCurrency:     b.BaseCurrency,
		BaseBudgetAmount: b.BaseBudgetAmount,
		CreatedBy:        b.CreatedBy,
		Rules:            b.Rules,
		Members:          members,
		CreatedAt:        b.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	splits := make([]*SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = &SplitResponse{UserID: s.UserID, Amount: split.Round(s.Amount)}
	}
	return &ExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Title:       e.Title,
		Amount:      split.Round(e.Amount),
		Currency:    e.Currency,
		Category:    e.Category,
		PaidBy:      e.PaidBy,
		CreatedBy:   e.CreatedBy,
		SplitMethod: e.SplitMethod,
		Splits:      splits,
		Date:        e.Date.UTC().Format(dateLayout),
		Notes:       e.Notes,
		CreatedAt:   e.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
