package split

import (
	"errors"
	"fmt"
	"math"
)

// Method defines the splitting strategy for an expense
type Method string

const (
	MethodEqual      Method = "EQUAL"
	MethodCustom     Method = "CUSTOM"
	MethodPercentage Method = "PERCENTAGE"
)

// IsValid reports whether the method is one of the known strategies
func (m Method) IsValid() bool {
	switch m {
	case MethodEqual, MethodCustom, MethodPercentage:
		return true
	}
	return false
}

// Input is a caller-supplied allocation entry. Amount holds a money amount
// for CUSTOM splits and a percentage for PERCENTAGE splits; EQUAL ignores it.
type Input struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

// Entry is one member's computed monetary share of an expense
type Entry struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Compute produces the per-member allocations for an expense.
	// activeMemberIDs is the budget's active member list in stored order.
	Compute(totalAmount float64, inputs []Input, activeMemberIDs []int64) ([]Entry, error)

	// Method returns the method identifier for this strategy
	Method() Method
}

// Factory creates split strategies based on the requested method
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the method
func (f *Factory) Create(method Method) (Strategy, error) {
	switch method {
	case MethodEqual:
		return &EqualStrategy{}, nil
	case MethodCustom:
		return &CustomStrategy{}, nil
	case MethodPercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split method: %s", method)
	}
}

var (
	ErrNoActiveMembers    = errors.New("budget has no active members to split across")
	ErrNoSplits           = errors.New("at least one split entry is required")
	ErrNegativeAmount     = errors.New("amounts cannot be negative")
	ErrInvalidPercentages = errors.New("percentages must sum to 100")
	ErrInvalidUserID      = errors.New("split entry has an invalid user id")
	ErrUnknownMember      = errors.New("split entry references a user who is not a budget member")
	ErrSplitsMismatch     = errors.New("splits must sum to the expense amount")
)

// ValidateEntries independently re-checks a computed or supplied allocation
// set: every entry must reference a valid budget member, carry a non-negative
// amount, and the entries must sum to totalAmount within a 0.01 tolerance.
func ValidateEntries(entries []Entry, totalAmount float64, memberIDs map[int64]bool) error {
	if len(entries) == 0 {
		return ErrNoSplits
	}

	var sum float64
	for _, e := range entries {
		if e.UserID <= 0 {
			return ErrInvalidUserID
		}
		if !memberIDs[e.UserID] {
			return ErrUnknownMember
		}
		if e.Amount < 0 {
			return ErrNegativeAmount
		}
		sum += e.Amount
	}

	if math.Abs(sum-totalAmount) > 0.01 {
		return ErrSplitsMismatch
	}

	return nil
}

// Round rounds a money value to 2 decimal places
func Round(value float64) float64 {
	return math.Round(value*100) / 100
}
