package budget

import (
	"context"
	"strings"

	"github.com/triplogue/backend/internal/budget/split"
	"github.com/triplogue/backend/pkg/apperr"
)

// Store is the persistence surface the budget service depends on.
// Lookups return nil (without error) when the record does not exist.
type Store interface {
	GetBudgetByTripID(ctx context.Context, tripID int64) (*Budget, error)
	CreateBudget(ctx context.Context, b *Budget) (*Budget, error)
	UpdateBaseBudget(ctx context.Context, budgetID int64, amount *float64) error
	UpdateMemberContribution(ctx context.Context, budgetID, userID int64, amount float64) error

	GetExpenseByID(ctx context.Context, id int64) (*Expense, error)
	ListExpensesByTripID(ctx context.Context, tripID int64) ([]*Expense, error)
	CreateExpense(ctx context.Context, e *Expense) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id int64) error
}

// TripGateway is the slice of the trip service the budget core consumes:
// the roster, the creator, and a place to write the cached summary back to.
type TripGateway interface {
	TripExists(ctx context.Context, tripID int64) (bool, error)
	// TripCreator returns 0 when the trip does not exist
	TripCreator(ctx context.Context, tripID int64) (int64, error)
	// TripMemberIDs returns the active roster in join order
	TripMemberIDs(ctx context.Context, tripID int64) ([]int64, error)
	SaveBudgetSummary(ctx context.Context, tripID int64, totalPlanned, totalSpent float64) error
}

// Service orchestrates all budget and expense mutations
type Service struct {
	store        Store
	trips        TripGateway
	splitFactory *split.Factory
}

// NewService creates a new budget service with dependencies injected
func NewService(store Store, trips TripGateway, splitFactory *split.Factory) *Service {
	return &Service{
		store:        store,
		trips:        trips,
		splitFactory: splitFactory,
	}
}

// CreateBudget creates the budget for a trip. Only the trip creator may do
// this, and only once per trip. The planned contributions come either from a
// flat total divided equally among the trip roster (remainder to the last
// member) or from an explicit per-member list.
func (s *Service) CreateBudget(ctx context.Context, tripID, callerID int64, req *CreateBudgetRequest) (*Snapshot, error) {
	if err := validateID(tripID, "trip id"); err != nil {
		return nil, err
	}

	exists, err := s.trips.TripExists(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to look up trip", err)
	}
	if !exists {
		return nil, apperr.NotFound("trip not found")
	}

	creatorID, err := s.trips.TripCreator(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to look up trip creator", err)
	}
	if creatorID != callerID {
		return nil, apperr.Permission("only the trip creator can create the budget")
	}

	existing, err := s.store.GetBudgetByTripID(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load budget", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("a budget already exists for this trip")
	}

	currency := strings.ToUpper(req.BaseCurrency)
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}

	rosterIDs, err := s.trips.TripMemberIDs(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load trip members", err)
	}
	if len(rosterIDs) == 0 {
		return nil, apperr.Validation("trip has no members")
	}

	if req.TotalBudgetAmount != nil {
		if err := validateAmount(*req.TotalBudgetAmount, "total budget amount"); err != nil {
			return nil, err
		}
	}

	contributions, err := plannedContributions(req, rosterIDs)
	if err != nil {
		return nil, err
	}

	b := &Budget{
		TripID:       tripID,
		BaseCurrency: currency,
		CreatedBy:    callerID,
		Rules:        DefaultRules(),
	}
	if req.TotalBudgetAmount != nil {
		amount := split.Round(*req.TotalBudgetAmount)
		b.BaseBudgetAmount = &amount
	}
	for _, userID := range rosterIDs {
		role := RoleMember
		if userID == callerID {
			role = RoleCreator
		}
		b.Members = append(b.Members, &Member{
			UserID:              userID,
			PlannedContribution: contributions[userID],
			Role:                role,
		})
	}
	if b.CreatorCount() != 1 {
		return nil, apperr.Conflict("budget must have exactly one creator")
	}

	created, err := s.store.CreateBudget(ctx, b)
	if err != nil {
		return nil, apperr.Internal("failed to create budget", err)
	}

	expenses, err := s.syncTripSummary(ctx, created)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(created, expenses), nil
}

// plannedContributions resolves the per-member planned contributions from
// the create request against the trip roster.
func plannedContributions(req *CreateBudgetRequest, rosterIDs []int64) (map[int64]float64, error) {
	roster := make(map[int64]bool, len(rosterIDs))
	for _, id := range rosterIDs {
		roster[id] = true
	}

	contributions := make(map[int64]float64, len(rosterIDs))
	for _, id := range rosterIDs {
		contributions[id] = 0
	}

	if len(req.Members) > 0 {
		for _, m := range req.Members {
			if err := validateID(m.UserID, "member user id"); err != nil {
				return nil, err
			}
			if !roster[m.UserID] {
				return nil, apperr.Validation("user %d is not a member of this trip", m.UserID)
			}
			if err := validateAmount(m.PlannedContribution, "planned contribution"); err != nil {
				return nil, err
			}
			contributions[m.UserID] = split.Round(m.PlannedContribution)
		}
		return contributions, nil
	}

	if req.TotalBudgetAmount != nil {
		total := *req.TotalBudgetAmount
		if err := validateAmount(total, "total budget amount"); err != nil {
			return nil, err
		}
		total = split.Round(total)
		share := split.Round(total / float64(len(rosterIDs)))
		var distributed float64
		for _, id := range rosterIDs {
			contributions[id] = share
			distributed += share
		}
		// Remainder goes to the last member
		last := rosterIDs[len(rosterIDs)-1]
		contributions[last] = split.Round(contributions[last] + split.Round(total-distributed))
	}

	return contributions, nil
}

// GetSnapshot returns the derived budget view. Read access extends to the
// trip creator, current trip members, and past budget members.
func (s *Service) GetSnapshot(ctx context.Context, tripID, callerID int64) (*Snapshot, error) {
	b, err := s.loadBudget(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureReadAccess(ctx, b, callerID); err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByTripID(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load expenses", err)
	}
	return buildSnapshot(b, expenses), nil
}

// UpdateBaseBudget sets or clears the budget's target amount. Creator only.
func (s *Service) UpdateBaseBudget(ctx context.Context, tripID, callerID int64, req *UpdateBudgetRequest) (*Snapshot, error) {
	b, err := s.loadBudget(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if m := b.FindMember(callerID); m == nil || m.Role != RoleCreator {
		return nil, apperr.Permission("only the budget creator can update the base amount")
	}

	var amount *float64
	if req.BaseBudgetAmount != nil {
		if err := validateAmount(*req.BaseBudgetAmount, "base budget amount"); err != nil {
			return nil, err
		}
		rounded := split.Round(*req.BaseBudgetAmount)
		amount = &rounded
	}

	if err := s.store.UpdateBaseBudget(ctx, b.ID, amount); err != nil {
		return nil, apperr.Internal("failed to update base budget", err)
	}
	b.BaseBudgetAmount = amount

	// Base amount is independent of planned contributions; the cached trip
	// summary is untouched.
	expenses, err := s.store.ListExpensesByTripID(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load expenses", err)
	}
	return buildSnapshot(b, expenses), nil
}

// UpdateMemberContribution changes one member's planned contribution. The
// creator may update anyone; a member may update only themself and only when
// the budget's rules allow it. The new value may not fall below what the
// member has already spent.
func (s *Service) UpdateMemberContribution(ctx context.Context, tripID, targetUserID, callerID int64, req *UpdateMemberContributionRequest) (*Snapshot, error) {
	b, err := s.loadBudget(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := ensureActiveMember(b, callerID); err != nil {
		return nil, err
	}
	caller := b.FindMember(callerID)
	if caller.Role != RoleCreator {
		if callerID != targetUserID {
			return nil, apperr.Permission("you can only update your own contribution")
		}
		if !b.Rules.AllowMemberContributionEdits {
			return nil, apperr.Permission("members are not allowed to edit contributions in this budget")
		}
	}

	target := b.FindMember(targetUserID)
	if target == nil {
		return nil, apperr.NotFound("budget member not found")
	}

	if err := validateAmount(req.PlannedContribution, "planned contribution"); err != nil {
		return nil, err
	}
	amount := split.Round(req.PlannedContribution)

	expenses, err := s.store.ListExpensesByTripID(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load expenses", err)
	}
	if spent := memberSpent(targetUserID, expenses); amount < spent {
		return nil, apperr.BusinessRule("planned contribution (%.2f) cannot drop below the member's already-spent total (%.2f)", amount, spent)
	}

	if err := s.store.UpdateMemberContribution(ctx, b.ID, targetUserID, amount); err != nil {
		return nil, apperr.Internal("failed to update contribution", err)
	}
	target.PlannedContribution = amount

	expenses, err = s.syncTripSummary(ctx, b)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(b, expenses), nil
}

// CloneBudget copies a budget's structure into another trip. The cloning
// user becomes the sole creator; every other copied member is downgraded to
// a regular member. FULL_HISTORY additionally duplicates every expense under
// the new trip with fresh identifiers.
func (s *Service) CloneBudget(ctx context.Context, tripID, callerID int64, req *CloneBudgetRequest) (*Snapshot, error) {
	mode := req.Mode
	if mode == "" {
		mode = CloneModePlanning
	}
	if !mode.IsValid() {
		return nil, apperr.Validation("invalid clone mode: %s", mode)
	}
	if err := validateID(req.TargetTripID, "target trip id"); err != nil {
		return nil, err
	}
	if req.TargetTripID == tripID {
		return nil, apperr.Validation("cannot clone a budget into its own trip")
	}

	source, err := s.loadBudget(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureReadAccess(ctx, source, callerID); err != nil {
		return nil, err
	}

	exists, err := s.trips.TripExists(ctx, req.TargetTripID)
	if err != nil {
		return nil, apperr.Internal("failed to look up target trip", err)
	}
	if !exists {
		return nil, apperr.NotFound("target trip not found")
	}
	targetCreator, err := s.trips.TripCreator(ctx, req.TargetTripID)
	if err != nil {
		return nil, apperr.Internal("failed to look up target trip creator", err)
	}
	if targetCreator != callerID {
		return nil, apperr.Permission("only the target trip's creator can clone a budget into it")
	}

	existing, err := s.store.GetBudgetByTripID(ctx, req.TargetTripID)
	if err != nil {
		return nil, apperr.Internal("failed to load target budget", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("a budget already exists for the target trip")
	}

	clone := &Budget{
		TripID:       req.TargetTripID,
		BaseCurrency: source.BaseCurrency,
		CreatedBy:    callerID,
		Rules:        source.Rules,
	}
	if mode != CloneModeTemplate && source.BaseBudgetAmount != nil {
		amount := *source.BaseBudgetAmount
		clone.BaseBudgetAmount = &amount
	}

	cloningUserCopied := false
	for _, m := range source.Members {
		planned := m.PlannedContribution
		if mode == CloneModeTemplate {
			planned = 0
		}
		role := RoleMember
		past := m.IsPastMember
		if m.UserID == callerID {
			// The cloner owns the target trip, so they are active there even
			// if they had left the source budget.
			role = RoleCreator
			past = false
			cloningUserCopied = true
		}
		clone.Members = append(clone.Members, &Member{
			UserID:              m.UserID,
			PlannedContribution: planned,
			Role:                role,
			IsPastMember:        past,
		})
	}
	if !cloningUserCopied {
		clone.Members = append(clone.Members, &Member{
			UserID: callerID,
			Role:   RoleCreator,
		})
	}
	if clone.CreatorCount() != 1 {
		return nil, apperr.Conflict("cloned budget must have exactly one creator")
	}

	created, err := s.store.CreateBudget(ctx, clone)
	if err != nil {
		return nil, apperr.Internal("failed to create cloned budget", err)
	}

	if mode == CloneModeFullHistory {
		sourceExpenses, err := s.store.ListExpensesByTripID(ctx, tripID)
		if err != nil {
			return nil, apperr.Internal("failed to load source expenses", err)
		}
		for _, e := range sourceExpenses {
			copyExpense := &Expense{
				TripID:      req.TargetTripID,
				BudgetID:    created.ID,
				Title:       e.Title,
				Amount:      e.Amount,
				Currency:    e.Currency,
				Category:    e.Category,
				PaidBy:      e.PaidBy,
				CreatedBy:   e.CreatedBy,
				SplitMethod: e.SplitMethod,
				Date:        e.Date,
				Notes:       e.Notes,
			}
			for _, sp := range e.Splits {
				copyExpense.Splits = append(copyExpense.Splits, &ExpenseSplit{
					UserID: sp.UserID,
					Amount: sp.Amount,
				})
			}
			if _, err := s.store.CreateExpense(ctx, copyExpense); err != nil {
				return nil, apperr.Internal("failed to copy expense", err)
			}
		}
	}

	expenses, err := s.syncTripSummary(ctx, created)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(created, expenses), nil
}

// loadBudget fetches a trip's budget or fails with NotFound
func (s *Service) loadBudget(ctx context.Context, tripID int64) (*Budget, error) {
	if err := validateID(tripID, "trip id"); err != nil {
		return nil, err
	}
	b, err := s.store.GetBudgetByTripID(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load budget", err)
	}
	if b == nil {
		return nil, apperr.NotFound("budget not found for this trip")
	}
	return b, nil
}

// ensureReadAccess allows the trip creator, current trip members, and any
// budget member (past members included) to view the budget.
func (s *Service) ensureReadAccess(ctx context.Context, b *Budget, callerID int64) error {
	if ensureMemberAccess(b, callerID) == nil {
		return nil
	}
	creatorID, err := s.trips.TripCreator(ctx, b.TripID)
	if err != nil {
		return apperr.Internal("failed to look up trip creator", err)
	}
	if creatorID == callerID {
		return nil
	}
	memberIDs, err := s.trips.TripMemberIDs(ctx, b.TripID)
	if err != nil {
		return apperr.Internal("failed to load trip members", err)
	}
	for _, id := range memberIDs {
		if id == callerID {
			return nil
		}
	}
	return apperr.Permission("you do not have access to this budget")
}

// syncTripSummary recomputes the trip's cached planned/spent totals from
// scratch and writes them back. This is a full recompute rather than an
// incremental delta; a concurrent expense mutation on the same trip can make
// the cached total lag until the next sync (the budget and expense rows stay
// correct).
func (s *Service) syncTripSummary(ctx context.Context, b *Budget) ([]*Expense, error) {
	expenses, err := s.store.ListExpensesByTripID(ctx, b.TripID)
	if err != nil {
		return nil, apperr.Internal("failed to load expenses", err)
	}

	summary := computeSummary(b, expenses)
	if err := s.trips.SaveBudgetSummary(ctx, b.TripID, summary.TotalPlanned, summary.TotalSpent); err != nil {
		return nil, apperr.Internal("failed to sync trip summary", err)
	}
	return expenses, nil
}
