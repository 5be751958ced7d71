package budget

import (
	"context"
	"strings"

	"github.com/triplogue/backend/internal/budget/split"
	"github.com/triplogue/backend/pkg/apperr"
)

// CreateExpense records an expense for a trip's budget. The caller must be
// an active budget member; non-creators additionally need the expense
// creation rule flag. Splits are computed by the expense's strategy and
// re-validated before anything is persisted.
func (s *Service) CreateExpense(ctx context.Context, tripID, callerID int64, req *CreateExpenseRequest) (*Snapshot, error) {
	b, err := s.loadBudget(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if err := ensureActiveMember(b, callerID); err != nil {
		return nil, err
	}
	if err := enforceExpensePermission(actionCreate, b, callerID, 0); err != nil {
		return nil, err
	}

	if err := validateAmount(req.Amount, "amount"); err != nil {
		return nil, err
	}
	amount := split.Round(req.Amount)

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = b.BaseCurrency
	}
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	if currency != b.BaseCurrency {
		return nil, apperr.Validation("expense currency %s must match the budget's base currency %s", currency, b.BaseCurrency)
	}

	if err := validateID(req.PaidBy, "payer id"); err != nil {
		return nil, err
	}
	if b.FindMember(req.PaidBy) == nil {
		return nil, apperr.Validation("payer is not a budget member")
	}

	if err := validateSplitMethod(req.SplitMethod); err != nil {
		return nil, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	entries, err := s.computeSplits(amount, req.SplitMethod, req.Splits, b)
	if err != nil {
		return nil, err
	}

	e := &Expense{
		TripID:      tripID,
		BudgetID:    b.ID,
		Title:       req.Title,
		Amount:      amount,
		Currency:    currency,
		Category:    req.Category,
		PaidBy:      req.PaidBy,
		CreatedBy:   callerID,
		SplitMethod: req.SplitMethod,
		Date:        date,
		Notes:       req.Notes,
	}
	for _, entry := range entries {
		e.Splits = append(e.Splits, &ExpenseSplit{UserID: entry.UserID, Amount: entry.Amount})
	}

	if _, err := s.store.CreateExpense(ctx, e); err != nil {
		return nil, apperr.Internal("failed to create expense", err)
	}

	expenses, err := s.syncTripSummary(ctx, b)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(b, expenses), nil
}

// UpdateExpense modifies an expense's mutable fields. The split method,
// payer, creator, and owning trip are fixed at creation; supplying a
// different value for any of them fails explicitly. Amount or split changes
// are recomputed against the expense's fixed split method.
func (s *Service) UpdateExpense(ctx context.Context, expenseID, callerID int64, req *UpdateExpenseRequest) (*Snapshot, error) {
	e, b, err := s.loadExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if err := ensureActiveMember(b, callerID); err != nil {
		return nil, err
	}
	if err := enforceExpensePermission(actionEdit, b, callerID, e.CreatedBy); err != nil {
		return nil, err
	}

	if req.SplitMethod != nil && *req.SplitMethod != e.SplitMethod {
		return nil, apperr.Validation("split method cannot be changed")
	}
	if req.PaidBy != nil && *req.PaidBy != e.PaidBy {
		return nil, apperr.Validation("payer cannot be changed")
	}
	if req.CreatedBy != nil && *req.CreatedBy != e.CreatedBy {
		return nil, apperr.Validation("expense creator cannot be changed")
	}
	if req.TripID != nil && *req.TripID != e.TripID {
		return nil, apperr.Validation("an expense cannot be moved to another trip")
	}

	if req.Title != nil {
		e.Title = req.Title
	}
	if req.Category != nil {
		e.Category = req.Category
	}
	if req.Notes != nil {
		e.Notes = req.Notes
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		e.Date = date
	}

	amount := e.Amount
	if req.Amount != nil {
		if err := validateAmount(*req.Amount, "amount"); err != nil {
			return nil, err
		}
		amount = split.Round(*req.Amount)
	}
	amountChanged := amount != e.Amount

	if amountChanged || len(req.Splits) > 0 {
		if len(req.Splits) == 0 && e.SplitMethod != split.MethodEqual {
			return nil, apperr.Validation("splits are required when changing the amount of a %s expense", e.SplitMethod)
		}
		entries, err := s.computeSplits(amount, e.SplitMethod, req.Splits, b)
		if err != nil {
			return nil, err
		}
		e.Amount = amount
		e.Splits = e.Splits[:0]
		for _, entry := range entries {
			e.Splits = append(e.Splits, &ExpenseSplit{ExpenseID: e.ID, UserID: entry.UserID, Amount: entry.Amount})
		}
	}

	// Last-resort guard: never persist splits that do not reconcile with the
	// amount. Past members may legitimately appear in untouched splits.
	if err := split.ValidateEntries(entriesOf(e), e.Amount, allMemberIDSet(b)); err != nil {
		return nil, validationErr(err)
	}

	if err := s.store.UpdateExpense(ctx, e); err != nil {
		return nil, apperr.Internal("failed to update expense", err)
	}

	expenses, err := s.syncTripSummary(ctx, b)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(b, expenses), nil
}

// DeleteExpense hard-deletes an expense and re-syncs the trip totals. Same
// ownership and permission rules as update.
func (s *Service) DeleteExpense(ctx context.Context, expenseID, callerID int64) (*Snapshot, error) {
	e, b, err := s.loadExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if err := ensureActiveMember(b, callerID); err != nil {
		return nil, err
	}
	if err := enforceExpensePermission(actionDelete, b, callerID, e.CreatedBy); err != nil {
		return nil, err
	}

	if err := s.store.DeleteExpense(ctx, e.ID); err != nil {
		return nil, apperr.Internal("failed to delete expense", err)
	}

	expenses, err := s.syncTripSummary(ctx, b)
	if err != nil {
		return nil, err
	}
	return buildSnapshot(b, expenses), nil
}

// computeSplits runs the strategy for the given method and re-validates the
// result against the active member set (defense in depth).
func (s *Service) computeSplits(amount float64, method split.Method, inputs []split.Input, b *Budget) ([]split.Entry, error) {
	strategy, err := s.splitFactory.Create(method)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	entries, err := strategy.Compute(amount, inputs, b.ActiveMemberIDs())
	if err != nil {
		return nil, validationErr(err)
	}

	if err := split.ValidateEntries(entries, amount, b.ActiveMemberIDSet()); err != nil {
		return nil, validationErr(err)
	}
	return entries, nil
}

// loadExpense fetches an expense together with its owning budget
func (s *Service) loadExpense(ctx context.Context, expenseID int64) (*Expense, *Budget, error) {
	if err := validateID(expenseID, "expense id"); err != nil {
		return nil, nil, err
	}
	e, err := s.store.GetExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load expense", err)
	}
	if e == nil {
		return nil, nil, apperr.NotFound("expense not found")
	}

	b, err := s.store.GetBudgetByTripID(ctx, e.TripID)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load budget", err)
	}
	if b == nil {
		return nil, nil, apperr.NotFound("budget not found for this trip")
	}
	return e, b, nil
}

// entriesOf converts an expense's stored splits into engine entries
func entriesOf(e *Expense) []split.Entry {
	entries := make([]split.Entry, len(e.Splits))
	for i, sp := range e.Splits {
		entries[i] = split.Entry{UserID: sp.UserID, Amount: sp.Amount}
	}
	return entries
}

// allMemberIDSet returns every roster member's id, past members included
func allMemberIDSet(b *Budget) map[int64]bool {
	set := make(map[int64]bool, len(b.Members))
	for _, m := range b.Members {
		set[m.UserID] = true
	}
	return set
}
