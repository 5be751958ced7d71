package budget

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository handles budget and expense data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new budget repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetBudgetByTripID retrieves a trip's budget with its members, or nil
func (r *Repository) GetBudgetByTripID(ctx context.Context, tripID int64) (*Budget, error) {
	query := `
		SELECT id, trip_id, base_currency, base_budget_amount, created_by,
		       allow_member_contribution_edits, allow_member_expense_creation, allow_member_expense_edits,
		       created_at
		FROM budgets
		WHERE trip_id = $1
	`

	b := &Budget{}
	err := r.db.QueryRowContext(ctx, query, tripID).Scan(
		&b.ID,
		&b.TripID,
		&b.BaseCurrency,
		&b.BaseBudgetAmount,
		&b.CreatedBy,
		&b.Rules.AllowMemberContributionEdits,
		&b.Rules.AllowMemberExpenseCreation,
		&b.Rules.AllowMemberExpenseEdits,
		&b.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	members, err := r.getMembers(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Members = members

	return b, nil
}

// getMembers retrieves a budget's roster in join order
func (r *Repository) getMembers(ctx context.Context, budgetID int64) ([]*Member, error) {
	query := `
		SELECT id, budget_id, user_id, planned_contribution, role, is_past_member, joined_at
		FROM budget_members
		WHERE budget_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get budget members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(
			&m.ID,
			&m.BudgetID,
			&m.UserID,
			&m.PlannedContribution,
			&m.Role,
			&m.IsPastMember,
			&m.JoinedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// CreateBudget inserts a budget together with its member roster
func (r *Repository) CreateBudget(ctx context.Context, b *Budget) (*Budget, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO budgets (trip_id, base_currency, base_budget_amount, created_by,
		                     allow_member_contribution_edits, allow_member_expense_creation, allow_member_expense_edits)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query,
		b.TripID,
		b.BaseCurrency,
		b.BaseBudgetAmount,
		b.CreatedBy,
		b.Rules.AllowMemberContributionEdits,
		b.Rules.AllowMemberExpenseCreation,
		b.Rules.AllowMemberExpenseEdits,
	).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	memberQuery := `
		INSERT INTO budget_members (budget_id, user_id, planned_contribution, role, is_past_member)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, joined_at
	`
	for _, m := range b.Members {
		m.BudgetID = b.ID
		err := tx.QueryRowContext(ctx, memberQuery,
			b.ID,
			m.UserID,
			m.PlannedContribution,
			m.Role,
			m.IsPastMember,
		).Scan(&m.ID, &m.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create budget member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit budget: %w", err)
	}

	return b, nil
}

// UpdateBaseBudget sets or clears the budget's base amount
func (r *Repository) UpdateBaseBudget(ctx context.Context, budgetID int64, amount *float64) error {
	query := `UPDATE budgets SET base_budget_amount = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, budgetID, amount)
	if err != nil {
		return fmt.Errorf("failed to update base budget: %w", err)
	}
	return nil
}

// UpdateMemberContribution sets one member's planned contribution
func (r *Repository) UpdateMemberContribution(ctx context.Context, budgetID, userID int64, amount float64) error {
	query := `UPDATE budget_members SET planned_contribution = $3 WHERE budget_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, budgetID, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to update contribution: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("budget member not found")
	}
	return nil
}

// MarkMemberPast flags a trip's budget member as past. Called when a user
// leaves the trip; missing budget or member rows are not an error.
func (r *Repository) MarkMemberPast(ctx context.Context, tripID, userID int64) error {
	query := `
		UPDATE budget_members
		SET is_past_member = TRUE
		WHERE user_id = $2
		  AND budget_id = (SELECT id FROM budgets WHERE trip_id = $1)
	`
	if _, err := r.db.ExecContext(ctx, query, tripID, userID); err != nil {
		return fmt.Errorf("failed to mark member past: %w", err)
	}
	return nil
}

// GetExpenseByID retrieves an expense with its splits, or nil
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT id, trip_id, budget_id, title, amount, currency, category,
		       paid_by, created_by, split_method, expense_date, notes, created_at
		FROM expenses
		WHERE id = $1
	`

	e := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.TripID,
		&e.BudgetID,
		&e.Title,
		&e.Amount,
		&e.Currency,
		&e.Category,
		&e.PaidBy,
		&e.CreatedBy,
		&e.SplitMethod,
		&e.Date,
		&e.Notes,
		&e.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := r.getSplits(ctx, []int64{e.ID})
	if err != nil {
		return nil, err
	}
	e.Splits = splits[e.ID]

	return e, nil
}

// ListExpensesByTripID retrieves all of a trip's expenses with their splits
func (r *Repository) ListExpensesByTripID(ctx context.Context, tripID int64) ([]*Expense, error) {
	query := `
		SELECT id, trip_id, budget_id, title, amount, currency, category,
		       paid_by, created_by, split_method, expense_date, notes, created_at
		FROM expenses
		WHERE trip_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	var ids []int64
	for rows.Next() {
		e := &Expense{}
		if err := rows.Scan(
			&e.ID,
			&e.TripID,
			&e.BudgetID,
			&e.Title,
			&e.Amount,
			&e.Currency,
			&e.Category,
			&e.PaidBy,
			&e.CreatedBy,
			&e.SplitMethod,
			&e.Date,
			&e.Notes,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		splits, err := r.getSplits(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			e.Splits = splits[e.ID]
		}
	}

	return expenses, nil
}

// getSplits retrieves the splits for a set of expenses, keyed by expense id
func (r *Repository) getSplits(ctx context.Context, expenseIDs []int64) (map[int64][]*ExpenseSplit, error) {
	query := `
		SELECT id, expense_id, user_id, amount
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(expenseIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[int64][]*ExpenseSplit)
	for rows.Next() {
		s := &ExpenseSplit{}
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits[s.ExpenseID] = append(splits[s.ExpenseID], s)
	}

	return splits, rows.Err()
}

// CreateExpense inserts an expense together with its splits
func (r *Repository) CreateExpense(ctx context.Context, e *Expense) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (trip_id, budget_id, title, amount, currency, category,
		                      paid_by, created_by, split_method, expense_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query,
		e.TripID,
		e.BudgetID,
		e.Title,
		e.Amount,
		e.Currency,
		e.Category,
		e.PaidBy,
		e.CreatedBy,
		e.SplitMethod,
		e.Date,
		e.Notes,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if err := insertSplits(ctx, tx, e); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return e, nil
}

// UpdateExpense rewrites an expense's mutable fields and replaces its splits
func (r *Repository) UpdateExpense(ctx context.Context, e *Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET title = $2, amount = $3, category = $4, expense_date = $5, notes = $6
		WHERE id = $1
	`
	result, err := tx.ExecContext(ctx, query, e.ID, e.Title, e.Amount, e.Category, e.Date, e.Notes)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("expense not found")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, e.ID); err != nil {
		return fmt.Errorf("failed to delete old splits: %w", err)
	}
	if err := insertSplits(ctx, tx, e); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense update: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense and its splits
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("expense not found")
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense delete: %w", err)
	}

	return nil
}

// insertSplits writes an expense's split rows inside a transaction
func insertSplits(ctx context.Context, tx *sql.Tx, e *Expense) error {
	query := `
		INSERT INTO expense_splits (expense_id, user_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	for _, s := range e.Splits {
		s.ExpenseID = e.ID
		if err := tx.QueryRowContext(ctx, query, e.ID, s.UserID, s.Amount).Scan(&s.ID); err != nil {
			return fmt.Errorf("failed to create split: %w", err)
		}
	}
	return nil
}
