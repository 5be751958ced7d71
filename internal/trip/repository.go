package trip

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles trip data persistence. It also implements the budget
// package's TripGateway.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new trip repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new trip and its creator's owner membership
func (r *Repository) Create(ctx context.Context, creatorID int64, req *CreateTripRequest) (*Trip, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO trips (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by, budget_total, budget_spent, created_at
	`
	t := &Trip{}
	err = tx.QueryRowContext(ctx, query, req.Name, req.Description, creatorID).Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.CreatedBy,
		&t.BudgetTotal,
		&t.BudgetSpent,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	memberQuery := `INSERT INTO trip_members (trip_id, user_id, role, status) VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, memberQuery, t.ID, creatorID, MemberRoleOwner, MemberStatusActive); err != nil {
		return nil, fmt.Errorf("failed to add trip creator: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trip: %w", err)
	}

	return t, nil
}

// GetByID retrieves a trip by its ID, or nil
func (r *Repository) GetByID(ctx context.Context, id int64) (*Trip, error) {
	query := `
		SELECT id, name, description, created_by, budget_total, budget_spent, created_at
		FROM trips
		WHERE id = $1
	`

	t := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.CreatedBy,
		&t.BudgetTotal,
		&t.BudgetSpent,
		&t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}

	return t, nil
}

// GetMembers retrieves all of a trip's members in join order
func (r *Repository) GetMembers(ctx context.Context, tripID int64) ([]*Member, error) {
	query := `
		SELECT id, trip_id, user_id, role, status, joined_at
		FROM trip_members
		WHERE trip_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip members: %w", err)
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m := &Member{}
		if err := rows.Scan(&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// GetMember retrieves one membership row, or nil
func (r *Repository) GetMember(ctx context.Context, tripID, userID int64) (*Member, error) {
	query := `
		SELECT id, trip_id, user_id, role, status, joined_at
		FROM trip_members
		WHERE trip_id = $1 AND user_id = $2
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, tripID, userID).Scan(
		&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip member: %w", err)
	}

	return m, nil
}

// ListByUserID retrieves all trips where the user is an active member
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Trip, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_by, t.budget_total, t.budget_spent, t.created_at
		FROM trips t
		JOIN trip_members m ON m.trip_id = t.id
		WHERE m.user_id = $1 AND m.status = $2
		ORDER BY t.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, MemberStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t := &Trip{}
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.CreatedBy,
			&t.BudgetTotal, &t.BudgetSpent, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, t)
	}

	return trips, rows.Err()
}

// Update modifies a trip's name or description
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateTripRequest) (*Trip, error) {
	query := `
		UPDATE trips
		SET name = COALESCE($2, name), description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, created_by, budget_total, budget_spent, created_at
	`

	t := &Trip{}
	err := r.db.QueryRowContext(ctx, query, id, req.Name, req.Description).Scan(
		&t.ID, &t.Name, &t.Description, &t.CreatedBy,
		&t.BudgetTotal, &t.BudgetSpent, &t.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}

	return t, nil
}

// AddMember inserts a new active membership row
func (r *Repository) AddMember(ctx context.Context, tripID, userID int64, role MemberRole) (*Member, error) {
	query := `
		INSERT INTO trip_members (trip_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, trip_id, user_id, role, status, joined_at
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, tripID, userID, role, MemberStatusActive).Scan(
		&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add trip member: %w", err)
	}

	return m, nil
}

// SetMemberStatus updates a membership's status
func (r *Repository) SetMemberStatus(ctx context.Context, tripID, userID int64, status MemberStatus) (*Member, error) {
	query := `
		UPDATE trip_members
		SET status = $3
		WHERE trip_id = $1 AND user_id = $2
		RETURNING id, trip_id, user_id, role, status, joined_at
	`

	m := &Member{}
	err := r.db.QueryRowContext(ctx, query, tripID, userID, status).Scan(
		&m.ID, &m.TripID, &m.UserID, &m.Role, &m.Status, &m.JoinedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update trip member: %w", err)
	}

	return m, nil
}

// TripExists reports whether a trip exists
func (r *Repository) TripExists(ctx context.Context, tripID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trip: %w", err)
	}
	return exists, nil
}

// TripCreator returns the trip creator's user id, or 0 if the trip is gone
func (r *Repository) TripCreator(ctx context.Context, tripID int64) (int64, error) {
	var creatorID int64
	err := r.db.QueryRowContext(ctx, `SELECT created_by FROM trips WHERE id = $1`, tripID).Scan(&creatorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get trip creator: %w", err)
	}
	return creatorID, nil
}

// TripMemberIDs returns the active roster's user ids in join order
func (r *Repository) TripMemberIDs(ctx context.Context, tripID int64) ([]int64, error) {
	query := `
		SELECT user_id
		FROM trip_members
		WHERE trip_id = $1 AND status = $2
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, tripID, MemberStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip member ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan trip member id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// SaveBudgetSummary overwrites the trip's cached budget totals
func (r *Repository) SaveBudgetSummary(ctx context.Context, tripID int64, totalPlanned, totalSpent float64) error {
	query := `UPDATE trips SET budget_total = $2, budget_spent = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, tripID, totalPlanned, totalSpent); err != nil {
		return fmt.Errorf("failed to save budget summary: %w", err)
	}
	return nil
}
