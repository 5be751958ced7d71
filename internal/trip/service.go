package trip

import (
	"context"

	"github.com/triplogue/backend/pkg/apperr"
)

// MemberRemovedHook is invoked after a member leaves a trip, so dependent
// features (the budget roster) can mark them as past.
type MemberRemovedHook func(ctx context.Context, tripID, userID int64) error

// repository is the persistence surface the trip service depends on.
// Lookups return nil (without error) when the record does not exist.
type repository interface {
	Create(ctx context.Context, creatorID int64, req *CreateTripRequest) (*Trip, error)
	GetByID(ctx context.Context, id int64) (*Trip, error)
	GetMembers(ctx context.Context, tripID int64) ([]*Member, error)
	GetMember(ctx context.Context, tripID, userID int64) (*Member, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Trip, error)
	Update(ctx context.Context, id int64, req *UpdateTripRequest) (*Trip, error)
	AddMember(ctx context.Context, tripID, userID int64, role MemberRole) (*Member, error)
	SetMemberStatus(ctx context.Context, tripID, userID int64, status MemberStatus) (*Member, error)
}

// Service handles trip business logic
type Service struct {
	repo            repository
	onMemberRemoved MemberRemovedHook
}

// NewService creates a new trip service. The hook may be nil.
func NewService(repo repository, onMemberRemoved MemberRemovedHook) *Service {
	return &Service{repo: repo, onMemberRemoved: onMemberRemoved}
}

// Create creates a new trip and adds the creator as its owner
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateTripRequest) (*Trip, error) {
	if req.Name == "" {
		return nil, apperr.Validation("trip name is required")
	}

	t, err := s.repo.Create(ctx, creatorID, req)
	if err != nil {
		return nil, apperr.Internal("failed to create trip", err)
	}
	return t, nil
}

// GetByIDWithMembers retrieves a trip with its roster. Any trip member or
// the creator may view it.
func (s *Service) GetByIDWithMembers(ctx context.Context, id, callerID int64) (*Trip, []*Member, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load trip", err)
	}
	if t == nil {
		return nil, nil, apperr.NotFound("trip not found")
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, apperr.Internal("failed to load trip members", err)
	}

	if !hasAccess(t, members, callerID) {
		return nil, nil, apperr.Permission("you do not have access to this trip")
	}

	return t, members, nil
}

// ListByUserID retrieves all trips the user actively belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Trip, error) {
	trips, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list trips", err)
	}
	return trips, nil
}

// Update modifies a trip's name or description (creator only)
func (s *Service) Update(ctx context.Context, id, callerID int64, req *UpdateTripRequest) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if t == nil {
		return nil, apperr.NotFound("trip not found")
	}
	if t.CreatedBy != callerID {
		return nil, apperr.Permission("only the trip creator can update the trip")
	}

	updated, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, apperr.Internal("failed to update trip", err)
	}
	return updated, nil
}

// AddMember adds a user to a trip's roster (creator only). Re-adding a user
// who previously left reactivates their membership.
func (s *Service) AddMember(ctx context.Context, tripID, callerID int64, req *AddMemberRequest) (*Member, error) {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return nil, apperr.Internal("failed to load trip", err)
	}
	if t == nil {
		return nil, apperr.NotFound("trip not found")
	}
	if t.CreatedBy != callerID {
		return nil, apperr.Permission("only the trip creator can add members")
	}

	existing, err := s.repo.GetMember(ctx, tripID, req.UserID)
	if err != nil {
		return nil, apperr.Internal("failed to look up trip member", err)
	}
	if existing != nil {
		if existing.Status == MemberStatusActive {
			return nil, apperr.Conflict("user is already a member of this trip")
		}
		reactivated, err := s.repo.SetMemberStatus(ctx, tripID, req.UserID, MemberStatusActive)
		if err != nil {
			return nil, apperr.Internal("failed to reactivate trip member", err)
		}
		return reactivated, nil
	}

	m, err := s.repo.AddMember(ctx, tripID, req.UserID, MemberRoleMember)
	if err != nil {
		return nil, apperr.Internal("failed to add trip member", err)
	}
	return m, nil
}

// RemoveMember marks a user's membership as left (creator only, or the user
// leaving themself). The budget hook flags them as a past budget member.
func (s *Service) RemoveMember(ctx context.Context, tripID, userID, callerID int64) error {
	t, err := s.repo.GetByID(ctx, tripID)
	if err != nil {
		return apperr.Internal("failed to load trip", err)
	}
	if t == nil {
		return apperr.NotFound("trip not found")
	}
	if callerID != t.CreatedBy && callerID != userID {
		return apperr.Permission("only the trip creator can remove other members")
	}
	if userID == t.CreatedBy {
		return apperr.Validation("the trip creator cannot leave the trip")
	}

	m, err := s.repo.GetMember(ctx, tripID, userID)
	if err != nil {
		return apperr.Internal("failed to look up trip member", err)
	}
	if m == nil || m.Status != MemberStatusActive {
		return apperr.NotFound("trip member not found")
	}

	if _, err := s.repo.SetMemberStatus(ctx, tripID, userID, MemberStatusLeft); err != nil {
		return apperr.Internal("failed to remove trip member", err)
	}

	if s.onMemberRemoved != nil {
		if err := s.onMemberRemoved(ctx, tripID, userID); err != nil {
			return apperr.Internal("failed to update budget membership", err)
		}
	}

	return nil
}

// hasAccess reports whether the caller is the creator or on the roster
func hasAccess(t *Trip, members []*Member, callerID int64) bool {
	if t.CreatedBy == callerID {
		return true
	}
	for _, m := range members {
		if m.UserID == callerID {
			return true
		}
	}
	return false
}
