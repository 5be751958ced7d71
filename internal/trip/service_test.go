package trip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triplogue/backend/pkg/apperr"
)

// fakeRepo is an in-memory repository for service tests
type fakeRepo struct {
	trips   []*Trip
	members []*Member
	nextID  int64
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) Create(_ context.Context, creatorID int64, req *CreateTripRequest) (*Trip, error) {
	t := &Trip{ID: f.id(), Name: req.Name, Description: req.Description, CreatedBy: creatorID}
	f.trips = append(f.trips, t)
	f.members = append(f.members, &Member{
		ID: f.id(), TripID: t.ID, UserID: creatorID,
		Role: MemberRoleOwner, Status: MemberStatusActive,
	})
	return t, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*Trip, error) {
	for _, t := range f.trips {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetMembers(_ context.Context, tripID int64) ([]*Member, error) {
	var out []*Member
	for _, m := range f.members {
		if m.TripID == tripID && m.Status == MemberStatusActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetMember(_ context.Context, tripID, userID int64) (*Member, error) {
	for _, m := range f.members {
		if m.TripID == tripID && m.UserID == userID {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListByUserID(_ context.Context, userID int64) ([]*Trip, error) {
	var out []*Trip
	for _, m := range f.members {
		if m.UserID == userID && m.Status == MemberStatusActive {
			for _, t := range f.trips {
				if t.ID == m.TripID {
					out = append(out, t)
				}
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, id int64, req *UpdateTripRequest) (*Trip, error) {
	for _, t := range f.trips {
		if t.ID == id {
			if req.Name != nil {
				t.Name = *req.Name
			}
			if req.Description != nil {
				t.Description = req.Description
			}
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) AddMember(_ context.Context, tripID, userID int64, role MemberRole) (*Member, error) {
	m := &Member{ID: f.id(), TripID: tripID, UserID: userID, Role: role, Status: MemberStatusActive}
	f.members = append(f.members, m)
	return m, nil
}

func (f *fakeRepo) SetMemberStatus(_ context.Context, tripID, userID int64, status MemberStatus) (*Member, error) {
	for _, m := range f.members {
		if m.TripID == tripID && m.UserID == userID {
			m.Status = status
			return m, nil
		}
	}
	return nil, nil
}

func newTestService() (*Service, *fakeRepo, *[]int64) {
	repo := &fakeRepo{}
	var removed []int64
	svc := NewService(repo, func(_ context.Context, _, userID int64) error {
		removed = append(removed, userID)
		return nil
	})
	return svc, repo, &removed
}

func TestCreateTrip(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &CreateTripRequest{Name: "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", created.Name)
	assert.Equal(t, int64(1), created.CreatedBy)

	members, _ := repo.GetMembers(ctx, created.ID)
	require.Len(t, members, 1, "the creator joins as owner")
	assert.Equal(t, MemberRoleOwner, members[0].Role)

	_, err = svc.Create(ctx, 1, &CreateTripRequest{})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "name required")
}

func TestGetByIDWithMembers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &CreateTripRequest{Name: "Lisbon"})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)

	_, members, err := svc.GetByIDWithMembers(ctx, created.ID, 2)
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, _, err = svc.GetByIDWithMembers(ctx, created.ID, 99)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission))

	_, _, err = svc.GetByIDWithMembers(ctx, 999, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateTrip(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &CreateTripRequest{Name: "Lisbon"})
	require.NoError(t, err)

	name := "Porto"
	updated, err := svc.Update(ctx, created.ID, 1, &UpdateTripRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Porto", updated.Name)

	_, err = svc.Update(ctx, created.ID, 2, &UpdateTripRequest{Name: &name})
	assert.True(t, apperr.IsKind(err, apperr.KindPermission), "creator only")
}

func TestAddMember(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &CreateTripRequest{Name: "Lisbon"})
	require.NoError(t, err)

	m, err := svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)
	assert.Equal(t, MemberRoleMember, m.Role)

	_, err = svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 2})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict), "already active")

	_, err = svc.AddMember(ctx, created.ID, 2, &AddMemberRequest{UserID: 3})
	assert.True(t, apperr.IsKind(err, apperr.KindPermission), "creator only")
}

func TestRemoveAndReaddMember(t *testing.T) {
	svc, repo, removed := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &CreateTripRequest{Name: "Lisbon"})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)

	err = svc.RemoveMember(ctx, created.ID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, *removed, "budget hook fired")

	m, _ := repo.GetMember(ctx, created.ID, 2)
	assert.Equal(t, MemberStatusLeft, m.Status, "membership is marked left, not deleted")

	// Re-adding reactivates the old row
	readded, err := svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)
	assert.Equal(t, MemberStatusActive, readded.Status)
}

func TestRemoveMemberRules(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, &CreateTripRequest{Name: "Lisbon"})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 2})
	require.NoError(t, err)
	_, err = svc.AddMember(ctx, created.ID, 1, &AddMemberRequest{UserID: 3})
	require.NoError(t, err)

	err = svc.RemoveMember(ctx, created.ID, 3, 2)
	assert.True(t, apperr.IsKind(err, apperr.KindPermission), "members cannot remove each other")

	err = svc.RemoveMember(ctx, created.ID, 2, 2)
	assert.NoError(t, err, "a member may leave on their own")

	err = svc.RemoveMember(ctx, created.ID, 1, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation), "the creator cannot leave")

	err = svc.RemoveMember(ctx, created.ID, 99, 1)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
