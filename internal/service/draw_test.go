package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/draw"
	"github.com/mpetrenko/secret-santa-api/internal/service"
)

func seed(v int64) *int64 {
	return &v
}

func setupDrawGroup(t *testing.T, memberCount int, minParticipants int) (*fakeGroupRepo, *fakeDrawRepo, *service.DrawService, domain.Group) {
	t.Helper()

	groupRepo := newFakeGroupRepo()
	drawRepo := newFakeDrawRepo()
	svc := service.NewDrawService(groupRepo, drawRepo, draw.Config{})

	group, err := groupRepo.Create(context.Background(), domain.Group{
		Name:             "Family 2026",
		InviteCode:       "FAMILY26",
		Status:           domain.GroupStatusOpen,
		RegistrationOpen: true,
		MinParticipants:  minParticipants,
		MaxParticipants:  100,
		CreatorID:        1,
	})
	require.NoError(t, err)

	for userID := 1; userID <= memberCount; userID++ {
		require.NoError(t, groupRepo.AddMember(context.Background(), group.ID, uint(userID)))
	}

	return groupRepo, drawRepo, svc, group
}

func TestRunDraw(t *testing.T) {
	groupRepo, drawRepo, svc, group := setupDrawGroup(t, 4, 3)

	assignment, err := svc.RunDraw(context.Background(), group.ID, 1, seed(42), false)
	require.NoError(t, err)

	assert.Len(t, assignment.Pairs, 4)
	assert.EqualValues(t, 42, assignment.Seed)

	members, err := groupRepo.LoadMembers(context.Background(), group.ID)
	require.NoError(t, err)

	pairs := make(map[uint]uint, len(assignment.Pairs))
	for _, p := range assignment.Pairs {
		pairs[p.GiverID] = p.ReceiverID
	}
	require.NoError(t, draw.Validate(members, nil, pairs))

	// The round is persisted and the group transitions out of open enrollment.
	saved, err := drawRepo.LoadPriorAssignment(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, assignment.Pairs, saved.Pairs)

	updated, err := groupRepo.FindByID(context.Background(), group.ID)
	require.NoError(t, err)
	assert.False(t, updated.RegistrationOpen)
}

func TestRunDraw_SeedReplay(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 5, 3)

	first, err := svc.RunDraw(context.Background(), group.ID, 1, seed(7), false)
	require.NoError(t, err)

	replay, err := svc.RunDraw(context.Background(), group.ID, 1, seed(7), false)
	require.NoError(t, err)

	assert.Equal(t, first.Pairs, replay.Pairs)
}

func TestRunDraw_NotOrganizer(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 4, 3)

	_, err := svc.RunDraw(context.Background(), group.ID, 2, nil, false)

	require.ErrorIs(t, err, service.ErrNotOrganizer)
}

func TestRunDraw_NotEnoughMembers(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 2, 3)

	_, err := svc.RunDraw(context.Background(), group.ID, 1, nil, false)

	require.ErrorIs(t, err, service.ErrNotEnoughMembers)
}

func TestRunDraw_ClosedGroup(t *testing.T) {
	groupRepo, _, svc, group := setupDrawGroup(t, 4, 3)
	require.NoError(t, groupRepo.UpdateStatus(context.Background(), group.ID, domain.GroupStatusClosed))

	_, err := svc.RunDraw(context.Background(), group.ID, 1, nil, false)

	require.ErrorIs(t, err, service.ErrGroupClosed)
}

func TestRunDraw_InfeasibleExclusions(t *testing.T) {
	groupRepo, _, svc, group := setupDrawGroup(t, 2, 2)
	_, err := groupRepo.AddExclusion(context.Background(), domain.Exclusion{
		GroupID:    group.ID,
		GiverID:    1,
		ReceiverID: 2,
		Mutual:     true,
	})
	require.NoError(t, err)

	_, err = svc.RunDraw(context.Background(), group.ID, 1, nil, false)

	require.ErrorIs(t, err, service.ErrInfeasibleDraw)
}

func TestRunDraw_AvoidRepeat(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 5, 3)

	first, err := svc.RunDraw(context.Background(), group.ID, 1, seed(1), false)
	require.NoError(t, err)

	redraw, err := svc.RunDraw(context.Background(), group.ID, 1, seed(1), true)
	require.NoError(t, err)

	prior := make(map[uint]uint, len(first.Pairs))
	for _, p := range first.Pairs {
		prior[p.GiverID] = p.ReceiverID
	}
	for _, p := range redraw.Pairs {
		assert.NotEqual(t, prior[p.GiverID], p.ReceiverID,
			"giver %d drew the same receiver as last round", p.GiverID)
	}
}

func TestRunDraw_AvoidRepeatFallsBackWhenInfeasible(t *testing.T) {
	// With two members the only derangement is the mutual swap, so avoiding
	// last round is infeasible and the service must fall back rather than
	// fail the redraw.
	_, _, svc, group := setupDrawGroup(t, 2, 2)

	first, err := svc.RunDraw(context.Background(), group.ID, 1, nil, false)
	require.NoError(t, err)

	redraw, err := svc.RunDraw(context.Background(), group.ID, 1, nil, true)
	require.NoError(t, err)

	assert.Equal(t, first.Pairs, redraw.Pairs)
}

func TestGetMyAssignment(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 4, 3)

	assignment, err := svc.RunDraw(context.Background(), group.ID, 1, seed(42), false)
	require.NoError(t, err)

	receiver, err := svc.GetMyAssignment(context.Background(), group.ID, 2)
	require.NoError(t, err)

	expected, ok := assignment.Receiver(2)
	require.True(t, ok)
	assert.Equal(t, expected, receiver.ID)
	assert.NotEqual(t, uint(2), receiver.ID)
}

func TestGetMyAssignment_NotMember(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 4, 3)

	_, err := svc.GetMyAssignment(context.Background(), group.ID, 99)

	require.ErrorIs(t, err, service.ErrNotGroupMember)
}

func TestGetMyAssignment_NoDrawYet(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 4, 3)

	_, err := svc.GetMyAssignment(context.Background(), group.ID, 2)

	require.ErrorIs(t, err, service.ErrAssignmentNotFound)
}

func TestGetAssignment_OrganizerOnly(t *testing.T) {
	_, _, svc, group := setupDrawGroup(t, 4, 3)

	_, err := svc.RunDraw(context.Background(), group.ID, 1, seed(42), false)
	require.NoError(t, err)

	round, err := svc.GetAssignment(context.Background(), group.ID, 1)
	require.NoError(t, err)
	assert.Len(t, round.Pairs, 4)

	_, err = svc.GetAssignment(context.Background(), group.ID, 2)
	require.ErrorIs(t, err, service.ErrNotOrganizer)
}
