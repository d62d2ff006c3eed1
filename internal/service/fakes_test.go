package service_test

import (
	"context"
	"time"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/repository"
)

// fakeGroupRepo is an in-memory stand-in for the gorm-backed repository,
// implementing both service.GroupRepository and service.DrawGroupRepository.
type fakeGroupRepo struct {
	nextID     uint
	groups     map[uint]domain.Group
	members    map[uint][]domain.Participant
	exclusions map[uint][]domain.Exclusion
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		groups:     make(map[uint]domain.Group),
		members:    make(map[uint][]domain.Participant),
		exclusions: make(map[uint][]domain.Exclusion),
	}
}

func (f *fakeGroupRepo) Create(_ context.Context, group domain.Group) (domain.Group, error) {
	for _, g := range f.groups {
		if g.InviteCode == group.InviteCode {
			return domain.Group{}, repository.ErrInviteCodeExists
		}
	}

	f.nextID++
	group.ID = f.nextID
	group.CreatedAt = time.Now()
	f.groups[group.ID] = group

	return group, nil
}

func (f *fakeGroupRepo) FindByID(_ context.Context, id uint) (domain.Group, error) {
	group, ok := f.groups[id]
	if !ok {
		return domain.Group{}, repository.ErrGroupNotFound
	}

	return group, nil
}

func (f *fakeGroupRepo) FindByInviteCode(_ context.Context, code string) (domain.Group, error) {
	for _, g := range f.groups {
		if g.InviteCode == code {
			return g, nil
		}
	}

	return domain.Group{}, repository.ErrGroupNotFound
}

func (f *fakeGroupRepo) FindByUserID(_ context.Context, userID uint) ([]domain.Group, error) {
	var groups []domain.Group
	for id, ms := range f.members {
		for _, m := range ms {
			if m.ID == userID {
				groups = append(groups, f.groups[id])
			}
		}
	}

	return groups, nil
}

func (f *fakeGroupRepo) AddMember(_ context.Context, groupID, userID uint) error {
	for _, m := range f.members[groupID] {
		if m.ID == userID {
			return repository.ErrAlreadyMember
		}
	}

	f.members[groupID] = append(f.members[groupID], domain.Participant{
		ID:       userID,
		Name:     nameOf(userID),
		JoinedAt: time.Now(),
	})

	return nil
}

func (f *fakeGroupRepo) LoadMembers(_ context.Context, groupID uint) ([]domain.Participant, error) {
	return f.members[groupID], nil
}

func (f *fakeGroupRepo) IsMember(_ context.Context, groupID, userID uint) (bool, error) {
	for _, m := range f.members[groupID] {
		if m.ID == userID {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeGroupRepo) CountMembers(_ context.Context, groupID uint) (int, error) {
	return len(f.members[groupID]), nil
}

func (f *fakeGroupRepo) UpdateStatus(_ context.Context, groupID uint, status domain.GroupStatus) error {
	group, ok := f.groups[groupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	group.Status = status
	f.groups[groupID] = group

	return nil
}

func (f *fakeGroupRepo) UpdateRegistrationOpen(_ context.Context, groupID uint, open bool) error {
	group, ok := f.groups[groupID]
	if !ok {
		return repository.ErrGroupNotFound
	}
	group.RegistrationOpen = open
	f.groups[groupID] = group

	return nil
}

func (f *fakeGroupRepo) AddExclusion(_ context.Context, exclusion domain.Exclusion) (domain.Exclusion, error) {
	for _, e := range f.exclusions[exclusion.GroupID] {
		if e.GiverID == exclusion.GiverID && e.ReceiverID == exclusion.ReceiverID {
			return domain.Exclusion{}, repository.ErrExclusionExists
		}
	}

	exclusion.ID = uint(len(f.exclusions[exclusion.GroupID]) + 1)
	f.exclusions[exclusion.GroupID] = append(f.exclusions[exclusion.GroupID], exclusion)

	return exclusion, nil
}

func (f *fakeGroupRepo) LoadExclusions(_ context.Context, groupID uint) ([]domain.Exclusion, error) {
	return f.exclusions[groupID], nil
}

type fakeDrawRepo struct {
	saved map[uint]domain.Assignment
}

func newFakeDrawRepo() *fakeDrawRepo {
	return &fakeDrawRepo{
		saved: make(map[uint]domain.Assignment),
	}
}

func (f *fakeDrawRepo) SaveAssignment(_ context.Context, assignment domain.Assignment) error {
	f.saved[assignment.GroupID] = assignment

	return nil
}

func (f *fakeDrawRepo) LoadPriorAssignment(_ context.Context, groupID uint) (domain.Assignment, error) {
	assignment, ok := f.saved[groupID]
	if !ok {
		return domain.Assignment{}, repository.ErrAssignmentNotFound
	}

	return assignment, nil
}

func nameOf(userID uint) string {
	names := []string{"", "Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}
	if int(userID) < len(names) {
		return names[userID]
	}

	return "participant"
}
