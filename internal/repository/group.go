package repository

import (
	"context"
	"fmt"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/repository/dao"
)

var (
	ErrGroupNotFound    = dao.ErrGroupNotFound
	ErrInviteCodeExists = dao.ErrInviteCodeExists
	ErrAlreadyMember    = dao.ErrAlreadyMember
	ErrExclusionExists  = dao.ErrExclusionExists
)

type GroupDAO interface {
	Insert(ctx context.Context, group dao.Group) (dao.Group, error)
	FindByID(ctx context.Context, id uint) (dao.Group, error)
	FindByInviteCode(ctx context.Context, code string) (dao.Group, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Group, error)
	AddMember(ctx context.Context, groupID, userID uint) error
	FindMembers(ctx context.Context, groupID uint) ([]dao.MemberRow, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	CountMembers(ctx context.Context, groupID uint) (int64, error)
	UpdateStatus(ctx context.Context, groupID uint, status string) error
	UpdateRegistrationOpen(ctx context.Context, groupID uint, open bool) error
	InsertExclusion(ctx context.Context, exclusion dao.Exclusion) (dao.Exclusion, error)
	FindExclusions(ctx context.Context, groupID uint) ([]dao.Exclusion, error)
}

type GroupRepository struct {
	dao GroupDAO
}

func NewGroupRepository(dao GroupDAO) *GroupRepository {
	return &GroupRepository{
		dao: dao,
	}
}

func (r *GroupRepository) Create(ctx context.Context, group domain.Group) (domain.Group, error) {
	created, err := r.dao.Insert(ctx, dao.Group{
		Name:             group.Name,
		Description:      group.Description,
		InviteCode:       group.InviteCode,
		Status:           string(group.Status),
		RegistrationOpen: group.RegistrationOpen,
		MinParticipants:  group.MinParticipants,
		MaxParticipants:  group.MaxParticipants,
		PriceLimit:       group.PriceLimit,
		CreatorID:        group.CreatorID,
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint) (domain.Group, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *GroupRepository) FindByInviteCode(ctx context.Context, code string) (domain.Group, error) {
	found, err := r.dao.FindByInviteCode(ctx, code)
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.FindByInviteCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *GroupRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Group, error) {
	found, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	groups := make([]domain.Group, 0, len(found))
	for _, g := range found {
		groups = append(groups, r.daoToDomain(g))
	}

	return groups, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	if err := r.dao.AddMember(ctx, groupID, userID); err != nil {
		return fmt.Errorf("r.dao.AddMember -> %w", err)
	}

	return nil
}

// LoadMembers returns the group's participants in join order.
func (r *GroupRepository) LoadMembers(ctx context.Context, groupID uint) ([]domain.Participant, error) {
	rows, err := r.dao.FindMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMembers -> %w", err)
	}

	members := make([]domain.Participant, 0, len(rows))
	for _, row := range rows {
		members = append(members, domain.Participant{
			ID:       row.ID,
			Name:     row.Name,
			Wishlist: row.Wishlist,
			JoinedAt: row.JoinedAt,
		})
	}

	return members, nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	isMember, err := r.dao.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("r.dao.IsMember -> %w", err)
	}

	return isMember, nil
}

func (r *GroupRepository) CountMembers(ctx context.Context, groupID uint) (int, error) {
	count, err := r.dao.CountMembers(ctx, groupID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountMembers -> %w", err)
	}

	return int(count), nil
}

func (r *GroupRepository) UpdateStatus(ctx context.Context, groupID uint, status domain.GroupStatus) error {
	if err := r.dao.UpdateStatus(ctx, groupID, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *GroupRepository) UpdateRegistrationOpen(ctx context.Context, groupID uint, open bool) error {
	if err := r.dao.UpdateRegistrationOpen(ctx, groupID, open); err != nil {
		return fmt.Errorf("r.dao.UpdateRegistrationOpen -> %w", err)
	}

	return nil
}

func (r *GroupRepository) AddExclusion(ctx context.Context, exclusion domain.Exclusion) (domain.Exclusion, error) {
	created, err := r.dao.InsertExclusion(ctx, dao.Exclusion{
		GroupID:    exclusion.GroupID,
		GiverID:    exclusion.GiverID,
		ReceiverID: exclusion.ReceiverID,
		Mutual:     exclusion.Mutual,
	})
	if err != nil {
		return domain.Exclusion{}, fmt.Errorf("r.dao.InsertExclusion -> %w", err)
	}

	return domain.Exclusion{
		ID:         created.ID,
		GroupID:    created.GroupID,
		GiverID:    created.GiverID,
		ReceiverID: created.ReceiverID,
		Mutual:     created.Mutual,
	}, nil
}

// LoadExclusions returns the group's exclusion rules.
func (r *GroupRepository) LoadExclusions(ctx context.Context, groupID uint) ([]domain.Exclusion, error) {
	found, err := r.dao.FindExclusions(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindExclusions -> %w", err)
	}

	exclusions := make([]domain.Exclusion, 0, len(found))
	for _, e := range found {
		exclusions = append(exclusions, domain.Exclusion{
			ID:         e.ID,
			GroupID:    e.GroupID,
			GiverID:    e.GiverID,
			ReceiverID: e.ReceiverID,
			Mutual:     e.Mutual,
		})
	}

	return exclusions, nil
}

func (r *GroupRepository) daoToDomain(g dao.Group) domain.Group {
	return domain.Group{
		ID:               g.ID,
		Name:             g.Name,
		Description:      g.Description,
		InviteCode:       g.InviteCode,
		Status:           domain.GroupStatus(g.Status),
		RegistrationOpen: g.RegistrationOpen,
		MinParticipants:  g.MinParticipants,
		MaxParticipants:  g.MaxParticipants,
		PriceLimit:       g.PriceLimit,
		CreatorID:        g.CreatorID,
		CreatedAt:        g.CreatedAt,
	}
}
