package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/repository"
)

var (
	ErrGroupNotFound      = repository.ErrGroupNotFound
	ErrAlreadyMember      = repository.ErrAlreadyMember
	ErrExclusionExists    = repository.ErrExclusionExists
	ErrNotOrganizer       = errors.New("only the group organizer may do this")
	ErrNotGroupMember     = errors.New("user is not a member of this group")
	ErrRegistrationClosed = errors.New("registration is closed for this group")
	ErrGroupFull          = errors.New("group is full")
	ErrGroupClosed        = errors.New("group is closed")
	ErrSelfExclusion      = errors.New("a participant cannot be excluded from themselves")
)

const inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// inviteCodeRetries bounds retries on the (very unlikely) unique-code
// collision before giving up.
const inviteCodeRetries = 5

type GroupRepository interface {
	Create(ctx context.Context, group domain.Group) (domain.Group, error)
	FindByID(ctx context.Context, id uint) (domain.Group, error)
	FindByInviteCode(ctx context.Context, code string) (domain.Group, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Group, error)
	AddMember(ctx context.Context, groupID, userID uint) error
	LoadMembers(ctx context.Context, groupID uint) ([]domain.Participant, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	CountMembers(ctx context.Context, groupID uint) (int, error)
	UpdateStatus(ctx context.Context, groupID uint, status domain.GroupStatus) error
	UpdateRegistrationOpen(ctx context.Context, groupID uint, open bool) error
	AddExclusion(ctx context.Context, exclusion domain.Exclusion) (domain.Exclusion, error)
	LoadExclusions(ctx context.Context, groupID uint) ([]domain.Exclusion, error)
}

type GroupConfig struct {
	DefaultMinParticipants int
	DefaultMaxParticipants int
	InviteCodeLength       int
}

type GroupService struct {
	repo GroupRepository
	conf GroupConfig
}

func NewGroupService(repo GroupRepository, conf GroupConfig) *GroupService {
	if conf.DefaultMinParticipants <= 0 {
		conf.DefaultMinParticipants = 3
	}
	if conf.DefaultMaxParticipants <= 0 {
		conf.DefaultMaxParticipants = 100
	}
	if conf.InviteCodeLength <= 0 {
		conf.InviteCodeLength = 8
	}

	return &GroupService{
		repo: repo,
		conf: conf,
	}
}

// CreateGroup creates an open group with a fresh invite code and enrolls the
// creator as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, group domain.Group) (domain.Group, error) {
	group.Status = domain.GroupStatusOpen
	group.RegistrationOpen = true
	if group.MinParticipants <= 0 {
		group.MinParticipants = s.conf.DefaultMinParticipants
	}
	if group.MaxParticipants <= 0 {
		group.MaxParticipants = s.conf.DefaultMaxParticipants
	}

	var created domain.Group
	for attempt := 0; ; attempt++ {
		code, err := generateInviteCode(s.conf.InviteCodeLength)
		if err != nil {
			return domain.Group{}, fmt.Errorf("generateInviteCode -> %w", err)
		}
		group.InviteCode = code

		created, err = s.repo.Create(ctx, group)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrInviteCodeExists) && attempt < inviteCodeRetries {
			continue
		}

		return domain.Group{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err := s.repo.AddMember(ctx, created.ID, created.CreatorID); err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.AddMember -> %w", err)
	}

	return created, nil
}

// JoinGroup adds the user to the group behind the invite code.
func (s *GroupService) JoinGroup(ctx context.Context, inviteCode string, userID uint) (domain.Group, error) {
	group, err := s.repo.FindByInviteCode(ctx, inviteCode)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindByInviteCode -> %w", err)
	}

	if group.Status == domain.GroupStatusClosed {
		return domain.Group{}, ErrGroupClosed
	}
	if !group.RegistrationOpen {
		return domain.Group{}, ErrRegistrationClosed
	}

	count, err := s.repo.CountMembers(ctx, group.ID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.CountMembers -> %w", err)
	}
	if count >= group.MaxParticipants {
		return domain.Group{}, ErrGroupFull
	}

	if err := s.repo.AddMember(ctx, group.ID, userID); err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.AddMember -> %w", err)
	}

	return group, nil
}

func (s *GroupService) GetGroups(ctx context.Context, userID uint) ([]domain.Group, error) {
	groups, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return groups, nil
}

// GetGroup returns the group with its members. Members only.
func (s *GroupService) GetGroup(ctx context.Context, groupID, userID uint) (domain.Group, error) {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	isMember, err := s.repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.IsMember -> %w", err)
	}
	if !isMember {
		return domain.Group{}, ErrNotGroupMember
	}

	members, err := s.repo.LoadMembers(ctx, groupID)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.LoadMembers -> %w", err)
	}
	group.Members = members

	return group, nil
}

func (s *GroupService) CloseRegistration(ctx context.Context, groupID, userID uint) error {
	if err := s.requireOrganizer(ctx, groupID, userID); err != nil {
		return err
	}

	if err := s.repo.UpdateRegistrationOpen(ctx, groupID, false); err != nil {
		return fmt.Errorf("s.repo.UpdateRegistrationOpen -> %w", err)
	}

	return nil
}

// CloseGroup archives an assigned round.
func (s *GroupService) CloseGroup(ctx context.Context, groupID, userID uint) error {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if group.CreatorID != userID {
		return ErrNotOrganizer
	}
	if group.Status != domain.GroupStatusAssigned {
		return ErrGroupNotAssigned
	}

	if err := s.repo.UpdateStatus(ctx, groupID, domain.GroupStatusClosed); err != nil {
		return fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return nil
}

// AddExclusion records a forbidden pairing. Organizer only; both sides must
// already be group members.
func (s *GroupService) AddExclusion(ctx context.Context, exclusion domain.Exclusion, userID uint) (domain.Exclusion, error) {
	if err := s.requireOrganizer(ctx, exclusion.GroupID, userID); err != nil {
		return domain.Exclusion{}, err
	}

	if exclusion.GiverID == exclusion.ReceiverID {
		return domain.Exclusion{}, ErrSelfExclusion
	}

	for _, id := range []uint{exclusion.GiverID, exclusion.ReceiverID} {
		isMember, err := s.repo.IsMember(ctx, exclusion.GroupID, id)
		if err != nil {
			return domain.Exclusion{}, fmt.Errorf("s.repo.IsMember -> %w", err)
		}
		if !isMember {
			return domain.Exclusion{}, ErrNotGroupMember
		}
	}

	created, err := s.repo.AddExclusion(ctx, exclusion)
	if err != nil {
		return domain.Exclusion{}, fmt.Errorf("s.repo.AddExclusion -> %w", err)
	}

	return created, nil
}

func (s *GroupService) GetExclusions(ctx context.Context, groupID, userID uint) ([]domain.Exclusion, error) {
	if err := s.requireOrganizer(ctx, groupID, userID); err != nil {
		return nil, err
	}

	exclusions, err := s.repo.LoadExclusions(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.LoadExclusions -> %w", err)
	}

	return exclusions, nil
}

func (s *GroupService) requireOrganizer(ctx context.Context, groupID, userID uint) error {
	group, err := s.repo.FindByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if group.CreatorID != userID {
		return ErrNotOrganizer
	}

	return nil
}

func generateInviteCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(inviteCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("rand.Int -> %w", err)
		}
		code[i] = inviteCodeCharset[n.Int64()]
	}

	return string(code), nil
}
