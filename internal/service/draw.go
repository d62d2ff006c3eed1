package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/draw"
	"github.com/mpetrenko/secret-santa-api/internal/repository"
)

var (
	ErrInfeasibleDraw     = draw.ErrInfeasible
	ErrInvalidDrawInput   = draw.ErrInvalidInput
	ErrAssignmentNotFound = repository.ErrAssignmentNotFound
	ErrGroupNotAssigned   = errors.New("group has no completed draw")
	ErrNotEnoughMembers   = errors.New("not enough members to run the draw")
)

type DrawGroupRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Group, error)
	LoadMembers(ctx context.Context, groupID uint) ([]domain.Participant, error)
	LoadExclusions(ctx context.Context, groupID uint) ([]domain.Exclusion, error)
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	UpdateRegistrationOpen(ctx context.Context, groupID uint, open bool) error
}

type DrawRepository interface {
	SaveAssignment(ctx context.Context, assignment domain.Assignment) error
	LoadPriorAssignment(ctx context.Context, groupID uint) (domain.Assignment, error)
}

type DrawService struct {
	groupRepo DrawGroupRepository
	drawRepo  DrawRepository
	conf      draw.Config
}

func NewDrawService(groupRepo DrawGroupRepository, drawRepo DrawRepository, conf draw.Config) *DrawService {
	return &DrawService{
		groupRepo: groupRepo,
		drawRepo:  drawRepo,
		conf:      conf,
	}
}

// RunDraw executes the assignment for the group: it loads members and
// exclusion rules, runs the engine, persists the round and closes
// registration. Organizer only. A group that already has a round is redrawn
// and its results replaced; when avoidRepeat is set, last round's pairs are
// treated as extra exclusions first and dropped only if they make the draw
// infeasible.
func (s *DrawService) RunDraw(ctx context.Context, groupID, userID uint, seed *int64, avoidRepeat bool) (domain.Assignment, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.groupRepo.FindByID -> %w", err)
	}
	if group.CreatorID != userID {
		return domain.Assignment{}, ErrNotOrganizer
	}
	if group.Status == domain.GroupStatusClosed {
		return domain.Assignment{}, ErrGroupClosed
	}

	members, err := s.groupRepo.LoadMembers(ctx, groupID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.groupRepo.LoadMembers -> %w", err)
	}
	if len(members) < group.MinParticipants {
		return domain.Assignment{}, fmt.Errorf("group has %d of %d required members: %w",
			len(members), group.MinParticipants, ErrNotEnoughMembers)
	}

	exclusions, err := s.groupRepo.LoadExclusions(ctx, groupID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.groupRepo.LoadExclusions -> %w", err)
	}

	cfg := s.conf
	cfg.Seed = seed

	pairs, usedSeed, err := s.assign(ctx, groupID, members, exclusions, cfg, avoidRepeat)
	if err != nil {
		return domain.Assignment{}, err
	}

	assignment := domain.Assignment{
		GroupID: groupID,
		Pairs:   pairsInMemberOrder(members, pairs),
		Seed:    usedSeed,
		DrawnAt: time.Now(),
	}

	if err := s.drawRepo.SaveAssignment(ctx, assignment); err != nil {
		return domain.Assignment{}, fmt.Errorf("s.drawRepo.SaveAssignment -> %w", err)
	}

	if group.RegistrationOpen {
		if err := s.groupRepo.UpdateRegistrationOpen(ctx, groupID, false); err != nil {
			return domain.Assignment{}, fmt.Errorf("s.groupRepo.UpdateRegistrationOpen -> %w", err)
		}
	}

	zap.L().Info("draw completed",
		zap.Uint("group_id", groupID),
		zap.Int("participants", len(members)),
		zap.Int64("seed", usedSeed),
	)

	return assignment, nil
}

func (s *DrawService) assign(ctx context.Context, groupID uint, members []domain.Participant, exclusions []domain.Exclusion, cfg draw.Config, avoidRepeat bool) (map[uint]uint, int64, error) {
	if avoidRepeat {
		prior, err := s.drawRepo.LoadPriorAssignment(ctx, groupID)
		switch {
		case err == nil:
			augmented := append([]domain.Exclusion{}, exclusions...)
			for _, p := range prior.Pairs {
				augmented = append(augmented, domain.Exclusion{
					GroupID:    groupID,
					GiverID:    p.GiverID,
					ReceiverID: p.ReceiverID,
				})
			}

			pairs, usedSeed, err := draw.Assign(members, augmented, cfg)
			if err == nil {
				return pairs, usedSeed, nil
			}
			if !errors.Is(err, draw.ErrInfeasible) {
				return nil, 0, err
			}

			// Repeat avoidance is best effort: fall back to the real
			// constraint set rather than failing the round.
			zap.L().Warn("prior-round avoidance infeasible, redrawing without it",
				zap.Uint("group_id", groupID))
		case errors.Is(err, repository.ErrAssignmentNotFound):
			// First round, nothing to avoid.
		default:
			return nil, 0, fmt.Errorf("s.drawRepo.LoadPriorAssignment -> %w", err)
		}
	}

	return draw.Assign(members, exclusions, cfg)
}

// GetMyAssignment reveals who the calling member gives to.
func (s *DrawService) GetMyAssignment(ctx context.Context, groupID, userID uint) (domain.Participant, error) {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.groupRepo.IsMember -> %w", err)
	}
	if !isMember {
		return domain.Participant{}, ErrNotGroupMember
	}

	assignment, err := s.drawRepo.LoadPriorAssignment(ctx, groupID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.drawRepo.LoadPriorAssignment -> %w", err)
	}

	receiverID, ok := assignment.Receiver(userID)
	if !ok {
		return domain.Participant{}, ErrAssignmentNotFound
	}

	members, err := s.groupRepo.LoadMembers(ctx, groupID)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.groupRepo.LoadMembers -> %w", err)
	}
	for _, m := range members {
		if m.ID == receiverID {
			return m, nil
		}
	}

	return domain.Participant{}, fmt.Errorf("receiver %d is no longer a group member", receiverID)
}

// GetAssignment returns the whole round. Organizer only.
func (s *DrawService) GetAssignment(ctx context.Context, groupID, userID uint) (domain.Assignment, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.groupRepo.FindByID -> %w", err)
	}
	if group.CreatorID != userID {
		return domain.Assignment{}, ErrNotOrganizer
	}

	assignment, err := s.drawRepo.LoadPriorAssignment(ctx, groupID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("s.drawRepo.LoadPriorAssignment -> %w", err)
	}

	return assignment, nil
}

// pairsInMemberOrder flattens the engine's map in join order so the stored
// round is stable across replays.
func pairsInMemberOrder(members []domain.Participant, pairs map[uint]uint) []domain.AssignmentPair {
	ordered := make([]domain.AssignmentPair, 0, len(pairs))
	for _, m := range members {
		if receiver, ok := pairs[m.ID]; ok {
			ordered = append(ordered, domain.AssignmentPair{
				GiverID:    m.ID,
				ReceiverID: receiver,
			})
		}
	}

	return ordered
}
