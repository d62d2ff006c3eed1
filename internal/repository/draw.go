package repository

import (
	"context"
	"fmt"

	"github.com/mpetrenko/secret-santa-api/internal/domain"
	"github.com/mpetrenko/secret-santa-api/internal/repository/dao"
)

var ErrAssignmentNotFound = dao.ErrAssignmentNotFound

type DrawDAO interface {
	ReplaceResults(ctx context.Context, groupID uint, results []dao.DrawResult) error
	FindByGroupID(ctx context.Context, groupID uint) ([]dao.DrawResult, error)
}

type DrawRepository struct {
	dao DrawDAO
}

func NewDrawRepository(dao DrawDAO) *DrawRepository {
	return &DrawRepository{
		dao: dao,
	}
}

// SaveAssignment replaces the group's round with the given assignment.
func (r *DrawRepository) SaveAssignment(ctx context.Context, assignment domain.Assignment) error {
	results := make([]dao.DrawResult, 0, len(assignment.Pairs))
	for _, p := range assignment.Pairs {
		results = append(results, dao.DrawResult{
			GroupID:    assignment.GroupID,
			GiverID:    p.GiverID,
			ReceiverID: p.ReceiverID,
			Seed:       assignment.Seed,
			DrawnAt:    assignment.DrawnAt,
		})
	}

	if err := r.dao.ReplaceResults(ctx, assignment.GroupID, results); err != nil {
		return fmt.Errorf("r.dao.ReplaceResults -> %w", err)
	}

	return nil
}

// LoadPriorAssignment returns the group's current round, if any.
func (r *DrawRepository) LoadPriorAssignment(ctx context.Context, groupID uint) (domain.Assignment, error) {
	found, err := r.dao.FindByGroupID(ctx, groupID)
	if err != nil {
		return domain.Assignment{}, fmt.Errorf("r.dao.FindByGroupID -> %w", err)
	}

	assignment := domain.Assignment{
		GroupID: groupID,
		Pairs:   make([]domain.AssignmentPair, 0, len(found)),
	}
	for _, row := range found {
		assignment.Pairs = append(assignment.Pairs, domain.AssignmentPair{
			GiverID:    row.GiverID,
			ReceiverID: row.ReceiverID,
		})
		assignment.Seed = row.Seed
		assignment.DrawnAt = row.DrawnAt
	}

	return assignment, nil
}
