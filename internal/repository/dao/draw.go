package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

type DrawResult struct {
	ID uint `gorm:"primaryKey"`

	GroupID    uint  `gorm:"not null;uniqueIndex:uni_group_giver,priority:1;uniqueIndex:uni_group_receiver,priority:1"`
	GiverID    uint  `gorm:"not null;uniqueIndex:uni_group_giver,priority:2"`
	ReceiverID uint  `gorm:"not null;uniqueIndex:uni_group_receiver,priority:2;check:chk_no_self_gift,giver_id <> receiver_id"`
	Seed       int64 `gorm:"not null"`

	DrawnAt   time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

type DrawDAO struct {
	db *gorm.DB
}

func NewDrawDAO(db *gorm.DB) *DrawDAO {
	return &DrawDAO{
		db: db,
	}
}

// ReplaceResults swaps in a full draw round and flips the group to assigned
// in one transaction, so a redraw can never leave a half-written round.
func (d *DrawDAO) ReplaceResults(ctx context.Context, groupID uint, results []DrawResult) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&DrawResult{}).Error; err != nil {
			return err
		}

		if err := tx.Create(&results).Error; err != nil {
			return err
		}

		result := tx.Model(&Group{}).Where("id = ?", groupID).Update("status", "assigned")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}

		return nil
	})
}

func (d *DrawDAO) FindByGroupID(ctx context.Context, groupID uint) ([]DrawResult, error) {
	var results []DrawResult

	result := d.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("giver_id").
		Find(&results)
	if result.Error != nil {
		return nil, result.Error
	}
	if len(results) == 0 {
		return nil, ErrAssignmentNotFound
	}

	return results, nil
}
