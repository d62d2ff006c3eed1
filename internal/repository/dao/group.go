package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrInviteCodeExists = errors.New("invite code already exists")
	ErrAlreadyMember    = errors.New("user is already a group member")
	ErrExclusionExists  = errors.New("exclusion already exists")
)

type Group struct {
	ID uint `gorm:"primaryKey"`

	Name        string `gorm:"not null"`
	Description string `gorm:"type:text"`
	InviteCode  string `gorm:"uniqueIndex:uni_groups_invite_code;size:16;not null"`

	Status           string `gorm:"not null;default:open"`
	RegistrationOpen bool   `gorm:"not null;default:true"`
	MinParticipants  int    `gorm:"not null;default:3"`
	MaxParticipants  int    `gorm:"not null;default:100"`
	PriceLimit       string

	CreatorID uint `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type GroupMember struct {
	GroupID  uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"primaryKey"`
	JoinedAt time.Time `gorm:"not null"`
}

type Exclusion struct {
	ID uint `gorm:"primaryKey"`

	GroupID    uint `gorm:"not null;uniqueIndex:uni_exclusion_rule,priority:1"`
	GiverID    uint `gorm:"not null;uniqueIndex:uni_exclusion_rule,priority:2"`
	ReceiverID uint `gorm:"not null;uniqueIndex:uni_exclusion_rule,priority:3"`
	Mutual     bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null"`
}

// MemberRow joins a user with their membership record.
type MemberRow struct {
	User

	JoinedAt time.Time
}

type GroupDAO struct {
	db *gorm.DB
}

func NewGroupDAO(db *gorm.DB) *GroupDAO {
	return &GroupDAO{
		db: db,
	}
}

func (d *GroupDAO) Insert(ctx context.Context, group Group) (Group, error) {
	result := d.db.WithContext(ctx).Create(&group)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_groups_invite_code"`) {
			return Group{}, ErrInviteCodeExists
		}

		return Group{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindByID(ctx context.Context, id uint) (Group, error) {
	var group Group

	result := d.db.WithContext(ctx).First(&group, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Group{}, ErrGroupNotFound
		}

		return Group{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindByInviteCode(ctx context.Context, code string) (Group, error) {
	var group Group

	result := d.db.WithContext(ctx).First(&group, "invite_code = ?", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Group{}, ErrGroupNotFound
		}

		return Group{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindByUserID(ctx context.Context, userID uint) ([]Group, error) {
	var groups []Group

	result := d.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at").
		Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

func (d *GroupDAO) AddMember(ctx context.Context, groupID, userID uint) error {
	member := GroupMember{
		GroupID:  groupID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}

	result := d.db.WithContext(ctx).Create(&member)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyMember
		}

		return result.Error
	}

	return nil
}

func (d *GroupDAO) FindMembers(ctx context.Context, groupID uint) ([]MemberRow, error) {
	var members []MemberRow

	result := d.db.WithContext(ctx).
		Model(&User{}).
		Select("users.*, group_members.joined_at").
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.joined_at").
		Scan(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (d *GroupDAO) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *GroupDAO) CountMembers(ctx context.Context, groupID uint) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&GroupMember{}).
		Where("group_id = ?", groupID).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *GroupDAO) UpdateStatus(ctx context.Context, groupID uint, status string) error {
	result := d.db.WithContext(ctx).
		Model(&Group{}).
		Where("id = ?", groupID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

func (d *GroupDAO) UpdateRegistrationOpen(ctx context.Context, groupID uint, open bool) error {
	result := d.db.WithContext(ctx).
		Model(&Group{}).
		Where("id = ?", groupID).
		Update("registration_open", open)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

func (d *GroupDAO) InsertExclusion(ctx context.Context, exclusion Exclusion) (Exclusion, error) {
	result := d.db.WithContext(ctx).Create(&exclusion)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_exclusion_rule"`) {
			return Exclusion{}, ErrExclusionExists
		}

		return Exclusion{}, result.Error
	}

	return exclusion, nil
}

func (d *GroupDAO) FindExclusions(ctx context.Context, groupID uint) ([]Exclusion, error) {
	var exclusions []Exclusion

	result := d.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id").
		Find(&exclusions)
	if result.Error != nil {
		return nil, result.Error
	}

	return exclusions, nil
}
