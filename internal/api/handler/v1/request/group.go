package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateGroupRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	MinParticipants int    `json:"min_participants"`
	MaxParticipants int    `json:"max_participants"`
	PriceLimit      string `json:"price_limit"`
}

func (r CreateGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.MinParticipants, validation.Min(0), validation.Max(1000)),
		validation.Field(&r.MaxParticipants, validation.Min(0), validation.Max(1000)),
		validation.Field(&r.PriceLimit, validation.Length(0, 100)),
	)
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

func (r JoinGroupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.InviteCode, validation.Required, validation.Length(4, 16)),
	)
}

type AddExclusionRequest struct {
	GiverID    uint `json:"giver_id"`
	ReceiverID uint `json:"receiver_id"`
	Mutual     bool `json:"mutual"`
}

func (r AddExclusionRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.GiverID, validation.Required),
		validation.Field(&r.ReceiverID, validation.Required),
	)
}
