package domain

import "time"

type GroupStatus string

const (
	GroupStatusOpen     GroupStatus = "open"
	GroupStatusAssigned GroupStatus = "assigned"
	GroupStatusClosed   GroupStatus = "closed"
)

type Group struct {
	ID               uint          `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	InviteCode       string        `json:"invite_code"`
	Status           GroupStatus   `json:"status"`
	RegistrationOpen bool          `json:"registration_open"`
	MinParticipants  int           `json:"min_participants"`
	MaxParticipants  int           `json:"max_participants"`
	PriceLimit       string        `json:"price_limit"`
	CreatorID        uint          `json:"creator_id"`
	Members          []Participant `json:"members,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Exclusion forbids giver -> receiver. When Mutual is set the reverse
// direction is forbidden as well (e.g. spouses).
type Exclusion struct {
	ID         uint `json:"id"`
	GroupID    uint `json:"group_id"`
	GiverID    uint `json:"giver_id"`
	ReceiverID uint `json:"receiver_id"`
	Mutual     bool `json:"mutual"`
}
