package domain

import "time"

type AssignmentPair struct {
	GiverID    uint `json:"giver_id"`
	ReceiverID uint `json:"receiver_id"`
}

// Assignment is the outcome of one draw round for a group. Immutable once
// saved; a redraw replaces the whole round.
type Assignment struct {
	GroupID uint             `json:"group_id"`
	Pairs   []AssignmentPair `json:"pairs"`
	Seed    int64            `json:"seed"`
	DrawnAt time.Time        `json:"drawn_at"`
}

// Receiver returns the receiver drawn for the given giver.
func (a Assignment) Receiver(giverID uint) (uint, bool) {
	for _, p := range a.Pairs {
		if p.GiverID == giverID {
			return p.ReceiverID, true
		}
	}

	return 0, false
}
