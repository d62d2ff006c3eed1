package domain

import "time"

type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Wishlist  string    `json:"wishlist"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant is the group-scoped view of a user taking part in a draw.
type Participant struct {
	ID       uint      `json:"id"`
	Name     string    `json:"name"`
	Wishlist string    `json:"wishlist"`
	JoinedAt time.Time `json:"joined_at"`
}
