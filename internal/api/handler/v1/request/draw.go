package request

type RunDrawRequest struct {
	// Seed makes the draw reproducible for audits. Omit for a random round.
	Seed *int64 `json:"seed"`

	// AvoidRepeat asks the draw to steer away from last round's pairings
	// where the constraints allow it.
	AvoidRepeat bool `json:"avoid_repeat"`
}

func (r RunDrawRequest) Validate() error {
	return nil
}
