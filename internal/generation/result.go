package generation

import "time"

// Result is the non-streaming reply of the relay.
type Result struct {
	Reply       string    `json:"reply"`
	UsedModel   string    `json:"usedModel"`
	Temperature float64   `json:"temperature"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewResult echoes the request model and effective temperature next to reply.
func NewResult(req Request, reply string, createdAt time.Time) Result {
	return Result{
		Reply:       reply,
		UsedModel:   req.Model,
		Temperature: req.EffectiveTemperature(),
		CreatedAt:   createdAt.UTC(),
	}
}
