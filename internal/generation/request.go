package generation

import (
	"math"
	"strings"
)

// Model identifiers accepted when no catalog file is configured.
const (
	ModelGPT4       = "gpt-4"
	ModelGPT35Turbo = "gpt-3.5-turbo"
)

// DefaultTemperature is applied when a request omits temperature.
const DefaultTemperature = 0.7

// Request is the body of POST /api/generate.
type Request struct {
	Prompt      string   `json:"prompt"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature,omitempty"`
	Stream      bool     `json:"stream,omitempty"`
}

// ModelSet reports whether a model identifier may be requested.
type ModelSet interface {
	Supported(model string) bool
}

// Float64 returns a pointer to v, handy for building requests.
func Float64(v float64) *float64 { return &v }

// EffectiveTemperature returns the explicit temperature or DefaultTemperature.
// Zero is an explicit value and is returned as is.
func (r Request) EffectiveTemperature() float64 {
	if r.Temperature == nil {
		return DefaultTemperature
	}
	return *r.Temperature
}

// Validate checks the request before any provider call. A nil models set
// accepts every non-empty model identifier.
func (r Request) Validate(models ModelSet) error {
	if strings.TrimSpace(r.Prompt) == "" {
		return Invalid("prompt required")
	}
	model := strings.TrimSpace(r.Model)
	if model == "" {
		return Invalid("model required")
	}
	if models != nil && !models.Supported(model) {
		return Invalid("model not supported")
	}
	if r.Temperature != nil {
		t := *r.Temperature
		if math.IsNaN(t) || t < 0 || t > 1 {
			return Invalid("temperature out of range")
		}
	}
	return nil
}
