// Package scoring computes a 0-100 priority score, a letter grade and a
// recommended next action for each prospect from the prospect record and
// the full offer history.
package scoring

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Weights are the blend coefficients of the composite score. They must sum
// to 1. The four-component scheme (no response-speed factor) is the
// authoritative one; keep any change covered by the threshold tests.
type Weights struct {
	Recency   float64 `yaml:"recency"`
	Frequency float64 `yaml:"frequency"`
	Potential float64 `yaml:"potential"`
	Status    float64 `yaml:"status"`
}

// DefaultWeights returns the standard blend: 0.30 recency, 0.20 frequency,
// 0.30 potential, 0.20 status.
func DefaultWeights() Weights {
	return Weights{
		Recency:   0.30,
		Frequency: 0.20,
		Potential: 0.30,
		Status:    0.20,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Recency + w.Frequency + w.Potential + w.Status
}

// Validate checks that the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	var errs []string
	for name, v := range map[string]float64{
		"recency":   w.Recency,
		"frequency": w.Frequency,
		"potential": w.Potential,
		"status":    w.Status,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	if math.Abs(w.Sum()-1) > 1e-9 {
		errs = append(errs, fmt.Sprintf("weights must sum to 1 (got %.4f)", w.Sum()))
	}
	if len(errs) > 0 {
		return eris.Errorf("scoring: invalid weights: %s", strings.Join(errs, "; "))
	}
	return nil
}

// LoadWeights reads a weight override file. The YAML has a top-level
// "weights" key:
//
//	weights:
//	  recency: 0.30
//	  frequency: 0.20
//	  potential: 0.30
//	  status: 0.20
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, eris.Wrapf(err, "scoring: read weights %s", path)
	}

	var wrapper struct {
		Weights Weights `yaml:"weights"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return Weights{}, eris.Wrapf(err, "scoring: parse weights %s", path)
	}

	if err := wrapper.Weights.Validate(); err != nil {
		return Weights{}, err
	}
	return wrapper.Weights, nil
}
