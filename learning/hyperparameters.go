package learning

import "math"

import "github.com/pkg/errors"

// HyperParameters of the Krotov learning rule. They are fixed for the
// lifetime of a Krotov instance.
type HyperParameters struct {
	Precision float64 // clamp for the update normalization divisor
	Delta     float64 // anti-hebbian learning strength
	Norm      float64 // lebesgue norm of the weights (p)
	K         int     // ranking parameter, the k-th best unit is pushed away
}

// Defaults returns the hyperparameters the rule was published with.
func Defaults() HyperParameters {
	return HyperParameters{
		Precision: 1e-30,
		Delta:     0.4,
		Norm:      2,
		K:         2,
	}
}

// Validate checks the hyperparameters which do not depend on the layer size.
func (h HyperParameters) Validate() error {
	if !(h.Precision > 0) || math.IsInf(h.Precision, 0) {
		return errors.Wrapf(ErrConfiguration, "precision must be positive, got %g", h.Precision)
	}
	if math.IsNaN(h.Delta) || math.IsInf(h.Delta, 0) {
		return errors.Wrapf(ErrConfiguration, "delta must be finite, got %g", h.Delta)
	}
	if !(h.Norm >= 1) || math.IsInf(h.Norm, 0) {
		return errors.Wrapf(ErrConfiguration, "norm must be at least 1, got %g", h.Norm)
	}
	if h.K < 1 {
		return errors.Wrapf(ErrConfiguration, "k must be at least 1, got %d", h.K)
	}
	return nil
}

// Check validates the hyperparameters against a layer of hidden units.
func (h HyperParameters) Check(hidden int) error {
	if err := h.Validate(); err != nil {
		return err
	}
	if h.K > hidden {
		return errors.Wrapf(ErrConfiguration,
			"the amount of hidden units (%d) should be larger or equal to k (%d)", hidden, h.K)
	}
	return nil
}
