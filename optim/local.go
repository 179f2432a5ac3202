// Package optim applies precomputed weight updates to layer weights
package optim

import "github.com/neurlang/hebbian/learning"
import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// Local is an optimizer applying local (hebbian) weight updates. Unlike a
// gradient optimizer it adds the update: w += lr * delta. There is no
// momentum and no accumulation between steps.
type Local struct {
	weights *mat.Dense
	lr      float64
	base    float64
}

// NewLocal creates an optimizer owning the weights, at learning rate lr.
func NewLocal(weights *mat.Dense, lr float64) *Local {
	return &Local{
		weights: weights,
		lr:      lr,
		base:    lr,
	}
}

// Step applies delta to the weights. A delta of the wrong shape leaves the weights untouched.
func (o *Local) Step(delta mat.Matrix) error {
	r, c := o.weights.Dims()
	dr, dc := delta.Dims()
	if r != dr || c != dc {
		return errors.Wrapf(learning.ErrShapeMismatch, "delta %dx%d, weights %dx%d", dr, dc, r, c)
	}
	var step mat.Dense
	step.Scale(o.lr, delta)
	o.weights.Add(o.weights, &step)
	return nil
}

// LR returns the current learning rate
func (o *Local) LR() float64 {
	return o.lr
}

// BaseLR returns the learning rate the optimizer was created with
func (o *Local) BaseLR() float64 {
	return o.base
}

// SetLR sets the learning rate for the following steps
func (o *Local) SetLR(lr float64) {
	o.lr = lr
}

// Weights returns the weights the optimizer updates
func (o *Local) Weights() *mat.Dense {
	return o.weights
}
