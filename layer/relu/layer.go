// Package relu implements the rectified linear unit layer
package relu

import "github.com/neurlang/hebbian/layer"
import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/mat"

// ReLU computes max(x, 0) elementwise
type ReLU struct{}

// New creates a rectifier
func New() *ReLU {
	return &ReLU{}
}

// Kind is layer.KindReLU
func (*ReLU) Kind() layer.Kind {
	return layer.KindReLU
}

// Weights is nil, the rectifier has no weights
func (*ReLU) Weights() *mat.Dense {
	return nil
}

// Initialize does nothing
func (*ReLU) Initialize(rand.Source) {}

// Forward rectifies the batch x into a new matrix
func (*ReLU) Forward(x mat.Matrix) *mat.Dense {
	var y mat.Dense
	y.Apply(func(_, _ int, v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	}, x)
	return &y
}
