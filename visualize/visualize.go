// Package visualize records the progress of hebbian training for later inspection
package visualize

import "github.com/neurlang/hebbian/datasets"
import "gonum.org/v1/gonum/mat"

// Visualizer receives snapshots of training. Calls are fire and forget:
// implementations report their own failures and never stop training.
type Visualizer interface {

	// Weights renders the weights (hidden x features), each row reshaped to shape
	Weights(w mat.Matrix, shape datasets.Shape, step int)

	// Scalar records a named value at a step
	Scalar(tag string, value float64, step int)

	// Samples renders some input samples
	Samples(b datasets.Batch, shape datasets.Shape)

	// Hparams records the hyperparameters of the run
	Hparams(params map[string]interface{})
}

// Nop is the visualizer used when there is none
type Nop struct{}

func (Nop) Weights(mat.Matrix, datasets.Shape, int) {}
func (Nop) Scalar(string, float64, int) {}
func (Nop) Samples(datasets.Batch, datasets.Shape) {}
func (Nop) Hparams(map[string]interface{}) {}
