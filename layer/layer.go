package layer

import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/mat"

// Layer is one layer of a feedforward network
type Layer interface {

	// Kind reports which kind of layer this is
	Kind() Kind

	// Weights returns the weight matrix (outputs x inputs), or nil for layers without weights
	Weights() *mat.Dense

	// Initialize draws fresh weights from the source, no-op for layers without weights
	Initialize(src rand.Source)

	// Forward maps a batch (samples x inputs) to a batch (samples x outputs)
	Forward(x mat.Matrix) *mat.Dense
}
