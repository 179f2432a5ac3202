// Package feedforward implements a feedforward network type
package feedforward

import "github.com/neurlang/hebbian/layer"
import "github.com/neurlang/hebbian/layer/full"
import "github.com/neurlang/hebbian/layer/relu"
import "gonum.org/v1/gonum/mat"

// FeedforwardNetwork is the feedforward network, a sequence of layers
type FeedforwardNetwork struct {
	layers []layer.Layer
}

// NewLayer adds a layer to the end of network
func (f *FeedforwardNetwork) NewLayer(l layer.Layer) {
	f.layers = append(f.layers, l)
}

// LenLayers returns the number of layers.
func (f FeedforwardNetwork) LenLayers() int {
	return len(f.layers)
}

// GetLayer gets the n-th layer. Returns nil on failure.
func (f FeedforwardNetwork) GetLayer(n int) layer.Layer {
	if n < 0 || n >= len(f.layers) {
		return nil
	}
	return f.layers[n]
}

// Trainable finds the first layer with weights, not counting the final layer
// which is the supervised head. Returns nil and -1 when there is none.
func (f FeedforwardNetwork) Trainable() (layer.Layer, int) {
	for i := 0; i < len(f.layers)-1; i++ {
		if f.layers[i].Kind().Trainable() {
			return f.layers[i], i
		}
	}
	return nil, -1
}

// Head returns the final layer if it has weights, nil otherwise.
func (f FeedforwardNetwork) Head() layer.Layer {
	if len(f.layers) == 0 {
		return nil
	}
	last := f.layers[len(f.layers)-1]
	if !last.Kind().Trainable() {
		return nil
	}
	return last
}

// ForwardTo runs the batch x through the first n layers.
func (f FeedforwardNetwork) ForwardTo(x mat.Matrix, n int) *mat.Dense {
	if n > len(f.layers) {
		n = len(f.layers)
	}
	out := mat.DenseCopyOf(x)
	for _, l := range f.layers[:n] {
		out = l.Forward(out)
	}
	return out
}

// Forward infers the network output for batch x.
func (f FeedforwardNetwork) Forward(x mat.Matrix) *mat.Dense {
	return f.ForwardTo(x, len(f.layers))
}

// Hidden computes the representation the head sees for batch x.
func (f FeedforwardNetwork) Hidden(x mat.Matrix) *mat.Dense {
	return f.ForwardTo(x, len(f.layers)-1)
}

// New builds the network trained by the hebbian engine: a linear layer
// without bias (in -> hidden), a rectifier, and a linear head (hidden -> out).
func New(in, hidden, out int) (*FeedforwardNetwork, error) {
	first, err := full.New(in, hidden, false)
	if err != nil {
		return nil, err
	}
	head, err := full.New(hidden, out, true)
	if err != nil {
		return nil, err
	}
	var f FeedforwardNetwork
	f.NewLayer(first)
	f.NewLayer(relu.New())
	f.NewLayer(head)
	return &f, nil
}
