// Package full implements a fully connected (linear) layer
package full

import "fmt"

import "github.com/neurlang/hebbian/layer"
import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/mat"
import "gonum.org/v1/gonum/stat/distuv"

// FullLayer computes y = x W^T (+ b)
type FullLayer struct {
	weights *mat.Dense
	bias    []float64
}

// MustNew creates a new full layer with in inputs and out outputs
func MustNew(in, out int, bias bool) *FullLayer {
	o, err := New(in, out, bias)
	if err != nil {
		panic(err.Error())
	}
	return o
}

// New creates a new full layer with in inputs and out outputs, the weights are zero
func New(in, out int, bias bool) (o *FullLayer, err error) {
	if in <= 0 || out <= 0 {
		return nil, fmt.Errorf("full layer needs positive dimensions, got %dx%d", out, in)
	}
	o = new(FullLayer)
	o.weights = mat.NewDense(out, in, nil)
	if bias {
		o.bias = make([]float64, out)
	}
	return
}

// Kind is layer.KindLinear
func (f *FullLayer) Kind() layer.Kind {
	return layer.KindLinear
}

// Weights returns the weight matrix, outputs x inputs. The matrix is shared, not copied.
func (f *FullLayer) Weights() *mat.Dense {
	return f.weights
}

// Bias returns the bias vector, nil if the layer has none.
func (f *FullLayer) Bias() []float64 {
	return f.bias
}

// Dims returns the number of inputs and outputs
func (f *FullLayer) Dims() (in, out int) {
	out, in = f.weights.Dims()
	return
}

// Initialize fills weights with samples of the standard normal distribution
// and zeroes the bias.
func (f *FullLayer) Initialize(src rand.Source) {
	f.Fill(distuv.Normal{Mu: 0, Sigma: 1, Src: src})
	for i := range f.bias {
		f.bias[i] = 0
	}
}

// Fill sets every weight to a sample of dist
func (f *FullLayer) Fill(dist distuv.Rander) {
	data := f.weights.RawMatrix().Data
	for i := range data {
		data[i] = dist.Rand()
	}
}

// Forward computes x W^T + b for a batch x
func (f *FullLayer) Forward(x mat.Matrix) *mat.Dense {
	var y mat.Dense
	y.Mul(x, f.weights.T())
	if f.bias != nil {
		r, _ := y.Dims()
		for i := 0; i < r; i++ {
			row := y.RawRowView(i)
			for j := range row {
				row[j] += f.bias[j]
			}
		}
	}
	return &y
}
