// Package datasets implements the datasets and batch loaders of the hebbian trainer
package datasets

import "fmt"

import "golang.org/x/exp/rand"

// Shape is the spatial shape of one sample
type Shape struct {
	H, W, C int
}

// Size is the number of features of one flattened sample
func (s Shape) Size() int {
	return s.H * s.W * s.C
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.H, s.W, s.C)
}

// Dataset is a read only collection of labeled samples
type Dataset interface {

	// Len returns the number of samples
	Len() int

	// Sample returns the flattened n-th sample and its label. The input must not be modified.
	Sample(n int) (input []float64, label byte)

	// Shape returns the spatial shape of every sample
	Shape() Shape
}

// Slice is an in-memory dataset
type Slice struct {
	Inputs [][]float64
	Labels []byte
	Dims   Shape
}

func (s *Slice) Len() int {
	return len(s.Inputs)
}

func (s *Slice) Sample(n int) ([]float64, byte) {
	return s.Inputs[n], s.Labels[n]
}

func (s *Slice) Shape() Shape {
	return s.Dims
}

// Subset is a view of some samples of another dataset
type Subset struct {
	Dataset
	Indices []int
}

func (s Subset) Len() int {
	return len(s.Indices)
}

func (s Subset) Sample(n int) ([]float64, byte) {
	return s.Dataset.Sample(s.Indices[n])
}

// Split randomly splits dataset d into a training set and a validation set
// holding the fraction valSplit of the samples.
func Split(d Dataset, valSplit float64, rng *rand.Rand) (train, val Subset, err error) {
	if !(valSplit >= 0 && valSplit < 1) {
		return train, val, fmt.Errorf("validation split must be in [0, 1), got %g", valSplit)
	}
	perm := rng.Perm(d.Len())
	trainSize := int((1 - valSplit) * float64(d.Len()))
	train = Subset{Dataset: d, Indices: perm[:trainSize]}
	val = Subset{Dataset: d, Indices: perm[trainSize:]}
	return
}
