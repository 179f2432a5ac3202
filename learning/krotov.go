// Package learning implements the Krotov-Hopfield competitive hebbian learning rule
package learning

import "math"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

// Krotov is the Krotov-Hopfield hebbian learning rule.
// See https://github.com/DimaKrotov/Biological_Learning.
type Krotov struct {
	h HyperParameters
}

// NewKrotov creates the learning rule, failing for unusable hyperparameters.
func NewKrotov(h HyperParameters) (*Krotov, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &Krotov{h: h}, nil
}

// MustNewKrotov is like NewKrotov but panics on error.
func MustNewKrotov(h HyperParameters) *Krotov {
	k, err := NewKrotov(h)
	if err != nil {
		panic(err.Error())
	}
	return k
}

// HyperParameters returns the hyperparameters of the rule.
func (k *Krotov) HyperParameters() HyperParameters {
	return k.h
}

// Check reports whether the rule can train a layer of hidden units.
func (k *Krotov) Check(hidden int) error {
	return k.h.Check(hidden)
}

// Update computes the weight update for inputs (batch x features) and weights
// (hidden x features). The result has the shape of weights and its largest
// absolute entry is 1, unless the raw update is smaller than the precision.
// Neither inputs nor weights are modified.
func (k *Krotov) Update(inputs, weights mat.Matrix) (*mat.Dense, error) {
	batch, features := inputs.Dims()
	hidden, size := weights.Dims()
	if batch == 0 || features == 0 {
		return nil, errors.Wrap(ErrEmptyBatch, "krotov update")
	}
	if features != size {
		return nil, errors.Wrapf(ErrShapeMismatch,
			"input has %d features, weights expect %d", features, size)
	}
	if err := k.h.Check(hidden); err != nil {
		return nil, err
	}

	// overlap of every hidden unit with every sample
	var tot mat.Dense
	tot.Mul(k.synapses(weights), inputs.T())

	act := k.activations(&tot)

	var ds mat.Dense
	ds.Mul(act, inputs)
	for h := 0; h < hidden; h++ {
		xx := floats.Dot(act.RawRowView(h), tot.RawRowView(h))
		if xx == 0 {
			continue
		}
		floats.AddScaled(ds.RawRowView(h), -xx, mat.Row(nil, h, weights))
	}

	nc := maxAbs(ds.RawMatrix().Data)
	if nc < k.h.Precision {
		nc = k.h.Precision
	}
	ds.Apply(func(_, _ int, v float64) float64 {
		return v / nc
	}, &ds)

	return &ds, nil
}

// synapses computes sign(w) * |w|^(p-1).
func (k *Krotov) synapses(weights mat.Matrix) *mat.Dense {
	var s mat.Dense
	s.CloneFrom(weights)
	exp := k.h.Norm - 1
	s.Apply(func(_, _ int, w float64) float64 {
		switch {
		case w > 0:
			return math.Pow(w, exp)
		case w < 0:
			return -math.Pow(-w, exp)
		}
		return 0
	}, &s)
	return &s
}

// activations ranks the hidden units for every sample (column of tot). The
// best unit gets +1 and the k-th best gets -delta. For k == 1 both are the
// same unit and the anti-hebbian value wins.
func (k *Krotov) activations(tot *mat.Dense) *mat.Dense {
	hidden, batch := tot.Dims()
	act := mat.NewDense(hidden, batch, nil)
	best := make([]int, 0, k.h.K)
	col := make([]float64, hidden)
	for b := 0; b < batch; b++ {
		mat.Col(col, b, tot)
		best = topK(best[:0], col, k.h.K)
		act.Set(best[0], b, 1.0)
		act.Set(best[k.h.K-1], b, -k.h.Delta)
	}
	return act
}

// topK appends to dst the indices of the n largest values, largest first.
// Equal values keep their index order.
func topK(dst []int, values []float64, n int) []int {
	for i, v := range values {
		if len(dst) == n && v <= values[dst[n-1]] {
			continue
		}
		j := len(dst)
		if j < n {
			dst = append(dst, i)
		} else {
			j = n - 1
		}
		for ; j > 0 && v > values[dst[j-1]]; j-- {
			dst[j] = dst[j-1]
		}
		dst[j] = i
	}
	return dst
}

func maxAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Max(floats.Max(data), -floats.Min(data))
}
