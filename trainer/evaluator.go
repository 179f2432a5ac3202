package trainer

import "fmt"
import "math"
import "sync/atomic"

import "github.com/neurlang/hebbian/datasets"
import "github.com/neurlang/hebbian/learning"
import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/neurlang/hebbian/parallel"
import "github.com/pkg/errors"
import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"
import "gonum.org/v1/gonum/stat"
import "gonum.org/v1/gonum/stat/distuv"

// Stats are the results of one evaluation
type Stats struct {
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

func (s Stats) String() string {
	return fmt.Sprintf("loss=%.4f accuracy=%.4f", s.Loss, s.Accuracy)
}

// Evaluator evaluates the representation learned so far
type Evaluator interface {
	Evaluate() (Stats, error)
}

// Supervised evaluates the hebbian representation by training the head of the
// network, a linear softmax classifier, on top of the frozen hidden layer.
// It never modifies the hidden layer.
type Supervised struct {
	net         *feedforward.FeedforwardNetwork
	train, test datasets.Dataset
	rng         *rand.Rand

	Epochs    int     // head training epochs per evaluation
	LR        float64 // head learning rate
	BatchSize int     // head mini-batch size

	// Losses and Accuracies hold the results of every evaluation, the learning curves
	Losses     []float64
	Accuracies []float64
}

type biased interface {
	Bias() []float64
}

// NewSupervised creates the evaluator. The held out dataset is split, the
// fraction testSplit of it measures the head, the rest trains it.
func NewSupervised(net *feedforward.FeedforwardNetwork, heldOut datasets.Dataset, testSplit float64, seed uint64) (*Supervised, error) {
	head := net.Head()
	if head == nil {
		return nil, fmt.Errorf("network has no linear head to evaluate with")
	}
	if _, ok := head.(biased); !ok {
		return nil, fmt.Errorf("network head has no bias")
	}
	rng := rand.New(rand.NewSource(seed))
	train, test, err := datasets.Split(heldOut, testSplit, rng)
	if err != nil {
		return nil, err
	}
	if train.Len() == 0 || test.Len() == 0 {
		return nil, fmt.Errorf("held out set of %d samples is too small to split", heldOut.Len())
	}
	return &Supervised{
		net:       net,
		train:     train,
		test:      test,
		rng:       rng,
		Epochs:    20,
		LR:        0.1,
		BatchSize: 64,
	}, nil
}

// Evaluate resets and trains the head on the frozen representation, then
// reports the mean cross entropy loss and the accuracy on the test portion.
func (s *Supervised) Evaluate() (Stats, error) {
	head := s.net.Head()
	weights := head.Weights()
	bias := head.(biased).Bias()
	classes, hidden := weights.Dims()

	trainX, trainY, err := s.features(s.train)
	if err != nil {
		return Stats{}, err
	}
	testX, testY, err := s.features(s.test)
	if err != nil {
		return Stats{}, err
	}
	if _, c := trainX.Dims(); c != hidden {
		return Stats{}, fmt.Errorf("head takes %d inputs, representation has %d", hidden, c)
	}

	// the frozen features are scaled to at most 1 so that one learning rate fits all runs
	scale := floats.Max(trainX.RawMatrix().Data)
	if scale > 0 {
		trainX.Scale(1/scale, trainX)
		testX.Scale(1/scale, testX)
	}
	for _, y := range append(append([]byte{}, trainY...), testY...) {
		if int(y) >= classes {
			return Stats{}, fmt.Errorf("label %d out of range of %d classes", y, classes)
		}
	}

	bound := 1 / math.Sqrt(float64(hidden))
	dist := distuv.Uniform{Min: -bound, Max: bound, Src: s.rng}
	data := weights.RawMatrix().Data
	for i := range data {
		data[i] = dist.Rand()
	}
	for i := range bias {
		bias[i] = 0
	}

	for epoch := 0; epoch < s.Epochs; epoch++ {
		s.trainEpoch(trainX, trainY, weights, bias)
	}

	stats := s.measure(testX, testY, weights, bias)
	s.Losses = append(s.Losses, stats.Loss)
	s.Accuracies = append(s.Accuracies, stats.Accuracy)
	return stats, nil
}

// features computes the hidden representation of a whole dataset.
func (s *Supervised) features(d datasets.Dataset) (*mat.Dense, []byte, error) {
	size := d.Shape().Size()
	x := mat.NewDense(d.Len(), size, nil)
	y := make([]byte, d.Len())
	for i := range y {
		in, label := d.Sample(i)
		if len(in) != size {
			return nil, nil, errors.Wrapf(learning.ErrShapeMismatch, "held out sample %d has %d features, want %d", i, len(in), size)
		}
		x.SetRow(i, in)
		y[i] = label
	}
	return s.net.Hidden(x), y, nil
}

// trainEpoch runs mini-batch gradient descent of softmax cross entropy.
func (s *Supervised) trainEpoch(x *mat.Dense, y []byte, weights *mat.Dense, bias []float64) {
	n, hidden := x.Dims()
	classes := len(bias)
	order := s.rng.Perm(n)
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = n
	}
	for start := 0; start < n; start += batchSize {
		end := start + batchSize
		if end > n {
			end = n
		}
		xb := mat.NewDense(end-start, hidden, nil)
		for i, idx := range order[start:end] {
			xb.SetRow(i, x.RawRowView(idx))
		}
		var grad mat.Dense
		grad.Mul(xb, weights.T())
		for i, idx := range order[start:end] {
			row := grad.RawRowView(i)
			floats.Add(row, bias)
			softmax(row)
			row[y[idx]] -= 1
		}
		grad.Scale(1/float64(end-start), &grad)

		var dw mat.Dense
		dw.Mul(grad.T(), xb)
		dw.Scale(s.LR, &dw)
		weights.Sub(weights, &dw)
		for j := 0; j < classes; j++ {
			bias[j] -= s.LR * floats.Sum(mat.Col(nil, j, &grad))
		}
	}
}

// measure computes the mean loss and the accuracy of the head on x, y.
func (s *Supervised) measure(x *mat.Dense, y []byte, weights *mat.Dense, bias []float64) Stats {
	var logits mat.Dense
	logits.Mul(x, weights.T())
	n, _ := logits.Dims()
	losses := make([]float64, n)
	var correct atomic.Int64
	parallel.ForEach(n, 256, parallel.Threads(), func(start, end int) {
		for i := start; i < end; i++ {
			row := logits.RawRowView(i)
			floats.Add(row, bias)
			if floats.MaxIdx(row) == int(y[i]) {
				correct.Add(1)
			}
			losses[i] = floats.LogSumExp(row) - row[y[i]]
		}
	})
	return Stats{
		Loss:     stat.Mean(losses, nil),
		Accuracy: float64(correct.Load()) / float64(n),
	}
}

func softmax(row []float64) {
	lse := floats.LogSumExp(row)
	for j, v := range row {
		row[j] = math.Exp(v - lse)
	}
}
