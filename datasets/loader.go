package datasets

import "context"
import "fmt"

import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/mat"

// Batch is a batch of flattened samples, one per row, with their labels.
// Err is set instead when the batch could not be assembled.
type Batch struct {
	Inputs *mat.Dense
	Labels []byte
	Err    error
}

// Size is the number of samples in the batch
func (b Batch) Size() int {
	return len(b.Labels)
}

// LabelCounts counts the samples of every label
func (b Batch) LabelCounts() map[byte]int {
	var counts = make(map[byte]int)
	for _, l := range b.Labels {
		counts[l]++
	}
	return counts
}

// Loader cuts a dataset into batches, optionally shuffled every epoch
type Loader struct {
	d         Dataset
	batchSize int
	shuffle   bool
	prefetch  int
	rng       *rand.Rand
}

// NewLoader creates a loader. Prefetch is the number of batches
// assembled ahead of the consumer.
func NewLoader(d Dataset, batchSize int, shuffle bool, prefetch int, seed uint64) (*Loader, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	if prefetch < 0 {
		prefetch = 0
	}
	return &Loader{
		d:         d,
		batchSize: batchSize,
		shuffle:   shuffle,
		prefetch:  prefetch,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// Dataset returns the dataset of the loader
func (l *Loader) Dataset() Dataset {
	return l.d
}

// Shape returns the sample shape
func (l *Loader) Shape() Shape {
	return l.d.Shape()
}

// Len returns the number of batches per epoch. The last batch may be smaller.
func (l *Loader) Len() int {
	return (l.d.Len() + l.batchSize - 1) / l.batchSize
}

// BatchSize returns the configured batch size
func (l *Loader) BatchSize() int {
	return l.batchSize
}

// First returns the first batch in dataset order
func (l *Loader) First() Batch {
	n := l.batchSize
	if n > l.d.Len() {
		n = l.d.Len()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return l.batch(idx)
}

// Epoch produces the batches of one epoch. A producer goroutine assembles
// batches ahead of the consumer; it stops when ctx is done or after the first
// batch carrying an error.
func (l *Loader) Epoch(ctx context.Context) <-chan Batch {
	var order = make([]int, l.d.Len())
	for i := range order {
		order[i] = i
	}
	if l.shuffle {
		l.rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}
	out := make(chan Batch, l.prefetch)
	go func() {
		defer close(out)
		for start := 0; start < len(order); start += l.batchSize {
			end := start + l.batchSize
			if end > len(order) {
				end = len(order)
			}
			b := l.batch(order[start:end])
			select {
			case out <- b:
			case <-ctx.Done():
				return
			}
			if b.Err != nil {
				return
			}
		}
	}()
	return out
}

func (l *Loader) batch(idx []int) Batch {
	if len(idx) == 0 {
		return Batch{}
	}
	size := l.d.Shape().Size()
	b := Batch{
		Inputs: mat.NewDense(len(idx), size, nil),
		Labels: make([]byte, len(idx)),
	}
	for i, n := range idx {
		in, label := l.d.Sample(n)
		if len(in) != size {
			return Batch{Err: fmt.Errorf("sample %d has %d features, shape %v has %d", n, len(in), l.d.Shape(), size)}
		}
		b.Inputs.SetRow(i, in)
		b.Labels[i] = label
	}
	return b
}
