package datasets

import "context"
import "sort"
import "testing"

import "golang.org/x/exp/rand"

func numbered(n int) *Slice {
	s := &Slice{Dims: Shape{H: 1, W: 2, C: 1}}
	for i := 0; i < n; i++ {
		s.Inputs = append(s.Inputs, []float64{float64(i), -float64(i)})
		s.Labels = append(s.Labels, byte(i%10))
	}
	return s
}

func TestSplit(t *testing.T) {
	d := numbered(100)
	train, val, err := Split(d, 0.2, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 80 || val.Len() != 20 {
		t.Fatalf("split %d/%d", train.Len(), val.Len())
	}
	var seen []int
	seen = append(seen, train.Indices...)
	seen = append(seen, val.Indices...)
	sort.Ints(seen)
	for i, v := range seen {
		if i != v {
			t.Fatalf("split lost or duplicated sample %d", i)
		}
	}
	if _, _, err := Split(d, 1, rand.New(rand.NewSource(1))); err == nil {
		t.Errorf("split 1.0 must fail")
	}
}

func TestLoaderEpoch(t *testing.T) {
	d := numbered(10)
	l, err := NewLoader(d, 4, true, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 3 {
		t.Fatalf("%d batches, want 3", l.Len())
	}
	for epoch := 0; epoch < 2; epoch++ {
		var sizes []int
		var seen = make(map[float64]bool)
		for b := range l.Epoch(context.Background()) {
			sizes = append(sizes, b.Size())
			r, c := b.Inputs.Dims()
			if r != b.Size() || c != 2 {
				t.Fatalf("batch inputs %dx%d", r, c)
			}
			for i := 0; i < r; i++ {
				v := b.Inputs.At(i, 0)
				if b.Labels[i] != byte(int(v)%10) || b.Inputs.At(i, 1) != -v {
					t.Errorf("sample and label mixed up")
				}
				seen[v] = true
			}
		}
		if len(sizes) != 3 || sizes[0] != 4 || sizes[1] != 4 || sizes[2] != 2 {
			t.Errorf("batch sizes %v", sizes)
		}
		if len(seen) != 10 {
			t.Errorf("epoch saw %d distinct samples", len(seen))
		}
	}
}

func TestLoaderCancel(t *testing.T) {
	l, _ := NewLoader(numbered(100), 1, false, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	ch := l.Epoch(ctx)
	first := <-ch
	if first.Inputs.At(0, 0) != 0 {
		t.Errorf("unshuffled loader starts at %v", first.Inputs.At(0, 0))
	}
	cancel()
	for range ch {
	}
}

func TestFirstAndCounts(t *testing.T) {
	l, _ := NewLoader(numbered(25), 12, true, 1, 0)
	b := l.First()
	if b.Size() != 12 || b.Inputs.At(11, 0) != 11 {
		t.Errorf("first batch is not in dataset order")
	}
	counts := b.LabelCounts()
	if counts[0] != 2 || counts[1] != 2 || counts[9] != 1 {
		t.Errorf("label counts %v", counts)
	}
	if _, err := NewLoader(numbered(1), 0, false, 0, 0); err == nil {
		t.Errorf("zero batch size accepted")
	}
}

func TestLoaderRaggedSample(t *testing.T) {
	d := numbered(10)
	d.Inputs[5] = []float64{5}
	l, _ := NewLoader(d, 4, false, 2, 0)
	var batches []Batch
	for b := range l.Epoch(context.Background()) {
		batches = append(batches, b)
	}
	if len(batches) != 2 {
		t.Fatalf("%d batches, the epoch must stop at the malformed one", len(batches))
	}
	if batches[0].Err != nil || batches[0].Size() != 4 {
		t.Errorf("first batch %v", batches[0].Err)
	}
	if batches[1].Err == nil || batches[1].Inputs != nil {
		t.Errorf("malformed batch was assembled")
	}
}
