package learning

import "math"
import "sort"
import "testing"

import "github.com/pkg/errors"
import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/floats"
import "gonum.org/v1/gonum/mat"

func randomDense(rng *rand.Rand, r, c int, normal bool) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		if normal {
			data[i] = rng.NormFloat64()
		} else {
			data[i] = rng.Float64()
		}
	}
	return mat.NewDense(r, c, data)
}

// updateArgsort is the full sort variant of Krotov.Update. It ranks every
// hidden unit of every sample and serves as an oracle for the top-k selection.
// Equal scores rank by hidden index, lowest first.
func updateArgsort(h HyperParameters, inputs, weights *mat.Dense) *mat.Dense {
	batch, size := inputs.Dims()
	hidden, _ := weights.Dims()

	sig := mat.NewDense(hidden, size, nil)
	sig.Apply(func(i, j int, _ float64) float64 {
		w := weights.At(i, j)
		s := 0.0
		if w > 0 {
			s = 1
		} else if w < 0 {
			s = -1
		}
		return s * math.Pow(math.Abs(w), h.Norm-1)
	}, sig)
	var tot mat.Dense
	tot.Mul(sig, inputs.T())

	yl := mat.NewDense(hidden, batch, nil)
	for b := 0; b < batch; b++ {
		y := make([]int, hidden)
		for i := range y {
			y[i] = i
		}
		sort.SliceStable(y, func(i, j int) bool {
			return tot.At(y[i], b) > tot.At(y[j], b)
		})
		yl.Set(y[0], b, 1.0)
		yl.Set(y[h.K-1], b, -h.Delta)
	}

	xx := make([]float64, hidden)
	for i := range xx {
		for b := 0; b < batch; b++ {
			xx[i] += yl.At(i, b) * tot.At(i, b)
		}
	}

	var ds mat.Dense
	ds.Mul(yl, inputs)
	ds.Apply(func(i, j int, v float64) float64 {
		return v - xx[i]*weights.At(i, j)
	}, &ds)

	nc := 0.0
	for _, v := range ds.RawMatrix().Data {
		nc = math.Max(nc, math.Abs(v))
	}
	if nc < h.Precision {
		nc = h.Precision
	}
	ds.Scale(1/nc, &ds)
	return &ds
}

func TestUpdateShape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	rule := MustNewKrotov(HyperParameters{Precision: 1e-30, Delta: 0.4, Norm: 3, K: 3})
	for _, shape := range [][3]int{{1, 3, 1}, {7, 5, 13}, {32, 10, 64}} {
		b, h, d := shape[0], shape[1], shape[2]
		w := randomDense(rng, h, d, true)
		x := randomDense(rng, b, d, false)
		dw, err := rule.Update(x, w)
		if err != nil {
			t.Fatal(err)
		}
		if r, c := dw.Dims(); r != h || c != d {
			t.Errorf("delta shape %dx%d, want %dx%d", r, c, h, d)
		}
	}
}

func TestUpdateNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	rule := MustNewKrotov(Defaults())
	for seed := 0; seed < 20; seed++ {
		w := randomDense(rng, 8, 6, true)
		x := randomDense(rng, 5, 6, false)
		dw, err := rule.Update(x, w)
		if err != nil {
			t.Fatal(err)
		}
		if m := maxAbs(dw.RawMatrix().Data); math.Abs(m-1) > 1e-12 {
			t.Errorf("seed %d: max abs delta %v, want 1", seed, m)
		}
	}
}

func TestUpdateDegenerate(t *testing.T) {
	rule := MustNewKrotov(HyperParameters{Precision: 1e-3, Delta: 0.4, Norm: 2, K: 2})
	w := mat.NewDense(3, 2, []float64{1, -1, 0.5, 0.5, -2, 1})
	x := mat.NewDense(2, 2, nil)
	dw, err := rule.Update(x, w)
	if err != nil {
		t.Fatalf("zero input must not fail: %v", err)
	}
	for _, v := range dw.RawMatrix().Data {
		if v != 0 || math.IsNaN(v) {
			t.Fatalf("zero input gave delta %v", mat.Formatted(dw))
		}
	}

	// a tiny raw update is divided by precision, not by itself
	x = mat.NewDense(1, 2, []float64{1e-7, 0})
	w = mat.NewDense(2, 2, []float64{1e-6, 0, -1e-6, 0})
	dw, err = rule.Update(x, w)
	if err != nil {
		t.Fatal(err)
	}
	if m := maxAbs(dw.RawMatrix().Data); m >= 1e-3 {
		t.Errorf("tiny update was normalized to %v", m)
	}
}

func TestActivationsK2(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	rule := MustNewKrotov(HyperParameters{Precision: 1e-30, Delta: 0.4, Norm: 3, K: 2})
	for seed := 0; seed < 10; seed++ {
		tot := randomDense(rng, 9, 16, true)
		act := rule.activations(tot)
		for b := 0; b < 16; b++ {
			var pos, neg, zero int
			for h := 0; h < 9; h++ {
				switch act.At(h, b) {
				case 1:
					pos++
				case -0.4:
					neg++
				case 0:
					zero++
				}
			}
			if pos != 1 || neg != 1 || zero != 7 {
				t.Errorf("sample %d: %d winners, %d anti-hebbian, %d silent", b, pos, neg, zero)
			}
		}
	}
}

func TestUpdateK1(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	rule := MustNewKrotov(HyperParameters{Precision: 1e-30, Delta: 0.4, Norm: 2, K: 1})
	w := randomDense(rng, 4, 3, true)
	x := randomDense(rng, 6, 3, false)
	dw, err := rule.Update(x, w)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(dw, updateArgsort(rule.HyperParameters(), x, w), 1e-12) {
		t.Errorf("k=1 disagrees with argsort")
	}
}

func TestUpdateArgsortEquivalence(t *testing.T) {
	for seed := uint64(0); seed < 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		hidden := 2 + rng.Intn(30)
		h := HyperParameters{
			Precision: 1e-30,
			Delta:     rng.Float64(),
			Norm:      float64(1 + rng.Intn(5)),
			K:         1 + rng.Intn(hidden),
		}
		size := 1 + rng.Intn(20)
		w := randomDense(rng, hidden, size, true)
		x := randomDense(rng, 1+rng.Intn(40), size, false)

		dw, err := MustNewKrotov(h).Update(x, w)
		if err != nil {
			t.Fatal(err)
		}
		if want := updateArgsort(h, x, w); !mat.EqualApprox(dw, want, 1e-12) {
			t.Errorf("seed %d %+v: top-k and argsort disagree", seed, h)
		}
	}
}

func TestUpdateKTooLarge(t *testing.T) {
	rule := MustNewKrotov(HyperParameters{Precision: 1e-30, Delta: 0.4, Norm: 2, K: 5})
	w := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	backup := mat.DenseCopyOf(w)
	x := mat.NewDense(1, 2, []float64{1, 1})
	_, err := rule.Update(x, w)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !mat.Equal(w, backup) {
		t.Errorf("weights modified")
	}
	if err := rule.Check(4); errors.Cause(err) != ErrConfiguration {
		t.Errorf("check accepted k > hidden: %v", err)
	}
}

func TestNewKrotovInvalid(t *testing.T) {
	for _, h := range []HyperParameters{
		{Precision: 0, Delta: 0.4, Norm: 2, K: 2},
		{Precision: 1e-30, Delta: math.NaN(), Norm: 2, K: 2},
		{Precision: 1e-30, Delta: 0.4, Norm: 0.5, K: 2},
		{Precision: 1e-30, Delta: 0.4, Norm: 2, K: 0},
	} {
		if _, err := NewKrotov(h); !errors.Is(err, ErrConfiguration) {
			t.Errorf("%+v: expected configuration error, got %v", h, err)
		}
	}
}

func TestUpdateShapeMismatch(t *testing.T) {
	rule := MustNewKrotov(Defaults())
	w := mat.NewDense(3, 4, nil)
	if _, err := rule.Update(mat.NewDense(2, 5, nil), w); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected shape mismatch, got %v", err)
	}
	if _, err := rule.Update(&mat.Dense{}, w); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected empty batch, got %v", err)
	}
}

func TestUpdateReference(t *testing.T) {
	w := mat.NewDense(10, 4, []float64{
		-0.2558800000, 0.5114320000, -0.2260960000, -0.3150680000,
		-0.9300180000, -0.2133020000, 1.1119170000, 0.4241470000,
		1.0368790000, 0.2489030000, 0.3947700000, 0.1853270000,
		-1.6660630000, 0.8552510000, 0.5063850000, 0.4988180000,
		-1.6913650000, -1.7438880000, -0.8896150000, -0.4681890000,
		0.3054460000, -0.0459120000, 0.5209750000, -0.6422350000,
		0.3087030000, 0.3941540000, -0.6611370000, 1.7175300000,
		0.5566090000, 1.1970050000, -0.6203330000, -0.7395160000,
		-0.3440470000, -0.1064210000, 0.6320790000, 0.2484270000,
		-0.4473550000, -0.9569120000, -0.5205900000, 1.2209210000,
	})
	x := mat.NewDense(5, 4, []float64{
		0.4531840000, 0.2997670000, 0.7943790000, 0.6989940000,
		0.2440970000, 0.5744240000, 0.5251970000, 0.8751370000,
		0.7294450000, 0.2879380000, 0.9801750000, 0.1180660000,
		0.4181230000, 0.7571410000, 0.1519850000, 0.4889630000,
		0.0392070000, 0.6682160000, 0.7645710000, 0.5730260000,
	})
	want := []float64{
		0.0000000000, 0.0000000000, 0.0000000000, 0.0000000000,
		-0.1356391543, -0.0707562134, -0.0003685165, -0.0172690833,
		-0.0269007595, 0.0050050146, 0.0611184214, -0.0060588248,
		0.0000000000, 0.0000000000, 0.0000000000, 0.0000000000,
		0.0000000000, 0.0000000000, 0.0000000000, 0.0000000000,
		0.0000000000, 0.0000000000, 0.0000000000, 0.0000000000,
		-0.1105756692, -0.0573404716, 0.7151810712, -1.0000000000,
		0.0031053899, 0.0124502398, -0.0285723398, -0.0465683696,
		0.0000000000, 0.0000000000, 0.0000000000, 0.0000000000,
		-0.0205957572, -0.0461800184, -0.0337661000, -0.0064216681,
	}
	rule := MustNewKrotov(HyperParameters{Precision: 1e-30, Delta: 0.4, Norm: 3, K: 2})
	dw, err := rule.Update(x, w)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualApprox(dw.RawMatrix().Data, want, 1e-6) {
		t.Errorf("delta mismatch:\n%v", mat.Formatted(dw))
	}
}

func TestTopK(t *testing.T) {
	got := topK(nil, []float64{3, 9, 1, 9, 7}, 3)
	if len(got) != 3 || got[0] != 1 || got[1] != 3 || got[2] != 4 {
		t.Errorf("topK = %v", got)
	}
}

func TestActivationsTies(t *testing.T) {
	// with norm 1 the synapses are sign(w), so units of equal sign score the same
	rule := MustNewKrotov(HyperParameters{Precision: 1e-30, Delta: 0.4, Norm: 1, K: 2})
	w := mat.NewDense(3, 2, []float64{1, 1, 2, 2, 0.5, 0.5})
	x := mat.NewDense(2, 2, []float64{0.3, 0.7, 1, 0})
	var tot mat.Dense
	tot.Mul(rule.synapses(w), x.T())
	act := rule.activations(&tot)
	for b := 0; b < 2; b++ {
		if act.At(0, b) != 1 || act.At(1, b) != -0.4 || act.At(2, b) != 0 {
			t.Errorf("sample %d: ties must rank the lower unit first, got %v", b, mat.Formatted(act.ColView(b)))
		}
	}
	dw, err := rule.Update(x, w)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(dw, updateArgsort(rule.HyperParameters(), x, w), 1e-12) {
		t.Errorf("tied scores: top-k and argsort disagree")
	}
}
