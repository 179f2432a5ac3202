package visualize

import "encoding/json"
import "fmt"
import "log"
import "os"
import "path/filepath"

import "github.com/neurlang/hebbian/datasets"
import "gonum.org/v1/gonum/mat"

// Files writes weight grids and sample grids as png images and scalars as
// tab separated lines into a directory.
type Files struct {
	dir     string
	every   int
	scalars *os.File
	out     *log.Logger
	l       *log.Logger
}

// NewFiles creates dir and writes into it. Weights are rendered every
// every steps (every step if every <= 1). Failures are reported to l, which may be nil.
func NewFiles(dir string, every int, l *log.Logger) (*Files, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "scalars.tsv"), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	if every < 1 {
		every = 1
	}
	return &Files{
		dir:     dir,
		every:   every,
		scalars: f,
		out:     log.New(f, "", 0),
		l:       l,
	}, nil
}

// Close closes the scalar log
func (v *Files) Close() error {
	return v.scalars.Close()
}

func (v *Files) report(err error) {
	if err != nil && v.l != nil {
		v.l.Println("visualizer:", err)
	}
}

func (v *Files) Weights(w mat.Matrix, shape datasets.Shape, step int) {
	if step%v.every != 0 {
		return
	}
	img, err := weightGrid(w, shape)
	if err != nil {
		v.report(err)
		return
	}
	v.report(writePng(filepath.Join(v.dir, fmt.Sprintf("weights_%08d.png", step)), img))
}

func (v *Files) Scalar(tag string, value float64, step int) {
	v.out.Printf("%d\t%s\t%g", step, tag, value)
}

func (v *Files) Samples(b datasets.Batch, shape datasets.Shape) {
	if b.Size() == 0 {
		return
	}
	img, err := sampleGrid(b.Inputs, shape)
	if err != nil {
		v.report(err)
		return
	}
	v.report(writePng(filepath.Join(v.dir, "samples.png"), img))
}

func (v *Files) Hparams(params map[string]interface{}) {
	buf, err := json.MarshalIndent(params, "", "\t")
	if err != nil {
		v.report(err)
		return
	}
	v.report(os.WriteFile(filepath.Join(v.dir, "hparams.json"), buf, 0666))
}
