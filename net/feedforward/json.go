package feedforward

import "compress/lzw"
import "encoding/json"
import "fmt"
import "io"
import "os"

import "github.com/neurlang/hebbian/layer"
import "gonum.org/v1/gonum/mat"

type layerJson struct {
	Kind    string    `json:"kind"`
	Rows    int       `json:"rows,omitempty"`
	Cols    int       `json:"cols,omitempty"`
	Weights []float64 `json:"weights,omitempty"`
	Bias    []float64 `json:"bias,omitempty"`
}

type biased interface {
	Bias() []float64
}

// WriteCompressedWeightsToFile writes model weights to a lzw file
func (f FeedforwardNetwork) WriteCompressedWeightsToFile(name string) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = f.WriteCompressedWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteCompressedWeights writes model weights to a writer
func (f FeedforwardNetwork) WriteCompressedWeights(w io.Writer) error {
	lw := lzw.NewWriter(w, lzw.LSB, 8)

	var out = make([]layerJson, len(f.layers))
	for i, l := range f.layers {
		out[i].Kind = l.Kind().String()
		if wt := l.Weights(); wt != nil {
			out[i].Rows, out[i].Cols = wt.Dims()
			out[i].Weights = mat.DenseCopyOf(wt).RawMatrix().Data
		}
		if b, ok := l.(biased); ok {
			out[i].Bias = b.Bias()
		}
	}
	err := json.NewEncoder(lw).Encode(out)
	if err != nil {
		lw.Close()
		return err
	}
	return lw.Close()
}

// ReadCompressedWeightsFromFile reads model weights from a lzw file
func (f FeedforwardNetwork) ReadCompressedWeightsFromFile(name string) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	err = f.ReadCompressedWeights(file)
	file.Close()
	return err
}

// ReadCompressedWeights reads model weights from a reader into the layers of
// the network. The network must already have the architecture of the stored one.
func (f FeedforwardNetwork) ReadCompressedWeights(r io.Reader) error {
	lr := lzw.NewReader(r, lzw.LSB, 8)
	defer lr.Close()

	var in []layerJson
	if err := json.NewDecoder(lr).Decode(&in); err != nil {
		return err
	}
	if len(in) != len(f.layers) {
		return fmt.Errorf("stored network has %d layers, want %d", len(in), len(f.layers))
	}
	for i, l := range f.layers {
		kind, ok := layer.ParseKind(in[i].Kind)
		if !ok || kind != l.Kind() {
			return fmt.Errorf("layer %d: stored kind '%s', want '%s'", i, in[i].Kind, l.Kind())
		}
		wt := l.Weights()
		if wt == nil {
			continue
		}
		rows, cols := wt.Dims()
		if rows != in[i].Rows || cols != in[i].Cols || len(in[i].Weights) != rows*cols {
			return fmt.Errorf("layer %d: stored weights %dx%d, want %dx%d", i, in[i].Rows, in[i].Cols, rows, cols)
		}
		wt.Copy(mat.NewDense(rows, cols, in[i].Weights))
		if b, ok := l.(biased); ok && b.Bias() != nil {
			if len(in[i].Bias) != len(b.Bias()) {
				return fmt.Errorf("layer %d: stored bias has %d entries, want %d", i, len(in[i].Bias), len(b.Bias()))
			}
			copy(b.Bias(), in[i].Bias)
		}
	}
	return nil
}
