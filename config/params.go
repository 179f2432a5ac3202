// Package config holds the flat parameter set of a hebbian training run
package config

import "bytes"
import "encoding/json"
import "math"
import "os"

import "github.com/neurlang/hebbian/learning"
import "github.com/pkg/errors"

// Params are the parameters of one training run
type Params struct {
	InputSize      int     `json:"input_size"`
	HiddenUnits    int     `json:"hidden_units"`
	OutputSize     int     `json:"output_size"`
	TrainBatchSize int     `json:"train_batch_size"`
	ValBatchSize   int     `json:"val_batch_size"`
	ValSplit       float64 `json:"val_split"`
	Epochs         int     `json:"epochs"`
	Delta          float64 `json:"delta"`
	K              int     `json:"k"`
	Norm           float64 `json:"norm"`
	LR             float64 `json:"lr"`

	EvalEvery       int     `json:"eval_every"`
	CheckpointEvery int     `json:"checkpoint_every"`
	Seed            uint64  `json:"seed"`
	Precision       float64 `json:"precision"`
}

// MNIST returns the parameters for 28x28 grayscale digits
func MNIST() Params {
	return Params{
		InputSize:       28 * 28,
		HiddenUnits:     400,
		OutputSize:      10,
		TrainBatchSize:  1000,
		ValBatchSize:    64,
		ValSplit:        0.2,
		Epochs:          100,
		Delta:           0.4,
		K:               7,
		Norm:            3,
		LR:              0.04,
		EvalEvery:       10,
		CheckpointEvery: 10,
		Seed:            1,
		Precision:       1e-30,
	}
}

// CIFAR returns the parameters for 32x32 color images
func CIFAR() Params {
	return Params{
		InputSize:       32 * 32 * 3,
		HiddenUnits:     100,
		OutputSize:      10,
		TrainBatchSize:  1000,
		ValBatchSize:    64,
		ValSplit:        0.2,
		Epochs:          1000,
		Delta:           0.2,
		K:               2,
		Norm:            5,
		LR:              0.02,
		EvalEvery:       50,
		CheckpointEvery: 50,
		Seed:            1,
		Precision:       1e-30,
	}
}

// FromMap overrides the parameters of base with the entries of m. Unknown
// keys are an error.
func FromMap(base Params, m map[string]interface{}) (Params, error) {
	buf, err := json.Marshal(m)
	if err != nil {
		return base, errors.Wrap(learning.ErrConfiguration, err.Error())
	}
	return decode(base, buf)
}

// Load overrides the parameters of base with the json object in file.
func Load(base Params, file string) (Params, error) {
	buf, err := os.ReadFile(file)
	if err != nil {
		return base, err
	}
	p, err := decode(base, buf)
	return p, errors.Wrapf(err, "parameters '%s'", file)
}

func decode(base Params, buf []byte) (Params, error) {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	p := base
	if err := dec.Decode(&p); err != nil {
		return base, errors.Wrap(learning.ErrConfiguration, err.Error())
	}
	return p, nil
}

// Map returns the parameters as a flat map, for logging and visualization.
// It fails for parameters json cannot encode, such as an infinite lr.
func (p Params) Map() (map[string]interface{}, error) {
	buf, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(learning.ErrConfiguration, err.Error())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(buf, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Rule returns the hyperparameters of the learning rule
func (p Params) Rule() learning.HyperParameters {
	return learning.HyperParameters{
		Precision: p.Precision,
		Delta:     p.Delta,
		Norm:      p.Norm,
		K:         p.K,
	}
}

// Validate rejects parameters a run cannot start with
func (p Params) Validate() error {
	for _, v := range []struct {
		name  string
		value int
	}{
		{"input_size", p.InputSize},
		{"hidden_units", p.HiddenUnits},
		{"output_size", p.OutputSize},
		{"train_batch_size", p.TrainBatchSize},
		{"val_batch_size", p.ValBatchSize},
		{"epochs", p.Epochs},
	} {
		if v.value <= 0 {
			return errors.Wrapf(learning.ErrConfiguration, "%s must be positive, got %d", v.name, v.value)
		}
	}
	if !(p.ValSplit > 0 && p.ValSplit < 1) {
		return errors.Wrapf(learning.ErrConfiguration, "val_split must be in (0, 1), got %g", p.ValSplit)
	}
	if !(p.LR >= 0) || math.IsInf(p.LR, 1) {
		return errors.Wrapf(learning.ErrConfiguration, "lr must be finite and not negative, got %g", p.LR)
	}
	if p.EvalEvery < 0 || p.CheckpointEvery < 0 {
		return errors.Wrapf(learning.ErrConfiguration, "negative cadence (eval_every %d, checkpoint_every %d)", p.EvalEvery, p.CheckpointEvery)
	}
	return p.Rule().Check(p.HiddenUnits)
}
