package learning

import "github.com/pkg/errors"

// ErrConfiguration is returned for hyperparameters which cannot work, such as k
// larger than the number of hidden units. It is raised before training starts.
var ErrConfiguration = errors.New("configuration error")

// ErrShapeMismatch is returned when the input features disagree with the weights.
var ErrShapeMismatch = errors.New("shape mismatch")

// ErrEmptyBatch is returned for a batch without samples.
var ErrEmptyBatch = errors.New("empty batch")
