package trainer

import "context"
import "fmt"
import "io"
import "log"
import "sort"
import "strings"

import "github.com/neurlang/hebbian/datasets"
import "github.com/neurlang/hebbian/learning"
import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/neurlang/hebbian/optim"
import "github.com/neurlang/hebbian/visualize"
import "github.com/pkg/errors"
import "golang.org/x/exp/rand"
import "gonum.org/v1/gonum/mat"

// Rule computes weight updates from a batch (samples x features) and the
// current weights (hidden x features), without modifying either.
type Rule interface {
	Update(inputs, weights mat.Matrix) (*mat.Dense, error)

	// Check reports whether the rule can train a layer of hidden units
	Check(hidden int) error
}

// Checkpointer persists the network. Stats is nil when the network was not
// evaluated in the epoch of the checkpoint.
type Checkpointer interface {
	Checkpoint(net *feedforward.FeedforwardNetwork, epoch int, stats *Stats) error
}

// Config configures the engine. Only Rule is required.
type Config struct {
	Rule Rule

	LR        float64         // base learning rate
	Scheduler optim.Scheduler // nil means linear decay to zero over the trained epochs

	Evaluator    Evaluator            // optional
	Visualizer   visualize.Visualizer // optional
	Checkpointer Checkpointer         // optional

	Logger   *log.Logger // optional, nil discards
	Progress io.Writer   // optional, receives the epoch progress bar
	Debug    bool        // log label counts of every batch

	Seed uint64 // seeds the weight initialization

	Hparams map[string]interface{} // optional, handed to the visualizer at start
}

// Engine is the hebbian learning engine. It trains the first trainable layer
// of a network with the rule, one batch at a time.
type Engine struct {
	rule         Rule
	lr           float64
	scheduler    optim.Scheduler
	evaluator    Evaluator
	visualizer   visualize.Visualizer
	checkpointer Checkpointer
	l            *log.Logger
	progress     io.Writer
	debug        bool
	src          rand.Source
	hparams      map[string]interface{}

	stats *Stats
}

// New validates the configuration and creates the engine.
func New(c Config) (*Engine, error) {
	if c.Rule == nil {
		return nil, errors.Wrap(learning.ErrConfiguration, "engine needs a learning rule")
	}
	if !(c.LR >= 0) {
		return nil, errors.Wrapf(learning.ErrConfiguration, "learning rate must not be negative, got %g", c.LR)
	}
	e := &Engine{
		rule:         c.Rule,
		lr:           c.LR,
		scheduler:    c.Scheduler,
		evaluator:    c.Evaluator,
		visualizer:   c.Visualizer,
		checkpointer: c.Checkpointer,
		l:            c.Logger,
		progress:     c.Progress,
		debug:        c.Debug,
		src:          rand.NewSource(c.Seed),
		hparams:      c.Hparams,
	}
	if e.visualizer == nil {
		e.visualizer = visualize.Nop{}
	}
	if e.l == nil {
		e.l = log.New(io.Discard, "", 0)
	}
	return e, nil
}

// LastStats returns the statistics of the latest successful evaluation, or nil.
func (e *Engine) LastStats() *Stats {
	return e.stats
}

// Train trains net on the batches of loader for epochs epochs. The network is
// evaluated every evalEvery epochs and checkpointed every checkpointEvery
// epochs; zero disables either. An empty dataset, malformed samples and
// failures of the learning rule abort training, failures of evaluation and
// checkpointing are only logged.
func (e *Engine) Train(net *feedforward.FeedforwardNetwork, loader *datasets.Loader, epochs, evalEvery, checkpointEvery int) error {
	if epochs <= 0 {
		return errors.Wrapf(learning.ErrConfiguration, "epochs must be positive, got %d", epochs)
	}
	if evalEvery < 0 || checkpointEvery < 0 {
		return errors.Wrapf(learning.ErrConfiguration, "negative cadence (eval %d, checkpoint %d)", evalEvery, checkpointEvery)
	}

	// Inspect the data
	shape := loader.Shape()
	e.l.Printf("Received %d samples with shape %v.", loader.Dataset().Len(), shape)

	// only the first trainable layer learns, the rest belongs to the evaluator
	current, n := net.Trainable()
	if current == nil {
		return errors.Wrap(learning.ErrConfiguration, "network has no trainable layer")
	}
	weights := current.Weights()
	hidden, size := weights.Dims()
	if size != shape.Size() {
		return errors.Wrapf(learning.ErrShapeMismatch, "layer %d takes %d inputs, samples have %d features", n, size, shape.Size())
	}
	if loader.Dataset().Len() == 0 {
		return errors.Wrap(learning.ErrEmptyBatch, "dataset has no samples")
	}
	if err := e.rule.Check(hidden); err != nil {
		return err
	}
	current.Initialize(e.src)
	e.l.Printf("Updating layer %d (%v) with shape (%d, %d).", n, current.Kind(), hidden, size)

	scheduler := e.scheduler
	if scheduler == nil {
		scheduler = optim.LinearDecay{Base: e.lr, Epochs: epochs}
	}
	optimizer := optim.NewLocal(weights, e.lr)
	schedule := optim.NewSchedule(optimizer, scheduler)

	// Initial visualization
	if e.hparams != nil {
		e.visualizer.Hparams(e.hparams)
	}
	e.visualizer.Samples(loader.First(), shape)
	e.visualizer.Weights(weights, shape, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for epoch := 0; epoch < epochs; epoch++ {
		visEpoch := epoch + 1
		epochStep := epoch * loader.Len()
		e.l.Printf("Learning rate = %g.", schedule.LastLR())
		e.visualizer.Scalar("learning_rate", schedule.LastLR(), epochStep)

		var done int
		for batch := range loader.Epoch(ctx) {
			if err := e.step(optimizer, batch); err != nil {
				return errors.Wrapf(err, "epoch %d/%d batch %d", visEpoch, epochs, done)
			}
			done++
			// step n shows the weights after n batches, step 0 the initial ones
			e.visualizer.Weights(weights, shape, epochStep+done)
			printProgress(e.progress, visEpoch, epochs, done, loader.Len())
		}

		schedule.Step()

		var stats *Stats
		if e.evaluator != nil && evalEvery > 0 && visEpoch%evalEvery == 0 {
			stats = e.eval(visEpoch)
		}

		if e.checkpointer != nil && checkpointEvery > 0 && visEpoch%checkpointEvery == 0 {
			if err := e.checkpointer.Checkpoint(net, visEpoch, stats); err != nil {
				e.l.Printf("Checkpoint of epoch %d failed: %v", visEpoch, err)
			}
		}
	}
	return nil
}

// step computes the update of one batch in full, then applies it.
func (e *Engine) step(optimizer *optim.Local, batch datasets.Batch) error {
	if batch.Err != nil {
		return errors.Wrap(learning.ErrShapeMismatch, batch.Err.Error())
	}
	if batch.Size() == 0 || batch.Inputs == nil {
		return errors.Wrap(learning.ErrEmptyBatch, "engine step")
	}
	if e.debug {
		e.l.Printf("Label counts: %s.", formatCounts(batch.LabelCounts()))
	}
	delta, err := e.rule.Update(batch.Inputs, optimizer.Weights())
	if err != nil {
		return err
	}
	return optimizer.Step(delta)
}

func (e *Engine) eval(epoch int) *Stats {
	stats, err := e.evaluator.Evaluate()
	if err != nil {
		e.l.Printf("Evaluation of epoch %d failed: %v", epoch, err)
		return nil
	}
	e.l.Printf("Epoch %d evaluation: loss %.4f, accuracy %.4f.", epoch, stats.Loss, stats.Accuracy)
	e.visualizer.Scalar("eval/loss", stats.Loss, epoch)
	e.visualizer.Scalar("eval/accuracy", stats.Accuracy, epoch)
	e.stats = &stats
	return &stats
}

func formatCounts(counts map[byte]int) string {
	var labels = make([]int, 0, len(counts))
	for l := range counts {
		labels = append(labels, int(l))
	}
	sort.Ints(labels)
	var parts = make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%d: %d", l, counts[byte(l)])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
