// Package checkpoint persists networks during hebbian training
package checkpoint

import "fmt"
import "os"
import "path/filepath"

import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/neurlang/hebbian/trainer"
import "github.com/pkg/errors"

// File writes every checkpoint as a lzw compressed json file named
// <prefix>_<epoch>.json.lzw, or <prefix>_<epoch>_acc=<accuracy>.json.lzw
// when the network was evaluated in that epoch.
type File struct {
	Dir    string
	Prefix string

	// Last is the name of the latest written checkpoint
	Last string
}

// NewFile creates dir when missing.
func NewFile(dir, prefix string) (*File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "checkpoint directory '%s'", dir)
	}
	if prefix == "" {
		prefix = "checkpoint"
	}
	return &File{Dir: dir, Prefix: prefix}, nil
}

// Name returns the file name of the checkpoint of epoch
func (f *File) Name(epoch int, stats *trainer.Stats) string {
	name := fmt.Sprintf("%s_%d", f.Prefix, epoch)
	if stats != nil {
		name += fmt.Sprintf("_acc=%.4f", stats.Accuracy)
	}
	return filepath.Join(f.Dir, name+".json.lzw")
}

func (f *File) Checkpoint(net *feedforward.FeedforwardNetwork, epoch int, stats *trainer.Stats) error {
	name := f.Name(epoch, stats)
	if err := net.WriteCompressedWeightsToFile(name); err != nil {
		return errors.Wrapf(err, "write checkpoint '%s'", name)
	}
	f.Last = name
	return nil
}

// Multi passes every checkpoint to all of its sinks. All sinks are tried,
// the first failure is returned.
type Multi []trainer.Checkpointer

func (m Multi) Checkpoint(net *feedforward.FeedforwardNetwork, epoch int, stats *trainer.Stats) (err error) {
	for _, c := range m {
		if cerr := c.Checkpoint(net, epoch, stats); err == nil {
			err = cerr
		}
	}
	return
}
