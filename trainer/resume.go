package trainer

import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/pkg/errors"

// Resume loads the weights stored in dstmodel into net, when resume is set.
func Resume(net *feedforward.FeedforwardNetwork, resume *bool, dstmodel *string) error {
	if resume == nil || !*resume || dstmodel == nil || *dstmodel == "" {
		return nil
	}
	err := net.ReadCompressedWeightsFromFile(*dstmodel)
	return errors.Wrapf(err, "resume from '%s'", *dstmodel)
}
