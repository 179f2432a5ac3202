// Package trainer provides high-level training orchestration for hebbian networks.
// It runs the unsupervised learning rule over a dataset epoch by epoch, with a
// decaying learning rate, and periodically evaluates and checkpoints the network.
package trainer
