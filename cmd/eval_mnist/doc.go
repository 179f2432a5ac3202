// Package main provides a demo program for evaluating a hebbian network trained by
// train_mnist. It loads a checkpoint and measures the learned features by
// training a linear classifier on the MNIST test images.
package main
