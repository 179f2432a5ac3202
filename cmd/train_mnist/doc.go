// Package main provides a demo program for unsupervised hebbian training on the
// MNIST dataset. The hidden layer learns with the Krotov-Hopfield rule without
// labels; a linear classifier trained on top of it periodically measures how
// useful the learned features are.
package main
