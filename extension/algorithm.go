package extension

import (
	"github.com/ocflkit/ocfl/digest"
)

// Algorithm is a digest.Algorithm provided by an extension.
type Algorithm interface {
	digest.Algorithm
	// Extension returns the AlgorithmRegistry extension that provides the
	// algorithm.
	Extension() AlgorithmRegistry
}

// AlgorithmRegistry is an extension that provides a registry of digest
// algorithms.
type AlgorithmRegistry interface {
	Extension
	Algorithms() digest.AlgorithmRegistry
}

// algRegistry is an implementation of AlgorithmRegistry.
type algRegistry struct {
	Base
	algs digest.AlgorithmRegistry
}

// Algorithms implements AlgorithmRegistry for algRegistry.
func (d *algRegistry) Algorithms() digest.AlgorithmRegistry { return d.algs }

// alg implements Algorithm by pairing a digest.Algorithm with the extension
// that provides it.
type alg struct {
	digest.Algorithm
	ext AlgorithmRegistry
}

// Extension implements Algorithm for alg.
func (a alg) Extension() AlgorithmRegistry { return a.ext }
