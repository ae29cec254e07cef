package digest

import (
	"errors"
	"fmt"
)

// ErrAlgorithmUnknown is returned when a digest algorithm id is not present in
// an AlgorithmRegistry.
var ErrAlgorithmUnknown = errors.New("unrecognized digest algorithm")

// AlgorithmRegistry is an immutable set of digest Algorithms, keyed by
// algorithm id.
type AlgorithmRegistry struct {
	algs map[string]Algorithm
}

// NewRegistry returns an AlgorithmRegistry with the given Algorithms.
func NewRegistry(algs ...Algorithm) AlgorithmRegistry {
	reg := AlgorithmRegistry{algs: make(map[string]Algorithm, len(algs))}
	for _, a := range algs {
		reg.algs[a.ID()] = a
	}
	return reg
}

// DefaultRegistry returns an AlgorithmRegistry with the built-in digest
// algorithms (sha512, sha256, sha1, md5, blake2b-512) plus the pseudo
// algorithm 'size', used to track content length alongside real digests.
func DefaultRegistry() AlgorithmRegistry {
	return NewRegistry(SHA512, SHA256, SHA1, MD5, BLAKE2B, SIZE)
}

// Get returns the Algorithm with the given id, or an error if id is not
// registered in r.
func (r AlgorithmRegistry) Get(id string) (Algorithm, error) {
	a, ok := r.algs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAlgorithmUnknown, id)
	}
	return a, nil
}

// MustGet is like Get, but panics if id is not registered in r.
func (r AlgorithmRegistry) MustGet(id string) Algorithm {
	a, err := r.Get(id)
	if err != nil {
		panic(err)
	}
	return a
}

// GetAny returns the Algorithms in r for the given ids. Unrecognized ids are
// silently skipped.
func (r AlgorithmRegistry) GetAny(ids ...string) []Algorithm {
	algs := make([]Algorithm, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.algs[id]; ok {
			algs = append(algs, a)
		}
	}
	return algs
}

// All returns every Algorithm registered in r, in no particular order.
func (r AlgorithmRegistry) All() []Algorithm {
	algs := make([]Algorithm, 0, len(r.algs))
	for _, a := range r.algs {
		algs = append(algs, a)
	}
	return algs
}

// IDs returns the ids of every Algorithm registered in r.
func (r AlgorithmRegistry) IDs() []string {
	ids := make([]string, 0, len(r.algs))
	for id := range r.algs {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of algorithms registered in r.
func (r AlgorithmRegistry) Len() int {
	return len(r.algs)
}

// Append returns a new AlgorithmRegistry with the Algorithms from r plus
// additional algs. An added alg with the same id as one already in r
// replaces it in the result.
func (r AlgorithmRegistry) Append(algs ...Algorithm) AlgorithmRegistry {
	next := make(map[string]Algorithm, len(r.algs)+len(algs))
	for id, a := range r.algs {
		next[id] = a
	}
	for _, a := range algs {
		next[a.ID()] = a
	}
	return AlgorithmRegistry{algs: next}
}

// NewDigester returns a new Digester for the algorithm with the given id.
func (r AlgorithmRegistry) NewDigester(id string) (Digester, error) {
	a, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return a.Digester(), nil
}

// NewMultiDigester returns a *MultiDigester for the algorithms with the given
// ids. Unrecognized ids are silently skipped.
func (r AlgorithmRegistry) NewMultiDigester(algIDs ...string) *MultiDigester {
	return NewMultiDigester(r.GetAny(algIDs...)...)
}
