// seehuhn.de/go/glyphorder - emission-order scrambling of PDF text
// Copyright (C) 2026  The glyphorder authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package permute computes emission-order permutations.
//
// A permutation map P of length n describes, for every emission step j, which
// glyph is drawn at that step: step j draws glyph P[j].  The maps produced by
// [Compute] leave all glyphs in place except for a random subset, which is
// shuffled among itself.
package permute

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// ErrFactor is returned when the attack factor is outside the range [0, 1].
var ErrFactor = errors.New("attack factor must be between 0 and 1")

// Map is a permutation of the integers 0, ..., len(P)-1.
type Map []int

// NewRand returns a new random number generator for use with [Compute].
// Equal seeds give equal sequences.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Identity returns the identity map on n elements.
func Identity(n int) Map {
	P := make(Map, n)
	for i := range P {
		P[i] = i
	}
	return P
}

// Compute returns a permutation map for n glyphs, where floor(n*attackFactor)
// of the glyphs are shuffled among themselves.  All random choices are taken
// from rng.
func Compute(n int, attackFactor float64, rng *rand.Rand) (Map, error) {
	P, _, err := ComputeSubset(n, attackFactor, rng)
	return P, err
}

// ComputeSubset is like [Compute], but also returns the subset S of indices
// which took part in the shuffle, in the order in which they were sampled.
//
// The subset is drawn using a partial Fisher-Yates shuffle of 0, ..., n-1.
// A copy of S is then shuffled, and the shuffled values are assigned back to
// the positions in S.
func ComputeSubset(n int, attackFactor float64, rng *rand.Rand) (Map, []int, error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("invalid glyph count %d", n)
	}
	if math.IsNaN(attackFactor) || attackFactor < 0 || attackFactor > 1 {
		return nil, nil, fmt.Errorf("%w, got %g", ErrFactor, attackFactor)
	}

	k := int(math.Floor(float64(n) * attackFactor))
	k = min(k, n)

	P := Identity(n)
	if k == 0 {
		return P, []int{}, nil
	}

	// Sample S without replacement.  After step j, pool[:j+1] holds the
	// first j+1 samples.
	pool := Identity(n)
	for j := range k {
		l := j + rng.IntN(n-j)
		pool[j], pool[l] = pool[l], pool[j]
	}
	S := []int(pool[:k:k])

	values := make([]int, k)
	copy(values, S)
	rng.Shuffle(k, func(a, b int) {
		values[a], values[b] = values[b], values[a]
	})

	for j, s := range S {
		P[s] = values[j]
	}
	return P, S, nil
}

// IsBijection checks whether every value 0, ..., len(P)-1 occurs exactly
// once in P.
func (P Map) IsBijection() bool {
	seen := make([]bool, len(P))
	for _, v := range P {
		if v < 0 || v >= len(P) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// IsIdentity checks whether P maps every index to itself.
func (P Map) IsIdentity() bool {
	for i, v := range P {
		if v != i {
			return false
		}
	}
	return true
}

// Moved returns the indices i with P[i] != i, in increasing order.
func (P Map) Moved() []int {
	var res []int
	for i, v := range P {
		if v != i {
			res = append(res, i)
		}
	}
	return res
}

// Inverse returns the inverse permutation.  For a glyph index i, the result
// gives the emission step at which glyph i is drawn.
// P must be a bijection.
func (P Map) Inverse() Map {
	inv := make(Map, len(P))
	for j, i := range P {
		inv[i] = j
	}
	return inv
}
