// Copyright 2026 biblio Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ann

import (
	"github.com/biblio-io/biblio/common/heap"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Bruteforce is a naive implementation of vector index. Queries score every
// vector in the index, so results are exact and reproducible.
type Bruteforce struct {
	similarity func(a, b Vector) float32
	vectors    []Vector
}

func NewBruteforce(similarity func(a, b Vector) float32) *Bruteforce {
	return &Bruteforce{similarity: similarity}
}

func (b *Bruteforce) Add(v Vector) (int, error) {
	// Check indices
	if len(v.Indices) != len(v.Values) {
		return 0, errors.Errorf("indices and values mismatch: %v != %v", len(v.Indices), len(v.Values))
	}
	for i := 1; i < len(v.Indices); i++ {
		if v.Indices[i-1] >= v.Indices[i] {
			return 0, errors.Errorf("indices must be strictly ascending")
		}
	}
	// Add vector
	b.vectors = append(b.vectors, v)
	return len(b.vectors) - 1, nil
}

func (b *Bruteforce) Len() int {
	return len(b.vectors)
}

// Search returns the k vectors most similar to the q-th vector, excluding
// the q-th vector itself. Results are ordered by decreasing similarity and
// ties are broken by ascending position.
func (b *Bruteforce) Search(q, k int) ([]lo.Tuple2[int, float32], error) {
	// Check index
	if q < 0 || q >= len(b.vectors) {
		return nil, errors.Errorf("index out of range: %v", q)
	}
	// Search
	filter := heap.NewTopKFilter[lo.Tuple2[int, float32]](k, func(a, b lo.Tuple2[int, float32]) bool {
		if a.B != b.B {
			return a.B < b.B
		}
		return a.A > b.A
	})
	for i, vec := range b.vectors {
		if i != q {
			filter.Push(lo.Tuple2[int, float32]{A: i, B: b.similarity(b.vectors[q], vec)})
		}
	}
	return filter.PopAll(), nil
}
