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
	"github.com/chewxy/math32"
)

// Vector is a sparse feature vector. Indices are sorted in ascending order
// and aligned with Values. A vector without indices is the zero vector.
type Vector struct {
	Indices []int32
	Values  []float32
}

func (v Vector) IsZero() bool {
	return len(v.Indices) == 0
}

// Dot returns the inner product of two sparse vectors.
func (v Vector) Dot(u Vector) float32 {
	var sum float32
	var i, j int
	for i < len(v.Indices) && j < len(u.Indices) {
		switch {
		case v.Indices[i] < u.Indices[j]:
			i++
		case v.Indices[i] > u.Indices[j]:
			j++
		default:
			sum += v.Values[i] * u.Values[j]
			i++
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm of the vector.
func (v Vector) Norm() float32 {
	var sum float32
	for _, value := range v.Values {
		sum += value * value
	}
	return math32.Sqrt(sum)
}

// Cosine returns the cosine similarity between two sparse vectors. The
// similarity to a zero vector is defined as zero.
func Cosine(a, b Vector) float32 {
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	return a.Dot(b) / (normA * normB)
}
