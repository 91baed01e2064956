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

package heap

import (
	"container/heap"
)

type _heap[T any] struct {
	elems []T
	less  func(a, b T) bool
}

func (h *_heap[T]) Len() int {
	return len(h.elems)
}

func (h *_heap[T]) Less(i, j int) bool {
	return h.less(h.elems[i], h.elems[j])
}

func (h *_heap[T]) Swap(i, j int) {
	h.elems[i], h.elems[j] = h.elems[j], h.elems[i]
}

func (h *_heap[T]) Push(x interface{}) {
	h.elems = append(h.elems, x.(T))
}

func (h *_heap[T]) Pop() interface{} {
	old := h.elems
	item := old[len(old)-1]
	h.elems = old[:len(old)-1]
	return item
}

// TopKFilter filters out the top k elements of the ordering defined by less.
// The lowest of the kept elements sits on top of the heap and is evicted
// first when the filter overflows.
type TopKFilter[T any] struct {
	_heap[T]
	k int
}

// NewTopKFilter creates a top k filter. less reports whether a ranks below b.
func NewTopKFilter[T any](k int, less func(a, b T) bool) *TopKFilter[T] {
	return &TopKFilter[T]{_heap: _heap[T]{less: less}, k: k}
}

// Push pushes the element x onto the heap.
// The complexity is O(log n) where n = h.Len().
func (filter *TopKFilter[T]) Push(item T) {
	heap.Push(&filter._heap, item)
	if filter.Len() > filter.k {
		heap.Pop(&filter._heap)
	}
}

// PopAll pops all elements in the filter with decreasing order.
func (filter *TopKFilter[T]) PopAll() []T {
	items := make([]T, filter.Len())
	for i := len(items) - 1; i >= 0; i-- {
		items[i] = heap.Pop(&filter._heap).(T)
	}
	return items
}
