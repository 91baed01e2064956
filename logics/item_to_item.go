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

package logics

import (
	"context"
	"time"

	"github.com/biblio-io/biblio/common/ann"
	"github.com/biblio-io/biblio/common/parallel"
	"github.com/biblio-io/biblio/dataset"
	"github.com/jellydator/ttlcache/v3"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/atomic"
)

// Score is a neighbor of a book with its cosine similarity.
type Score struct {
	ID    int32
	Score float32
}

// ItemToItem finds books similar to a book by the cosine similarity of their
// feature vectors. Neighbor lists hold at most cacheSize entries and are
// either precomputed for every book by Precompute or computed on demand and
// cached for cacheExpire, depending on the size of the dataset.
type ItemToItem struct {
	data      *dataset.Dataset
	index     *ann.Bruteforce
	cacheSize int
	neighbors [][]Score
	cache     *ttlcache.Cache[int, []Score]
}

// NewItemToItem creates an item-to-item recommender over the feature vectors
// of a dataset. Datasets larger than precomputeThreshold fall back to lazy
// computation with caching.
func NewItemToItem(data *dataset.Dataset, cacheSize int, cacheExpire time.Duration, precomputeThreshold int) (*ItemToItem, error) {
	index := ann.NewBruteforce(ann.Cosine)
	for _, vector := range data.Vectors() {
		if _, err := index.Add(vector); err != nil {
			return nil, errors.Trace(err)
		}
	}
	i := &ItemToItem{
		data:      data,
		index:     index,
		cacheSize: cacheSize,
	}
	if data.CountBooks() > precomputeThreshold {
		i.cache = ttlcache.New(ttlcache.WithTTL[int, []Score](cacheExpire))
		go i.cache.Start()
	} else {
		i.neighbors = make([][]Score, data.CountBooks())
	}
	return i, nil
}

// Precomputed reports whether neighbors are computed eagerly at startup.
func (i *ItemToItem) Precomputed() bool {
	return i.neighbors != nil
}

// Precompute fills the neighbor list of every book. It is a no-op when the
// dataset exceeded the precompute threshold. onProgress, if not nil, is
// invoked with the number of completed books.
func (i *ItemToItem) Precompute(ctx context.Context, jobs int, onProgress func(completed int)) error {
	if i.neighbors == nil {
		return nil
	}
	var completed atomic.Int32
	return errors.Trace(parallel.Parallel(ctx, i.data.CountBooks(), jobs, func(_, jobId int) error {
		scores, err := i.search(jobId)
		if err != nil {
			return errors.Trace(err)
		}
		i.neighbors[jobId] = scores
		if onProgress != nil {
			onProgress(int(completed.Inc()))
		}
		return nil
	}))
}

// SimilarTo returns the k books most similar to a book, ordered by descending
// similarity. Equal similarities are broken by ascending id. At most
// cacheSize books are returned regardless of k.
func (i *ItemToItem) SimilarTo(id int32, k int) ([]dataset.Book, error) {
	if k <= 0 {
		return nil, errors.Annotatef(ErrInvalidArgument, "k = %d", k)
	}
	position, err := i.data.GetBookPosition(id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	scores, err := i.neighborsOf(position)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if k < len(scores) {
		scores = scores[:k]
	}
	return lo.Map(scores, func(score Score, _ int) dataset.Book {
		book, _ := i.data.GetBook(score.ID)
		return book
	}), nil
}

// neighborsOf returns the neighbor list of a position. Precomputed lists are
// returned as is while lazy lists are searched through the cache.
func (i *ItemToItem) neighborsOf(position int) ([]Score, error) {
	if i.neighbors != nil {
		return i.neighbors[position], nil
	}
	if item := i.cache.Get(position); item != nil {
		return item.Value(), nil
	}
	scores, err := i.search(position)
	if err != nil {
		return nil, errors.Trace(err)
	}
	i.cache.Set(position, scores, ttlcache.DefaultTTL)
	return scores, nil
}

func (i *ItemToItem) search(position int) ([]Score, error) {
	neighbors, err := i.index.Search(position, i.cacheSize)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return lo.Map(neighbors, func(neighbor lo.Tuple2[int, float32], _ int) Score {
		return Score{
			ID:    i.data.GetBookByPosition(neighbor.A).ID,
			Score: neighbor.B,
		}
	}), nil
}
