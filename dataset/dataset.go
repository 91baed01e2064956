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

package dataset

import (
	"slices"
	"strings"

	"github.com/biblio-io/biblio/common/ann"
	"github.com/chewxy/math32"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Dataset holds the book and review tables. All tables and derived
// structures are built once and read-only afterwards, so a Dataset is safe
// to share between goroutines.
type Dataset struct {
	books       []Book
	bookIndex   map[int32]int
	reviews     []Review
	reviewIndex map[string][]int
	termDict    *FreqDict
	vectors     []ann.Vector
}

// NewDataset builds a dataset from book and review records. Books are
// canonicalized to ascending id order and feature vectors are derived
// immediately. Duplicate book ids are rejected.
func NewDataset(books []Book, reviews []Review) (*Dataset, error) {
	d := &Dataset{
		books:       slices.Clone(books),
		bookIndex:   make(map[int32]int, len(books)),
		reviews:     reviews,
		reviewIndex: make(map[string][]int),
		termDict:    NewFreqDict(),
	}
	slices.SortFunc(d.books, func(a, b Book) int {
		return int(a.ID) - int(b.ID)
	})
	for i, book := range d.books {
		if _, exist := d.bookIndex[book.ID]; exist {
			return nil, errors.Errorf("duplicate book id %d", book.ID)
		}
		d.bookIndex[book.ID] = i
	}
	for i, review := range d.reviews {
		d.reviewIndex[review.Title] = append(d.reviewIndex[review.Title], i)
	}
	d.buildVectors()
	return d, nil
}

func (d *Dataset) Books() []Book {
	return d.books
}

func (d *Dataset) CountBooks() int {
	return len(d.books)
}

func (d *Dataset) CountReviews() int {
	return len(d.reviews)
}

// CountTerms returns the size of the vocabulary observed across all books.
func (d *Dataset) CountTerms() int {
	return d.termDict.Count()
}

// GetBook returns the book of an id. ErrBookNotExist is returned when the id
// is absent from the table.
func (d *Dataset) GetBook(id int32) (Book, error) {
	if i, exist := d.bookIndex[id]; exist {
		return d.books[i], nil
	}
	return Book{}, errors.Annotatef(ErrBookNotExist, "%d", id)
}

// GetBookByPosition returns the book at a position in id order.
func (d *Dataset) GetBookByPosition(position int) Book {
	return d.books[position]
}

// GetBookPosition returns the position of a book id in id order.
func (d *Dataset) GetBookPosition(id int32) (int, error) {
	if i, exist := d.bookIndex[id]; exist {
		return i, nil
	}
	return 0, errors.Annotatef(ErrBookNotExist, "%d", id)
}

// SearchBooks returns all books whose titles contain the query substring,
// matched case-insensitively, in ascending id order. An empty query returns
// the full table.
func (d *Dataset) SearchBooks(query string) []Book {
	if query == "" {
		return d.books
	}
	needle := strings.ToLower(query)
	results := make([]Book, 0)
	for _, book := range d.books {
		if strings.Contains(strings.ToLower(book.Title), needle) {
			results = append(results, book)
		}
	}
	return results
}

// GetReviews returns the first n reviews of a book title in file order. All
// reviews are returned when n is not positive.
func (d *Dataset) GetReviews(title string, n int) []Review {
	positions := d.reviewIndex[title]
	if n > 0 && n < len(positions) {
		positions = positions[:n]
	}
	return lo.Map(positions, func(position int, _ int) Review {
		return d.reviews[position]
	})
}

// Vectors returns the feature vectors aligned with Books().
func (d *Dataset) Vectors() []ann.Vector {
	return d.vectors
}

// buildVectors derives a TF-IDF feature vector from the title, authors and
// publisher of every book:
//
//	idf(t) = ln((1+N)/(1+df(t))) + 1
//
// N is the number of books and df(t) is the number of books containing term
// t. Term weights are term counts scaled by idf and vectors are normalized
// to unit length. Books without terms yield the zero vector.
func (d *Dataset) buildVectors() {
	// count term frequencies and document frequencies
	termCounts := make([]map[string]int32, len(d.books))
	for i, book := range d.books {
		terms := Tokenize(book.FeatureText())
		counts := make(map[string]int32, len(terms))
		seen := mapset.NewThreadUnsafeSet[string]()
		for _, term := range terms {
			counts[term]++
			if seen.Add(term) {
				d.termDict.Id(term)
			}
		}
		termCounts[i] = counts
	}
	// smoothed inverse document frequencies
	idf := make([]float32, d.termDict.Count())
	n := float32(len(d.books))
	for id := range idf {
		idf[id] = math32.Log((1+n)/(1+float32(d.termDict.Freq(int32(id))))) + 1
	}
	// weight and normalize
	d.vectors = make([]ann.Vector, len(d.books))
	for i := range d.books {
		counts := termCounts[i]
		indices := make([]int32, 0, len(counts))
		for term := range counts {
			id, _ := d.termDict.Lookup(term)
			indices = append(indices, id)
		}
		slices.Sort(indices)
		values := make([]float32, len(indices))
		var norm float32
		for j, id := range indices {
			term, _ := d.termDict.Term(id)
			weight := float32(counts[term]) * idf[id]
			values[j] = weight
			norm += weight * weight
		}
		norm = math32.Sqrt(norm)
		if norm > 0 {
			for j := range values {
				values[j] /= norm
			}
		}
		d.vectors[i] = ann.Vector{Indices: indices, Values: values}
	}
}
