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
	"github.com/juju/errors"
)

// ErrBookNotExist is returned when a book identifier is absent from the table.
var ErrBookNotExist = errors.NotFoundf("book")

// Book is a catalog entry loaded from books.csv. Books are immutable after
// load and identified by their unique id. Titles are not guaranteed unique.
type Book struct {
	ID          int32   `json:"Id"`
	Title       string  `json:"Name"`
	Authors     string  `json:"Authors"`
	Publisher   string  `json:"Publisher"`
	Rating      float32 `json:"Rating"`
	ReviewCount int32   `json:"CountsOfReview"`
}

// FeatureText returns the text fields used for content-based similarity.
func (b Book) FeatureText() string {
	return b.Title + " " + b.Authors + " " + b.Publisher
}

// Review is a reader review loaded from ratings.csv. Reviews refer to books
// by title.
type Review struct {
	ID    int32  `json:"Id"`
	Title string `json:"Name"`
	Text  string `json:"Rating"`
	Score int32  `json:"Score"`
}

var ratingScores = map[string]int32{
	"it was amazing":  5,
	"really liked it": 4,
	"liked it":        3,
	"it was ok":       2,
	"did not like it": 1,
}

// RatingScore maps a rating phrase to its numeric score. Phrases outside the
// five canonical ratings score zero.
func RatingScore(text string) int32 {
	return ratingScores[text]
}
