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
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/biblio-io/biblio/base/log"
	"github.com/biblio-io/biblio/common/util"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// LoadDataset loads books and reviews from two CSV files. A missing file or
// a missing required column fails the load. Malformed rows are skipped and
// unparsable ratings degrade to zero, matching the tolerant reader the
// datasets were exported for.
func LoadDataset(booksPath, ratingsPath string) (*Dataset, error) {
	books, err := loadBooks(booksPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	reviews, err := loadReviews(ratingsPath)
	if err != nil {
		return nil, errors.Trace(err)
	}
	dataset, err := NewDataset(books, reviews)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("dataset loaded",
		zap.String("books_file", booksPath),
		zap.String("ratings_file", ratingsPath),
		zap.Int("n_books", dataset.CountBooks()),
		zap.Int("n_reviews", dataset.CountReviews()),
		zap.Int("n_terms", dataset.CountTerms()))
	return dataset, nil
}

func loadBooks(path string) ([]Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Errorf("failed to read header of %s: %v", path, err)
	}
	columns := headerIndex(header)
	for _, name := range []string{"Id", "Name", "Authors", "Publisher", "Rating"} {
		if _, exist := columns[name]; !exist {
			return nil, errors.Errorf("missing column %q in %s", name, path)
		}
	}
	_, hasReviewCount := columns["CountsOfReview"]
	var books []Book
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			log.Logger().Warn("skip malformed row", zap.String("file", path), zap.Error(err))
			continue
		}
		id, err := util.ParseInt[int32](field(row, columns, "Id"))
		if err != nil {
			log.Logger().Warn("skip row with invalid book id",
				zap.String("file", path), zap.String("id", field(row, columns, "Id")))
			continue
		}
		rating, err := util.ParseFloat[float32](field(row, columns, "Rating"))
		if err != nil {
			rating = 0
		}
		book := Book{
			ID:        id,
			Title:     field(row, columns, "Name"),
			Authors:   field(row, columns, "Authors"),
			Publisher: field(row, columns, "Publisher"),
			Rating:    rating,
		}
		if hasReviewCount {
			if count, err := util.ParseInt[int32](field(row, columns, "CountsOfReview")); err == nil {
				book.ReviewCount = count
			}
		}
		books = append(books, book)
	}
	return books, nil
}

func loadReviews(path string) ([]Review, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return nil, errors.Errorf("failed to read header of %s: %v", path, err)
	}
	columns := headerIndex(header)
	for _, name := range []string{"ID", "Name", "Rating"} {
		if _, exist := columns[name]; !exist {
			return nil, errors.Errorf("missing column %q in %s", name, path)
		}
	}
	var reviews []Review
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			log.Logger().Warn("skip malformed row", zap.String("file", path), zap.Error(err))
			continue
		}
		id, err := util.ParseInt[int32](field(row, columns, "ID"))
		if err != nil {
			log.Logger().Warn("skip row with invalid review id",
				zap.String("file", path), zap.String("id", field(row, columns, "ID")))
			continue
		}
		text := field(row, columns, "Rating")
		reviews = append(reviews, Review{
			ID:    id,
			Title: field(row, columns, "Name"),
			Text:  text,
			Score: RatingScore(text),
		})
	}
	return reviews, nil
}

// headerIndex maps column names to their positions in the header.
func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	return columns
}

// field returns the value of a named column in a row. Rows too short for the
// column yield an empty string.
func field(row []string, columns map[string]int, name string) string {
	if i, exist := columns[name]; exist && i < len(row) {
		return row[i]
	}
	return ""
}
