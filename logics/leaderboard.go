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
	"reflect"

	"github.com/biblio-io/biblio/base/log"
	"github.com/biblio-io/biblio/common/heap"
	"github.com/biblio-io/biblio/dataset"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrInvalidArgument is returned when an operation receives an argument
// outside its domain.
var ErrInvalidArgument = errors.BadRequestf("invalid argument")

// LeaderBoard ranks books by a configurable score expression. Both the score
// and the filter expression see the current book as `book`.
type LeaderBoard struct {
	data       *dataset.Dataset
	scoreFunc  *vm.Program
	filterFunc *vm.Program
}

type rankedBook struct {
	book  dataset.Book
	score float64
}

// NewLeaderBoard compiles the score and filter expressions of a leaderboard.
// The score expression must return a number. The filter expression must
// return a boolean and an empty filter expression keeps every book.
func NewLeaderBoard(data *dataset.Dataset, scoreExpr, filterExpr string) (*LeaderBoard, error) {
	// Compile score expression
	scoreFunc, err := expr.Compile(scoreExpr, expr.Env(map[string]any{
		"book": dataset.Book{},
	}))
	if err != nil {
		return nil, errors.Trace(err)
	}
	switch scoreFunc.Node().Type().Kind() {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return nil, errors.New("score expression must return a number")
	}
	// Compile filter expression
	var filterFunc *vm.Program
	if filterExpr != "" {
		filterFunc, err = expr.Compile(filterExpr, expr.Env(map[string]any{
			"book": dataset.Book{},
		}))
		if err != nil {
			return nil, errors.Trace(err)
		}
		if filterFunc.Node().Type().Kind() != reflect.Bool {
			return nil, errors.New("filter expression must return bool")
		}
	}
	return &LeaderBoard{
		data:       data,
		scoreFunc:  scoreFunc,
		filterFunc: filterFunc,
	}, nil
}

// TopN returns the n highest scored books. Equal scores are broken by the
// number of reviews and then by ascending id.
func (l *LeaderBoard) TopN(n int) ([]dataset.Book, error) {
	if n <= 0 {
		return nil, errors.Annotatef(ErrInvalidArgument, "n = %d", n)
	}
	filter := heap.NewTopKFilter[rankedBook](n, func(a, b rankedBook) bool {
		if a.score != b.score {
			return a.score < b.score
		}
		if a.book.ReviewCount != b.book.ReviewCount {
			return a.book.ReviewCount < b.book.ReviewCount
		}
		return a.book.ID > b.book.ID
	})
	for _, book := range l.data.Books() {
		// Evaluate filter expression
		if l.filterFunc != nil {
			result, err := expr.Run(l.filterFunc, map[string]any{"book": book})
			if err != nil {
				log.Logger().Error("evaluate filter expression", zap.Error(err))
				continue
			}
			if !result.(bool) {
				continue
			}
		}
		// Evaluate score expression
		result, err := expr.Run(l.scoreFunc, map[string]any{"book": book})
		if err != nil {
			log.Logger().Error("evaluate score expression", zap.Error(err))
			continue
		}
		var score float64
		switch typed := result.(type) {
		case float32:
			score = float64(typed)
		case float64:
			score = typed
		case int:
			score = float64(typed)
		case int8:
			score = float64(typed)
		case int16:
			score = float64(typed)
		case int32:
			score = float64(typed)
		case int64:
			score = float64(typed)
		default:
			log.Logger().Error("score expression must return a number", zap.Any("result", result))
			continue
		}
		filter.Push(rankedBook{book: book, score: score})
	}
	return lo.Map(filter.PopAll(), func(ranked rankedBook, _ int) dataset.Book {
		return ranked.book
	}), nil
}
