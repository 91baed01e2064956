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
	"strconv"
	"testing"

	"github.com/biblio-io/biblio/dataset"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookIDs(books []dataset.Book) []int32 {
	return lo.Map(books, func(book dataset.Book, _ int) int32 {
		return book.ID
	})
}

func TestLeaderBoard(t *testing.T) {
	books := make([]dataset.Book, 0, 100)
	for i := 0; i < 100; i++ {
		books = append(books, dataset.Book{
			ID:     int32(i),
			Title:  "book " + strconv.Itoa(i),
			Rating: float32(i) * 0.05,
		})
	}
	d, err := dataset.NewDataset(books, nil)
	require.NoError(t, err)
	leaderBoard, err := NewLeaderBoard(d, "book.Rating", "")
	require.NoError(t, err)
	top, err := leaderBoard.TopN(10)
	assert.NoError(t, err)
	assert.Len(t, top, 10)
	for i := 0; i < 10; i++ {
		assert.Equal(t, int32(99-i), top[i].ID)
	}
}

func TestLeaderBoardTies(t *testing.T) {
	d, err := dataset.NewDataset([]dataset.Book{
		{ID: 1, Title: "a", Rating: 4, ReviewCount: 100},
		{ID: 2, Title: "b", Rating: 4, ReviewCount: 100},
		{ID: 3, Title: "c", Rating: 4, ReviewCount: 50},
		{ID: 4, Title: "d", Rating: 4, ReviewCount: 200},
		{ID: 5, Title: "e", Rating: 4, ReviewCount: 100},
	}, nil)
	require.NoError(t, err)
	leaderBoard, err := NewLeaderBoard(d, "book.Rating", "")
	require.NoError(t, err)
	top, err := leaderBoard.TopN(5)
	assert.NoError(t, err)
	assert.Equal(t, []int32{4, 1, 2, 5, 3}, bookIDs(top))
}

func TestLeaderBoardFilter(t *testing.T) {
	books := make([]dataset.Book, 0, 100)
	for i := 0; i < 100; i++ {
		books = append(books, dataset.Book{
			ID:          int32(i),
			Title:       "book " + strconv.Itoa(i),
			Rating:      float32(i) * 0.05,
			ReviewCount: int32(i),
		})
	}
	d, err := dataset.NewDataset(books, nil)
	require.NoError(t, err)
	leaderBoard, err := NewLeaderBoard(d, "book.Rating", "book.ReviewCount < 90")
	require.NoError(t, err)
	top, err := leaderBoard.TopN(10)
	assert.NoError(t, err)
	for i := 0; i < 10; i++ {
		assert.Equal(t, int32(89-i), top[i].ID)
	}
}

func TestLeaderBoardIntegerScore(t *testing.T) {
	d, err := dataset.NewDataset([]dataset.Book{
		{ID: 1, Title: "a", ReviewCount: 10},
		{ID: 2, Title: "b", ReviewCount: 30},
		{ID: 3, Title: "c", ReviewCount: 20},
	}, nil)
	require.NoError(t, err)
	leaderBoard, err := NewLeaderBoard(d, "book.ReviewCount", "")
	require.NoError(t, err)
	top, err := leaderBoard.TopN(2)
	assert.NoError(t, err)
	assert.Equal(t, []int32{2, 3}, bookIDs(top))
}

func TestLeaderBoardInvalidArgument(t *testing.T) {
	d, err := dataset.NewDataset([]dataset.Book{{ID: 1, Title: "a"}}, nil)
	require.NoError(t, err)
	leaderBoard, err := NewLeaderBoard(d, "book.Rating", "")
	require.NoError(t, err)
	_, err = leaderBoard.TopN(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = leaderBoard.TopN(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLeaderBoardInvalidExpression(t *testing.T) {
	d, err := dataset.NewDataset([]dataset.Book{{ID: 1, Title: "a"}}, nil)
	require.NoError(t, err)
	_, err = NewLeaderBoard(d, "book.Title", "")
	assert.ErrorContains(t, err, "score expression must return a number")
	_, err = NewLeaderBoard(d, "book.Rating", "book.Rating + 1")
	assert.ErrorContains(t, err, "filter expression must return bool")
	_, err = NewLeaderBoard(d, "book.Unknown", "")
	assert.Error(t, err)
	_, err = NewLeaderBoard(d, "book.Rating", "book.Unknown")
	assert.Error(t, err)
}
