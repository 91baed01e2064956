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

package client

import (
	"net/http/httptest"
	"testing"

	"github.com/biblio-io/biblio/config"
	"github.com/biblio-io/biblio/dataset"
	"github.com/biblio-io/biblio/logics"
	"github.com/biblio-io/biblio/server"
	"github.com/emicklei/go-restful/v3"
	"github.com/stretchr/testify/suite"
)

const apiKey = "test_api_key"

type BiblioClientTestSuite struct {
	suite.Suite
	server *httptest.Server
	client *BiblioClient
}

func (suite *BiblioClientTestSuite) SetupSuite() {
	cfg := config.GetDefaultConfig()
	cfg.Server.APIKey = apiKey
	data, err := dataset.NewDataset([]dataset.Book{
		{ID: 1, Title: "Dune", Authors: "Frank Herbert", Publisher: "Chilton", Rating: 4.25, ReviewCount: 1000},
		{ID: 2, Title: "Dune Messiah", Authors: "Frank Herbert", Publisher: "Putnam", Rating: 3.89, ReviewCount: 800},
		{ID: 3, Title: "The Hobbit", Authors: "J. R. R. Tolkien", Publisher: "Allen & Unwin", Rating: 4.28, ReviewCount: 1200},
	}, []dataset.Review{
		{ID: 10, Title: "Dune", Text: "it was amazing", Score: 5},
		{ID: 11, Title: "Dune", Text: "really liked it", Score: 4},
	})
	suite.NoError(err)
	leaderBoard, err := logics.NewLeaderBoard(data, cfg.Recommend.ScoreExpr, cfg.Recommend.FilterExpr)
	suite.NoError(err)
	itemToItem, err := logics.NewItemToItem(data, cfg.Recommend.CacheSize, cfg.Recommend.CacheExpire, 0)
	suite.NoError(err)
	restServer := server.NewRestServer(cfg, data, leaderBoard, itemToItem)
	restServer.CreateWebService()
	container := restful.NewContainer()
	container.Add(restServer.WebService)
	suite.server = httptest.NewServer(container)
	suite.client = NewBiblioClient(suite.server.URL, apiKey)
}

func (suite *BiblioClientTestSuite) TearDownSuite() {
	suite.server.Close()
}

func (suite *BiblioClientTestSuite) TestTopBooks() {
	books, err := suite.client.TopBooks(2)
	suite.NoError(err)
	suite.Equal([]Book{
		{ID: 3, Title: "The Hobbit", Authors: "J. R. R. Tolkien", Publisher: "Allen & Unwin", Rating: 4.28, ReviewCount: 1200},
		{ID: 1, Title: "Dune", Authors: "Frank Herbert", Publisher: "Chilton", Rating: 4.25, ReviewCount: 1000},
	}, books)
}

func (suite *BiblioClientTestSuite) TestSearchBooks() {
	books, err := suite.client.SearchBooks("dune messiah")
	suite.NoError(err)
	suite.Equal([]Book{
		{ID: 2, Title: "Dune Messiah", Authors: "Frank Herbert", Publisher: "Putnam", Rating: 3.89, ReviewCount: 800},
	}, books)
}

func (suite *BiblioClientTestSuite) TestListBooks() {
	books, err := suite.client.ListBooks()
	suite.NoError(err)
	suite.Len(books, 3)
}

func (suite *BiblioClientTestSuite) TestGetBook() {
	book, err := suite.client.GetBook(1)
	suite.NoError(err)
	suite.Equal(Book{ID: 1, Title: "Dune", Authors: "Frank Herbert", Publisher: "Chilton", Rating: 4.25, ReviewCount: 1000}, book)
	_, err = suite.client.GetBook(99)
	suite.ErrorContains(err, "book not found")
}

func (suite *BiblioClientTestSuite) TestGetNeighbors() {
	books, err := suite.client.GetNeighbors(1, 10)
	suite.NoError(err)
	suite.Len(books, 2)
	suite.Equal(int32(2), books[0].ID)
	suite.Equal(int32(3), books[1].ID)
}

func (suite *BiblioClientTestSuite) TestGetReviews() {
	reviews, err := suite.client.GetReviews(1, 1)
	suite.NoError(err)
	suite.Equal([]Review{
		{ID: 10, Title: "Dune", Text: "it was amazing", Score: 5},
	}, reviews)
}

func (suite *BiblioClientTestSuite) TestUnauthorized() {
	client := NewBiblioClient(suite.server.URL, "")
	_, err := client.ListBooks()
	suite.ErrorContains(err, "unauthorized")
}

func TestBiblioClient(t *testing.T) {
	suite.Run(t, new(BiblioClientTestSuite))
}
