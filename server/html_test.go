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
package server

import (
	"net/http"
	"net/http/httptest"
)

func (suite *ServerTestSuite) serveHTML(path string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	suite.CreateContainer().ServeHTTP(recorder, request)
	return recorder
}

func (suite *ServerTestSuite) TestIndexPage() {
	recorder := suite.serveHTML("/")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "Top rated books")
	suite.Contains(recorder.Body.String(), "The Hobbit")
	suite.Contains(recorder.Body.String(), "Dune Messiah")
	// unknown paths fall through to 404
	recorder = suite.serveHTML("/favicon.ico")
	suite.Equal(http.StatusNotFound, recorder.Code)
}

func (suite *ServerTestSuite) TestSearchPage() {
	recorder := suite.serveHTML("/search?q=dune")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "Dune")
	suite.Contains(recorder.Body.String(), "Dune Messiah")
	// empty queries redirect to the index page
	recorder = suite.serveHTML("/search")
	suite.Equal(http.StatusFound, recorder.Code)
	suite.Equal("/", recorder.Header().Get("Location"))
	// no match
	recorder = suite.serveHTML("/search?q=dragon")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "No books found.")
}

func (suite *ServerTestSuite) TestBookPage() {
	recorder := suite.serveHTML("/book/1")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "Dune")
	suite.Contains(recorder.Body.String(), "Frank Herbert")
	suite.Contains(recorder.Body.String(), "Dune Messiah")
	suite.Contains(recorder.Body.String(), "it was amazing")
	// test not found
	recorder = suite.serveHTML("/book/99")
	suite.Equal(http.StatusNotFound, recorder.Code)
	// test malformed id
	recorder = suite.serveHTML("/book/dune")
	suite.Equal(http.StatusNotFound, recorder.Code)
}

func (suite *ServerTestSuite) TestLibraryPage() {
	recorder := suite.serveHTML("/library")
	suite.Equal(http.StatusOK, recorder.Code)
	suite.Contains(recorder.Body.String(), "3 books")
	suite.Contains(recorder.Body.String(), "The Hobbit")
}

func (suite *ServerTestSuite) TestRecommendByID() {
	recorder := suite.serveHTML("/recommend_by_id?book-id=2")
	suite.Equal(http.StatusFound, recorder.Code)
	suite.Equal("/book/2", recorder.Header().Get("Location"))
	// test malformed id
	recorder = suite.serveHTML("/recommend_by_id?book-id=dune")
	suite.Equal(http.StatusBadRequest, recorder.Code)
}

func (suite *ServerTestSuite) TestHTMLDisabled() {
	suite.Config.Server.EnableHTML = false
	defer func() {
		suite.Config.Server.EnableHTML = true
	}()
	recorder := suite.serveHTML("/")
	suite.Equal(http.StatusNotFound, recorder.Code)
}
