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
	"embed"
	"fmt"
	"net/http"
	"strings"

	"github.com/biblio-io/biblio/base/log"
	"github.com/biblio-io/biblio/common/util"
	"github.com/nikolalohinski/gonja/v2"
	"github.com/nikolalohinski/gonja/v2/exec"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

//go:embed templates
var templates embed.FS

var (
	indexTemplate   = mustParseTemplate("templates/index.html")
	searchTemplate  = mustParseTemplate("templates/search.html")
	bookTemplate    = mustParseTemplate("templates/book.html")
	libraryTemplate = mustParseTemplate("templates/library.html")
)

func mustParseTemplate(name string) *exec.Template {
	return lo.Must(gonja.FromString(string(lo.Must(templates.ReadFile(name)))))
}

func (s *RestServer) renderHTML(response http.ResponseWriter, template *exec.Template, data map[string]any) {
	var buf strings.Builder
	if err := template.Execute(&buf, exec.NewContext(data)); err != nil {
		log.Logger().Error("failed to execute template", zap.Error(err))
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}
	response.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := response.Write([]byte(buf.String())); err != nil {
		log.Logger().Error("failed to write html", zap.Error(err))
	}
}

func (s *RestServer) indexPage(response http.ResponseWriter, request *http.Request) {
	if request.URL.Path != "/" {
		http.NotFound(response, request)
		return
	}
	books, err := s.LeaderBoard.TopN(defaultTopN)
	if err != nil {
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderHTML(response, indexTemplate, map[string]any{
		"books": books,
	})
}

func (s *RestServer) searchPage(response http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("q")
	if query == "" {
		http.Redirect(response, request, "/", http.StatusFound)
		return
	}
	s.renderHTML(response, searchTemplate, map[string]any{
		"query": query,
		"books": s.Data.SearchBooks(query),
	})
}

func (s *RestServer) bookPage(response http.ResponseWriter, request *http.Request) {
	id, err := util.ParseInt[int32](strings.TrimPrefix(request.URL.Path, "/book/"))
	if err != nil {
		http.NotFound(response, request)
		return
	}
	book, err := s.Data.GetBook(id)
	if err != nil {
		http.NotFound(response, request)
		return
	}
	similar, err := s.ItemToItem.SimilarTo(id, defaultNeighbors)
	if err != nil {
		http.Error(response, err.Error(), http.StatusInternalServerError)
		return
	}
	s.renderHTML(response, bookTemplate, map[string]any{
		"book":    book,
		"similar": similar,
		"reviews": s.Data.GetReviews(book.Title, defaultReviews),
	})
}

func (s *RestServer) libraryPage(response http.ResponseWriter, _ *http.Request) {
	s.renderHTML(response, libraryTemplate, map[string]any{
		"books": s.Data.Books(),
	})
}

func (s *RestServer) recommendByID(response http.ResponseWriter, request *http.Request) {
	id, err := util.ParseInt[int32](request.URL.Query().Get("book-id"))
	if err != nil {
		http.Error(response, "invalid book id", http.StatusBadRequest)
		return
	}
	http.Redirect(response, request, fmt.Sprintf("/book/%d", id), http.StatusFound)
}
