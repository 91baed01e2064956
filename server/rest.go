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
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/biblio-io/biblio/base/log"
	"github.com/biblio-io/biblio/common/util"
	"github.com/biblio-io/biblio/config"
	"github.com/biblio-io/biblio/dataset"
	"github.com/biblio-io/biblio/logics"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	apiDocsPath = "/apidocs/"

	defaultTopN      = 12
	defaultNeighbors = 6
	defaultReviews   = 3
)

// RestServer implements a REST-ful API server.
type RestServer struct {
	Config      *config.Config
	Data        *dataset.Dataset
	LeaderBoard *logics.LeaderBoard
	ItemToItem  *logics.ItemToItem

	HttpServer *http.Server
	WebService *restful.WebService

	ready  atomic.Bool
	bucket *ratelimit.Bucket
}

// NewRestServer creates a REST-ful API server serving the given dataset.
func NewRestServer(cfg *config.Config, data *dataset.Dataset,
	leaderBoard *logics.LeaderBoard, itemToItem *logics.ItemToItem) *RestServer {
	s := &RestServer{
		Config:      cfg,
		Data:        data,
		LeaderBoard: leaderBoard,
		ItemToItem:  itemToItem,
		WebService:  new(restful.WebService),
	}
	if cfg.Server.RateLimit > 0 {
		s.bucket = ratelimit.NewBucketWithQuantum(time.Second,
			int64(cfg.Server.RateLimit), int64(cfg.Server.RateLimit))
	}
	return s
}

// SetReady marks the server as ready to serve recommendations.
func (s *RestServer) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Serve starts the HTTP server with the HTML pages attached when enabled.
func (s *RestServer) Serve() {
	s.StartHttpServer(s.CreateContainer())
}

// CreateContainer creates a container and registers the HTML pages when enabled.
func (s *RestServer) CreateContainer() *restful.Container {
	container := restful.NewContainer()
	if s.Config.Server.EnableHTML {
		container.Handle("/", http.HandlerFunc(s.indexPage))
		container.Handle("/search", http.HandlerFunc(s.searchPage))
		container.Handle("/book/", http.HandlerFunc(s.bookPage))
		container.Handle("/library", http.HandlerFunc(s.libraryPage))
		container.Handle("/recommend_by_id", http.HandlerFunc(s.recommendByID))
	}
	return container
}

// StartHttpServer starts the REST-ful API server.
func (s *RestServer) StartHttpServer(container *restful.Container) {
	// register restful APIs
	s.CreateWebService()
	container.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	container.Add(restfulspec.NewOpenAPIService(specConfig))
	container.Handle(apiDocsPath, v5emb.New("Biblio", "/apidocs.json", apiDocsPath))
	// register prometheus
	container.Handle("/metrics", promhttp.Handler())

	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s:%d", s.Config.Server.HttpHost, s.Config.Server.HttpPort)))
	s.HttpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.Config.Server.HttpHost, s.Config.Server.HttpPort),
		Handler: container,
	}
	if err := s.HttpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Logger().Fatal("failed to start http server", zap.Error(err))
	}
}

// Shutdown stops the HTTP server gracefully.
func (s *RestServer) Shutdown() {
	if s.HttpServer != nil {
		if err := s.HttpServer.Shutdown(context.TODO()); err != nil {
			log.Logger().Error("failed to shutdown http server", zap.Error(err))
		}
	}
}

// RequestIDFilter attaches a request id to each request and response.
func RequestIDFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	requestID := req.HeaderParameter("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	resp.Header().Set("X-Request-ID", requestID)
	chain.ProcessFilter(req, resp)
}

// LogFilter logs the request and response status.
func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	chain.ProcessFilter(req, resp)
	if req.Request.URL != nil {
		log.ResponseLogger(resp).Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
			zap.Int("status_code", resp.StatusCode()))
	}
}

func (s *RestServer) rateLimitFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	if s.bucket != nil && s.bucket.TakeAvailable(1) == 0 {
		TooManyRequests(resp, errors.New("rate limit exceeded"))
		return
	}
	chain.ProcessFilter(req, resp)
}

func (s *RestServer) auth(request *restful.Request, response *restful.Response) bool {
	if s.Config.Server.APIKey == "" {
		return true
	}
	apikey := request.HeaderParameter("X-API-Key")
	if apikey == s.Config.Server.APIKey {
		return true
	}
	log.ResponseLogger(response).Error("unauthorized",
		zap.String("api_key", s.Config.Server.APIKey),
		zap.String("X-API-Key", apikey))
	if err := response.WriteError(http.StatusUnauthorized, fmt.Errorf("unauthorized")); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
	return false
}

// CreateWebService creates the restful API service.
func (s *RestServer) CreateWebService() {
	// Create a server
	ws := s.WebService
	ws.Path("/api/").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)
	ws.Filter(RequestIDFilter)
	ws.Filter(LogFilter)
	ws.Filter(s.rateLimitFilter)

	// Get top rated books
	ws.Route(ws.GET("/top").To(s.getTopBooks).
		Doc("Get the top rated books.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("n", "number of returned books").DataType("int")).
		Writes([]dataset.Book{}))
	// Search books by title
	ws.Route(ws.GET("/search").To(s.searchBooks).
		Doc("Search books by title.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"book"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.QueryParameter("q", "case insensitive query on book titles").DataType("string")).
		Writes([]dataset.Book{}))
	// Get books
	ws.Route(ws.GET("/books").To(s.getBooks).
		Doc("Get all books.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"book"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Writes([]dataset.Book{}))
	// Get a book
	ws.Route(ws.GET("/book/{book-id}").To(s.getBook).
		Doc("Get a book.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"book"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("book-id", "identifier of the book").DataType("int")).
		Writes(dataset.Book{}))
	// Get neighbors of a book
	ws.Route(ws.GET("/book/{book-id}/neighbors").To(s.getNeighbors).
		Doc("Get neighbors of a book.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommendation"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("book-id", "identifier of the book").DataType("int")).
		Param(ws.QueryParameter("k", "number of returned books").DataType("int")).
		Writes([]dataset.Book{}))
	// Get reviews of a book
	ws.Route(ws.GET("/book/{book-id}/reviews").To(s.getReviews).
		Doc("Get reviews of a book.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"book"}).
		Param(ws.HeaderParameter("X-API-Key", "secret key for RESTful API")).
		Param(ws.PathParameter("book-id", "identifier of the book").DataType("int")).
		Param(ws.QueryParameter("n", "number of returned reviews").DataType("int")).
		Writes([]dataset.Review{}))
	// Probe liveness
	ws.Route(ws.GET("/health/live").To(s.checkLive).
		Doc("Probe the liveness of this node.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(HealthStatus{}))
	// Probe readiness
	ws.Route(ws.GET("/health/ready").To(s.checkReady).
		Doc("Probe the readiness of this node.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(HealthStatus{}))
}

// ParseInt parses integers from the query parameter.
func ParseInt(request *restful.Request, name string, fallback int) (value int, err error) {
	valueString := request.QueryParameter(name)
	value, err = strconv.Atoi(valueString)
	if err != nil && valueString == "" {
		value = fallback
		err = nil
	}
	return
}

func (s *RestServer) getTopBooks(request *restful.Request, response *restful.Response) {
	// authorize
	if !s.auth(request, response) {
		return
	}
	start := time.Now()
	// parse arguments
	n, err := ParseInt(request, "n", defaultTopN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	books, err := s.LeaderBoard.TopN(n)
	if err != nil {
		if errors.Is(err, errors.BadRequest) {
			BadRequest(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	TopBooksSeconds.Observe(time.Since(start).Seconds())
	Ok(response, books)
}

func (s *RestServer) searchBooks(request *restful.Request, response *restful.Response) {
	// authorize
	if !s.auth(request, response) {
		return
	}
	start := time.Now()
	books := s.Data.SearchBooks(request.QueryParameter("q"))
	SearchBooksSeconds.Observe(time.Since(start).Seconds())
	Ok(response, books)
}

func (s *RestServer) getBooks(request *restful.Request, response *restful.Response) {
	// authorize
	if !s.auth(request, response) {
		return
	}
	Ok(response, s.Data.Books())
}

func (s *RestServer) getBook(request *restful.Request, response *restful.Response) {
	// authorize
	if !s.auth(request, response) {
		return
	}
	start := time.Now()
	// parse arguments
	id, err := util.ParseInt[int32](request.PathParameter("book-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	book, err := s.Data.GetBook(id)
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	GetBookSeconds.Observe(time.Since(start).Seconds())
	Ok(response, book)
}

func (s *RestServer) getNeighbors(request *restful.Request, response *restful.Response) {
	// authorize
	if !s.auth(request, response) {
		return
	}
	start := time.Now()
	// parse arguments
	id, err := util.ParseInt[int32](request.PathParameter("book-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	k, err := ParseInt(request, "k", defaultNeighbors)
	if err != nil {
		BadRequest(response, err)
		return
	}
	books, err := s.ItemToItem.SimilarTo(id, k)
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			PageNotFound(response, err)
		} else if errors.Is(err, errors.BadRequest) {
			BadRequest(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	GetNeighborsSeconds.Observe(time.Since(start).Seconds())
	Ok(response, books)
}

func (s *RestServer) getReviews(request *restful.Request, response *restful.Response) {
	// authorize
	if !s.auth(request, response) {
		return
	}
	start := time.Now()
	// parse arguments
	id, err := util.ParseInt[int32](request.PathParameter("book-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := ParseInt(request, "n", defaultReviews)
	if err != nil {
		BadRequest(response, err)
		return
	}
	book, err := s.Data.GetBook(id)
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			PageNotFound(response, err)
		} else {
			InternalServerError(response, err)
		}
		return
	}
	GetReviewsSeconds.Observe(time.Since(start).Seconds())
	Ok(response, s.Data.GetReviews(book.Title, n))
}

// HealthStatus is the health status of the server.
type HealthStatus struct {
	Ready         bool
	DatasetLoaded bool
	NumBooks      int
	NumReviews    int
}

func (s *RestServer) checkHealth() HealthStatus {
	healthStatus := HealthStatus{
		Ready:         s.ready.Load(),
		DatasetLoaded: s.Data != nil,
	}
	if s.Data != nil {
		healthStatus.NumBooks = s.Data.CountBooks()
		healthStatus.NumReviews = s.Data.CountReviews()
	}
	return healthStatus
}

func (s *RestServer) checkLive(_ *restful.Request, response *restful.Response) {
	Ok(response, s.checkHealth())
}

func (s *RestServer) checkReady(_ *restful.Request, response *restful.Response) {
	healthStatus := s.checkHealth()
	if healthStatus.Ready {
		Ok(response, healthStatus)
		return
	}
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteHeaderAndJson(http.StatusServiceUnavailable, healthStatus, restful.MIME_JSON); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error.
func InternalServerError(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// PageNotFound returns a not found error.
func PageNotFound(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("page not found", zap.Error(err))
	if err = response.WriteError(http.StatusNotFound, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// TooManyRequests returns a too many requests error.
func TooManyRequests(response *restful.Response, err error) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	log.ResponseLogger(response).Error("too many requests", zap.Error(err))
	if err = response.WriteError(http.StatusTooManyRequests, err); err != nil {
		log.ResponseLogger(response).Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	response.Header().Set("Access-Control-Allow-Origin", "*")
	if err := response.WriteAsJson(content); err != nil {
		log.ResponseLogger(response).Error("failed to write json", zap.Error(err))
	}
}
