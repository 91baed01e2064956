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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type BiblioClient struct {
	entryPoint string
	apiKey     string
	httpClient http.Client
}

func NewBiblioClient(EntryPoint, ApiKey string) *BiblioClient {
	return &BiblioClient{
		entryPoint: EntryPoint,
		apiKey:     ApiKey,
	}
}

func (c *BiblioClient) TopBooks(n int) ([]Book, error) {
	return request[[]Book](c, fmt.Sprintf("/api/top?n=%d", n))
}

func (c *BiblioClient) SearchBooks(query string) ([]Book, error) {
	return request[[]Book](c, "/api/search?q="+url.QueryEscape(query))
}

func (c *BiblioClient) ListBooks() ([]Book, error) {
	return request[[]Book](c, "/api/books")
}

func (c *BiblioClient) GetBook(bookId int32) (Book, error) {
	return request[Book](c, fmt.Sprintf("/api/book/%d", bookId))
}

func (c *BiblioClient) GetNeighbors(bookId int32, k int) ([]Book, error) {
	return request[[]Book](c, fmt.Sprintf("/api/book/%d/neighbors?k=%d", bookId, k))
}

func (c *BiblioClient) GetReviews(bookId int32, n int) ([]Review, error) {
	return request[[]Review](c, fmt.Sprintf("/api/book/%d/reviews?n=%d", bookId, n))
}

func request[Response any](c *BiblioClient, path string) (result Response, err error) {
	req, err := http.NewRequest("GET", c.entryPoint+path, nil)
	if err != nil {
		return result, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, err
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	_, err = io.Copy(buf, resp.Body)
	if err != nil {
		return result, err
	}
	if resp.StatusCode != http.StatusOK {
		return result, ErrorMessage(buf.String())
	}
	err = json.Unmarshal([]byte(buf.String()), &result)
	if err != nil {
		return result, err
	}
	return result, nil
}
