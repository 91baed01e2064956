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

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestUnmarshal(t *testing.T) {
	data, err := os.ReadFile("config.toml.template")
	assert.NoError(t, err)
	text := string(data)
	text = strings.Replace(text, "api_key = \"\"", "api_key = \"19260817\"", -1)
	text = strings.Replace(text, "filter_expr = \"\"", "filter_expr = \"book.ReviewCount > 0\"", -1)
	viper.SetConfigType("toml")
	err = viper.ReadConfig(strings.NewReader(text))
	assert.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	assert.NoError(t, err)

	// [data]
	assert.Equal(t, "books.csv", config.Data.BooksFile)
	assert.Equal(t, "ratings.csv", config.Data.RatingsFile)
	// [server]
	assert.Equal(t, "0.0.0.0", config.Server.HttpHost)
	assert.Equal(t, 8088, config.Server.HttpPort)
	assert.Equal(t, "19260817", config.Server.APIKey)
	assert.Equal(t, 0, config.Server.RateLimit)
	assert.True(t, config.Server.EnableHTML)
	// [recommend]
	assert.Equal(t, "book.Rating", config.Recommend.ScoreExpr)
	assert.Equal(t, "book.ReviewCount > 0", config.Recommend.FilterExpr)
	assert.Equal(t, 10, config.Recommend.CacheSize)
	assert.Equal(t, 10*time.Minute, config.Recommend.CacheExpire)
	assert.Equal(t, 5000, config.Recommend.PrecomputeThreshold)
}

func TestSetDefault(t *testing.T) {
	setDefault()
	err := viper.ReadConfig(strings.NewReader(""))
	assert.NoError(t, err)
	var config Config
	err = viper.Unmarshal(&config)
	assert.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), &config)
}

type environmentVariable struct {
	key   string
	value string
}

func TestBindEnv(t *testing.T) {
	variables := []environmentVariable{
		{"BIBLIO_BOOKS_FILE", "<books_file>"},
		{"BIBLIO_RATINGS_FILE", "<ratings_file>"},
		{"BIBLIO_SERVER_HTTP_HOST", "<server_http_host>"},
		{"BIBLIO_SERVER_HTTP_PORT", "123"},
		{"BIBLIO_SERVER_API_KEY", "<server_api_key>"},
		{"BIBLIO_SERVER_RATE_LIMIT", "16"},
		{"BIBLIO_RECOMMEND_JOBS", "789"},
	}
	for _, variable := range variables {
		t.Setenv(variable.key, variable.value)
	}

	config, err := LoadConfig("config.toml.template")
	assert.NoError(t, err)
	assert.Equal(t, "<books_file>", config.Data.BooksFile)
	assert.Equal(t, "<ratings_file>", config.Data.RatingsFile)
	assert.Equal(t, "<server_http_host>", config.Server.HttpHost)
	assert.Equal(t, 123, config.Server.HttpPort)
	assert.Equal(t, "<server_api_key>", config.Server.APIKey)
	assert.Equal(t, 16, config.Server.RateLimit)
	assert.Equal(t, 789, config.Recommend.Jobs)

	// check default values
	assert.Equal(t, 10, config.Recommend.CacheSize)
	assert.Equal(t, 10*time.Minute, config.Recommend.CacheExpire)
}

func TestLoadConfigError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte("[recommend]\ncache_size = -1\n"), 0644)
	assert.NoError(t, err)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
