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
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of the biblio service.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Server    ServerConfig    `mapstructure:"server"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// DataConfig is the configuration of the dataset files.
type DataConfig struct {
	// BooksFile is the path to the book catalog.
	BooksFile string `mapstructure:"books_file"`
	// RatingsFile is the path to the review table.
	RatingsFile string `mapstructure:"ratings_file"`
}

// ServerConfig is the configuration of the HTTP server.
type ServerConfig struct {
	// HttpHost is the host of the HTTP server.
	HttpHost string `mapstructure:"http_host"`
	// HttpPort is the port of the HTTP server.
	HttpPort int `mapstructure:"http_port" validate:"gte=0"`
	// APIKey is the secret key for the RESTful API. Authorization is disabled
	// when the key is empty.
	APIKey string `mapstructure:"api_key"`
	// RateLimit is the maximum number of requests per second. Zero disables
	// rate limiting.
	RateLimit int `mapstructure:"rate_limit" validate:"gte=0"`
	// EnableHTML enables the HTML pages next to the RESTful API.
	EnableHTML bool `mapstructure:"enable_html"`
}

// RecommendConfig is the configuration of recommendation behaviors.
type RecommendConfig struct {
	// ScoreExpr is the expression used to score books on the leaderboard.
	ScoreExpr string `mapstructure:"score_expr"`
	// FilterExpr is the expression used to filter books on the leaderboard.
	// An empty expression keeps every book.
	FilterExpr string `mapstructure:"filter_expr"`
	// CacheSize is the number of neighbors cached per book.
	CacheSize int `mapstructure:"cache_size" validate:"gt=0"`
	// CacheExpire is the lifetime of lazily computed neighbors.
	CacheExpire time.Duration `mapstructure:"cache_expire" validate:"gt=0"`
	// PrecomputeThreshold is the maximum number of books for which neighbors
	// are computed eagerly at startup. Larger datasets fall back to lazy
	// computation with caching.
	PrecomputeThreshold int `mapstructure:"precompute_threshold" validate:"gte=0"`
	// Jobs is the number of concurrent workers used to precompute neighbors.
	Jobs int `mapstructure:"jobs" validate:"gt=0"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			BooksFile:   "books.csv",
			RatingsFile: "ratings.csv",
		},
		Server: ServerConfig{
			HttpHost:   "0.0.0.0",
			HttpPort:   8088,
			EnableHTML: true,
		},
		Recommend: RecommendConfig{
			ScoreExpr:           "book.Rating",
			CacheSize:           10,
			CacheExpire:         10 * time.Minute,
			PrecomputeThreshold: 5000,
			Jobs:                runtime.NumCPU(),
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [data]
	viper.SetDefault("data.books_file", defaultConfig.Data.BooksFile)
	viper.SetDefault("data.ratings_file", defaultConfig.Data.RatingsFile)
	// [server]
	viper.SetDefault("server.http_host", defaultConfig.Server.HttpHost)
	viper.SetDefault("server.http_port", defaultConfig.Server.HttpPort)
	viper.SetDefault("server.api_key", defaultConfig.Server.APIKey)
	viper.SetDefault("server.rate_limit", defaultConfig.Server.RateLimit)
	viper.SetDefault("server.enable_html", defaultConfig.Server.EnableHTML)
	// [recommend]
	viper.SetDefault("recommend.score_expr", defaultConfig.Recommend.ScoreExpr)
	viper.SetDefault("recommend.filter_expr", defaultConfig.Recommend.FilterExpr)
	viper.SetDefault("recommend.cache_size", defaultConfig.Recommend.CacheSize)
	viper.SetDefault("recommend.cache_expire", defaultConfig.Recommend.CacheExpire)
	viper.SetDefault("recommend.precompute_threshold", defaultConfig.Recommend.PrecomputeThreshold)
	viper.SetDefault("recommend.jobs", defaultConfig.Recommend.Jobs)
}

type configBinding struct {
	key string
	env string
}

// LoadConfig loads the configuration from a TOML file. Values fall back to
// defaults and can be overridden by environment variables.
func LoadConfig(path string) (*Config, error) {
	setDefault()

	// bind environment variables
	bindings := []configBinding{
		{"data.books_file", "BIBLIO_BOOKS_FILE"},
		{"data.ratings_file", "BIBLIO_RATINGS_FILE"},
		{"server.http_host", "BIBLIO_SERVER_HTTP_HOST"},
		{"server.http_port", "BIBLIO_SERVER_HTTP_PORT"},
		{"server.api_key", "BIBLIO_SERVER_API_KEY"},
		{"server.rate_limit", "BIBLIO_SERVER_RATE_LIMIT"},
		{"server.enable_html", "BIBLIO_SERVER_ENABLE_HTML"},
		{"recommend.jobs", "BIBLIO_RECOMMEND_JOBS"},
	}
	for _, binding := range bindings {
		if err := viper.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}

	// load config file
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}

	// unmarshal config file
	var conf Config
	if err := viper.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}

	// validate config file
	if err := validator.New().Struct(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
