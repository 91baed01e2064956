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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/biblio-io/biblio/base/log"
	"github.com/biblio-io/biblio/cmd/version"
	"github.com/biblio-io/biblio/config"
	"github.com/biblio-io/biblio/dataset"
	"github.com/biblio-io/biblio/logics"
	"github.com/biblio-io/biblio/server"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var biblioCommand = &cobra.Command{
	Use:   "biblio",
	Short: "The book recommender system.",
	Run: func(cmd *cobra.Command, args []string) {
		// Show version
		if showVersion, _ := cmd.PersistentFlags().GetBool("version"); showVersion {
			fmt.Println(version.BuildInfo())
			return
		}

		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.Error(err))
		}

		// load dataset
		data, err := dataset.LoadDataset(conf.Data.BooksFile, conf.Data.RatingsFile)
		if err != nil {
			log.Logger().Fatal("failed to load dataset", zap.Error(err))
		}
		table := tablewriter.NewTable(os.Stdout)
		table.Header("books", "reviews", "terms")
		if err = table.Append(
			strconv.Itoa(data.CountBooks()),
			strconv.Itoa(data.CountReviews()),
			strconv.Itoa(data.CountTerms())); err != nil {
			log.Logger().Error("failed to print dataset", zap.Error(err))
		} else if err = table.Render(); err != nil {
			log.Logger().Error("failed to print dataset", zap.Error(err))
		}

		// create recommenders
		leaderBoard, err := logics.NewLeaderBoard(data, conf.Recommend.ScoreExpr, conf.Recommend.FilterExpr)
		if err != nil {
			log.Logger().Fatal("failed to create leaderboard", zap.Error(err))
		}
		itemToItem, err := logics.NewItemToItem(data, conf.Recommend.CacheSize,
			conf.Recommend.CacheExpire, conf.Recommend.PrecomputeThreshold)
		if err != nil {
			log.Logger().Fatal("failed to create item-to-item recommender", zap.Error(err))
		}
		if itemToItem.Precomputed() {
			bar := progressbar.Default(int64(data.CountBooks()), "precompute neighbors")
			if err = itemToItem.Precompute(context.Background(), conf.Recommend.Jobs, func(completed int) {
				_ = bar.Set(completed)
			}); err != nil {
				log.Logger().Fatal("failed to precompute neighbors", zap.Error(err))
			}
			_ = bar.Finish()
		}

		// create server
		s := server.NewRestServer(conf, data, leaderBoard, itemToItem)
		s.SetReady(true)
		// Stop server
		done := make(chan struct{})
		go func() {
			sigint := make(chan os.Signal, 1)
			signal.Notify(sigint, os.Interrupt)
			<-sigint
			s.Shutdown()
			close(done)
		}()
		// Start server
		s.Serve()
		<-done
		log.Logger().Info("stop biblio successfully")
	},
}

func init() {
	log.AddFlags(biblioCommand.PersistentFlags())
	biblioCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	biblioCommand.PersistentFlags().BoolP("version", "v", false, "biblio version")
	biblioCommand.PersistentFlags().StringP("config", "c", "config.toml", "configuration file path")
}

func main() {
	if err := biblioCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute", zap.Error(err))
	}
}
