// Copyright 2021-2023
// SPDX-License-Identifier: Apache-2.0
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

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	json "github.com/goccy/go-json"

	"github.com/SDFIdk/stac-fastapi/backend/pgstac"
	"github.com/SDFIdk/stac-fastapi/common"
	"github.com/SDFIdk/stac-fastapi/core"
	"github.com/SDFIdk/stac-fastapi/database"
	"github.com/SDFIdk/stac-fastapi/extension"
	"github.com/SDFIdk/stac-fastapi/handler"
	"github.com/SDFIdk/stac-fastapi/middleware"
	"github.com/SDFIdk/stac-fastapi/router"
	"github.com/SDFIdk/stac-fastapi/stac"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stac-fastapi",
	Short: "Serve STAC API v" + stac.Version,
	Long:  `stac-fastapi implements a ` + stac.Version + ` compliant STAC api backed by a pgstac database`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		common.SetupLogging()
		log.Info().Msg("initialized logging")

		// try connecting to the database early so we fail fast if
		// we cannot connect to the database
		pool := database.GetInstance(ctx)
		defer pool.Close()
		log.Info().Msg("successfully connected to database")

		backend := pgstac.New(ctx)

		extensions, err := extension.FromNames(viper.GetStringSlice("stac.extensions"))
		if err != nil {
			log.Fatal().Err(err).Msg("invalid extension configuration")
		}
		registry := core.NewRegistry(stac.BaseConformanceClasses, extensions...)

		cfg := handler.Config{
			Client:   backend,
			Filters:  backend,
			Health:   backend,
			Registry: registry,
			Catalog: core.CatalogMeta{
				ID:          viper.GetString("stac.catalog.id"),
				Title:       viper.GetString("stac.catalog.title"),
				Description: viper.GetString("stac.catalog.description"),
			},
		}
		if registry.ExtensionIsEnabled(extension.Transaction) {
			cfg.Transactions = backend
		}

		// request models are composed here, once; a bad extension set
		// kills the process before it serves a single request
		api, err := handler.New(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to compose request models")
		}

		// Create new Fiber instance
		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			err := app.ShutdownWithTimeout(time.Second * 5)
			if err != nil {
				log.Fatal().Err(err).Msg("app shutdown failed")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Accept, Accept-Encoding, Accept-Language, Authorization, Cache-Control, Content-Length, Content-Type, Forwarded, Host, Origin, Referer, User-Agent, X-Forwarded-Host, X-Forwarded-Path, X-Forwarded-Port, X-Forwarded-Prefix, X-Forwarded-Proto, X-Requested-With",
			AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		}
		app.Use(cors.New(corsConfig))

		// configure caching
		app.Use(cache.New(cache.Config{
			Next: func(c *fiber.Ctx) bool {
				return c.Query("refresh") == "true" || c.Method() != fiber.MethodGet
			},
			Expiration:   30 * time.Minute,
			CacheControl: true,
		}))

		// compression
		app.Use(compress.New(compress.Config{
			Level: compress.LevelBestSpeed, // 1
		}))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Add timing headers
		app.Use(middleware.Timer())

		// resolve the externally visible base URL from proxy headers
		app.Use(middleware.ProxyHeaders())

		prometheus := fiberprometheus.New("stac-fastapi")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)

		// Setup routes
		router.SetupRoutes(app, api)

		err = app.Listen(":" + viper.GetString("server.port"))
		if err != nil {
			log.Fatal().Err(err).Msg("app.Listen returned an error")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stac-fastapi.toml)")

	// server flags

	if err := viper.BindEnv("server.port", "PORT"); err != nil {
		log.Panic().Err(err).Msg("could not bind PORT")
	}
	rootCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	if err := viper.BindPFlag("server.port", rootCmd.Flags().Lookup("port")); err != nil {
		log.Panic().Err(err).Msg("could not bind port")
	}

	// Logging configuration
	if err := viper.BindEnv("log.level", "LOG_LEVEL"); err != nil {
		log.Panic().Err(err).Msg("could not bind LOG_LEVEL")
	}
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	if err := viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		log.Panic().Err(err).Msg("could not bind log-level")
	}

	if err := viper.BindEnv("log.report_caller", "LOG_REPORT_CALLER"); err != nil {
		log.Panic().Err(err).Msg("could not bind LOG_REPORT_CALLER")
	}
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	if err := viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller")); err != nil {
		log.Panic().Err(err).Msg("could not bind log-report-caller")
	}

	if err := viper.BindEnv("log.output", "LOG_OUTPUT"); err != nil {
		log.Panic().Err(err).Msg("could not bind LOG_OUTPUT")
	}
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	if err := viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output")); err != nil {
		log.Panic().Err(err).Msg("could not bind log-output")
	}

	// database
	if err := viper.BindEnv("database.dsn", "DSN"); err != nil {
		log.Panic().Err(err).Msg("could not bind DSN")
	}
	rootCmd.PersistentFlags().String("dsn", "", "PostgreSQL connection string")
	if err := viper.BindPFlag("database.dsn", rootCmd.PersistentFlags().Lookup("dsn")); err != nil {
		log.Panic().Err(err).Msg("could not bind database.dsn")
	}

	// catalog identity and enabled extensions
	if err := viper.BindEnv("stac.catalog.id", "CATALOG_ID"); err != nil {
		log.Panic().Err(err).Msg("could not bind CATALOG_ID")
	}
	rootCmd.PersistentFlags().String("catalog-id", "stac-fastapi", "Catalog identifier advertised on the landing page")
	if err := viper.BindPFlag("stac.catalog.id", rootCmd.PersistentFlags().Lookup("catalog-id")); err != nil {
		log.Panic().Err(err).Msg("could not bind stac.catalog.id")
	}

	if err := viper.BindEnv("stac.catalog.title", "CATALOG_TITLE"); err != nil {
		log.Panic().Err(err).Msg("could not bind CATALOG_TITLE")
	}
	rootCmd.PersistentFlags().String("catalog-title", "stac-fastapi", "Catalog title")
	if err := viper.BindPFlag("stac.catalog.title", rootCmd.PersistentFlags().Lookup("catalog-title")); err != nil {
		log.Panic().Err(err).Msg("could not bind stac.catalog.title")
	}

	if err := viper.BindEnv("stac.catalog.description", "CATALOG_DESCRIPTION"); err != nil {
		log.Panic().Err(err).Msg("could not bind CATALOG_DESCRIPTION")
	}
	rootCmd.PersistentFlags().String("catalog-description", "STAC API served from a pgstac database", "Catalog description")
	if err := viper.BindPFlag("stac.catalog.description", rootCmd.PersistentFlags().Lookup("catalog-description")); err != nil {
		log.Panic().Err(err).Msg("could not bind stac.catalog.description")
	}

	rootCmd.PersistentFlags().StringSlice("extensions",
		[]string{extension.Filter, extension.Crs, extension.TokenPagination, extension.Transaction},
		"Enabled STAC API extensions")
	if err := viper.BindPFlag("stac.extensions", rootCmd.PersistentFlags().Lookup("extensions")); err != nil {
		log.Panic().Err(err).Msg("could not bind stac.extensions")
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name "stac-fastapi.toml"
		viper.AddConfigPath("/etc/")
		viper.AddConfigPath(fmt.Sprintf("%s/.config", home))
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("stac-fastapi.toml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFile", viper.ConfigFileUsed()).Msg("Loaded config file")
	} else {
		log.Warn().Err(err).Msg("no config file loaded; using flags and environment")
	}
}
