// Package copernicus serves the mock banking accounts API.
//
//	@title						Copernicus
//	@version					0.1.0
//	@description				A fake banking API that's designed to be used in place of the Galileo API for testing purposes.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Jaza/copernicus-api/cmd/httpserver"
	"github.com/Jaza/copernicus-api/internal/accountrepo"
	"github.com/Jaza/copernicus-api/internal/accountservice"
	"github.com/Jaza/copernicus-api/internal/middleware"
	"github.com/Jaza/copernicus-api/pkg/configpkg"
	"github.com/Jaza/copernicus-api/pkg/dbpkg"
	"github.com/Jaza/copernicus-api/pkg/errorspkg"

	_ "github.com/lib/pq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	gin.SetMode(gin.ReleaseMode)
	if config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	}

	logger := middleware.CreateLogger(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	accountRepo, closeRepo, err := newAccountRepo(ctx, config, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("store", config.StoreDriver).Msg("cannot set up account store")
	}
	defer closeRepo()

	server, err := httpserver.New(accountRepo, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("address", srv.Addr).Str("store", config.StoreDriver).Msg("COPERNICUS SERVER HAS STARTED")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("cannot start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
}

// newAccountRepo connects the account store selected by STORE_DRIVER.
// The returned func releases its connections.
func newAccountRepo(ctx context.Context, config configpkg.Config, logger zerolog.Logger) (accountservice.Repo, func(), error) {
	noop := func() {}

	switch config.StoreDriver {
	case configpkg.StoreDynamoDB:
		client, err := dbpkg.SetupDynamoDB(ctx, config.AWSRegion, config.DynamoDBLocalEndpoint)
		if err != nil {
			return nil, noop, err
		}

		if err := dbpkg.PingDynamoDB(ctx, client, config.DynamoDBTableNameAccounts); err != nil {
			return nil, noop, err
		}

		return accountrepo.NewRepoDynamo(client, config.DynamoDBTableNameAccounts), noop, nil

	case configpkg.StorePostgres:
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			return nil, noop, fmt.Errorf("cannot connect to database: %w", err)
		}

		closeDB := func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("cannot close database")
			}
		}

		return accountrepo.NewRepoPGS(db), closeDB, nil

	case configpkg.StoreMemory:
		logger.Warn().Msg("accounts are kept in memory and lost on restart")

		return accountrepo.NewRepoMemory(), noop, nil

	default:
		return nil, noop, fmt.Errorf("%w: %q", errorspkg.ErrUnknownStoreDriver, config.StoreDriver)
	}
}
