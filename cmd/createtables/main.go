// Command createtables provisions the accounts table of the configured store.
package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Jaza/copernicus-api/internal/middleware"
	"github.com/Jaza/copernicus-api/pkg/configpkg"
	"github.com/Jaza/copernicus-api/pkg/dbpkg"

	_ "github.com/lib/pq"
)

const tableWait = 2 * time.Minute

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)
	ctx := context.Background()

	switch config.StoreDriver {
	case configpkg.StoreDynamoDB:
		client, err := dbpkg.SetupDynamoDB(ctx, config.AWSRegion, config.DynamoDBLocalEndpoint)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot create dynamodb client")
		}

		err = dbpkg.CreateAccountsTable(ctx, client, config.DynamoDBTableNameAccounts, tableWait)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot create accounts table")
		}

		logger.Info().Str("table", config.DynamoDBTableNameAccounts).Msg("accounts table is ready")

	case configpkg.StorePostgres:
		db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to database")
		}
		defer db.Close()

		if err := dbpkg.CreateAccountsSchema(ctx, db); err != nil {
			logger.Fatal().Err(err).Msg("cannot create accounts table")
		}

		logger.Info().Msg("accounts table is ready")

	default:
		logger.Info().Str("store", config.StoreDriver).Msg("nothing to provision")
	}
}
