// Package integrationtest provides store helpers used in integration tests.
//
// The helpers read the same configuration as the server and skip the test when the
// store they need is not configured.
package integrationtest

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/Jaza/copernicus-api/pkg/configpkg"
	"github.com/Jaza/copernicus-api/pkg/dbpkg"
	"github.com/Jaza/copernicus-api/pkg/randompkg"
)

const tableWait = time.Minute

// LoadConfig loads configuration from the repository configs directory and environment.
func LoadConfig(t *testing.T) configpkg.Config {
	t.Helper()

	config, err := configpkg.Load("../../configs")
	if err != nil {
		t.Fatalf(`configpkg.Load("../../configs") returned error: %v`, err)
	}

	return config
}

// SetupDynamoTable creates a fresh accounts table on DynamoDB Local.
//
// The table is named after the test and dropped once the test is done.
func SetupDynamoTable(t *testing.T) (*dynamodb.Client, string) {
	t.Helper()

	config := LoadConfig(t)
	if config.DynamoDBLocalEndpoint == "" {
		t.Skip("DYNAMODB_LOCAL_ENDPOINT is not set")
	}

	ctx := context.Background()

	client, err := dbpkg.SetupDynamoDB(ctx, config.AWSRegion, config.DynamoDBLocalEndpoint)
	if err != nil {
		t.Fatalf("dbpkg.SetupDynamoDB returned error: %v", err)
	}

	table := tableName(t)

	if err := dbpkg.CreateAccountsTable(ctx, client, table, tableWait); err != nil {
		t.Fatalf("dbpkg.CreateAccountsTable(%q) returned error: %v", table, err)
	}

	t.Cleanup(func() {
		_, err := client.DeleteTable(context.Background(), &dynamodb.DeleteTableInput{
			TableName: aws.String(table),
		})
		if err != nil {
			t.Errorf("table %s cleanup failed. err: %v", table, err)
		}
	})

	return client, table
}

// SetupDB connects to postgres and makes sure the accounts table exists.
//
// Once the test is done the table is flushed and the connection closed.
func SetupDB(t *testing.T) *sql.DB {
	t.Helper()

	config := LoadConfig(t)
	if config.DBSource == "" {
		t.Skip("DB_SOURCE is not set")
	}

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		t.Fatalf("db initialization failed. err: %v", err)
	}

	if err := dbpkg.CreateAccountsSchema(context.Background(), db); err != nil {
		t.Fatalf("dbpkg.CreateAccountsSchema returned error: %v", err)
	}

	t.Cleanup(func() {
		if _, err := db.Exec("TRUNCATE TABLE accounts"); err != nil {
			t.Errorf("db cleanup failed. err: %v", err)
		}

		if err := db.Close(); err != nil {
			t.Errorf("db.Close() failed: %v", err)
		}
	})

	return db
}

func tableName(t *testing.T) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())

	return "Test" + name + "_" + randompkg.String(6)
}
