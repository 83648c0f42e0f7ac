package dbpkg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Placeholder credentials and region DynamoDB Local accepts.
const (
	localAccessKeyID     = "foo"
	localSecretAccessKey = "moo"
	localRegion          = "foo"
)

// DynamoDBAPI provides neccessary DynamoDB methods to read and write items.
//
//go:generate mockgen -source dynamo.go -destination dynamo_mock.go -package dbpkg
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// TableAPI provides DynamoDB methods needed to provision tables.
type TableAPI interface {
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// SetupDynamoDB builds a DynamoDB client.
//
// A non-empty localEndpoint points the client at DynamoDB Local with placeholder credentials.
func SetupDynamoDB(ctx context.Context, region, localEndpoint string) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	if localEndpoint != "" {
		creds := credentials.NewStaticCredentialsProvider(localAccessKeyID, localSecretAccessKey, "")
		opts = append(opts,
			awsconfig.WithRegion(localRegion),
			awsconfig.WithCredentialsProvider(creds),
		)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if localEndpoint != "" {
			o.BaseEndpoint = aws.String(localEndpoint)
		}
	})

	return client, nil
}

// PingDynamoDB checks that the table is reachable.
func PingDynamoDB(ctx context.Context, db DynamoDBAPI, table string) error {
	_, err := db.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return fmt.Errorf("describe table %s: %w", table, err)
	}

	return nil
}

// CreateAccountsTable creates the accounts table and waits until it becomes active.
//
// The table is partitioned by externalUserId and sorted by id. An existing table is left as is.
func CreateAccountsTable(ctx context.Context, db TableAPI, table string, wait time.Duration) error {
	_, err := db.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(table),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("externalUserId"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("externalUserId"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(1),
			WriteCapacityUnits: aws.Int64(1),
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if errors.As(err, &inUse) {
			return nil
		}

		return fmt.Errorf("create table %s: %w", table, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(db)

	err = waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, wait)
	if err != nil {
		return fmt.Errorf("wait for table %s: %w", table, err)
	}

	return nil
}
