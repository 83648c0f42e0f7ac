package accountrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/Jaza/copernicus-api/internal/domain"
	"github.com/Jaza/copernicus-api/pkg/dbpkg"
)

// Item attribute names.
const (
	attrExternalUserID = "externalUserId"
	attrID             = "id"
	attrStatus         = "status"
)

// RepoDynamo facilitates account repository layer logic on top of a DynamoDB table.
type RepoDynamo struct {
	db    dbpkg.DynamoDBAPI
	table string
}

// NewRepoDynamo returns account RepoDynamo working with the given table.
func NewRepoDynamo(db dbpkg.DynamoDBAPI, table string) *RepoDynamo {
	return &RepoDynamo{
		db:    db,
		table: table,
	}
}

func itemKey(externalUserID, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrExternalUserID: &types.AttributeValueMemberS{Value: externalUserID},
		attrID:             &types.AttributeValueMemberS{Value: id},
	}
}

func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// List returns all non deleted accounts in the external user partition.
func (r *RepoDynamo) List(ctx context.Context, externalUserID string) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	keyCond := expression.Key(attrExternalUserID).Equal(expression.Value(externalUserID))
	filter := expression.Name(attrStatus).NotEqual(expression.Value(domain.StatusDeleted))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).WithFilter(filter).Build()
	if err != nil {
		return nil, fmt.Errorf("build list expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	accounts := []domain.Account{}

	for {
		out, err := r.db.Query(ctx, input)
		if err != nil {
			l.Error().Err(err).Str("external_user_id", externalUserID).Msg("query accounts")
			return nil, fmt.Errorf("query accounts: %w", err)
		}

		var page []domain.Account
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal accounts: %w", err)
		}

		accounts = append(accounts, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}

		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	return accounts, nil
}

// Get returns the account unless it is absent or soft deleted.
func (r *RepoDynamo) Get(ctx context.Context, externalUserID, id string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	out, err := r.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.table),
		Key:            itemKey(externalUserID, id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		l.Error().Err(err).Str("external_user_id", externalUserID).Str("id", id).Msg("get account")
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	if len(out.Item) == 0 {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return domain.Account{}, fmt.Errorf("unmarshal account: %w", err)
	}

	if a.Status == domain.StatusDeleted {
		return domain.Account{}, domain.ErrAccountNotFound
	}

	return a, nil
}

// Create puts the account unless its id is already taken in the partition.
func (r *RepoDynamo) Create(ctx context.Context, account domain.Account) error {
	l := zerolog.Ctx(ctx)

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name(attrID))

	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build create expression: %w", err)
	}

	_, err = r.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAccountAlreadyExists
		}

		l.Error().Err(err).Str("external_user_id", account.ExternalUserID).Str("id", account.ID).Msg("put account")

		return fmt.Errorf("put account: %w", err)
	}

	return nil
}

// UpdateStatus moves an existing non deleted account to a different status.
func (r *RepoDynamo) UpdateStatus(ctx context.Context, externalUserID, id, status string) error {
	return r.setStatus(ctx, externalUserID, id, status)
}

// Delete marks an existing non deleted account as deleted.
func (r *RepoDynamo) Delete(ctx context.Context, externalUserID, id string) error {
	return r.setStatus(ctx, externalUserID, id, domain.StatusDeleted)
}

// setStatus is a single conditional write: the item must exist, must not be deleted and
// must not already hold the requested status. DynamoDB evaluates the checks atomically with
// the update, so of two racing changes to the same status only one succeeds.
func (r *RepoDynamo) setStatus(ctx context.Context, externalUserID, id, status string) error {
	l := zerolog.Ctx(ctx)

	cond := expression.AttributeExists(expression.Name(attrExternalUserID)).And(
		expression.AttributeExists(expression.Name(attrID)),
		expression.Name(attrStatus).NotEqual(expression.Value(domain.StatusDeleted)),
	)
	if status != domain.StatusDeleted {
		cond = cond.And(expression.Name(attrStatus).NotEqual(expression.Value(status)))
	}
	update := expression.Set(expression.Name(attrStatus), expression.Value(status))

	expr, err := expression.NewBuilder().WithCondition(cond).WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("build update expression: %w", err)
	}

	_, err = r.db.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       itemKey(externalUserID, id),
		ConditionExpression:       expr.Condition(),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return domain.ErrAccountNotFound
		}

		l.Error().Err(err).Str("external_user_id", externalUserID).Str("id", id).Msg("update account status")

		return fmt.Errorf("update account status: %w", err)
	}

	return nil
}
