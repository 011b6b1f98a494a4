package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/exceptions"
)

// DynamoDBAPI is the subset of *dynamodb.Client the repositories use.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type RepositoryDynamoDBService[T interface{}, I interface{}] struct {
	DynamoDB  DynamoDBAPI
	TableName string
	Name      string
	Shim      func(pk string, sk string) T
	OnCreate  func(I, time.Time, string, string) T
	OnUpdate  func(I, expression.UpdateBuilder) expression.UpdateBuilder
	Clock     func() time.Time
}

func (rs *RepositoryDynamoDBService[T, I]) _now() time.Time {
	if rs.Clock != nil {
		return rs.Clock()
	}
	return time.Now()
}

func PrimaryKey(accountId string, name string) string {
	return fmt.Sprintf("%s:%s", accountId, name)
}

func _getKey(pks string, sks string) (map[string]types.AttributeValue, error) {
	pk, err := attributevalue.Marshal(pks)
	if err != nil {
		return nil, err
	}
	sk, err := attributevalue.Marshal(sks)
	if err != nil {
		return nil, err
	}
	return map[string]types.AttributeValue{"PK": pk, "SK": sk}, nil
}

func IsConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func (rs *RepositoryDynamoDBService[T, I]) List(ctx context.Context, accountId string, params data.QueryParams) (data.QueryResults[T], error) {
	keyEx := expression.Key("PK").Equal(expression.Value(PrimaryKey(accountId, rs.Name)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyEx).Build()
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	var items []T
	output, err := rs.DynamoDB.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(rs.TableName),
		Limit:                     params.GetLimit(),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ExclusiveStartKey:         params.StartKey,
	})
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	err = attributevalue.UnmarshalListOfMaps(output.Items, &items)
	if err != nil {
		return data.QueryResults[T]{}, err
	}
	return data.QueryResults[T]{
		Items:   items,
		LastKey: output.LastEvaluatedKey,
	}, nil
}

// CreateWithItemId is a conditional put: the (PK, SK) pair is the uniqueness
// constraint, and an existing item yields a ConflictError without mutation.
func (rs *RepositoryDynamoDBService[T, I]) CreateWithItemId(ctx context.Context, accountId string, input I, itemId string) (T, error) {
	now := rs._now()
	shim := rs.OnCreate(input, now, PrimaryKey(accountId, rs.Name), itemId)
	item, err := attributevalue.MarshalMap(shim)
	if err != nil {
		return shim, err
	}
	expr, err := expression.NewBuilder().WithCondition(expression.Name("PK").AttributeNotExists().And(expression.Name("SK").AttributeNotExists())).Build()
	if err != nil {
		return shim, err
	}
	_, err = rs.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		Item:                     item,
		TableName:                aws.String(rs.TableName),
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return shim, exceptions.Conflict(strings.ToLower(rs.Name), itemId)
		}
		return shim, err
	}
	return shim, nil
}

func (rs *RepositoryDynamoDBService[T, I]) Update(ctx context.Context, accountId string, itemId string, input I) (T, error) {
	pk := PrimaryKey(accountId, rs.Name)
	shim := rs.Shim(pk, itemId)
	key, err := _getKey(pk, itemId)
	if err != nil {
		return shim, err
	}
	update := expression.Set(expression.Name("updateTime"), expression.Value(rs._now()))
	condition := expression.Name("PK").AttributeExists().And(expression.Name("SK").AttributeExists())
	if rs.OnUpdate != nil {
		update = rs.OnUpdate(input, update)
	}
	expr, err := expression.NewBuilder().WithCondition(condition).WithUpdate(update).Build()
	if err != nil {
		return shim, err
	}
	response, err := rs.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(rs.TableName),
		Key:                       key,
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return shim, exceptions.NotFound(strings.ToLower(rs.Name), itemId)
		}
		return shim, err
	}
	err = attributevalue.UnmarshalMap(response.Attributes, &shim)
	return shim, err
}

func (rs *RepositoryDynamoDBService[T, I]) Get(ctx context.Context, accountId string, itemId string) (T, error) {
	pk := PrimaryKey(accountId, rs.Name)
	shim := rs.Shim(pk, itemId)
	key, err := _getKey(pk, itemId)
	if err != nil {
		return shim, err
	}
	response, err := rs.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(rs.TableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return shim, err
	}
	if response.Item == nil {
		return shim, exceptions.NotFound(strings.ToLower(rs.Name), itemId)
	}
	err = attributevalue.UnmarshalMap(response.Item, &shim)
	return shim, err
}

// Delete reports whether an item was actually removed.
func (rs *RepositoryDynamoDBService[T, I]) Delete(ctx context.Context, accountId string, itemId string) (bool, error) {
	pk := PrimaryKey(accountId, rs.Name)
	key, err := _getKey(pk, itemId)
	if err != nil {
		return false, err
	}
	response, err := rs.DynamoDB.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		Key:          key,
		TableName:    aws.String(rs.TableName),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return false, err
	}
	return len(response.Attributes) > 0, nil
}
