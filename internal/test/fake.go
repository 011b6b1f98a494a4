package test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type _item = map[string]types.AttributeValue

// FakeDynamoDB is an in-memory table keyed on PK and SK. It understands the
// expressions produced by the expression builder for the repository
// operations: key equality queries, attribute (not) exists conditions, and
// SET updates.
type FakeDynamoDB struct {
	mutex  sync.Mutex
	tables map[string]map[string]map[string]_item
	Errors map[string]error
}

func NewFakeDynamoDB() *FakeDynamoDB {
	return &FakeDynamoDB{
		tables: make(map[string]map[string]map[string]_item),
		Errors: make(map[string]error),
	}
}

func (f *FakeDynamoDB) _fail(operation string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.Errors[operation]
}

func _str(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func _keys(item _item) (string, string, error) {
	pk, sk := _str(item["PK"]), _str(item["SK"])
	if pk == "" || sk == "" {
		return "", "", fmt.Errorf("item is missing a PK or SK string attribute")
	}
	return pk, sk, nil
}

func _copy(item _item) _item {
	if item == nil {
		return nil
	}
	dup := make(_item, len(item))
	for k, v := range item {
		dup[k] = v
	}
	return dup
}

func (f *FakeDynamoDB) _partition(table string, pk string, create bool) map[string]_item {
	partitions, ok := f.tables[table]
	if !ok {
		if !create {
			return nil
		}
		partitions = make(map[string]map[string]_item)
		f.tables[table] = partitions
	}
	partition, ok := partitions[pk]
	if !ok && create {
		partition = make(map[string]_item)
		partitions[pk] = partition
	}
	return partition
}

func (f *FakeDynamoDB) _lookup(table string, key _item) (_item, error) {
	pk, sk, err := _keys(key)
	if err != nil {
		return nil, err
	}
	return f._partition(table, pk, false)[sk], nil
}

func _checkCondition(condition *string, existing _item) error {
	if condition == nil {
		return nil
	}
	switch {
	case strings.Contains(*condition, "attribute_not_exists"):
		if existing != nil {
			return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	case strings.Contains(*condition, "attribute_exists"):
		if existing == nil {
			return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	return nil
}

func (f *FakeDynamoDB) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if err := f._fail("GetItem"); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	item, err := f._lookup(aws.ToString(params.TableName), params.Key)
	if err != nil {
		return nil, err
	}
	return &dynamodb.GetItemOutput{Item: _copy(item)}, nil
}

func (f *FakeDynamoDB) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if err := f._fail("PutItem"); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	pk, sk, err := _keys(params.Item)
	if err != nil {
		return nil, err
	}
	table := aws.ToString(params.TableName)
	partition := f._partition(table, pk, true)
	if err := _checkCondition(params.ConditionExpression, partition[sk]); err != nil {
		return nil, err
	}
	partition[sk] = _copy(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

func (f *FakeDynamoDB) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if err := f._fail("UpdateItem"); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	table := aws.ToString(params.TableName)
	existing, err := f._lookup(table, params.Key)
	if err != nil {
		return nil, err
	}
	if err := _checkCondition(params.ConditionExpression, existing); err != nil {
		return nil, err
	}
	updated := _copy(existing)
	if updated == nil {
		updated = _copy(params.Key)
	}
	for _, clause := range strings.Split(aws.ToString(params.UpdateExpression), "\n") {
		clause = strings.TrimSpace(clause)
		if !strings.HasPrefix(clause, "SET ") {
			continue
		}
		for _, assignment := range strings.Split(strings.TrimPrefix(clause, "SET "), ",") {
			name, value, found := strings.Cut(assignment, "=")
			if !found {
				return nil, fmt.Errorf("unsupported assignment %q", assignment)
			}
			attribute, ok := params.ExpressionAttributeNames[strings.TrimSpace(name)]
			if !ok {
				return nil, fmt.Errorf("unknown name placeholder in %q", assignment)
			}
			av, ok := params.ExpressionAttributeValues[strings.TrimSpace(value)]
			if !ok {
				return nil, fmt.Errorf("unknown value placeholder in %q", assignment)
			}
			updated[attribute] = av
		}
	}
	pk, sk, _ := _keys(updated)
	f._partition(table, pk, true)[sk] = updated
	output := &dynamodb.UpdateItemOutput{}
	if params.ReturnValues == types.ReturnValueAllNew {
		output.Attributes = _copy(updated)
	}
	return output, nil
}

func (f *FakeDynamoDB) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	if err := f._fail("DeleteItem"); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	table := aws.ToString(params.TableName)
	pk, sk, err := _keys(params.Key)
	if err != nil {
		return nil, err
	}
	partition := f._partition(table, pk, false)
	existing := partition[sk]
	delete(partition, sk)
	output := &dynamodb.DeleteItemOutput{}
	if params.ReturnValues == types.ReturnValueAllOld {
		output.Attributes = existing
	}
	return output, nil
}

func (f *FakeDynamoDB) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if err := f._fail("Query"); err != nil {
		return nil, err
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if len(params.ExpressionAttributeValues) != 1 {
		return nil, fmt.Errorf("only single key equality queries are supported")
	}
	var pk string
	for _, value := range params.ExpressionAttributeValues {
		pk = _str(value)
	}
	partition := f._partition(aws.ToString(params.TableName), pk, false)
	sortKeys := make([]string, 0, len(partition))
	for sk := range partition {
		sortKeys = append(sortKeys, sk)
	}
	sort.Strings(sortKeys)
	start := ""
	if params.ExclusiveStartKey != nil {
		start = _str(params.ExclusiveStartKey["SK"])
	}
	limit := len(sortKeys)
	if params.Limit != nil && *params.Limit > 0 && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}
	output := &dynamodb.QueryOutput{}
	for _, sk := range sortKeys {
		if start != "" && sk <= start {
			continue
		}
		if len(output.Items) == limit {
			last := output.Items[len(output.Items)-1]
			output.LastEvaluatedKey = _item{"PK": last["PK"], "SK": last["SK"]}
			break
		}
		output.Items = append(output.Items, _copy(partition[sk]))
	}
	output.Count = int32(len(output.Items))
	return output, nil
}
