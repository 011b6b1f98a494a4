package data

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const MAX_PAGE_SIZE = 100

// QueryParams pages through a partition. A nil StartKey reads from the start.
type QueryParams struct {
	Limit    int
	StartKey map[string]types.AttributeValue
}

func (q *QueryParams) GetLimit() *int32 {
	limit := int32(q.Limit)
	if limit <= 0 || limit > MAX_PAGE_SIZE {
		limit = MAX_PAGE_SIZE
	}
	return &limit
}

// QueryResults carries one page; an empty LastKey means the partition is drained.
type QueryResults[T interface{}] struct {
	Items   []T
	LastKey map[string]types.AttributeValue
}

// Repository is the storage contract shared by every DynamoDB backed entity.
// accountId partitions items; itemId is the sort key within that partition.
type Repository[T interface{}, I interface{}] interface {
	List(ctx context.Context, accountId string, params QueryParams) (QueryResults[T], error)
	Get(ctx context.Context, accountId string, itemId string) (T, error)
	CreateWithItemId(ctx context.Context, accountId string, input I, itemId string) (T, error)
	Update(ctx context.Context, accountId string, itemId string, input I) (T, error)
	Delete(ctx context.Context, accountId string, itemId string) (bool, error)
}
