package users

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/dynamodb/services"
)

// Site Wide Users
const GLOBAL_ACCOUNT = "Global"

func _value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func NewUserService(tableName string, client services.DynamoDBAPI) data.UserService {
	return &services.RepositoryDynamoDBService[data.UserDTO, data.UserInputDTO]{
		DynamoDB:  client,
		TableName: tableName,
		Name:      "User",
		Shim: func(pk, sk string) data.UserDTO {
			return data.UserDTO{PK: pk, SK: sk}
		},
		OnCreate: func(uid data.UserInputDTO, createTime time.Time, pk, sk string) data.UserDTO {
			return data.UserDTO{
				PK:         pk,
				SK:         sk,
				UserId:     sk,
				Username:   _value(uid.Username),
				FirstName:  _value(uid.FirstName),
				LastName:   _value(uid.LastName),
				CreateTime: createTime,
				UpdateTime: createTime,
			}
		},
		OnUpdate: func(uid data.UserInputDTO, ub expression.UpdateBuilder) expression.UpdateBuilder {
			if uid.Username != nil {
				ub = ub.Set(expression.Name("username"), expression.Value(uid.Username))
			}
			if uid.FirstName != nil {
				ub = ub.Set(expression.Name("firstName"), expression.Value(uid.FirstName))
			}
			if uid.LastName != nil {
				ub = ub.Set(expression.Name("lastName"), expression.Value(uid.LastName))
			}
			return ub
		},
	}
}
