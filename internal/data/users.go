package data

import "time"

type UserDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	UserId     string    `dynamodbav:"userId"`
	Username   string    `dynamodbav:"username"`
	FirstName  string    `dynamodbav:"firstName"`
	LastName   string    `dynamodbav:"lastName"`
	CreateTime time.Time `dynamodbav:"createTime"`
	UpdateTime time.Time `dynamodbav:"updateTime"`
}

type UserInputDTO struct {
	Username  *string `dynamodbav:"username"`
	FirstName *string `dynamodbav:"firstName"`
	LastName  *string `dynamodbav:"lastName"`
}

type UserService interface {
	Repository[UserDTO, UserInputDTO]
}
