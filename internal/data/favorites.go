package data

import (
	"context"
	"time"
)

const (
	MIN_RATING = 0
	MAX_RATING = 5
)

type FavoriteDTO struct {
	PK         string    `dynamodbav:"PK"`
	SK         string    `dynamodbav:"SK"`
	RecipeId   string    `dynamodbav:"recipeId"`
	Title      string    `dynamodbav:"title"`
	ImageUrl   string    `dynamodbav:"imageUrl"`
	SourceUrl  string    `dynamodbav:"sourceUrl"`
	Rating     int       `dynamodbav:"rating"`
	CreateTime time.Time `dynamodbav:"createTime"`
	UpdateTime time.Time `dynamodbav:"updateTime"`
}

type FavoriteInputDTO struct {
	Title     *string `dynamodbav:"title"`
	ImageUrl  *string `dynamodbav:"imageUrl"`
	SourceUrl *string `dynamodbav:"sourceUrl"`
	Rating    *int    `dynamodbav:"rating"`
}

type FavoriteRepository interface {
	Repository[FavoriteDTO, FavoriteInputDTO]
}

// AddResult distinguishes a fresh insert from a pair that was already saved.
type AddResult int

const (
	Created AddResult = iota + 1
	AlreadyExists
)

func (r AddResult) String() string {
	switch r {
	case Created:
		return "CREATED"
	case AlreadyExists:
		return "ALREADY_EXISTS"
	}
	return "UNKNOWN"
}

// FavoriteEntry is the snapshot a user saved, as returned to callers.
type FavoriteEntry struct {
	UserId    string    `json:"userId"`
	RecipeId  string    `json:"recipeId"`
	Title     string    `json:"title"`
	ImageUrl  string    `json:"imageUrl"`
	SourceUrl string    `json:"sourceUrl"`
	Rating    int       `json:"rating"`
	AddedAt   time.Time `json:"addedAt"`
}

type FavoriteInput struct {
	RecipeId  string
	Title     string
	ImageUrl  string
	SourceUrl string
}

type UserInput struct {
	UserId    string
	Username  string
	FirstName string
	LastName  string
}

type FavoritesStore interface {
	AddUser(ctx context.Context, input UserInput) error
	AddFavorite(ctx context.Context, userId string, input FavoriteInput) (AddResult, error)
	RemoveFavorite(ctx context.Context, userId string, recipeId string) (bool, error)
	IsFavorite(ctx context.Context, userId string, recipeId string) (bool, error)
	ListFavorites(ctx context.Context, userId string) ([]FavoriteEntry, error)
	SetRating(ctx context.Context, userId string, recipeId string, rating int) error
	GetRating(ctx context.Context, userId string, recipeId string) (int, error)
}
