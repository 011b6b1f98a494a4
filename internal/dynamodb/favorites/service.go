package favorites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"golang.org/x/exp/slices"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/dynamodb/services"
	"philcali.me/recipebot/internal/dynamodb/users"
	"philcali.me/recipebot/internal/exceptions"
)

func NewFavoriteService(tableName string, client services.DynamoDBAPI) *services.RepositoryDynamoDBService[data.FavoriteDTO, data.FavoriteInputDTO] {
	return &services.RepositoryDynamoDBService[data.FavoriteDTO, data.FavoriteInputDTO]{
		DynamoDB:  client,
		TableName: tableName,
		Name:      "Favorite",
		Shim: func(pk, sk string) data.FavoriteDTO {
			return data.FavoriteDTO{PK: pk, SK: sk}
		},
		OnCreate: func(input data.FavoriteInputDTO, now time.Time, pk, sk string) data.FavoriteDTO {
			dto := data.FavoriteDTO{
				PK:         pk,
				SK:         sk,
				RecipeId:   sk,
				CreateTime: now,
				UpdateTime: now,
			}
			if input.Title != nil {
				dto.Title = *input.Title
			}
			if input.ImageUrl != nil {
				dto.ImageUrl = *input.ImageUrl
			}
			if input.SourceUrl != nil {
				dto.SourceUrl = *input.SourceUrl
			}
			if input.Rating != nil {
				dto.Rating = *input.Rating
			}
			return dto
		},
		// Snapshot fields are fixed at add time; only the rating moves.
		OnUpdate: func(input data.FavoriteInputDTO, ub expression.UpdateBuilder) expression.UpdateBuilder {
			if input.Rating != nil {
				ub = ub.Set(expression.Name("rating"), expression.Value(*input.Rating))
			}
			return ub
		},
	}
}

// FavoritesDynamoDBStore keeps every user's favorites in the partition
// "<userId>:Favorite", one item per recipe id. Uniqueness of the pair and the
// existence check on rating are both enforced by conditional writes, so
// concurrent callers never observe a half applied operation.
type FavoritesDynamoDBStore struct {
	Favorites data.FavoriteRepository
	Users     data.UserService
}

func NewFavoritesStore(tableName string, client services.DynamoDBAPI) data.FavoritesStore {
	return &FavoritesDynamoDBStore{
		Favorites: NewFavoriteService(tableName, client),
		Users:     users.NewUserService(tableName, client),
	}
}

func _validateIds(userId string, recipeId string) error {
	if userId == "" {
		return exceptions.InvalidInput("userId is required")
	}
	if recipeId == "" {
		return exceptions.InvalidInput("recipeId is required")
	}
	return nil
}

func (fs *FavoritesDynamoDBStore) AddUser(ctx context.Context, input data.UserInput) error {
	if input.UserId == "" {
		return exceptions.InvalidInput("userId is required")
	}
	_, err := fs.Users.CreateWithItemId(ctx, users.GLOBAL_ACCOUNT, data.UserInputDTO{
		Username:  &input.Username,
		FirstName: &input.FirstName,
		LastName:  &input.LastName,
	}, input.UserId)
	var conflict *exceptions.ConflictError
	if errors.As(err, &conflict) {
		return nil
	}
	return err
}

func (fs *FavoritesDynamoDBStore) AddFavorite(ctx context.Context, userId string, input data.FavoriteInput) (data.AddResult, error) {
	if err := _validateIds(userId, input.RecipeId); err != nil {
		return 0, err
	}
	rating := data.MIN_RATING
	_, err := fs.Favorites.CreateWithItemId(ctx, userId, data.FavoriteInputDTO{
		Title:     &input.Title,
		ImageUrl:  &input.ImageUrl,
		SourceUrl: &input.SourceUrl,
		Rating:    &rating,
	}, input.RecipeId)
	if err != nil {
		var conflict *exceptions.ConflictError
		if errors.As(err, &conflict) {
			return data.AlreadyExists, nil
		}
		return 0, err
	}
	return data.Created, nil
}

func (fs *FavoritesDynamoDBStore) RemoveFavorite(ctx context.Context, userId string, recipeId string) (bool, error) {
	if err := _validateIds(userId, recipeId); err != nil {
		return false, err
	}
	return fs.Favorites.Delete(ctx, userId, recipeId)
}

func (fs *FavoritesDynamoDBStore) _get(ctx context.Context, userId string, recipeId string) (*data.FavoriteDTO, error) {
	if err := _validateIds(userId, recipeId); err != nil {
		return nil, err
	}
	item, err := fs.Favorites.Get(ctx, userId, recipeId)
	if err != nil {
		var notFound *exceptions.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (fs *FavoritesDynamoDBStore) IsFavorite(ctx context.Context, userId string, recipeId string) (bool, error) {
	item, err := fs._get(ctx, userId, recipeId)
	return item != nil, err
}

// GetRating returns 0 both for unrated favorites and for recipes that were
// never saved.
func (fs *FavoritesDynamoDBStore) GetRating(ctx context.Context, userId string, recipeId string) (int, error) {
	item, err := fs._get(ctx, userId, recipeId)
	if err != nil || item == nil {
		return data.MIN_RATING, err
	}
	return item.Rating, nil
}

func (fs *FavoritesDynamoDBStore) SetRating(ctx context.Context, userId string, recipeId string, rating int) error {
	if err := _validateIds(userId, recipeId); err != nil {
		return err
	}
	if rating < data.MIN_RATING || rating > data.MAX_RATING {
		return exceptions.InvalidInput(fmt.Sprintf("rating must be between %d and %d", data.MIN_RATING, data.MAX_RATING))
	}
	_, err := fs.Favorites.Update(ctx, userId, recipeId, data.FavoriteInputDTO{Rating: &rating})
	var notFound *exceptions.NotFoundError
	if errors.As(err, &notFound) {
		return exceptions.NotFavorited(userId, recipeId)
	}
	return err
}

func ConvertToEntry(userId string, dto data.FavoriteDTO) data.FavoriteEntry {
	return data.FavoriteEntry{
		UserId:    userId,
		RecipeId:  dto.RecipeId,
		Title:     dto.Title,
		ImageUrl:  dto.ImageUrl,
		SourceUrl: dto.SourceUrl,
		Rating:    dto.Rating,
		AddedAt:   dto.CreateTime,
	}
}

// ListFavorites drains the user's partition and orders it by rating, highest
// first, then by most recently added.
func (fs *FavoritesDynamoDBStore) ListFavorites(ctx context.Context, userId string) ([]data.FavoriteEntry, error) {
	if userId == "" {
		return nil, exceptions.InvalidInput("userId is required")
	}
	entries := []data.FavoriteEntry{}
	params := data.QueryParams{Limit: data.MAX_PAGE_SIZE}
	for {
		page, err := fs.Favorites.List(ctx, userId, params)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			entries = append(entries, ConvertToEntry(userId, item))
		}
		if len(page.LastKey) == 0 {
			break
		}
		params.StartKey = page.LastKey
	}
	slices.SortStableFunc(entries, func(a, b data.FavoriteEntry) int {
		if a.Rating != b.Rating {
			return b.Rating - a.Rating
		}
		return b.AddedAt.Compare(a.AddedAt)
	})
	return entries, nil
}
