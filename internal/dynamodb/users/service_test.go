package users_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/dynamodb/users"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/test"
)

func TestUserService(t *testing.T) {
	ctx := context.TODO()
	service := users.NewUserService(test.TABLE_NAME, test.NewFakeDynamoDB())

	created, err := service.CreateWithItemId(ctx, users.GLOBAL_ACCOUNT, data.UserInputDTO{
		Username:  aws.String("alice"),
		FirstName: aws.String("Alice"),
	}, "42")
	require.NoError(t, err)
	assert.Equal(t, "42", created.UserId)
	assert.Equal(t, "Global:User", created.PK)

	t.Run("UpdateChangesOnlyProvidedNames", func(t *testing.T) {
		updated, err := service.Update(ctx, users.GLOBAL_ACCOUNT, "42", data.UserInputDTO{
			LastName: aws.String("Liddell"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alice", updated.Username)
		assert.Equal(t, "Alice", updated.FirstName)
		assert.Equal(t, "Liddell", updated.LastName)

		fetched, err := service.Get(ctx, users.GLOBAL_ACCOUNT, "42")
		require.NoError(t, err)
		assert.Equal(t, "Liddell", fetched.LastName)
		assert.Equal(t, created.CreateTime.Unix(), fetched.CreateTime.Unix())
	})

	t.Run("UpdateMissingUser", func(t *testing.T) {
		_, err := service.Update(ctx, users.GLOBAL_ACCOUNT, "404", data.UserInputDTO{
			Username: aws.String("ghost"),
		})
		var nfe *exceptions.NotFoundError
		assert.True(t, errors.As(err, &nfe))
	})

	t.Run("CreateTwiceConflicts", func(t *testing.T) {
		_, err := service.CreateWithItemId(ctx, users.GLOBAL_ACCOUNT, data.UserInputDTO{
			Username: aws.String("bob"),
		}, "42")
		var ce *exceptions.ConflictError
		assert.True(t, errors.As(err, &ce))
		fetched, err := service.Get(ctx, users.GLOBAL_ACCOUNT, "42")
		require.NoError(t, err)
		assert.Equal(t, "alice", fetched.Username)
	})
}
