package test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"philcali.me/recipebot/internal/data"
)

type MockRecipeProvider struct {
	mock.Mock
}

func (m *MockRecipeProvider) Search(ctx context.Context, query string, limit int) ([]data.RecipeRecord, error) {
	args := m.Called(ctx, query, limit)
	return args.Get(0).([]data.RecipeRecord), args.Error(1)
}

func (m *MockRecipeProvider) Lookup(ctx context.Context, id string) (data.RecipeRecord, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(data.RecipeRecord), args.Error(1)
}

func (m *MockRecipeProvider) Random(ctx context.Context, count int) ([]data.RecipeRecord, error) {
	args := m.Called(ctx, count)
	return args.Get(0).([]data.RecipeRecord), args.Error(1)
}

func (m *MockRecipeProvider) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecipeProvider) Areas(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecipeProvider) SearchByCategory(ctx context.Context, category string) ([]data.RecipeStub, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]data.RecipeStub), args.Error(1)
}

func (m *MockRecipeProvider) SearchByArea(ctx context.Context, area string) ([]data.RecipeStub, error) {
	args := m.Called(ctx, area)
	return args.Get(0).([]data.RecipeStub), args.Error(1)
}

type MockVideoSearcher struct {
	mock.Mock
}

func (m *MockVideoSearcher) SearchAll(ctx context.Context, title string) []data.VideoResult {
	args := m.Called(ctx, title)
	return args.Get(0).([]data.VideoResult)
}
