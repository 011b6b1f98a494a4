package provider

import (
	"context"

	"philcali.me/recipebot/internal/data"
)

type FilterInput struct {
	Category *string
	Area     *string
}

// RecipeProvider normalizes an upstream recipe database into canonical records.
// Failures to reach or decode the upstream are reported as
// exceptions.SourceUnavailableError; an empty match set is a nil error.
type RecipeProvider interface {
	Search(ctx context.Context, query string, limit int) ([]data.RecipeRecord, error)
	Lookup(ctx context.Context, id string) (data.RecipeRecord, error)
	Random(ctx context.Context, count int) ([]data.RecipeRecord, error)
	Categories(ctx context.Context) ([]string, error)
	Areas(ctx context.Context) ([]string, error)
	SearchByCategory(ctx context.Context, category string) ([]data.RecipeStub, error)
	SearchByArea(ctx context.Context, area string) ([]data.RecipeStub, error)
}

// VideoProvider is a single named video search backend.
type VideoProvider interface {
	Name() string
	Search(ctx context.Context, title string) ([]data.VideoResult, error)
}
