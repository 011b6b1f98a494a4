package external

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/provider"
	"philcali.me/recipebot/internal/routes"
	"philcali.me/recipebot/internal/routes/util"
)

const (
	DEFAULT_SEARCH_LIMIT = 5
	DEFAULT_RANDOM_COUNT = 3
)

// ExternalService exposes the recipe source read-only over HTTP.
type ExternalService struct {
	Service     provider.RecipeProvider
	SearchLimit int
	RandomCount int
}

func NewRoute(service provider.RecipeProvider) routes.Service {
	return &ExternalService{
		Service:     service,
		SearchLimit: DEFAULT_SEARCH_LIMIT,
		RandomCount: DEFAULT_RANDOM_COUNT,
	}
}

type Labels struct {
	Items []string `json:"items"`
}

func ConvertLabels(items []string) Labels {
	if items == nil {
		items = []string{}
	}
	return Labels{Items: items}
}

type Recipes struct {
	Items []data.RecipeRecord `json:"items"`
}

func ConvertRecipes(items []data.RecipeRecord) Recipes {
	if items == nil {
		items = []data.RecipeRecord{}
	}
	return Recipes{Items: items}
}

func (es *ExternalService) GetRoutes() map[string]routes.Route {
	return map[string]routes.Route{
		"GET:/recipes":            es.Search,
		"GET:/recipes/random":     es.Random,
		"GET:/recipes/categories": es.Categories,
		"GET:/recipes/areas":      es.Areas,
		"GET:/recipes/:recipeId":  es.Lookup,
	}
}

func (es *ExternalService) Lookup(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	lookupId := util.RequestParam(ctx, "recipeId")
	recipe, err := es.Service.Lookup(ctx, lookupId)
	return util.SerializeResponseOK(util.IdentityThunk[data.RecipeRecord], recipe, err)
}

func (es *ExternalService) Search(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	text, ok := event.QueryStringParameters["search"]
	if !ok || text == "" {
		return events.APIGatewayV2HTTPResponse{}, exceptions.InvalidInput("Need a search parameter set")
	}
	limit, err := util.QueryInt(event, "limit", es.SearchLimit)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	recipes, err := es.Service.Search(ctx, text, limit)
	return util.SerializeResponseOK(ConvertRecipes, recipes, err)
}

func (es *ExternalService) Random(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	count, err := util.QueryInt(event, "count", es.RandomCount)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	recipes, err := es.Service.Random(ctx, count)
	return util.SerializeResponseOK(ConvertRecipes, recipes, err)
}

func (es *ExternalService) Categories(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	labels, err := es.Service.Categories(ctx)
	return util.SerializeResponseOK(ConvertLabels, labels, err)
}

func (es *ExternalService) Areas(event events.APIGatewayV2HTTPRequest, ctx context.Context) (events.APIGatewayV2HTTPResponse, error) {
	labels, err := es.Service.Areas(ctx)
	return util.SerializeResponseOK(ConvertLabels, labels, err)
}
