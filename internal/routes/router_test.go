package routes_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"philcali.me/recipebot/internal/bot"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/routes"
	"philcali.me/recipebot/internal/routes/external"
	"philcali.me/recipebot/internal/routes/filters"
	"philcali.me/recipebot/internal/routes/webhook"
	"philcali.me/recipebot/internal/test"
)

const secret = "s3cr3t"

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) HandleText(ctx context.Context, event bot.TextEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockHandler) HandleCallback(ctx context.Context, event bot.CallbackEvent) error {
	return m.Called(ctx, event).Error(0)
}

type LocalServer struct {
	Router   *routes.Router
	Handler  *MockHandler
	Provider *test.MockRecipeProvider
}

func NewLocalServer(t *testing.T) *LocalServer {
	handler := &MockHandler{}
	provider := &test.MockRecipeProvider{}
	fltrs := []filters.RequestFilter{
		&filters.RequestIdFilter{Generate: func() string { return "generated-id" }},
		filters.DefaultSecretTokenFilter(secret),
	}
	router := routes.NewRouter(zap.NewNop(), fltrs,
		webhook.NewRoute(handler, zap.NewNop()),
		external.NewRoute(provider),
	)
	t.Cleanup(func() {
		handler.AssertExpectations(t)
		provider.AssertExpectations(t)
	})
	return &LocalServer{Router: router, Handler: handler, Provider: provider}
}

func (ls *LocalServer) Request(t *testing.T, method string, path string, body string, isBase64 bool, headers map[string]string, params map[string]string, out any) events.APIGatewayV2HTTPResponse {
	request := events.APIGatewayV2HTTPRequest{
		RawPath:               path,
		Headers:               headers,
		QueryStringParameters: params,
		Body:                  body,
		IsBase64Encoded:       isBase64,
	}
	request.RequestContext.HTTP.Method = method
	request.RequestContext.HTTP.Path = path
	response := ls.Router.Invoke(request, context.TODO())
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(response.Body), out), "payload for %s %s: %s", method, path, response.Body)
	}
	return response
}

func (ls *LocalServer) Get(t *testing.T, out any, path string, params map[string]string) events.APIGatewayV2HTTPResponse {
	return ls.Request(t, "GET", path, "", false, nil, params, out)
}

func (ls *LocalServer) Webhook(t *testing.T, body string, token string) events.APIGatewayV2HTTPResponse {
	headers := map[string]string{}
	if token != "" {
		headers["x-telegram-bot-api-secret-token"] = token
	}
	return ls.Request(t, "POST", "/webhook", body, false, headers, nil, nil)
}

const startUpdate = `{"update_id": 10, "message": {"message_id": 1, "from": {"id": 42, "first_name": "Alice"}, "chat": {"id": 42, "type": "private"}, "text": "/start"}}`

func TestRouter(t *testing.T) {
	t.Run("WebhookRejectsMissingSecret", func(t *testing.T) {
		server := NewLocalServer(t)
		response := server.Webhook(t, startUpdate, "")
		assert.Equal(t, 401, response.StatusCode)
		assert.Equal(t, "generated-id", response.Headers[filters.REQUEST_ID_HEADER])
		response = server.Webhook(t, startUpdate, "wrong")
		assert.Equal(t, 401, response.StatusCode)
	})

	t.Run("WebhookDispatches", func(t *testing.T) {
		server := NewLocalServer(t)
		server.Handler.On("HandleText", mock.Anything, bot.TextEvent{
			User:   bot.User{Id: 42, FirstName: "Alice"},
			ChatId: 42,
			Text:   "/start",
		}).Return(nil).Once()
		response := server.Webhook(t, startUpdate, secret)
		assert.Equal(t, 200, response.StatusCode)
		var ack webhook.Acknowledgement
		require.NoError(t, json.Unmarshal([]byte(response.Body), &ack))
		assert.True(t, ack.Handled)
	})

	t.Run("WebhookBase64AndHandlerFailure", func(t *testing.T) {
		server := NewLocalServer(t)
		server.Handler.On("HandleText", mock.Anything, mock.MatchedBy(func(event bot.TextEvent) bool {
			return event.ChatId == 42 && event.Text == "/start"
		})).Return(errors.New("telegram down")).Once()
		response := server.Request(t, "POST", "/webhook",
			base64.StdEncoding.EncodeToString([]byte(startUpdate)), true,
			map[string]string{filters.SECRET_TOKEN_HEADER: secret}, nil, nil)
		assert.Equal(t, 200, response.StatusCode)
		var ack webhook.Acknowledgement
		require.NoError(t, json.Unmarshal([]byte(response.Body), &ack))
		assert.True(t, ack.Ok)
		assert.True(t, ack.Handled)
	})

	t.Run("WebhookRejectsGarbage", func(t *testing.T) {
		server := NewLocalServer(t)
		response := server.Webhook(t, "{nope", secret)
		assert.Equal(t, 400, response.StatusCode)
	})

	t.Run("HealthIsPublic", func(t *testing.T) {
		server := NewLocalServer(t)
		var status map[string]string
		response := server.Get(t, &status, "/health", nil)
		assert.Equal(t, 200, response.StatusCode)
		assert.Equal(t, "ok", status["status"])
	})

	t.Run("SearchRecipes", func(t *testing.T) {
		server := NewLocalServer(t)
		server.Provider.On("Search", mock.Anything, "fish", 2).Return([]data.RecipeRecord{{Id: "1", Title: "Fish pie"}}, nil)
		var results external.Recipes
		response := server.Get(t, &results, "/recipes", map[string]string{"search": "fish", "limit": "2"})
		assert.Equal(t, 200, response.StatusCode)
		require.Len(t, results.Items, 1)
		assert.Equal(t, "Fish pie", results.Items[0].Title)

		response = server.Get(t, nil, "/recipes", nil)
		assert.Equal(t, 400, response.StatusCode)
		response = server.Get(t, nil, "/recipes", map[string]string{"search": "fish", "limit": "many"})
		assert.Equal(t, 400, response.StatusCode)
	})

	t.Run("StaticPathsBeforeParams", func(t *testing.T) {
		server := NewLocalServer(t)
		server.Provider.On("Random", mock.Anything, 3).Return([]data.RecipeRecord{{Id: "1"}, {Id: "2"}, {Id: "3"}}, nil)
		server.Provider.On("Categories", mock.Anything).Return([]string{"Beef", "Seafood"}, nil)
		var random external.Recipes
		assert.Equal(t, 200, server.Get(t, &random, "/recipes/random", nil).StatusCode)
		assert.Len(t, random.Items, 3)
		var labels external.Labels
		assert.Equal(t, 200, server.Get(t, &labels, "/recipes/categories", nil).StatusCode)
		assert.Equal(t, []string{"Beef", "Seafood"}, labels.Items)
	})

	t.Run("LookupErrors", func(t *testing.T) {
		server := NewLocalServer(t)
		server.Provider.On("Lookup", mock.Anything, "52772").Return(data.RecipeRecord{Id: "52772", Title: "Teriyaki Chicken"}, nil)
		server.Provider.On("Lookup", mock.Anything, "0").Return(data.RecipeRecord{}, exceptions.NotFound("recipe", "0"))
		server.Provider.On("Lookup", mock.Anything, "9").Return(data.RecipeRecord{}, exceptions.SourceUnavailable("lookup", errors.New("timeout")))
		var recipe data.RecipeRecord
		assert.Equal(t, 200, server.Get(t, &recipe, "/recipes/52772", nil).StatusCode)
		assert.Equal(t, "Teriyaki Chicken", recipe.Title)
		assert.Equal(t, 404, server.Get(t, nil, "/recipes/0", nil).StatusCode)
		assert.Equal(t, 502, server.Get(t, nil, "/recipes/9", nil).StatusCode)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		server := NewLocalServer(t)
		response := server.Request(t, "GET", "/nowhere", "", false, map[string]string{filters.REQUEST_ID_HEADER: "caller-id"}, nil, nil)
		assert.Equal(t, 404, response.StatusCode)
		assert.Equal(t, "caller-id", response.Headers[filters.REQUEST_ID_HEADER])
	})
}
