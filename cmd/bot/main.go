package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
	"philcali.me/recipebot/internal/bot"
	"philcali.me/recipebot/internal/config"
	"philcali.me/recipebot/internal/dynamodb/favorites"
	"philcali.me/recipebot/internal/logging"
	"philcali.me/recipebot/internal/mealdb"
	"philcali.me/recipebot/internal/routes"
	"philcali.me/recipebot/internal/routes/external"
	"philcali.me/recipebot/internal/routes/filters"
	"philcali.me/recipebot/internal/routes/webhook"
	"philcali.me/recipebot/internal/sessions"
	"philcali.me/recipebot/internal/telegram"
	"philcali.me/recipebot/internal/videos"
)

type App struct {
	Router routes.Router
	Logger *zap.Logger
}

func _dynamoClient(ctx context.Context, cfg config.StorageConfig) (*dynamodb.Client, error) {
	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(cfg.Region)}
	if cfg.Endpoint != "" {
		opts = append(opts, awsConfig.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: cfg.Endpoint}, nil
			})))
		opts = append(opts, awsConfig.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     "local",
				SecretAccessKey: "local",
				Source:          "Local Credentials",
			},
		}))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(awsCfg), nil
}

func _sessionStore(ctx context.Context, cfg config.SessionConfig, logger *zap.Logger) (sessions.Store, error) {
	if cfg.RedisAddr == "" {
		return sessions.NewMemoryStore(cfg.TTL), nil
	}
	return sessions.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.TTL, logger)
}

func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	client, err := _dynamoClient(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	store, err := _sessionStore(ctx, cfg.Sessions, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect session store: %w", err)
	}

	recipes := mealdb.NewMealClient(cfg.Recipes.BaseUrl, cfg.HTTP.Timeout, logger)
	recipes.RandomDelay = cfg.Recipes.RandomDelay

	aggregator := videos.NewAggregator(
		videos.NewRegistry(
			videos.NewVKProvider(
				cfg.Videos.VKToken,
				cfg.Videos.VKApiUrl,
				cfg.Videos.VKApiVersion,
				cfg.Videos.MaxResults,
				cfg.HTTP.Timeout),
			videos.NewRutubeProvider(cfg.Videos.RutubeSearchUrl, cfg.Videos.MaxResults, cfg.HTTP.Timeout),
		),
		cfg.Videos.MaxResults,
		logger,
	)

	messenger := telegram.NewClient(cfg.Telegram.ApiUrl, cfg.Telegram.Token, cfg.HTTP.Timeout, logger)
	controller := bot.NewController(
		recipes,
		favorites.NewFavoritesStore(cfg.Storage.TableName, client),
		aggregator,
		store,
		messenger,
		logger,
	)
	controller.SearchLimit = cfg.Recipes.MaxPerSearch
	controller.RandomCount = cfg.Recipes.RandomCount
	controller.FilterDetailLimit = cfg.Recipes.FilterDetailLimit

	fltrs := []filters.RequestFilter{filters.DefaultRequestIdFilter()}
	if cfg.Telegram.WebhookSecret != "" {
		fltrs = append(fltrs, filters.DefaultSecretTokenFilter(cfg.Telegram.WebhookSecret))
	} else {
		logger.Warn("WEBHOOK_SECRET is not set, webhook requests are not verified")
	}
	router := routes.NewRouter(
		logger,
		fltrs,
		webhook.NewRoute(controller, logger),
		external.NewRoute(recipes),
	)
	return &App{
		Router: *router,
		Logger: logger,
	}, nil
}

func (app *App) HandleRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return app.Router.Invoke(request, ctx), nil
}

func main() {
	app, err := NewApp(context.Background())
	if err != nil {
		panic(fmt.Sprintf("Failed to start recipe bot: %s", err))
	}
	defer app.Logger.Sync()
	lambda.Start(app.HandleRequest)
}
