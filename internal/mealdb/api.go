package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/exceptions"
	"philcali.me/recipebot/internal/provider"
)

const (
	DEFAULT_HOST         = "https://www.themealdb.com"
	DEFAULT_MAX_RANDOM   = 10
	DEFAULT_RANDOM_DELAY = 100 * time.Millisecond
)

type MealAPI struct {
	BaseUrl string
	Client  *http.Client
	// MaxRandom caps the number of single item fetches one Random call performs.
	MaxRandom   int
	RandomDelay time.Duration
	Logger      *zap.Logger
}

func BaseUrl(version string, token string) string {
	return fmt.Sprintf("%s/api/json/%s/%s", DEFAULT_HOST, version, token)
}

func _apiRequest(ctx context.Context, mc *MealAPI, resource string, params url.Values) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s.php", mc.BaseUrl, resource)
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, exceptions.SourceUnavailable(resource, err)
	}
	resp, err := mc.Client.Do(req)
	if err != nil {
		return nil, exceptions.SourceUnavailable(resource, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, exceptions.SourceUnavailable(resource, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.SourceUnavailable(resource, err)
	}
	return body, nil
}

func _decode[T interface{}](ctx context.Context, mc *MealAPI, resource string, params url.Values) (T, error) {
	var out T
	body, err := _apiRequest(ctx, mc, resource, params)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, exceptions.SourceUnavailable(resource, err)
	}
	return out, nil
}

func _queryRequest(ctx context.Context, mc *MealAPI, resource string, params url.Values) ([]data.RecipeRecord, error) {
	query, err := _decode[QueryResponse](ctx, mc, resource, params)
	if err != nil {
		return nil, err
	}
	records := make([]data.RecipeRecord, 0, len(query.Meals))
	for _, meal := range query.Meals {
		records = append(records, ToRecipe(meal))
	}
	return records, nil
}

func (mc *MealAPI) Search(ctx context.Context, query string, limit int) ([]data.RecipeRecord, error) {
	records, err := _queryRequest(ctx, mc, "search", url.Values{"s": {query}})
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (mc *MealAPI) Lookup(ctx context.Context, id string) (data.RecipeRecord, error) {
	records, err := _queryRequest(ctx, mc, "lookup", url.Values{"i": {id}})
	if err != nil {
		return data.RecipeRecord{}, err
	}
	if len(records) == 0 || records[0].Id == "" {
		return data.RecipeRecord{}, exceptions.NotFound("recipe", id)
	}
	return records[0], nil
}

// Random performs min(count, MaxRandom) sequential single item fetches spaced by
// RandomDelay. Failed fetches are skipped; only a batch where every fetch failed
// is reported as an error.
func (mc *MealAPI) Random(ctx context.Context, count int) ([]data.RecipeRecord, error) {
	maxRandom := mc.MaxRandom
	if maxRandom <= 0 {
		maxRandom = DEFAULT_MAX_RANDOM
	}
	total := min(count, maxRandom)
	records := make([]data.RecipeRecord, 0, max(total, 0))
	var lastErr error
	for i := 0; i < total; i++ {
		if i > 0 && mc.RandomDelay > 0 {
			time.Sleep(mc.RandomDelay)
		}
		batch, err := _queryRequest(ctx, mc, "random", nil)
		if err != nil {
			lastErr = err
			mc.Logger.Warn("random recipe fetch failed", zap.Int("attempt", i+1), zap.Error(err))
			continue
		}
		if len(batch) > 0 {
			records = append(records, batch[0])
		}
	}
	if len(records) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return records, nil
}

func (mc *MealAPI) Categories(ctx context.Context) ([]string, error) {
	response, err := _decode[CategoryResponse](ctx, mc, "categories", nil)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(response.Categories))
	for _, category := range response.Categories {
		labels = append(labels, category.Name)
	}
	return labels, nil
}

func (mc *MealAPI) Areas(ctx context.Context) ([]string, error) {
	response, err := _decode[AreaResponse](ctx, mc, "list", url.Values{"a": {"list"}})
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(response.Meals))
	for _, area := range response.Meals {
		labels = append(labels, area.Name)
	}
	return labels, nil
}

func (mc *MealAPI) Filter(ctx context.Context, input provider.FilterInput) ([]data.RecipeStub, error) {
	params := make(url.Values, 1)
	if input.Category != nil {
		params.Set("c", *input.Category)
	}
	if input.Area != nil {
		params.Set("a", *input.Area)
	}
	filter, err := _decode[FilterResponse](ctx, mc, "filter", params)
	if err != nil {
		return nil, err
	}
	stubs := make([]data.RecipeStub, 0, len(filter.Meals))
	for _, meal := range filter.Meals {
		stubs = append(stubs, ConvertFilteredToStub(meal))
	}
	return stubs, nil
}

func (mc *MealAPI) SearchByCategory(ctx context.Context, category string) ([]data.RecipeStub, error) {
	return mc.Filter(ctx, provider.FilterInput{Category: &category})
}

func (mc *MealAPI) SearchByArea(ctx context.Context, area string) ([]data.RecipeStub, error) {
	return mc.Filter(ctx, provider.FilterInput{Area: &area})
}

func NewMealClient(baseUrl string, timeout time.Duration, logger *zap.Logger) *MealAPI {
	return &MealAPI{
		BaseUrl:     baseUrl,
		Client:      &http.Client{Timeout: timeout},
		MaxRandom:   DEFAULT_MAX_RANDOM,
		RandomDelay: DEFAULT_RANDOM_DELAY,
		Logger:      logger,
	}
}
