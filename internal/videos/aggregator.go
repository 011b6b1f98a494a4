package videos

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/provider"
)

const DEFAULT_MAX_RESULTS = 3

type Aggregator struct {
	Registry *Registry
	// MaxResults caps the contribution of every single provider.
	MaxResults int
	Logger     *zap.Logger
}

func _maxResults(count int) int {
	if count <= 0 {
		return DEFAULT_MAX_RESULTS
	}
	return count
}

func NewAggregator(registry *Registry, maxResults int, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		Registry:   registry,
		MaxResults: _maxResults(maxResults),
		Logger:     logger,
	}
}

func (a *Aggregator) _search(ctx context.Context, p provider.VideoProvider, title string) (results []data.VideoResult) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Warn("video provider panicked", zap.String("provider", p.Name()), zap.Any("panic", r))
			results = nil
		}
	}()
	found, err := p.Search(ctx, title)
	if err != nil {
		a.Logger.Warn("video provider unavailable", zap.String("provider", p.Name()), zap.Error(err))
		return nil
	}
	if len(found) > a.MaxResults {
		found = found[:a.MaxResults]
	}
	return found
}

// SearchAll queries every registered provider concurrently and waits for all of
// them. Results are concatenated in registry order regardless of completion
// order; a failing provider contributes nothing.
func (a *Aggregator) SearchAll(ctx context.Context, title string) []data.VideoResult {
	providers := a.Registry.Providers()
	buckets := make([][]data.VideoResult, len(providers))
	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p provider.VideoProvider) {
			defer wg.Done()
			buckets[i] = a._search(ctx, p, title)
		}(i, p)
	}
	wg.Wait()
	results := make([]data.VideoResult, 0, len(providers)*a.MaxResults)
	for _, bucket := range buckets {
		results = append(results, bucket...)
	}
	a.Logger.Debug("aggregated videos", zap.String("title", title), zap.Int("count", len(results)))
	return results
}

type statusError struct {
	provider string
	code     int
}

func (se *statusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", se.provider, se.code)
}
