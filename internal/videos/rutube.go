package videos

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"philcali.me/recipebot/internal/data"
)

const (
	DEFAULT_RUTUBE_SEARCH_URL = "https://rutube.ru/search/"
	BROWSER_USER_AGENT        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var watchPathPattern = regexp.MustCompile(`href="(/video/[a-zA-Z0-9_-]+)"`)

// RutubeProvider scrapes the public search page. It depends on the page
// markup and is best effort only.
type RutubeProvider struct {
	SearchUrl string
	Count     int
	Client    *http.Client
}

func NewRutubeProvider(searchUrl string, count int, timeout time.Duration) *RutubeProvider {
	if searchUrl == "" {
		searchUrl = DEFAULT_RUTUBE_SEARCH_URL
	}
	return &RutubeProvider{
		SearchUrl: searchUrl,
		Count:     _maxResults(count),
		Client:    &http.Client{Timeout: timeout},
	}
}

func (rp *RutubeProvider) Name() string {
	return string(data.RUTUBE)
}

func _origin(searchUrl string) string {
	parsed, err := url.Parse(searchUrl)
	if err != nil || parsed.Host == "" {
		return "https://rutube.ru"
	}
	return parsed.Scheme + "://" + parsed.Host
}

func (rp *RutubeProvider) Search(ctx context.Context, title string) ([]data.VideoResult, error) {
	params := url.Values{}
	params.Set("text", fmt.Sprintf("%s %s", title, QUERY_SUFFIX))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rp.SearchUrl+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", BROWSER_USER_AGENT)
	resp, err := rp.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{provider: rp.Name(), code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	origin := _origin(rp.SearchUrl)
	seen := make(map[string]bool)
	results := make([]data.VideoResult, 0, rp.Count)
	for _, match := range watchPathPattern.FindAllStringSubmatch(string(body), -1) {
		if rp.Count > 0 && len(results) >= rp.Count {
			break
		}
		path := strings.TrimSpace(match[1])
		if seen[path] {
			continue
		}
		seen[path] = true
		results = append(results, data.VideoResult{
			Title:    fmt.Sprintf("Recipe %s on Rutube", title),
			Url:      origin + path,
			Platform: data.RUTUBE,
		})
	}
	return results, nil
}
