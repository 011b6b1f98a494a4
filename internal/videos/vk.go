package videos

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"philcali.me/recipebot/internal/data"
)

const (
	DEFAULT_VK_API_URL     = "https://api.vk.com/method"
	DEFAULT_VK_API_VERSION = "5.131"
	// Both video platforms index Russian language content.
	QUERY_SUFFIX = "рецепт"
)

type VKProvider struct {
	Token      string
	ApiUrl     string
	ApiVersion string
	Count      int
	Client     *http.Client
}

type vkSearchResponse struct {
	Response *struct {
		Items []struct {
			Id       int64  `json:"id"`
			OwnerId  int64  `json:"owner_id"`
			Title    string `json:"title"`
			Duration int    `json:"duration"`
		} `json:"items"`
	} `json:"response"`
	Error *struct {
		Code    int    `json:"error_code"`
		Message string `json:"error_msg"`
	} `json:"error"`
}

func NewVKProvider(token string, apiUrl string, version string, count int, timeout time.Duration) *VKProvider {
	if apiUrl == "" {
		apiUrl = DEFAULT_VK_API_URL
	}
	if version == "" {
		version = DEFAULT_VK_API_VERSION
	}
	return &VKProvider{
		Token:      token,
		ApiUrl:     strings.TrimSuffix(apiUrl, "/"),
		ApiVersion: version,
		Count:      _maxResults(count),
		Client:     &http.Client{Timeout: timeout},
	}
}

func (vk *VKProvider) Name() string {
	return string(data.VK)
}

// Search returns nothing, without error, when no credential is configured.
func (vk *VKProvider) Search(ctx context.Context, title string) ([]data.VideoResult, error) {
	if vk.Token == "" {
		return nil, nil
	}
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s %s", title, QUERY_SUFFIX))
	params.Set("count", fmt.Sprint(vk.Count))
	params.Set("v", vk.ApiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, vk.ApiUrl+"/video.search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+vk.Token)
	resp, err := vk.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{provider: vk.Name(), code: resp.StatusCode}
	}
	var body vkSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Error != nil {
		return nil, fmt.Errorf("vk error %d: %s", body.Error.Code, body.Error.Message)
	}
	if body.Response == nil {
		return nil, nil
	}
	results := make([]data.VideoResult, 0, len(body.Response.Items))
	for _, item := range body.Response.Items {
		results = append(results, data.VideoResult{
			Title:           item.Title,
			Url:             fmt.Sprintf("https://vk.com/video%d_%d", item.OwnerId, item.Id),
			Platform:        data.VK,
			DurationSeconds: item.Duration,
		})
	}
	return results, nil
}
