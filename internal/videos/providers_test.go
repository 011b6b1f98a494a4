package videos_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/videos"
)

func TestVKProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video.search", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "Pelmeni рецепт", r.URL.Query().Get("q"))
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		w.Write([]byte(`{"response": {"count": 2, "items": [
			{"id": 456239017, "owner_id": -12345, "title": "Pelmeni at home", "duration": 610},
			{"id": 7, "owner_id": 99, "title": "Quick pelmeni", "duration": 0}
		]}}`))
	}))
	defer server.Close()

	t.Run("BuildsWatchUrls", func(t *testing.T) {
		vk := videos.NewVKProvider("secret", server.URL, "", 3, time.Second)
		found, err := vk.Search(context.Background(), "Pelmeni")
		require.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, data.VideoResult{
			Title:           "Pelmeni at home",
			Url:             "https://vk.com/video-12345_456239017",
			Platform:        data.VK,
			DurationSeconds: 610,
		}, found[0])
	})

	t.Run("NonPositiveCountFallsBack", func(t *testing.T) {
		vk := videos.NewVKProvider("secret", server.URL, "", -1, time.Second)
		assert.Equal(t, videos.DEFAULT_MAX_RESULTS, vk.Count)
		found, err := vk.Search(context.Background(), "Pelmeni")
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("NoCredentialIsEmpty", func(t *testing.T) {
		vk := videos.NewVKProvider("", server.URL, "", 3, time.Second)
		found, err := vk.Search(context.Background(), "Pelmeni")
		assert.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("ApiErrorIsReported", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error": {"error_code": 5, "error_msg": "User authorization failed"}}`))
		}))
		defer failing.Close()
		vk := videos.NewVKProvider("secret", failing.URL, "", 3, time.Second)
		_, err := vk.Search(context.Background(), "Pelmeni")
		assert.ErrorContains(t, err, "authorization failed")
	})
}

func TestRutubeProvider(t *testing.T) {
	page := `<html><body>
		<a href="/video/abc123def/">trailing slash is ignored</a>
		<a href="/video/a1b2c3">one</a>
		<a href="/video/a1b2c3">one again</a>
		<a href="/video/zz_99-x">two</a>
		<a href="/channel/1">channel</a>
		<a href="/video/last">three</a>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "Mozilla/5.0"))
		assert.Equal(t, "Blini рецепт", r.URL.Query().Get("text"))
		w.Write([]byte(page))
	}))
	defer server.Close()

	t.Run("ExtractsWatchPaths", func(t *testing.T) {
		rutube := videos.NewRutubeProvider(server.URL+"/search/", 3, time.Second)
		found, err := rutube.Search(context.Background(), "Blini")
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, server.URL+"/video/a1b2c3", found[0].Url)
		assert.Equal(t, server.URL+"/video/zz_99-x", found[1].Url)
		assert.Equal(t, server.URL+"/video/last", found[2].Url)
		assert.Equal(t, "Recipe Blini on Rutube", found[0].Title)
		assert.Equal(t, data.RUTUBE, found[0].Platform)
		assert.Equal(t, 0, found[0].DurationSeconds)
	})

	t.Run("NonPositiveCountFallsBack", func(t *testing.T) {
		for _, count := range []int{0, -1} {
			rutube := videos.NewRutubeProvider(server.URL+"/search/", count, time.Second)
			assert.Equal(t, videos.DEFAULT_MAX_RESULTS, rutube.Count)
			found, err := rutube.Search(context.Background(), "Blini")
			require.NoError(t, err)
			assert.Len(t, found, 3)
		}
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer failing.Close()
		rutube := videos.NewRutubeProvider(failing.URL, 3, time.Second)
		_, err := rutube.Search(context.Background(), "Blini")
		assert.ErrorContains(t, err, "503")
	})
}
