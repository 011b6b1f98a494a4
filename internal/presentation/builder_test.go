package presentation_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"philcali.me/recipebot/internal/data"
	"philcali.me/recipebot/internal/presentation"
)

type stubVideos struct {
	titles []string
	found  []data.VideoResult
}

func (s *stubVideos) SearchAll(ctx context.Context, title string) []data.VideoResult {
	s.titles = append(s.titles, title)
	return s.found
}

func ingredients(n int) []data.Ingredient {
	out := make([]data.Ingredient, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, data.Ingredient{Name: fmt.Sprintf("Item%d", i), Measure: "1 cup"})
	}
	return out
}

func section(body string, start string, end string) string {
	_, after, found := strings.Cut(body, start)
	if !found {
		return ""
	}
	before, _, _ := strings.Cut(after, end)
	return before
}

func TestBuild(t *testing.T) {
	t.Run("InstructionsTruncated", func(t *testing.T) {
		payload := presentation.Build(data.RecipeRecord{
			Id:           "1",
			Title:        "Long",
			Instructions: strings.Repeat("a", 600),
		}, nil)
		segment := section(payload.BodyText, "📝 <b>Instructions:</b>\n", "\n")
		assert.Equal(t, strings.Repeat("a", 500)+"...", segment)
	})

	t.Run("ShortInstructionsUntouched", func(t *testing.T) {
		payload := presentation.Build(data.RecipeRecord{Id: "1", Instructions: strings.Repeat("b", 500)}, nil)
		segment := section(payload.BodyText, "📝 <b>Instructions:</b>\n", "\n")
		assert.Equal(t, strings.Repeat("b", 500), segment)
	})

	t.Run("IngredientsCapped", func(t *testing.T) {
		payload := presentation.Build(data.RecipeRecord{Id: "1", Ingredients: ingredients(15)}, nil)
		segment := section(payload.BodyText, "📋 <b>Ingredients:</b>\n", "\n\n")
		lines := strings.Split(segment, "\n")
		require.Len(t, lines, 11)
		assert.Equal(t, "• Item1 - 1 cup", lines[0])
		assert.Equal(t, "• Item10 - 1 cup", lines[9])
		assert.Equal(t, "... and 5 more ingredients", lines[10])
	})

	t.Run("IngredientDefaults", func(t *testing.T) {
		text := presentation.FormatIngredients([]data.Ingredient{
			{Name: "Salt"},
			{Name: "  ", Measure: "1 tsp"},
			{Name: "Fish & Chips", Measure: "2"},
		})
		assert.Equal(t, "• Salt - to taste\n• Fish &amp; Chips - 2", text)
	})

	t.Run("VideoOrdering", func(t *testing.T) {
		videos := []data.VideoResult{
			{Title: "one", Url: "https://vk.com/video1_1", Platform: data.VK},
			{Title: "two", Url: "https://rutube.ru/video/2", Platform: data.RUTUBE},
			{Title: "three", Url: "https://vk.com/video1_3", Platform: data.VK},
			{Title: "four", Url: "https://vk.com/video1_4", Platform: data.VK},
		}
		payload := presentation.Build(data.RecipeRecord{
			Id:              "52772",
			Title:           "Casserole",
			ImageUrl:        "https://img/1.jpg",
			SourceUrl:       "https://source",
			PrimaryVideoUrl: "https://www.youtube.com/watch?v=4aZr5hZXP_s",
		}, videos)

		primary := strings.Index(payload.BodyText, "YouTube video recipe")
		headline := strings.Index(payload.BodyText, "Video recipes:")
		require.True(t, primary > 0 && headline > primary, payload.BodyText)
		assert.Contains(t, payload.BodyText, "1. 🔵 <a href=\"https://vk.com/video1_1\">VK - one</a>")
		assert.Contains(t, payload.BodyText, "2. 🔴 <a href=\"https://rutube.ru/video/2\">Rutube - two</a>")
		assert.Contains(t, payload.BodyText, "3. 🔵 <a href=\"https://vk.com/video1_3\">VK - three</a>")
		assert.NotContains(t, payload.BodyText, "four")
		assert.Equal(t, presentation.Payload{
			Title:     "Casserole",
			ImageUrl:  "https://img/1.jpg",
			BodyText:  payload.BodyText,
			RecipeId:  "52772",
			SourceUrl: "https://source",
		}, payload)
	})

	t.Run("Defaults", func(t *testing.T) {
		payload := presentation.Build(data.RecipeRecord{Id: "9"}, nil)
		assert.Equal(t, "Untitled", payload.Title)
		assert.Contains(t, payload.BodyText, "Category: Not specified")
		assert.Contains(t, payload.BodyText, "No instructions found")
		assert.NotContains(t, payload.BodyText, "More details")
		assert.NotContains(t, payload.BodyText, "Video recipes")
	})
}

func TestPresent(t *testing.T) {
	videos := &stubVideos{found: []data.VideoResult{{Title: "v", Url: "https://vk.com/video1_2", Platform: data.VK}}}
	builder := presentation.NewBuilder(videos)
	payload := builder.Present(context.Background(), data.RecipeRecord{Id: "1", Title: "Shakshuka"})
	assert.Equal(t, []string{"Shakshuka"}, videos.titles)
	assert.Contains(t, payload.BodyText, "VK - v")
}

func TestFormatVideoList(t *testing.T) {
	assert.Equal(t, "😔 No additional videos found for 'Kasha'.", presentation.FormatVideoList("Kasha", nil))
	list := presentation.FormatVideoList("Kasha", []data.VideoResult{
		{Title: "a", Url: "u1", Platform: data.VK},
		{Title: "b", Url: "u2", Platform: data.RUTUBE},
		{Title: "c", Url: "u3", Platform: data.YOUTUBE},
		{Title: "d", Url: "u4", Platform: data.Platform("Other")},
	})
	assert.Contains(t, list, "4. 📹 <a href=\"u4\">Other - d</a>")
	assert.Contains(t, list, "3. 🔴 <a href=\"u3\">YouTube - c</a>")
}
