package presentation

import (
	"context"
	"fmt"
	"html"
	"strings"

	"philcali.me/recipebot/internal/data"
)

const (
	MAX_INSTRUCTIONS       = 500
	MAX_INGREDIENTS        = 10
	MAX_VIDEOS             = 3
	ELLIPSIS               = "..."
	DEFAULT_MEASURE        = "to taste"
	DEFAULT_TITLE          = "Untitled"
	DEFAULT_LABEL          = "Not specified"
	DEFAULT_INSTRUCTIONS   = "No instructions found"
	PRIMARY_VIDEO_CAPTION  = "YouTube video recipe"
	SOURCE_LINK_CAPTION    = "More details"
	VIDEO_SECTION_HEADLINE = "🎥 <b>Video recipes:</b>"
)

type Payload struct {
	Title     string `json:"title"`
	ImageUrl  string `json:"imageUrl"`
	BodyText  string `json:"bodyText"`
	RecipeId  string `json:"recipeId"`
	SourceUrl string `json:"sourceUrl"`
}

type VideoSearcher interface {
	SearchAll(ctx context.Context, title string) []data.VideoResult
}

// Builder turns a recipe into a card, fetching supplementary videos for it.
type Builder struct {
	Videos VideoSearcher
}

func NewBuilder(videos VideoSearcher) *Builder {
	return &Builder{Videos: videos}
}

func (b *Builder) Present(ctx context.Context, record data.RecipeRecord) Payload {
	var found []data.VideoResult
	if b.Videos != nil {
		found = b.Videos.SearchAll(ctx, _orDefault(record.Title, DEFAULT_TITLE))
	}
	return Build(record, found)
}

func _orDefault(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// TruncateInstructions cuts at MAX_INSTRUCTIONS characters and marks the cut.
func TruncateInstructions(instructions string) string {
	runes := []rune(instructions)
	if len(runes) <= MAX_INSTRUCTIONS {
		return instructions
	}
	return string(runes[:MAX_INSTRUCTIONS]) + ELLIPSIS
}

func FormatIngredients(ingredients []data.Ingredient) string {
	lines := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		name := strings.TrimSpace(ingredient.Name)
		if name == "" {
			continue
		}
		measure := _orDefault(strings.TrimSpace(ingredient.Measure), DEFAULT_MEASURE)
		lines = append(lines, fmt.Sprintf("• %s - %s", html.EscapeString(name), html.EscapeString(measure)))
	}
	if len(lines) <= MAX_INGREDIENTS {
		return strings.Join(lines, "\n")
	}
	remaining := len(lines) - MAX_INGREDIENTS
	return strings.Join(lines[:MAX_INGREDIENTS], "\n") + fmt.Sprintf("\n... and %d more ingredients", remaining)
}

func FormatVideoLine(ordinal int, video data.VideoResult) string {
	return fmt.Sprintf("%d. %s <a href=\"%s\">%s - %s</a>",
		ordinal,
		video.Platform.Icon(),
		html.EscapeString(video.Url),
		video.Platform,
		html.EscapeString(video.Title))
}

func FormatVideoLinks(videos []data.VideoResult) string {
	if len(videos) == 0 {
		return ""
	}
	var builder strings.Builder
	builder.WriteString("\n\n" + VIDEO_SECTION_HEADLINE + "\n")
	for i, video := range videos {
		if i >= MAX_VIDEOS {
			break
		}
		builder.WriteString(FormatVideoLine(i+1, video) + "\n")
	}
	return builder.String()
}

// FormatVideoList renders every video found for a recipe, uncapped.
func FormatVideoList(title string, videos []data.VideoResult) string {
	if len(videos) == 0 {
		return fmt.Sprintf("😔 No additional videos found for '%s'.", html.EscapeString(title))
	}
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🎥 <b>Video recipes for '%s':</b>\n\n", html.EscapeString(title)))
	for i, video := range videos {
		builder.WriteString(FormatVideoLine(i+1, video) + "\n")
	}
	return strings.TrimSpace(builder.String())
}

// Build is pure: the same record and videos always produce the same payload.
func Build(record data.RecipeRecord, videos []data.VideoResult) Payload {
	title := _orDefault(record.Title, DEFAULT_TITLE)
	instructions := TruncateInstructions(_orDefault(record.Instructions, DEFAULT_INSTRUCTIONS))

	var body strings.Builder
	fmt.Fprintf(&body, "🍽️ <b>%s</b>\n\n", html.EscapeString(title))
	fmt.Fprintf(&body, "🏷️ Category: %s\n", html.EscapeString(_orDefault(record.Category, DEFAULT_LABEL)))
	fmt.Fprintf(&body, "🌍 Cuisine: %s\n\n", html.EscapeString(_orDefault(record.Area, DEFAULT_LABEL)))
	fmt.Fprintf(&body, "📋 <b>Ingredients:</b>\n%s\n\n", FormatIngredients(record.Ingredients))
	fmt.Fprintf(&body, "📝 <b>Instructions:</b>\n%s", html.EscapeString(instructions))
	if record.SourceUrl != "" {
		fmt.Fprintf(&body, "\n\n🔗 <a href=\"%s\">%s</a>", html.EscapeString(record.SourceUrl), SOURCE_LINK_CAPTION)
	}
	if record.PrimaryVideoUrl != "" {
		fmt.Fprintf(&body, "\n🎥 <a href=\"%s\">%s</a>", html.EscapeString(record.PrimaryVideoUrl), PRIMARY_VIDEO_CAPTION)
	}
	body.WriteString(FormatVideoLinks(videos))

	return Payload{
		Title:     title,
		ImageUrl:  record.ImageUrl,
		BodyText:  strings.TrimSpace(body.String()),
		RecipeId:  record.Id,
		SourceUrl: record.SourceUrl,
	}
}
