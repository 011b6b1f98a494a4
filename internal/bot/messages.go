package bot

import (
	"fmt"
	"html"
	"strings"

	"philcali.me/recipebot/internal/data"
)

const (
	MSG_SEARCH_OPTIONS = "🔍 <b>Recipe search</b>\n\n" +
		"Choose how to search:\n" +
		"• Type a dish name or an ingredient\n" +
		"• Or pick one of the options below"
	MSG_USE_MENU             = "Please use the menu buttons to navigate."
	MSG_SEARCHING            = "🔍 Searching for recipes..."
	MSG_NO_RECIPES           = "😔 No recipes found. Try another query."
	MSG_SOURCE_UNAVAILABLE   = "❌ The recipe service is unavailable right now. Please try again later."
	MSG_NO_FAVORITES         = "❤️ You have no favorite recipes yet.\n\nFind something tasty and add it to your favorites!"
	MSG_MAIN_MENU            = "🏠 Main menu"
	MSG_RANDOM_SEARCHING     = "🎲 Looking for random recipes..."
	MSG_RANDOM_EMPTY         = "😔 Could not find any recipes."
	MSG_LOADING_CATEGORIES   = "🏷️ Loading categories..."
	MSG_CHOOSE_CATEGORY      = "🏷️ <b>Choose a category:</b>"
	MSG_NO_CATEGORIES        = "😔 No categories found."
	MSG_LOADING_AREAS        = "🌍 Loading cuisines..."
	MSG_CHOOSE_AREA          = "🌍 <b>Choose a cuisine:</b>"
	MSG_NO_AREAS             = "😔 No cuisines found."
	MSG_CATEGORY_EMPTY       = "😔 No recipes found in this category."
	MSG_AREA_EMPTY           = "😔 No recipes found for this cuisine."
	MSG_DETAILS_FAILED       = "😔 Could not load the recipes."
	MSG_ADDED                = "✅ Recipe added to favorites!"
	MSG_ALREADY_SAVED        = "⚠️ Recipe is already in your favorites!"
	MSG_REMOVED              = "✅ Recipe removed from favorites!"
	MSG_NOT_IN_FAVORITES     = "❌ Recipe is not in your favorites!"
	MSG_FAVORITE_FIRST       = "❌ Add the recipe to your favorites first!"
	MSG_RATING_FAILED        = "❌ Could not set the rating!"
	MSG_RECIPE_FAILED        = "❌ Could not load the recipe!"
	MSG_VIDEOS_SEARCHING     = "🎥 Looking for more videos..."
	MSG_SOMETHING_WENT_WRONG = "❌ Something went wrong. Please try again."
)

func WelcomeMessage(firstName string) string {
	return fmt.Sprintf("👋 Hi, %s!\n\n"+
		"🍳 I am a recipe search bot!\n\n"+
		"What I can do:\n"+
		"• 🔍 Find recipes by name or ingredient\n"+
		"• ❤️ Save the recipes you like to favorites\n"+
		"• 📱 Show your saved recipes\n\n"+
		"Choose an action:", firstName)
}

func RatedMessage(rating int) string {
	return fmt.Sprintf("✅ Rating %d⭐ set!", rating)
}

func SearchingCategoryMessage(category string) string {
	return fmt.Sprintf("🏷️ Looking for recipes in category '%s'...", category)
}

func SearchingAreaMessage(area string) string {
	return fmt.Sprintf("🌍 Looking for recipes from the '%s' cuisine...", area)
}

func RatingStars(rating int) string {
	if rating < data.MIN_RATING {
		rating = data.MIN_RATING
	}
	if rating > data.MAX_RATING {
		rating = data.MAX_RATING
	}
	return strings.Repeat(STAR_FILLED, rating) + strings.Repeat(STAR_EMPTY, data.MAX_RATING-rating)
}

// FavoritesMessage renders one numbered line per entry, in the order given.
func FavoritesMessage(entries []data.FavoriteEntry) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "❤️ <b>Your favorite recipes</b> (%d)\n\n", len(entries))
	for i, entry := range entries {
		fmt.Fprintf(&builder, "%d. %s %s\n", i+1, html.EscapeString(entry.Title), RatingStars(entry.Rating))
	}
	return builder.String()
}
