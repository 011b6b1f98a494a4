package bot

import (
	"fmt"
)

const (
	MAX_LABEL_BUTTONS = 12
	STAR_FILLED       = "⭐"
	STAR_EMPTY        = "☆"
)

const (
	BUTTON_SEARCH    = "🔍 Search recipes"
	BUTTON_FAVORITES = "❤️ My recipes"
)

const (
	CALLBACK_SEARCH_RECIPES     = "search_recipes"
	CALLBACK_MY_RECIPES         = "my_recipes"
	CALLBACK_RANDOM_RECIPES     = "random_recipes"
	CALLBACK_SEARCH_BY_CATEGORY = "search_by_category"
	CALLBACK_SEARCH_BY_AREA     = "search_by_area"
	CALLBACK_BACK_TO_MAIN       = "back_to_main"
	CALLBACK_BACK_TO_SEARCH     = "back_to_search"
	CALLBACK_BACK_TO_FAVORITES  = "back_to_favorites"
	PREFIX_CATEGORY             = "category_"
	PREFIX_AREA                 = "area_"
	PREFIX_ADD_FAVORITE         = "add_favorite_"
	PREFIX_REMOVE_FAVORITE      = "remove_favorite_"
	PREFIX_RATE                 = "rate_"
	PREFIX_MORE_VIDEOS          = "more_videos_"
)

func _row(buttons ...Button) []Button {
	return buttons
}

func MainMenuKeyboard() *Keyboard {
	return &Keyboard{
		Reply: [][]string{{BUTTON_SEARCH}, {BUTTON_FAVORITES}},
	}
}

func InlineMainMenuKeyboard() *Keyboard {
	return &Keyboard{
		Inline: [][]Button{
			_row(Button{Text: BUTTON_SEARCH, CallbackData: CALLBACK_SEARCH_RECIPES}),
			_row(Button{Text: BUTTON_FAVORITES, CallbackData: CALLBACK_MY_RECIPES}),
		},
	}
}

// RecipeActionsKeyboard offers add for unsaved recipes, and remove plus a
// star row reflecting the current rating for saved ones.
func RecipeActionsKeyboard(recipeId string, isFavorite bool, rating int) *Keyboard {
	var rows [][]Button
	if isFavorite {
		rows = append(rows, _row(Button{Text: "❌ Remove from favorites", CallbackData: PREFIX_REMOVE_FAVORITE + recipeId}))
		stars := make([]Button, 0, 5)
		for i := 1; i <= 5; i++ {
			star := STAR_EMPTY
			if i <= rating {
				star = STAR_FILLED
			}
			stars = append(stars, Button{Text: star, CallbackData: fmt.Sprintf("%s%s_%d", PREFIX_RATE, recipeId, i)})
		}
		rows = append(rows, stars)
	} else {
		rows = append(rows, _row(Button{Text: "❤️ Add to favorites", CallbackData: PREFIX_ADD_FAVORITE + recipeId}))
	}
	rows = append(rows,
		_row(Button{Text: "🎥 More videos", CallbackData: PREFIX_MORE_VIDEOS + recipeId}),
		_row(Button{Text: "🔙 Back to search", CallbackData: CALLBACK_BACK_TO_SEARCH}),
	)
	return &Keyboard{Inline: rows}
}

func SearchOptionsKeyboard() *Keyboard {
	return &Keyboard{
		Inline: [][]Button{
			_row(Button{Text: "🎲 Random recipes", CallbackData: CALLBACK_RANDOM_RECIPES}),
			_row(Button{Text: "🏷️ By category", CallbackData: CALLBACK_SEARCH_BY_CATEGORY}),
			_row(Button{Text: "🌍 By cuisine", CallbackData: CALLBACK_SEARCH_BY_AREA}),
			_row(Button{Text: "🔙 Back to menu", CallbackData: CALLBACK_BACK_TO_MAIN}),
		},
	}
}

func FavoritesMenuKeyboard() *Keyboard {
	return &Keyboard{
		Inline: [][]Button{
			_row(Button{Text: "🔙 Back to menu", CallbackData: CALLBACK_BACK_TO_MAIN}),
		},
	}
}

// LabelsKeyboard lists at most MAX_LABEL_BUTTONS category or cuisine labels.
func LabelsKeyboard(prefix string, labels []string) *Keyboard {
	var rows [][]Button
	for i, label := range labels {
		if i == MAX_LABEL_BUTTONS {
			break
		}
		rows = append(rows, _row(Button{Text: label, CallbackData: prefix + label}))
	}
	rows = append(rows, _row(Button{Text: "🔙 Back to search", CallbackData: CALLBACK_BACK_TO_SEARCH}))
	return &Keyboard{Inline: rows}
}
