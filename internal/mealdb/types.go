package mealdb

import (
	"encoding/json"
	"fmt"
	"strings"

	"philcali.me/recipebot/internal/data"
)

// Meal is one recipe object as TheMealDB returns it. The numbered
// strIngredientN/strMeasureN pairs are collected into fixed slots.
type Meal struct {
	Id           string
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumbnail    string
	Source       string
	Youtube      string
	Ingredients  [data.MAX_INGREDIENTS]string
	Measures     [data.MAX_INGREDIENTS]string
}

func _field(bag map[string]json.RawMessage, name string) string {
	raw, ok := bag[name]
	if !ok {
		return ""
	}
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil || value == nil {
		return ""
	}
	return *value
}

func (m *Meal) UnmarshalJSON(body []byte) error {
	var bag map[string]json.RawMessage
	if err := json.Unmarshal(body, &bag); err != nil {
		return err
	}
	m.Id = _field(bag, "idMeal")
	m.Name = _field(bag, "strMeal")
	m.Category = _field(bag, "strCategory")
	m.Area = _field(bag, "strArea")
	m.Instructions = _field(bag, "strInstructions")
	m.Thumbnail = _field(bag, "strMealThumb")
	m.Source = _field(bag, "strSource")
	m.Youtube = _field(bag, "strYoutube")
	for i := 0; i < data.MAX_INGREDIENTS; i++ {
		m.Ingredients[i] = _field(bag, fmt.Sprintf("strIngredient%d", i+1))
		m.Measures[i] = _field(bag, fmt.Sprintf("strMeasure%d", i+1))
	}
	return nil
}

func ToRecipe(m Meal) data.RecipeRecord {
	ingredients := make([]data.Ingredient, 0, data.MAX_INGREDIENTS)
	for i := 0; i < data.MAX_INGREDIENTS; i++ {
		name := strings.TrimSpace(m.Ingredients[i])
		if name == "" {
			continue
		}
		ingredients = append(ingredients, data.Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(m.Measures[i]),
		})
	}
	return data.RecipeRecord{
		Id:              strings.TrimSpace(m.Id),
		Title:           m.Name,
		ImageUrl:        strings.TrimSpace(m.Thumbnail),
		Category:        m.Category,
		Area:            m.Area,
		Instructions:    m.Instructions,
		Ingredients:     ingredients,
		SourceUrl:       strings.TrimSpace(m.Source),
		PrimaryVideoUrl: strings.TrimSpace(m.Youtube),
	}
}

func ConvertFilteredToStub(m FilteredMeal) data.RecipeStub {
	return data.RecipeStub{
		Id:    m.Id,
		Title: m.Name,
	}
}

type FilteredMeal struct {
	Id        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

type Category struct {
	Id          string `json:"idCategory"`
	Name        string `json:"strCategory"`
	Thumbnail   string `json:"strCategoryThumb"`
	Description string `json:"strCategoryDescription"`
}

type Area struct {
	Name string `json:"strArea"`
}

type CategoryResponse struct {
	Categories []Category `json:"categories"`
}

type AreaResponse struct {
	Meals []Area `json:"meals"`
}

type QueryResponse struct {
	Meals []Meal `json:"meals"`
}

type FilterResponse struct {
	Meals []FilteredMeal `json:"meals"`
}
