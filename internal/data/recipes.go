package data

// MAX_INGREDIENTS is the number of numbered ingredient slots a source record carries.
const MAX_INGREDIENTS = 20

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure,omitempty"`
}

type RecipeRecord struct {
	Id              string       `json:"id"`
	Title           string       `json:"title"`
	ImageUrl        string       `json:"imageUrl,omitempty"`
	Category        string       `json:"category"`
	Area            string       `json:"area"`
	Instructions    string       `json:"instructions"`
	Ingredients     []Ingredient `json:"ingredients"`
	SourceUrl       string       `json:"sourceUrl,omitempty"`
	PrimaryVideoUrl string       `json:"primaryVideoUrl,omitempty"`
}

// RecipeStub is what filter queries return; resolve it through a lookup for detail.
type RecipeStub struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}
