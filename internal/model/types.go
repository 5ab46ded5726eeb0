package model

import "time"

type Unit string

const (
	UnitGram  Unit = "g"
	UnitCount Unit = "u"
)

type Ingredient struct {
	Key               string
	Name              string
	GramsPerUnit      float64
	URL               string
	KcalPer100g       float64
	ProteinPer100g    float64
	PriceURL          string
	KcalPerUnit       float64
	ProteinPerUnit    float64
	ProteinPer100Kcal float64
}

// RecipeLine is one ingredient of a recipe. Ingredient holds the name exactly as it
// appeared in the source data, which may be a display name or a normalized key.
type RecipeLine struct {
	Ingredient string
	Amount     float64
	Unit       Unit
}

type Recipe struct {
	Key   string
	Name  string
	Lines []RecipeLine
}

type LineSource string

const (
	SourceRecipe LineSource = "recipe"
	SourceExtra  LineSource = "extra"
)

type LineItem struct {
	Ingredient    string     `json:"ingredient"`
	IngredientKey string     `json:"ingredient_key"`
	Amount        float64    `json:"amount"`
	Unit          Unit       `json:"unit"`
	Source        LineSource `json:"source"`
	Recipe        string     `json:"recipe,omitempty"`
	Portion       int        `json:"portion,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

type CombinedLine struct {
	Ingredient string  `json:"ingredient"`
	Amount     float64 `json:"amount"`
	Unit       Unit    `json:"unit"`
}

type PerRecipeLine struct {
	Recipe        string  `json:"recipe"`
	Portion       int     `json:"portion"`
	Ingredient    string  `json:"ingredient"`
	IngredientKey string  `json:"ingredient_key"`
	Amount        float64 `json:"amount"`
	Unit          Unit    `json:"unit"`
	Notes         string  `json:"notes,omitempty"`
}

type LogPerRecipeRow struct {
	ID         int64     `json:"id,omitempty"`
	BatchID    string    `json:"batch_id,omitempty"`
	Recipe     string    `json:"recipe"`
	Portion    int       `json:"portion"`
	Ingredient string    `json:"ingredient"`
	Key        string    `json:"ingredient_key"`
	Amount     float64   `json:"amount"`
	Unit       Unit      `json:"unit"`
	Notes      string    `json:"notes,omitempty"`
	ExportDate time.Time `json:"export_date"`
}

type LogCombinedRow struct {
	ID         int64     `json:"id,omitempty"`
	BatchID    string    `json:"batch_id,omitempty"`
	Ingredient string    `json:"ingredient"`
	Amount     float64   `json:"amount"`
	Unit       Unit      `json:"unit"`
	ExportDate time.Time `json:"export_date"`
}
