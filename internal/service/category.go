package service

import (
	"strings"
	"time"

	"github.com/saadjs/grocery-cli/internal/model"
)

const (
	CategoryOther = "Other"
	FlagMeat      = "Meat"
	FlagFish      = "Fish"
)

type keywordGroup struct {
	name     string
	keywords []string
	// except vetoes the group for names containing one of these words.
	except []string
}

// Tables are matched in declaration order; the first group with a keyword
// contained in the upper-cased name, and no except word, wins.
var categoryTable = []keywordGroup{
	{"Protein", []string{"KIP", "RUND", "VARKEN", "SEITAN", "VIS", "EI", "TOFU", "LINZEN", "BONEN", "KALKOEN", "ZALM", "SCAMPI", "MISO", "CHICKEN", "BEEF", "PORK", "FISH", "EGG", "LENTIL", "BEAN", "TURKEY", "SALMON", "SHRIMP"}, []string{"EGGPLANT"}},
	{"Vegetable", []string{"EDAMAME", "LENTEUI", "KERSTOMATEN", "AUBERGINE", "COURGETTE", "CHAMPIGNONS", "BROCCOLI", "SPINAZIE", "WORTEL", "TOMAAT", "AARDAPPEL", "UI", "PAPRIKA", "KOMKOMMER", "SPITSKKOOL", "BLOEMKOOL", "SPINACH", "CARROT", "TOMATO", "POTATO", "ONION", "PEPPER", "CUCUMBER", "MUSHROOM", "ZUCCHINI", "EGGPLANT"}, nil},
	{"Carbohydrate", []string{"WRAP", "SUIKER", "RIJST", "PASTA", "BROOD", "CAVATAPPI", "SPAGHETTI", "BLOEM", "MAÏS", "GIST", "BAGUETTE", "KETCHUP", "MOSTERD", "RICE", "BREAD", "FLOUR", "SUGAR", "NOODLE", "TORTILLA"}, nil},
	{"Dairy", []string{"SKYR", "FETA", "MILK", "MOZARELLA", "KAAS", "YOGHURT", "BOTER", "ROOM", "COTTAGE", "CHEESE", "YOGURT", "CREAM"}, nil},
	{"Fat", []string{"PEANUTBUTTER", "OLIJFOLIE", "OLIE", "BUTTER", "MARGARINE", "AVOCADO", "NOTEN", "SEED", "OIL", "NUT"}, []string{"NUTMEG"}},
	{"Fruit", []string{"APPEL", "AARDBEI", "BANAAN", "SINAASAPPEL", "MANDARIJN", "MANGO", "PEER", "PERZIK", "ANANAS", "DRUIVEN", "APPLE", "BANANA", "ORANGE", "STRAWBERR", "GRAPE"}, nil},
	{"Kruiden", []string{"OREGANO", "BASIL", "THYME", "PARSLEY", "NUTMEG", "NOOTMUSKAAT"}, nil},
	{"Liquide", []string{"MIRIN", "RIJSTAZIJN", "LIMOENSAP", "CITROENSAP", "ZOUT", "PEPER", "SOYASAUS", "VINEGAR", "SALT", "SOY"}, nil},
}

var meatFishTable = []keywordGroup{
	{FlagMeat, []string{"KIP", "RUND", "BURGER", "HAMBURGER", "VARKEN", "KALKOEN", "CHICKEN", "BEEF", "PORK", "TURKEY", "BACON"}, nil},
	{FlagFish, []string{"SCAMPI", "ZALM", "ZALMFILET", "SALMON", "SHRIMP", "TUNA", "COD"}, nil},
}

var seasonalTable = map[time.Month][]string{
	time.January:   {"WORTEL", "RODEUI", "PREI", "MANDARIJN"},
	time.February:  {"WORTEL", "RODEUI", "PREI"},
	time.March:     {"WORTEL", "RODEUI", "PREI"},
	time.April:     {"APPEL", "PREI", "LENTEUI"},
	time.May:       {"APPEL", "SPITSKOOL", "LENTEUI", "KOMKOMMER"},
	time.June:      {"APPEL", "WORTEL", "TOMAAT", "SPITSKOOL", "LENTEUI", "KOMKOMMER", "AARDBEI", "BROCCOLI", "COURGETTE", "KERSTOMATEN"},
	time.July:      {"APPEL", "WORTEL", "TOMAAT", "SPITSKOOL", "RODEPAPRIKA", "KOMKOMMER", "AARDBEI", "AUBERGINE", "BROCCOLI", "COURGETTE", "KERSTOMATEN", "KNOFLOOKTEEN"},
	time.August:    {"APPEL", "WORTEL", "TOMAAT", "SPITSKOOL", "RODEUI", "RODEPAPRIKA", "KOMKOMMER", "AARDBEI", "KNOFLOOKTEEN", "AUBERGINE", "BROCCOLI", "COURGETTE", "DRUIVEN", "EDAMAME", "KERSTOMATEN"},
	time.September: {"APPEL", "WORTEL", "TOMAAT", "SPITSKOOL", "RODEUI", "RODEPAPRIKA", "KOMKOMMER", "AUBERGINE", "KNOFLOOKTEEN", "BROCCOLI", "COURGETTE", "DRUIVEN", "EDAMAME", "KERSTOMATEN"},
	time.October:   {"APPEL", "WORTEL", "SPITSKOOL", "RODEUI", "RODEPAPRIKA", "PREI", "BROCCOLI", "KNOFLOOKTEEN", "DRUIVEN"},
	time.November:  {"APPEL", "WORTEL", "SPITSKOOL", "RODEUI", "PREI", "MANDARIJN", "BROCCOLI"},
	time.December:  {"APPEL", "WORTEL", "RODEUI", "PREI", "MANDARIJN"},
}

func matchGroup(table []keywordGroup, name string) string {
	upper := strings.ToUpper(name)
	for _, group := range table {
		if containsAny(upper, group.except) {
			continue
		}
		if containsAny(upper, group.keywords) {
			return group.name
		}
	}
	return CategoryOther
}

func containsAny(upper string, words []string) bool {
	for _, w := range words {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

// Categorize returns the food category of an ingredient name, or "Other".
func Categorize(name string) string {
	return matchGroup(categoryTable, name)
}

// Categories lists category names in match order, followed by "Other".
func Categories() []string {
	out := make([]string, 0, len(categoryTable)+1)
	for _, group := range categoryTable {
		out = append(out, group.name)
	}
	return append(out, CategoryOther)
}

// MeatOrFish returns "Meat", "Fish" or "Other" for an ingredient name.
func MeatOrFish(name string) string {
	return matchGroup(meatFishTable, name)
}

// IsVegetarianRecipe reports whether no line of the recipe classifies as meat or fish.
func IsVegetarianRecipe(recipe *model.Recipe) bool {
	for _, line := range recipe.Lines {
		if MeatOrFish(line.Ingredient) != CategoryOther {
			return false
		}
	}
	return true
}

// SeasonalFragments returns the in-season name fragments for a month.
func SeasonalFragments(month time.Month) []string {
	return append([]string(nil), seasonalTable[month]...)
}

// InSeason reports whether the whitespace-stripped upper-cased name contains a
// fragment that is in season in month.
func InSeason(name string, month time.Month) bool {
	key := MakeKey(name)
	for _, fragment := range seasonalTable[month] {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

type IngredientTags struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	MeatOrFish string `json:"meat_or_fish"`
	InSeason   bool   `json:"in_season"`
}

func TagIngredient(name string, month time.Month) IngredientTags {
	return IngredientTags{
		Name:       name,
		Category:   Categorize(name),
		MeatOrFish: MeatOrFish(name),
		InSeason:   InSeason(name, month),
	}
}
