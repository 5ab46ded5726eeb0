package service_test

import (
	"testing"
	"time"

	"github.com/saadjs/grocery-cli/internal/model"
	"github.com/saadjs/grocery-cli/internal/service"
)

func TestCategorizeFirstMatchWins(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Kipfilet":       "Protein",
		"Chicken Breast": "Protein",
		"Rice":           "Carbohydrate",
		"Rijstazijn":     "Carbohydrate", // RIJST is declared before the Liquide entry RIJSTAZIJN
		"Pindakaas":      "Dairy",        // KAAS
		"Broccoli":       "Vegetable",
		"Olijfolie":      "Fat",
		"Mango":          "Fruit",
		"Oregano":        "Kruiden",
		"Mirin":          "Liquide",
		"Eggplant":       "Vegetable", // not the EGG protein keyword
		"Nutmeg":         "Kruiden",   // not the NUT fat keyword
		"Boiled Egg":     "Protein",
		"Walnut":         "Fat",
		"Couscous":       service.CategoryOther,
	}
	for name, want := range cases {
		if got := service.Categorize(name); got != want {
			t.Fatalf("Categorize(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestCategoriesEndWithOther(t *testing.T) {
	t.Parallel()
	cats := service.Categories()
	if cats[0] != "Protein" || cats[len(cats)-1] != service.CategoryOther {
		t.Fatalf("unexpected category order: %v", cats)
	}
}

func TestMeatOrFish(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Kipfilet":     service.FlagMeat,
		"Rundergehakt": service.FlagMeat,
		"Zalmfilet":    service.FlagFish,
		"Champignons":  service.CategoryOther,
		"Tofu":         service.CategoryOther,
	}
	for name, want := range cases {
		if got := service.MeatOrFish(name); got != want {
			t.Fatalf("MeatOrFish(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestIsVegetarianRecipe(t *testing.T) {
	t.Parallel()
	c := newTestCatalog(t)
	chicken, _ := c.Recipes.Find("Chicken Rice")
	tofu, _ := c.Recipes.Find("Tofu Bowl")

	if service.IsVegetarianRecipe(chicken) {
		t.Fatalf("Chicken Rice is not vegetarian")
	}
	if !service.IsVegetarianRecipe(tofu) {
		t.Fatalf("Tofu Bowl is vegetarian")
	}
	if !service.IsVegetarianRecipe(&model.Recipe{Name: "Empty"}) {
		t.Fatalf("a recipe without lines has no meat")
	}
}

func TestInSeason(t *testing.T) {
	t.Parallel()
	if !service.InSeason("Rode ui", time.January) {
		t.Fatalf("red onion should be in season in January")
	}
	if service.InSeason("Aardbei", time.January) || !service.InSeason("Aardbei", time.June) {
		t.Fatalf("strawberries are a summer crop")
	}
	if len(service.SeasonalFragments(time.August)) == 0 {
		t.Fatalf("expected August fragments")
	}

	tags := service.TagIngredient("Broccoli", time.October)
	if tags.Category != "Vegetable" || tags.MeatOrFish != service.CategoryOther || !tags.InSeason {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}
