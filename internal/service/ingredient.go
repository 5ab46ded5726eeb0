package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/saadjs/grocery-cli/internal/model"
)

type IngredientInput struct {
	Name           string
	GramsPerUnit   float64
	URL            string
	KcalPer100g    float64
	ProteinPer100g float64
	PriceURL       string
}

// IngredientRegistry holds the canonical ingredient catalog. It is filled once at
// startup and only read afterwards.
type IngredientRegistry struct {
	items map[string]*model.Ingredient
	order []string
}

func NewIngredientRegistry() *IngredientRegistry {
	return &IngredientRegistry{items: map[string]*model.Ingredient{}}
}

// Register adds an ingredient and derives its per-unit values. A name whose key is
// already registered is rejected with ErrDuplicateIngredient and the stored
// ingredient is left untouched.
func (r *IngredientRegistry) Register(in IngredientInput) (*model.Ingredient, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("ingredient name is required")
	}
	key := MakeKey(name)
	if _, ok := r.items[key]; ok {
		return nil, fmt.Errorf("ingredient %q: %w", name, ErrDuplicateIngredient)
	}
	if err := validateNonNegativeFloat("grams per unit", in.GramsPerUnit); err != nil {
		return nil, fmt.Errorf("ingredient %q: %w", name, err)
	}
	if err := validateNonNegativeFloat("kcal per 100g", in.KcalPer100g); err != nil {
		return nil, fmt.Errorf("ingredient %q: %w", name, err)
	}
	if err := validateNonNegativeFloat("protein per 100g", in.ProteinPer100g); err != nil {
		return nil, fmt.Errorf("ingredient %q: %w", name, err)
	}

	ing := &model.Ingredient{
		Key:            key,
		Name:           name,
		GramsPerUnit:   in.GramsPerUnit,
		URL:            strings.TrimSpace(in.URL),
		KcalPer100g:    in.KcalPer100g,
		ProteinPer100g: in.ProteinPer100g,
		PriceURL:       strings.TrimSpace(in.PriceURL),
	}
	if in.KcalPer100g > 0 {
		ing.KcalPerUnit = in.GramsPerUnit * in.KcalPer100g / 100
		ing.ProteinPer100Kcal = in.ProteinPer100g / in.KcalPer100g * 100
	}
	if in.ProteinPer100g > 0 {
		ing.ProteinPerUnit = in.GramsPerUnit * in.ProteinPer100g / 100
	}

	r.items[key] = ing
	r.order = append(r.order, key)
	return ing, nil
}

// Find resolves an ingredient by display name or key.
func (r *IngredientRegistry) Find(name string) (*model.Ingredient, error) {
	if ing, ok := r.items[MakeKey(name)]; ok {
		return ing, nil
	}
	return nil, fmt.Errorf("ingredient %q: %w", strings.TrimSpace(name), ErrIngredientNotFound)
}

// has reports whether the raw name or its normalized key is registered.
func (r *IngredientRegistry) has(raw string) bool {
	if _, ok := r.items[raw]; ok {
		return true
	}
	_, ok := r.items[MakeKey(raw)]
	return ok
}

func (r *IngredientRegistry) Len() int {
	return len(r.items)
}

// All returns ingredients in registration order.
func (r *IngredientRegistry) All() []*model.Ingredient {
	out := make([]*model.Ingredient, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out
}

// Sorted returns ingredients ordered by display name.
func (r *IngredientRegistry) Sorted() []*model.Ingredient {
	out := r.All()
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// Label returns the display name for name, or name itself when it is not registered.
func (r *IngredientRegistry) Label(name string) string {
	if ing, err := r.Find(name); err == nil {
		return ing.Name
	}
	return name
}
