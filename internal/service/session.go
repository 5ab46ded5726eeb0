package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saadjs/grocery-cli/internal/model"
)

type ExtraRow struct {
	ID     string `json:"id"`
	Reused bool   `json:"reused,omitempty"`
	ExtraItem
}

// Session is one user's in-progress selection. Sessions are independent of each
// other and only read the shared registries.
type Session struct {
	recipes    *RecipeRegistry
	selections []Selection
	extras     []ExtraRow
}

func NewSession(recipes *RecipeRegistry) *Session {
	return &Session{recipes: recipes}
}

// Select adds a recipe or updates its portion and notes.
func (s *Session) Select(recipe string, portion int, notes string) error {
	if portion <= 0 {
		return fmt.Errorf("recipe %q: %w", recipe, ErrInvalidPortion)
	}
	r, err := s.recipes.Find(recipe)
	if err != nil {
		return err
	}
	for i := range s.selections {
		if MakeKey(s.selections[i].Recipe) == r.Key {
			s.selections[i].Portion = portion
			s.selections[i].Notes = notes
			return nil
		}
	}
	s.selections = append(s.selections, Selection{Recipe: r.Name, Portion: portion, Notes: notes})
	return nil
}

func (s *Session) Deselect(recipe string) {
	key := MakeKey(recipe)
	kept := s.selections[:0]
	for _, sel := range s.selections {
		if MakeKey(sel.Recipe) != key {
			kept = append(kept, sel)
		}
	}
	s.selections = kept
}

func (s *Session) Selections() []Selection {
	return append([]Selection(nil), s.selections...)
}

// AddExtra appends an ad-hoc ingredient row and returns its id.
func (s *Session) AddExtra(ingredient string, amount float64, unit model.Unit) (string, error) {
	return s.addExtra(ingredient, amount, unit, false)
}

func (s *Session) addExtra(ingredient string, amount float64, unit model.Unit, reused bool) (string, error) {
	if strings.TrimSpace(ingredient) == "" {
		return "", fmt.Errorf("ingredient name is required")
	}
	if _, err := ParseUnit(string(unit)); err != nil {
		return "", err
	}
	id := uuid.NewString()
	s.extras = append(s.extras, ExtraRow{
		ID:     id,
		Reused: reused,
		ExtraItem: ExtraItem{
			Ingredient: ingredient,
			Amount:     amount,
			Unit:       NormalizeUnit(string(unit)),
		},
	})
	return id, nil
}

func (s *Session) RemoveExtra(id string) bool {
	for i, row := range s.extras {
		if row.ID == id {
			s.extras = append(s.extras[:i], s.extras[i+1:]...)
			return true
		}
	}
	return false
}

// ReuseExtras adds the extras of a previous list, skipping ingredient+unit pairs
// already present.
func (s *Session) ReuseExtras(previous []model.CombinedLine) []string {
	present := map[lineGroupKey]bool{}
	for _, row := range s.extras {
		present[lineGroupKey{MakeKey(row.Ingredient), row.Unit}] = true
	}
	var ids []string
	for _, line := range previous {
		k := lineGroupKey{MakeKey(line.Ingredient), NormalizeUnit(string(line.Unit))}
		if present[k] {
			continue
		}
		id, err := s.addExtra(line.Ingredient, line.Amount, line.Unit, true)
		if err != nil {
			continue
		}
		present[k] = true
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) Extras() []ExtraRow {
	return append([]ExtraRow(nil), s.extras...)
}

func (s *Session) Build() (*ShoppingList, error) {
	extras := make([]ExtraItem, 0, len(s.extras))
	for _, row := range s.extras {
		extras = append(extras, row.ExtraItem)
	}
	return BuildShoppingList(s.recipes, s.selections, extras)
}
