package service

import (
	"fmt"
	"strings"

	"github.com/saadjs/grocery-cli/internal/model"
)

type unitDef struct {
	unit   model.Unit
	factor float64
}

var unitTable = map[string]unitDef{
	// mass (base = g)
	"g":     {unit: model.UnitGram, factor: 1},
	"gr":    {unit: model.UnitGram, factor: 1},
	"gram":  {unit: model.UnitGram, factor: 1},
	"grams": {unit: model.UnitGram, factor: 1},
	"kg":    {unit: model.UnitGram, factor: 1000},

	// countable (base = u)
	"u":     {unit: model.UnitCount, factor: 1},
	"unit":  {unit: model.UnitCount, factor: 1},
	"units": {unit: model.UnitCount, factor: 1},
	"pc":    {unit: model.UnitCount, factor: 1},
	"pcs":   {unit: model.UnitCount, factor: 1},
}

// NormalizeUnit lowercases and trims a unit code without validating it.
func NormalizeUnit(unit string) model.Unit {
	return model.Unit(strings.ToLower(strings.TrimSpace(unit)))
}

// ParseUnit validates a unit code. Only the canonical codes "g" and "u" are accepted.
func ParseUnit(unit string) (model.Unit, error) {
	switch u := NormalizeUnit(unit); u {
	case model.UnitGram, model.UnitCount:
		return u, nil
	default:
		return "", fmt.Errorf("%q: %w", unit, ErrUnknownUnit)
	}
}

// ParseQuantity parses user input such as "200g", "1.5kg", "2 u" or "3" (units)
// into an amount expressed in a canonical unit.
func ParseQuantity(raw string) (float64, model.Unit, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, "", fmt.Errorf("quantity is required")
	}
	split := len(raw)
	for i, r := range raw {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			split = i
			break
		}
	}
	amount, err := ParseAmount(raw[:split])
	if err != nil {
		return 0, "", err
	}
	if split == 0 {
		return 0, "", fmt.Errorf("quantity %q: %w", raw, ErrNonNumericAmount)
	}
	suffix := strings.ToLower(strings.TrimSpace(raw[split:]))
	if suffix == "" {
		return amount, model.UnitCount, nil
	}
	def, ok := unitTable[suffix]
	if !ok {
		return 0, "", fmt.Errorf("quantity %q: %w", raw, ErrUnknownUnit)
	}
	return amount * def.factor, def.unit, nil
}

// ConvertToUnits re-expresses gram lines as unit counts using each ingredient's
// grams-per-unit weight and regroups the result by (ingredient, unit), sorted
// like the combined view. Lines that cannot be converted are kept in grams and
// reported as warnings.
func ConvertToUnits(ingredients *IngredientRegistry, lines []model.CombinedLine) ([]model.CombinedLine, []string) {
	totals := map[lineGroupKey]float64{}
	var warnings []string
	for _, line := range lines {
		unit := NormalizeUnit(string(line.Unit))
		amount := line.Amount
		if unit == model.UnitGram {
			ing, err := ingredients.Find(line.Ingredient)
			switch {
			case err != nil:
				warnings = append(warnings, err.Error())
			case ing.GramsPerUnit <= 0:
				warnings = append(warnings, fmt.Sprintf("ingredient %q: %v", ing.Name, ErrNoUnitWeight))
			default:
				amount = line.Amount / ing.GramsPerUnit
				unit = model.UnitCount
			}
		}
		totals[lineGroupKey{line.Ingredient, unit}] += amount
	}
	return sortedCombined(totals), warnings
}
