package service

import "errors"

var (
	ErrDuplicateIngredient = errors.New("ingredient already exists")
	ErrDuplicateRecipe     = errors.New("recipe already exists")
	ErrEmptyRecipe         = errors.New("recipe must have at least one ingredient")
	ErrMissingIngredient   = errors.New("recipe references an unknown ingredient")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrUnknownUnit         = errors.New("unknown unit")
	ErrNonNumericAmount    = errors.New("amount must be numeric")
	ErrZeroEnergyRecipe    = errors.New("recipe has no energy")
	ErrInvalidPortion      = errors.New("portion must be > 0")
	ErrNoUnitWeight        = errors.New("ingredient has no grams-per-unit weight")
	ErrNothingToWrite      = errors.New("nothing to export")
)
