package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

func schemaProblems(t *testing.T, err error) []string {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInvalidSchema, appErr.Code)
	problems, _ := appErr.Context["problems"].([]string)
	return problems
}

func TestParseMealExtractionFenced(t *testing.T) {
	raw := "Sure!\n```json\n{\"is_food\": true, \"summary\": \"Ribeye with butter\", " +
		"\"ingredients\": [\"ribeye\", \"butter\", \"salt\"], \"quantities\": [\"300g\", \"20g\", \"pinch\"], " +
		"\"calories\": 900, \"protein_g\": 70, \"fat_g\": 68, \"carbs_g\": 0, \"confidence\": \"high\"}\n```"

	got, err := ParseMealExtraction(raw)
	require.NoError(t, err)
	assert.True(t, got.IsFood)
	assert.Equal(t, "Ribeye with butter", got.Summary)
	assert.Equal(t, []string{"ribeye", "butter", "salt"}, got.Ingredients)
	assert.Equal(t, 900.0, got.Calories)
	assert.Equal(t, 68.0, got.FatG)
	assert.Equal(t, "high", got.Confidence)
}

func TestParseMealExtractionNotFood(t *testing.T) {
	got, err := ParseMealExtraction(`{"is_food": false}`)
	require.NoError(t, err)
	assert.False(t, got.IsFood)
}

func TestParseMealExtractionCollectsProblems(t *testing.T) {
	_, err := ParseMealExtraction(`{"is_food": true, "ingredients": "beef", "calories": -5, "fat_g": -1}`)
	problems := schemaProblems(t, err)
	assert.ElementsMatch(t, []string{
		"'summary' is required",
		"'ingredients' must be a list of strings",
		"'calories' cannot be negative",
		"'fat_g' cannot be negative",
	}, problems)
}

func TestParseMealExtractionMissingCalories(t *testing.T) {
	_, err := ParseMealExtraction(`{"is_food": true, "summary": "eggs", "ingredients": ["eggs"]}`)
	assert.Equal(t, []string{"'calories' is required"}, schemaProblems(t, err))
}

func TestParseMealExtractionNestedMacros(t *testing.T) {
	got, err := ParseMealExtraction(`{"summary": "eggs", "ingredients": ["eggs"], "calories": 300,
		"macros": {"protein": 20, "fat": 25}, "fat_g": 24}`)
	require.NoError(t, err)
	assert.True(t, got.IsFood)
	assert.Equal(t, 20.0, got.ProteinG)
	assert.Equal(t, 24.0, got.FatG)
	assert.Zero(t, got.CarbsG)
}

func TestParseMealExtractionNoJSON(t *testing.T) {
	_, err := ParseMealExtraction("I can't see any food here.")
	assert.Equal(t, []string{"no JSON object found in response"}, schemaProblems(t, err))

	_, err = ParseMealExtraction("{not json}")
	assert.Equal(t, apperrors.CodeInvalidSchema, apperrors.CodeOf(err))
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":{"b":1}}`, extractJSON("x {\"a\":{\"b\":1}} y"))
	assert.Empty(t, extractJSON("} {"))
	assert.Empty(t, extractJSON("none"))
}
