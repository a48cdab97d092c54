package services

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/vladimiradmaev/carnivore-helper/internal/errors"
)

// MealExtraction is what the model reports about a described or
// photographed meal. Numbers are estimates and are passed on untouched.
type MealExtraction struct {
	IsFood               bool     `json:"is_food"`
	Summary              string   `json:"summary"`
	Ingredients          []string `json:"ingredients"`
	Quantities           []string `json:"quantities"`
	ForbiddenIngredients []string `json:"forbidden_ingredients"`
	Calories             float64  `json:"calories"`
	ProteinG             float64  `json:"protein_g"`
	FatG                 float64  `json:"fat_g"`
	CarbsG               float64  `json:"carbs_g"`
	Confidence           string   `json:"confidence"`
}

const mealExtractionPrompt = `You are a nutrition assistant for people following a carnivore diet.
Extract the meal the user ate from the input.

RULES:
- List every ingredient separately, including seasonings, sauces and cooking fats
- Use simple lowercase ingredient names ("ribeye", "butter", "salt")
- Estimate portion quantities when they are not stated
- Estimate calories and macros in grams for the whole meal
- Put anything that is plant based or processed into forbidden_ingredients as well
- If the input is not about food, respond with {"is_food": false}

CRITICAL JSON FORMAT REQUIREMENTS:
- Your response MUST be a valid JSON object
- Do not include any explanatory text before or after the JSON
- The JSON must have these exact fields:
  {
    "is_food": true,
    "summary": "short description of the meal",
    "ingredients": ["item1", "item2"],
    "quantities": ["300g", "1 tbsp"],
    "forbidden_ingredients": [],
    "calories": 850,
    "protein_g": 60,
    "fat_g": 65,
    "carbs_g": 0,
    "confidence": "low|medium|high"
  }`

var extractionNumbers = []string{"calories", "protein_g", "fat_g", "carbs_g"}

// ParseMealExtraction pulls the JSON object out of a model reply and checks
// its shape. Every problem found is reported in one validation error.
func ParseMealExtraction(raw string) (*MealExtraction, error) {
	jsonStr := extractJSON(raw)
	if jsonStr == "" {
		return nil, apperrors.NewSchemaError([]string{"no JSON object found in response"})
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeValidation, apperrors.CodeInvalidSchema,
			"malformed extraction JSON")
	}

	var problems []string
	out := &MealExtraction{}

	decode := func(key string, dst any, kind string) bool {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			return false
		}
		if err := json.Unmarshal(v, dst); err != nil {
			problems = append(problems, fmt.Sprintf("'%s' must be %s", key, kind))
			return false
		}
		return true
	}

	if !decode("is_food", &out.IsFood, "a boolean") {
		if _, ok := fields["is_food"]; !ok {
			// Older replies omit the flag and only carry the meal.
			out.IsFood = true
		}
	}
	if !out.IsFood && len(problems) == 0 {
		return out, nil
	}

	if !decode("summary", &out.Summary, "a string") || strings.TrimSpace(out.Summary) == "" {
		problems = appendMissing(problems, "summary")
	}
	if !decode("ingredients", &out.Ingredients, "a list of strings") {
		problems = appendMissing(problems, "ingredients")
	}
	decode("quantities", &out.Quantities, "a list of strings")
	decode("forbidden_ingredients", &out.ForbiddenIngredients, "a list of strings")
	decode("confidence", &out.Confidence, "a string")

	targets := map[string]*float64{
		"calories":  &out.Calories,
		"protein_g": &out.ProteinG,
		"fat_g":     &out.FatG,
		"carbs_g":   &out.CarbsG,
	}
	legacyMacros(fields, targets)
	for _, key := range extractionNumbers {
		dst := targets[key]
		present := decode(key, dst, "a number")
		if !present && key == "calories" {
			problems = appendMissing(problems, key)
		}
		if *dst < 0 {
			problems = append(problems, fmt.Sprintf("'%s' cannot be negative", key))
		}
	}

	if len(problems) > 0 {
		return nil, apperrors.NewSchemaError(problems)
	}
	return out, nil
}

// legacyMacros fills protein/fat/carbs from the nested "macros" object older
// prompts asked for. Top-level fields win when both are present.
func legacyMacros(fields map[string]json.RawMessage, targets map[string]*float64) {
	raw, ok := fields["macros"]
	if !ok {
		return
	}
	var macros struct {
		Protein *float64 `json:"protein"`
		Fat     *float64 `json:"fat"`
		Carbs   *float64 `json:"carbs"`
	}
	if json.Unmarshal(raw, &macros) != nil {
		return
	}
	for key, v := range map[string]*float64{"protein_g": macros.Protein, "fat_g": macros.Fat, "carbs_g": macros.Carbs} {
		if _, top := fields[key]; !top && v != nil {
			*targets[key] = *v
		}
	}
}

func appendMissing(problems []string, key string) []string {
	for _, p := range problems {
		if strings.HasPrefix(p, "'"+key+"'") {
			return problems
		}
	}
	return append(problems, fmt.Sprintf("'%s' is required", key))
}

// extractJSON attempts to extract a valid JSON object from the given string.
// It handles cases where the JSON is wrapped in code blocks (```json ... ```) or other text.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end <= start {
		return ""
	}
	return s[start : end+1]
}
