package healthmetrics

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ParseMealType accepts the four meal types in any case.
func ParseMealType(s string) (MealType, bool) {
	switch m := MealType(strings.ToLower(strings.TrimSpace(s))); m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return m, true
	}
	return "", false
}

// Meal record sources.
const (
	SourceManual     = "manual"
	SourceAIAssisted = "ai_assisted"
)

// NumericInput is a numeric field as the user typed it. It unmarshals from a
// JSON number, a JSON string, or null, and is only converted during MergeMeal
// so a bad value can be reported against its field.
type NumericInput string

func (n *NumericInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}
	*n = NumericInput(b)
	return nil
}

// Num builds a NumericInput from a float, mostly for callers that already
// hold parsed numbers.
func Num(v float64) NumericInput {
	return NumericInput(strconv.FormatFloat(v, 'f', -1, 64))
}

// MealDraft holds the values the user entered for one meal. Empty strings
// mean "not entered".
type MealDraft struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Date        string       `json:"date"`
	MealType    string       `json:"mealType"`
	Calories    NumericInput `json:"calories"`
	ProteinG    NumericInput `json:"proteinG"`
	CarbsG      NumericInput `json:"carbsG"`
	FatsG       NumericInput `json:"fatsG"`
}

// Amount is one numeric reading of an estimate. The model reports a value it
// could not determine as null or "unknown"; both leave Known false.
type Amount struct {
	Value float64
	Known bool
}

// KnownAmount builds an Amount holding v.
func KnownAmount(v float64) Amount {
	return Amount{Value: v, Known: true}
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if !strings.EqualFold(strings.TrimSpace(s), "unknown") {
			return fmt.Errorf("amount must be a number, null or \"unknown\", got %q", s)
		}
		*a = Amount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*a = KnownAmount(v)
	return nil
}

// MarshalJSON writes an unknown amount as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Known {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// NutritionEstimate is the AI reading for a meal.
type NutritionEstimate struct {
	Calories  Amount   `json:"calories"`
	ProteinG  Amount   `json:"proteinG"`
	CarbsG    Amount   `json:"carbsG"`
	FatsG     Amount   `json:"fatsG"`
	FoodItems []string `json:"foodItems"`
	MealType  MealType `json:"mealType,omitempty"`
}

// MealRecord is the reconciled meal. Build a new one with MergeMeal to edit.
type MealRecord struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Date        DateOnly `json:"date"`
	MealType    MealType `json:"mealType"`
	Calories    float64  `json:"calories"`
	ProteinG    float64  `json:"proteinG"`
	CarbsG      float64  `json:"carbsG"`
	FatsG       float64  `json:"fatsG"`
	FoodItems   []string `json:"foodItems"`
	Source      string   `json:"source"`
}

type nutrient int

const (
	nutrientCalories nutrient = iota
	nutrientProtein
	nutrientCarbs
	nutrientFats
)

var nutrientFields = map[nutrient]string{
	nutrientCalories: "calories",
	nutrientProtein:  "proteinG",
	nutrientCarbs:    "carbsG",
	nutrientFats:     "fatsG",
}

// mealSource is one layer of the precedence overlay. Each accessor reports
// whether the source has a value for the field; an error means the source
// had something there that could not be coerced.
type mealSource interface {
	name() (string, bool)
	nutrient(n nutrient) (float64, bool, error)
	mealType() (MealType, bool, error)
}

type draftSource struct{ d MealDraft }

func (s draftSource) name() (string, bool) {
	name := strings.TrimSpace(s.d.Name)
	return name, name != ""
}

func (s draftSource) nutrient(n nutrient) (float64, bool, error) {
	var raw NumericInput
	switch n {
	case nutrientCalories:
		raw = s.d.Calories
	case nutrientProtein:
		raw = s.d.ProteinG
	case nutrientCarbs:
		raw = s.d.CarbsG
	case nutrientFats:
		raw = s.d.FatsG
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fieldError(nutrientFields[n], "not a number: "+strconv.Quote(text))
	}
	return v, true, nil
}

func (s draftSource) mealType() (MealType, bool, error) {
	if strings.TrimSpace(s.d.MealType) == "" {
		return "", false, nil
	}
	m, ok := ParseMealType(s.d.MealType)
	if !ok {
		return "", false, fieldError("mealType", "must be one of: breakfast, lunch, dinner, snack")
	}
	return m, true, nil
}

type estimateSource struct{ e *NutritionEstimate }

// name uses the joined food items; the estimate carries no name of its own.
func (s estimateSource) name() (string, bool) {
	items := make([]string, 0, len(s.e.FoodItems))
	for _, it := range s.e.FoodItems {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	joined := strings.Join(items, ", ")
	return joined, joined != ""
}

func (s estimateSource) nutrient(n nutrient) (float64, bool, error) {
	var a Amount
	switch n {
	case nutrientCalories:
		a = s.e.Calories
	case nutrientProtein:
		a = s.e.ProteinG
	case nutrientCarbs:
		a = s.e.CarbsG
	case nutrientFats:
		a = s.e.FatsG
	}
	if !a.Known || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return 0, false, nil
	}
	return a.Value, true, nil
}

func (s estimateSource) mealType() (MealType, bool, error) {
	m, ok := ParseMealType(string(s.e.MealType))
	return m, ok, nil
}

// MergeMeal reconciles a user draft with an optional AI estimate. For name,
// the nutrients and mealType the draft wins when it has a non-empty value,
// then the estimate, then the zero value. Description and date come from the
// draft only; food items come from the estimate only.
func MergeMeal(draft MealDraft, estimate *NutritionEstimate) (MealRecord, error) {
	sources := []mealSource{draftSource{draft}}
	if estimate != nil {
		sources = append(sources, estimateSource{estimate})
	}

	rec := MealRecord{
		Description: strings.TrimSpace(draft.Description),
		FoodItems:   []string{},
		Source:      SourceManual,
	}
	if strings.TrimSpace(draft.Date) != "" {
		d, err := ParseDate(draft.Date)
		if err != nil {
			return MealRecord{}, fieldError("date", "expected YYYY-MM-DD")
		}
		rec.Date = d
	}

	// usedEstimate flips when any overlay field falls through past the draft.
	usedEstimate := false
	pick := func(i int) {
		if i > 0 {
			usedEstimate = true
		}
	}

	for i, src := range sources {
		if v, ok := src.name(); ok {
			rec.Name = v
			pick(i)
			break
		}
	}

	for _, n := range []nutrient{nutrientCalories, nutrientProtein, nutrientCarbs, nutrientFats} {
		for i, src := range sources {
			v, ok, err := src.nutrient(n)
			if err != nil {
				return MealRecord{}, err
			}
			if !ok {
				continue
			}
			switch n {
			case nutrientCalories:
				rec.Calories = v
			case nutrientProtein:
				rec.ProteinG = v
			case nutrientCarbs:
				rec.CarbsG = v
			case nutrientFats:
				rec.FatsG = v
			}
			pick(i)
			break
		}
	}

	for i, src := range sources {
		m, ok, err := src.mealType()
		if err != nil {
			return MealRecord{}, err
		}
		if ok {
			rec.MealType = m
			pick(i)
			break
		}
	}

	if estimate != nil && len(estimate.FoodItems) > 0 {
		rec.FoodItems = slices.Clone(estimate.FoodItems)
	}
	if usedEstimate {
		rec.Source = SourceAIAssisted
	}
	return rec, nil
}
