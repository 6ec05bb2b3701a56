package healthmetrics

import (
	"encoding/json"
	"errors"
	"testing"
)

func known(v float64) Amount { return KnownAmount(v) }

/* ─── Precedence ─────────────────────────────────────────────────────── */

// TestMergeMeal_FoodItemsFillEmptyName covers the image-analysis flow: the user
// left the form blank, so the joined food items become the name and the AI
// calories are used.
func TestMergeMeal_FoodItemsFillEmptyName(t *testing.T) {
	rec, err := MergeMeal(
		MealDraft{Name: "", Calories: ""},
		&NutritionEstimate{FoodItems: []string{"rice", "beans"}, Calories: known(400)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "rice, beans" {
		t.Errorf("name = %q, want %q", rec.Name, "rice, beans")
	}
	if rec.Calories != 400 {
		t.Errorf("calories = %v, want 400", rec.Calories)
	}
	if rec.Source != SourceAIAssisted {
		t.Errorf("source = %q, want %q", rec.Source, SourceAIAssisted)
	}
}

func TestMergeMeal_DraftWins(t *testing.T) {
	rec, err := MergeMeal(
		MealDraft{Name: "My Bowl", Calories: "500"},
		&NutritionEstimate{Calories: known(400), FoodItems: []string{"rice"}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "My Bowl" {
		t.Errorf("name = %q, want %q (food items must not be appended)", rec.Name, "My Bowl")
	}
	if rec.Calories != 500 {
		t.Errorf("calories = %v, want 500", rec.Calories)
	}
	if rec.Source != SourceManual {
		t.Errorf("source = %q, want %q", rec.Source, SourceManual)
	}
}

// TestMergeMeal_PerFieldOverlay mixes draft and estimate values field by field.
func TestMergeMeal_PerFieldOverlay(t *testing.T) {
	rec, err := MergeMeal(
		MealDraft{ProteinG: "30", MealType: "Dinner", Description: " leftovers "},
		&NutritionEstimate{
			Calories: known(620), ProteinG: known(25), CarbsG: known(70), FatsG: Amount{},
			MealType: MealLunch,
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Calories != 620 || rec.ProteinG != 30 || rec.CarbsG != 70 || rec.FatsG != 0 {
		t.Errorf("nutrients = %v/%v/%v/%v, want 620/30/70/0", rec.Calories, rec.ProteinG, rec.CarbsG, rec.FatsG)
	}
	if rec.MealType != MealDinner {
		t.Errorf("mealType = %q, want dinner", rec.MealType)
	}
	if rec.Description != "leftovers" {
		t.Errorf("description = %q, want %q", rec.Description, "leftovers")
	}
}

// TestMergeMeal_ZeroIsAValue verifies an explicit "0" from the user beats the
// estimate, and a known 0 from the estimate beats the empty default.
func TestMergeMeal_ZeroIsAValue(t *testing.T) {
	rec, err := MergeMeal(
		MealDraft{Calories: "0"},
		&NutritionEstimate{Calories: known(400), FatsG: known(0)},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Calories != 0 {
		t.Errorf("calories = %v, want 0", rec.Calories)
	}
	if rec.Source != SourceAIAssisted {
		t.Errorf("source = %q, want %q", rec.Source, SourceAIAssisted)
	}
}

func TestMergeMeal_NoEstimate(t *testing.T) {
	rec, err := MergeMeal(MealDraft{Date: "2024-03-05"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Name != "" || rec.Calories != 0 || rec.MealType != "" {
		t.Errorf("expected zero values, got %+v", rec)
	}
	if rec.Date.String() != "2024-03-05" {
		t.Errorf("date = %q, want 2024-03-05", rec.Date.String())
	}
	if rec.FoodItems == nil || len(rec.FoodItems) != 0 {
		t.Errorf("expected empty non-nil food items, got %#v", rec.FoodItems)
	}
}

// TestMergeMeal_RecordDoesNotAliasEstimate verifies mutating the estimate after
// the merge leaves the record untouched.
func TestMergeMeal_RecordDoesNotAliasEstimate(t *testing.T) {
	est := &NutritionEstimate{FoodItems: []string{"toast", "egg"}}
	rec, err := MergeMeal(MealDraft{}, est)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	est.FoodItems[0] = "bagel"
	if rec.FoodItems[0] != "toast" {
		t.Errorf("record food items changed with estimate: %v", rec.FoodItems)
	}
}

/* ─── Coercion failures ──────────────────────────────────────────────── */

func TestMergeMeal_InvalidInput(t *testing.T) {
	cases := []struct {
		name      string
		draft     MealDraft
		wantField string
	}{
		{"non-numeric calories", MealDraft{Calories: "lots"}, "calories"},
		{"non-numeric protein", MealDraft{ProteinG: "12g"}, "proteinG"},
		{"NaN carbs", MealDraft{CarbsG: "NaN"}, "carbsG"},
		{"infinite fats", MealDraft{FatsG: "Inf"}, "fatsG"},
		{"unknown meal type", MealDraft{MealType: "brunch"}, "mealType"},
		{"malformed date", MealDraft{Date: "03/05/2024"}, "date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MergeMeal(tc.draft, &NutritionEstimate{Calories: known(100)})
			var inv *InvalidInputError
			if !errors.As(err, &inv) {
				t.Fatalf("expected *InvalidInputError, got %v", err)
			}
			if inv.Field != tc.wantField {
				t.Errorf("field = %q, want %q", inv.Field, tc.wantField)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Error("expected errors.Is(err, ErrInvalidInput)")
			}
		})
	}
}

/* ─── JSON input ─────────────────────────────────────────────────────── */

// TestMealDraft_UnmarshalNumbersAndStrings verifies form values arrive either
// as JSON numbers or strings.
func TestMealDraft_UnmarshalNumbersAndStrings(t *testing.T) {
	var d MealDraft
	body := `{"name":"Oats","calories":350,"proteinG":"12.5","carbsG":null,"fatsG":""}`
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	rec, err := MergeMeal(d, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Calories != 350 || rec.ProteinG != 12.5 || rec.CarbsG != 0 || rec.FatsG != 0 {
		t.Errorf("nutrients = %v/%v/%v/%v, want 350/12.5/0/0", rec.Calories, rec.ProteinG, rec.CarbsG, rec.FatsG)
	}
}

// TestNutritionEstimate_UnknownAmounts verifies "unknown" and null from the
// model decode as missing values, so the merge falls back to the draft or zero.
func TestNutritionEstimate_UnknownAmounts(t *testing.T) {
	var est NutritionEstimate
	body := `{"calories":"unknown","proteinG":12,"carbsG":"Unknown","fatsG":null,"foodItems":["soup"]}`
	if err := json.Unmarshal([]byte(body), &est); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if est.Calories.Known || est.CarbsG.Known || est.FatsG.Known {
		t.Errorf("expected unknown amounts, got %+v", est)
	}

	rec, err := MergeMeal(MealDraft{CarbsG: "20"}, &est)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Calories != 0 || rec.ProteinG != 12 || rec.CarbsG != 20 || rec.FatsG != 0 {
		t.Errorf("nutrients = %v/%v/%v/%v, want 0/12/20/0", rec.Calories, rec.ProteinG, rec.CarbsG, rec.FatsG)
	}
	if rec.Name != "soup" {
		t.Errorf("name = %q, want soup", rec.Name)
	}

	out, err := json.Marshal(est)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back NutritionEstimate
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal %s: %v", out, err)
	}
	if back.Calories.Known || !back.ProteinG.Known || back.ProteinG.Value != 12 {
		t.Errorf("round trip = %+v", back)
	}
}

func TestAmount_RejectsOtherStrings(t *testing.T) {
	for _, body := range []string{`"lots"`, `"400"`, `""`, `true`} {
		var a Amount
		if err := json.Unmarshal([]byte(body), &a); err == nil {
			t.Errorf("Unmarshal(%s) = %+v, want error", body, a)
		}
	}
}
