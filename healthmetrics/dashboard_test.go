package healthmetrics

import (
	"errors"
	"testing"
)

func TestBuildDashboard(t *testing.T) {
	series := []DailySample{
		{Date: "2024-01-05", WeightKg: 75.0, Calories: 2000, Steps: 7000, WorkoutMinutes: 30},
		{Date: "2024-01-06", WeightKg: 0, Calories: 2100, Steps: 9000, WorkoutMinutes: 0},
		{Date: "2024-01-07", WeightKg: 74.5, Calories: 1901, Steps: 8000, WorkoutMinutes: 60},
	}
	meals := []MealRecord{{ProteinG: 40, CarbsG: 30, FatsG: 25}}

	got, err := BuildDashboard(series, meals, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.WeightTrend) != 3 || got.WeightTrend[0].Field != FieldWeightKg {
		t.Errorf("weight trend = %+v", got.WeightTrend)
	}
	if len(got.Weekly) != 2 {
		t.Errorf("expected 2 weekly buckets, got %d", len(got.Weekly))
	}
	if got.Macros.Total != 95 {
		t.Errorf("macro total = %v, want 95", got.Macros.Total)
	}

	want := ProgressStats{DaysTracked: 3, AvgCalories: 2000, AvgSteps: 8000, AvgWorkoutMinutes: 30, WeightChangeKg: -0.5}
	if got.Stats != want {
		t.Errorf("stats = %+v, want %+v", got.Stats, want)
	}
}

func TestBuildDashboard_Empty(t *testing.T) {
	got, err := BuildDashboard(nil, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.WeightTrend) != 0 || len(got.Weekly) != 0 || got.Stats.DaysTracked != 0 {
		t.Errorf("expected empty dashboard, got %+v", got)
	}
}

func TestBuildDashboard_MalformedDate(t *testing.T) {
	_, err := BuildDashboard([]DailySample{{Date: "2024-1-5"}}, nil, 7)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
