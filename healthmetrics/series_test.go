package healthmetrics

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// weights builds a series starting 2024-01-01 with one weight per day.
func weights(vals ...float64) []DailySample {
	out := make([]DailySample, len(vals))
	for i, v := range vals {
		d, _ := ParseDate("2024-01-01")
		out[i] = DailySample{Date: d.AddDate(0, 0, i).Format(DateLayout), WeightKg: v}
	}
	return out
}

/* ─── Smooth ─────────────────────────────────────────────────────────── */

func TestSmooth_ConstantSeries(t *testing.T) {
	got, err := Smooth(weights(5, 5, 5, 5, 5, 5, 5, 5), FieldWeightKg, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, s := range got {
		if s.MA != 5 {
			t.Errorf("MA[%d] = %v, want 5", i, s.MA)
		}
	}
}

// TestSmooth_TrailingWindow verifies the start of the series averages fewer
// samples and later points never look ahead.
func TestSmooth_TrailingWindow(t *testing.T) {
	got, err := Smooth(weights(1, 2, 3, 4, 10), FieldWeightKg, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{1, 1.5, 2.5, 3.5, 7}
	for i, w := range want {
		if got[i].MA != w {
			t.Errorf("MA[%d] = %v, want %v", i, got[i].MA, w)
		}
	}
}

func TestSmooth_DefaultWindow(t *testing.T) {
	series := weights(1, 2, 3, 4, 5, 6, 7, 8, 9)
	got, err := Smooth(series, FieldWeightKg, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// index 8 averages 3..9
	if got[8].MA != 6 {
		t.Errorf("MA[8] = %v, want 6", got[8].MA)
	}
}

// TestSmooth_Idempotent re-smooths the base samples of the first run and
// expects identical means.
func TestSmooth_Idempotent(t *testing.T) {
	series := weights(80.2, 79.9, 80.4, 79.1, 78.8, 79.3, 78.6, 78.2, 78.9)
	first, err := Smooth(series, FieldWeightKg, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	base := make([]DailySample, len(first))
	for i, s := range first {
		base[i] = s.DailySample
	}
	second, err := Smooth(base, FieldWeightKg, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i].MA != second[i].MA {
			t.Errorf("MA[%d] changed: %v then %v", i, first[i].MA, second[i].MA)
		}
	}
}

func TestSmooth_Empty(t *testing.T) {
	got, err := Smooth(nil, FieldWeightKg, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestSmooth_Errors(t *testing.T) {
	series := weights(1, 2, 3)
	series[1].Date = "2024-13-40"
	_, err := Smooth(series, FieldWeightKg, 7)
	var inv *InvalidInputError
	if !errors.As(err, &inv) {
		t.Fatalf("expected *InvalidInputError, got %v", err)
	}
	if inv.Index != 1 || inv.Field != "date" {
		t.Errorf("index/field = %d/%s, want 1/date", inv.Index, inv.Field)
	}

	if _, err := Smooth(weights(1), Field("mood"), 7); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for unknown field, got %v", err)
	}
}

func TestSmoothedSample_MarshalJSON(t *testing.T) {
	got, err := Smooth(weights(70, 72), FieldWeightKg, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := json.Marshal(got[1])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m["weightKgMA"] != 71.0 {
		t.Errorf("weightKgMA = %v, want 71", m["weightKgMA"])
	}
	if m["date"] != "2024-01-02" || m["weightKg"] != 72.0 {
		t.Errorf("base fields missing from %s", b)
	}
}

/* ─── WeeklyBuckets ──────────────────────────────────────────────────── */

// TestWeeklyBuckets_SameWeek puts a Sunday and the following Wednesday in one
// bucket. 2024-01-07 is a Sunday.
func TestWeeklyBuckets_SameWeek(t *testing.T) {
	series := []DailySample{
		{Date: "2024-01-07", Calories: 2000, Steps: 8000, WorkoutMinutes: 30},
		{Date: "2024-01-10", Calories: 2101, Steps: 9001, WorkoutMinutes: 45},
	}
	got, err := WeeklyBuckets(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(got))
	}
	b := got[0]
	if b.WeekStart.String() != "2024-01-07" {
		t.Errorf("weekStart = %s, want 2024-01-07", b.WeekStart)
	}
	if b.Calories != 2051 || b.Steps != 8501 || b.WorkoutMinutes != 38 || b.SampleCount != 2 {
		t.Errorf("bucket = %+v, want calories 2051, steps 8501, workout 38, count 2", b)
	}
}

// TestWeeklyBuckets_AcrossWeeks feeds a Saturday and the next day (Sunday),
// which land in different weeks, and checks ascending order.
func TestWeeklyBuckets_AcrossWeeks(t *testing.T) {
	series := []DailySample{
		{Date: "2024-01-06", Calories: 1800},
		{Date: "2024-01-07", Calories: 2200},
		{Date: "2024-01-30", Calories: 1900},
	}
	got, err := WeeklyBuckets(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"2023-12-31", "2024-01-07", "2024-01-28"}
	if len(got) != len(want) {
		t.Fatalf("expected %d buckets, got %d", len(want), len(got))
	}
	for i, w := range want {
		if got[i].WeekStart.String() != w {
			t.Errorf("bucket %d weekStart = %s, want %s", i, got[i].WeekStart, w)
		}
		if got[i].SampleCount != 1 {
			t.Errorf("bucket %d count = %d, want 1", i, got[i].SampleCount)
		}
	}
}

func TestWeeklyBuckets_EmptyAndMalformed(t *testing.T) {
	got, err := WeeklyBuckets([]DailySample{})
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("empty series: got %#v, %v", got, err)
	}

	_, err = WeeklyBuckets([]DailySample{{Date: "2024-01-01"}, {Date: "2024-01-02"}, {Date: "yesterday"}})
	var inv *InvalidInputError
	if !errors.As(err, &inv) || inv.Index != 2 {
		t.Errorf("expected InvalidInput at index 2, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "sample 2") {
		t.Errorf("error %q does not name the sample index", err)
	}
}

/* ─── AggregateMacros ────────────────────────────────────────────────── */

func TestAggregateMacros_Empty(t *testing.T) {
	got := AggregateMacros(nil)
	wantNames := []string{"Protein", "Carbs", "Fats"}
	if len(got.Totals) != 3 {
		t.Fatalf("expected 3 totals, got %d", len(got.Totals))
	}
	for i, m := range got.Totals {
		if m.Name != wantNames[i] {
			t.Errorf("totals[%d].Name = %s, want %s", i, m.Name, wantNames[i])
		}
		if m.Value != 0 || m.Share != 0 {
			t.Errorf("%s = %v (share %v), want 0/0", m.Name, m.Value, m.Share)
		}
	}
}

func TestAggregateMacros_SumsAndShares(t *testing.T) {
	meals := []MealRecord{
		{ProteinG: 15, CarbsG: 45, FatsG: 12},
		{ProteinG: 15, CarbsG: 5, FatsG: 8},
		{},
	}
	got := AggregateMacros(meals)
	want := []struct {
		value, share float64
		color        string
	}{
		{30, 0.3, ProteinColor},
		{50, 0.5, CarbsColor},
		{20, 0.2, FatsColor},
	}
	for i, w := range want {
		m := got.Totals[i]
		if m.Value != w.value || m.Share != w.share || m.Color != w.color {
			t.Errorf("%s = %v/%v/%s, want %v/%v/%s", m.Name, m.Value, m.Share, m.Color, w.value, w.share, w.color)
		}
	}
	if got.Total != 100 {
		t.Errorf("total = %v, want 100", got.Total)
	}
}
