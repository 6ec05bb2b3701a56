package healthmetrics

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
)

// DefaultWindow is the trailing window used when Smooth is given window <= 0.
const DefaultWindow = 7

// Field names a numeric column of DailySample. The values double as the JSON
// keys, so a smoothed weight series carries "weightKgMA".
type Field string

const (
	FieldWeightKg       Field = "weightKg"
	FieldBodyFatPct     Field = "bodyFatPct"
	FieldCalories       Field = "calories"
	FieldProteinG       Field = "proteinG"
	FieldCarbsG         Field = "carbsG"
	FieldFatsG          Field = "fatsG"
	FieldSteps          Field = "steps"
	FieldWorkoutMinutes Field = "workoutMinutes"
)

// DailySample is one day of progress. A series is sorted ascending by Date
// with at most one sample per date; the aggregator does not check either.
type DailySample struct {
	Date           string  `json:"date"`
	WeightKg       float64 `json:"weightKg"`
	BodyFatPct     float64 `json:"bodyFatPct"`
	Calories       float64 `json:"calories"`
	ProteinG       float64 `json:"proteinG"`
	CarbsG         float64 `json:"carbsG"`
	FatsG          float64 `json:"fatsG"`
	Steps          float64 `json:"steps"`
	WorkoutMinutes float64 `json:"workoutMinutes"`
}

// Value returns the sample's value for f. ok is false for an unknown field.
func (s DailySample) Value(f Field) (v float64, ok bool) {
	switch f {
	case FieldWeightKg:
		return s.WeightKg, true
	case FieldBodyFatPct:
		return s.BodyFatPct, true
	case FieldCalories:
		return s.Calories, true
	case FieldProteinG:
		return s.ProteinG, true
	case FieldCarbsG:
		return s.CarbsG, true
	case FieldFatsG:
		return s.FatsG, true
	case FieldSteps:
		return s.Steps, true
	case FieldWorkoutMinutes:
		return s.WorkoutMinutes, true
	}
	return 0, false
}

// SmoothedSample is a DailySample plus the trailing mean of Field.
type SmoothedSample struct {
	DailySample
	Field Field   `json:"-"`
	MA    float64 `json:"-"`
}

// MarshalJSON flattens the sample and adds the mean under "<field>MA".
func (s SmoothedSample) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(s.DailySample)
	if err != nil {
		return nil, err
	}
	ma, err := json.Marshal(s.MA)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(base)+len(s.Field)+len(ma)+8)
	out = append(out, base[:len(base)-1]...)
	out = append(out, ',')
	out = strconv.AppendQuote(out, string(s.Field)+"MA")
	out = append(out, ':')
	out = append(out, ma...)
	out = append(out, '}')
	return out, nil
}

// WeeklyBucket holds the rounded means of the samples whose week starts on
// WeekStart (a Sunday).
type WeeklyBucket struct {
	WeekStart      DateOnly `json:"weekStart"`
	Calories       int      `json:"calories"`
	Steps          int      `json:"steps"`
	WorkoutMinutes int      `json:"workoutMinutes"`
	SampleCount    int      `json:"sampleCount"`
}

// MacroTotal is one slice of the macro distribution.
type MacroTotal struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
	Share float64 `json:"share"`
}

// MacroSummary is the protein/carbs/fats split over a set of meals, always in
// that order.
type MacroSummary struct {
	Totals []MacroTotal `json:"totals"`
	Total  float64      `json:"total"`
}

// Chart colors for each macro.
const (
	ProteinColor = "#8884d8"
	CarbsColor   = "#82ca9d"
	FatsColor    = "#ffc658"
)

// validateDates parses every sample date so a malformed one is reported
// against its index before any output is produced.
func validateDates(series []DailySample) ([]DateOnly, error) {
	dates := make([]DateOnly, len(series))
	for i, s := range series {
		d, err := ParseDate(s.Date)
		if err != nil {
			return nil, sampleError(i, "date", "expected YYYY-MM-DD, got "+strconv.Quote(s.Date))
		}
		dates[i] = d
	}
	return dates, nil
}

// Smooth returns a copy of series where every element carries the mean of
// field over the trailing window ending at that element. The first elements
// average whatever is available; there is no padding and no look-ahead.
func Smooth(series []DailySample, field Field, window int) ([]SmoothedSample, error) {
	if len(series) == 0 {
		return []SmoothedSample{}, nil
	}
	if _, ok := (DailySample{}).Value(field); !ok {
		return nil, fieldError("field", "unknown series field "+strconv.Quote(string(field)))
	}
	if window <= 0 {
		window = DefaultWindow
	}
	if _, err := validateDates(series); err != nil {
		return nil, err
	}

	out := make([]SmoothedSample, len(series))
	for i, s := range series {
		start := max(0, i-window+1)
		var sum float64
		for _, w := range series[start : i+1] {
			v, _ := w.Value(field)
			sum += v
		}
		out[i] = SmoothedSample{
			DailySample: s,
			Field:       field,
			MA:          sum / float64(i+1-start),
		}
	}
	return out, nil
}

// WeeklyBuckets groups samples into Sunday-start weeks and averages calories,
// steps and workout minutes per week. Buckets come back in ascending week
// order and only weeks with at least one sample appear.
func WeeklyBuckets(series []DailySample) ([]WeeklyBucket, error) {
	dates, err := validateDates(series)
	if err != nil {
		return nil, err
	}

	type acc struct {
		weekStart                DateOnly
		calories, steps, workout float64
		count                    int
	}
	// Keyed by the formatted date so equal days always collide.
	weeks := make(map[string]*acc)
	for i, s := range series {
		ws := WeekStart(dates[i])
		a, ok := weeks[ws.String()]
		if !ok {
			a = &acc{weekStart: ws}
			weeks[ws.String()] = a
		}
		a.calories += s.Calories
		a.steps += s.Steps
		a.workout += s.WorkoutMinutes
		a.count++
	}

	out := make([]WeeklyBucket, 0, len(weeks))
	for _, a := range weeks {
		n := float64(a.count)
		out = append(out, WeeklyBucket{
			WeekStart:      a.weekStart,
			Calories:       roundHalfUp(a.calories / n),
			Steps:          roundHalfUp(a.steps / n),
			WorkoutMinutes: roundHalfUp(a.workout / n),
			SampleCount:    a.count,
		})
	}
	slices.SortFunc(out, func(a, b WeeklyBucket) int {
		return a.WeekStart.Time.Compare(b.WeekStart.Time)
	})
	return out, nil
}

// AggregateMacros sums protein, carbs and fats across meals. Shares are each
// macro's fraction of the grand total, and all zero when the total is zero.
func AggregateMacros(meals []MealRecord) MacroSummary {
	var protein, carbs, fats float64
	for _, m := range meals {
		protein += finiteOrZero(m.ProteinG)
		carbs += finiteOrZero(m.CarbsG)
		fats += finiteOrZero(m.FatsG)
	}
	total := protein + carbs + fats

	share := func(v float64) float64 {
		if total == 0 {
			return 0
		}
		return v / total
	}
	return MacroSummary{
		Totals: []MacroTotal{
			{Name: "Protein", Value: protein, Color: ProteinColor, Share: share(protein)},
			{Name: "Carbs", Value: carbs, Color: CarbsColor, Share: share(carbs)},
			{Name: "Fats", Value: fats, Color: FatsColor, Share: share(fats)},
		},
		Total: total,
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
