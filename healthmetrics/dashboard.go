package healthmetrics

// ProgressStats are headline numbers for a series. Averages are rounded
// half-up; WeightChangeKg is last minus first over samples that recorded a
// weight.
type ProgressStats struct {
	DaysTracked       int     `json:"daysTracked"`
	AvgCalories       int     `json:"avgCalories"`
	AvgSteps          int     `json:"avgSteps"`
	AvgWorkoutMinutes int     `json:"avgWorkoutMinutes"`
	WeightChangeKg    float64 `json:"weightChangeKg"`
}

// Dashboard bundles every display-ready series for one date range.
type Dashboard struct {
	WeightTrend []SmoothedSample `json:"weightTrend"`
	Weekly      []WeeklyBucket   `json:"weekly"`
	Macros      MacroSummary     `json:"macros"`
	Stats       ProgressStats    `json:"stats"`
}

// BuildDashboard runs the weight smoothing, weekly bucketing and macro
// aggregation over one range and adds summary stats.
func BuildDashboard(series []DailySample, meals []MealRecord, window int) (Dashboard, error) {
	trend, err := Smooth(series, FieldWeightKg, window)
	if err != nil {
		return Dashboard{}, err
	}
	weekly, err := WeeklyBuckets(series)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		WeightTrend: trend,
		Weekly:      weekly,
		Macros:      AggregateMacros(meals),
		Stats:       summarize(series),
	}, nil
}

func summarize(series []DailySample) ProgressStats {
	var stats ProgressStats
	if len(series) == 0 {
		return stats
	}
	var calories, steps, workout float64
	first, last := -1, -1
	for i, s := range series {
		calories += s.Calories
		steps += s.Steps
		workout += s.WorkoutMinutes
		if s.WeightKg > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	n := float64(len(series))
	stats.DaysTracked = len(series)
	stats.AvgCalories = roundHalfUp(calories / n)
	stats.AvgSteps = roundHalfUp(steps / n)
	stats.AvgWorkoutMinutes = roundHalfUp(workout / n)
	if first >= 0 {
		stats.WeightChangeKg = series[last].WeightKg - series[first].WeightKg
	}
	return stats
}
