package healthmetrics

import (
	"math"
	"strings"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
	SexOther  Sex = "other"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "veryActive"
)

type Goal string

const (
	GoalLoss        Goal = "loss"
	GoalExtremeLoss Goal = "extremeLoss"
	GoalMaintenance Goal = "maintenance"
	GoalGain        Goal = "gain"
)

// Equation selects the BMR formula. The empty value means Harris-Benedict.
type Equation string

const (
	EquationHarrisBenedict Equation = "harrisBenedict"
	EquationMifflinStJeor  Equation = "mifflinStJeor"
)

// activityMultipliers maps activity levels to their TDEE multiplier. This is
// the single source of truth for valid activity levels; the API validates
// profile patches against it too.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// goalDeltas is the fixed calorie offset from TDEE for each goal.
var goalDeltas = map[Goal]int{
	GoalLoss:        -500,
	GoalExtremeLoss: -1000,
	GoalMaintenance: 0,
	GoalGain:        500,
}

// Goals lists every goal in display order.
var Goals = []Goal{GoalExtremeLoss, GoalLoss, GoalMaintenance, GoalGain}

// BiometricProfile is the input to ComputeTargets.
type BiometricProfile struct {
	Age           int           `json:"age"`
	Sex           Sex           `json:"sex"`
	WeightKg      float64       `json:"weightKg"`
	HeightCm      float64       `json:"heightCm"`
	ActivityLevel ActivityLevel `json:"activityLevel"`
	Goal          Goal          `json:"goal,omitempty"`
	Equation      Equation      `json:"equation,omitempty"`
}

// CalorieTargets is the derived BMR, TDEE and per-goal calorie targets.
// GoalCalories is the target for the profile's goal, or 0 when none was set.
type CalorieTargets struct {
	BMR          int          `json:"bmr"`
	TDEE         int          `json:"tdee"`
	Targets      map[Goal]int `json:"targets"`
	Goal         Goal         `json:"goal,omitempty"`
	GoalCalories int          `json:"goalCalories,omitempty"`
}

// ComputeTargets derives BMR, TDEE and the goal targets from p.
// Only non-positive age, weight or height are rejected; anything else is
// computed as given.
func ComputeTargets(p BiometricProfile) (CalorieTargets, error) {
	if p.Age <= 0 {
		return CalorieTargets{}, fieldError("age", "must be greater than 0")
	}
	if p.WeightKg <= 0 || math.IsNaN(p.WeightKg) {
		return CalorieTargets{}, fieldError("weightKg", "must be greater than 0")
	}
	if p.HeightCm <= 0 || math.IsNaN(p.HeightCm) {
		return CalorieTargets{}, fieldError("heightCm", "must be greater than 0")
	}

	bmrF := basalRate(p)
	// TDEE scales the unrounded BMR so rounding only happens once per value.
	tdee := roundHalfUp(bmrF * ActivityMultiplier(p.ActivityLevel))

	targets := make(map[Goal]int, len(goalDeltas))
	for g, delta := range goalDeltas {
		targets[g] = tdee + delta
	}

	out := CalorieTargets{
		BMR:     roundHalfUp(bmrF),
		TDEE:    tdee,
		Targets: targets,
	}
	if kcal, ok := targets[p.Goal]; ok {
		out.Goal = p.Goal
		out.GoalCalories = kcal
	}
	return out, nil
}

// ActivityMultiplier returns the TDEE multiplier for level. Unknown or empty
// levels fall back to moderate.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[ActivityModerate]
}

// basalRate returns the unrounded BMR. Sexes other than male and female get
// the mean of the two formulas.
func basalRate(p BiometricProfile) float64 {
	male, female := harrisBenedict(p)
	if p.Equation == EquationMifflinStJeor {
		male, female = mifflinStJeor(p)
	}
	switch p.Sex {
	case SexMale:
		return male
	case SexFemale:
		return female
	default:
		return (male + female) / 2
	}
}

// harrisBenedict uses the Roza & Shizgal (1984) revision.
func harrisBenedict(p BiometricProfile) (male, female float64) {
	age := float64(p.Age)
	male = 88.362 + 13.397*p.WeightKg + 4.799*p.HeightCm - 5.677*age
	female = 447.593 + 9.247*p.WeightKg + 3.098*p.HeightCm - 4.330*age
	return male, female
}

func mifflinStJeor(p BiometricProfile) (male, female float64) {
	base := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(p.Age)
	return base + 5, base - 161
}

// roundHalfUp rounds to the nearest integer with ties going up, so -2.5
// becomes -2 rather than math.Round's -3.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

/* ─── Parsing ────────────────────────────────────────────────────────── */

// ParseSex accepts male/female/other in any case. ok is false for anything else.
func ParseSex(s string) (Sex, bool) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case SexMale:
		return SexMale, true
	case SexFemale:
		return SexFemale, true
	case SexOther:
		return SexOther, true
	}
	return "", false
}

// ParseActivityLevel accepts the canonical names plus snake/kebab spellings
// such as "very_active".
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	switch normalizeEnum(s) {
	case "sedentary":
		return ActivitySedentary, true
	case "light":
		return ActivityLight, true
	case "moderate":
		return ActivityModerate, true
	case "active":
		return ActivityActive, true
	case "veryactive":
		return ActivityVeryActive, true
	}
	return "", false
}

// ParseGoal accepts the canonical names plus the plan form's "weight_loss"
// and "muscle_gain" values.
func ParseGoal(s string) (Goal, bool) {
	switch normalizeEnum(s) {
	case "loss", "weightloss":
		return GoalLoss, true
	case "extremeloss":
		return GoalExtremeLoss, true
	case "maintenance", "maintain":
		return GoalMaintenance, true
	case "gain", "musclegain":
		return GoalGain, true
	}
	return "", false
}

// ParseEquation accepts harrisBenedict or mifflinStJeor; empty selects
// Harris-Benedict.
func ParseEquation(s string) (Equation, bool) {
	switch normalizeEnum(s) {
	case "", "harrisbenedict":
		return EquationHarrisBenedict, true
	case "mifflinstjeor", "mifflin":
		return EquationMifflinStJeor, true
	}
	return "", false
}

func normalizeEnum(s string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
