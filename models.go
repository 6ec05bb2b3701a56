package main

import (
	"time"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
)

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. AuthToken and Password are hidden from JSON responses.
type user struct {
	ID        int        `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	AuthToken string     `json:"-" db:"auth_token"`
	Password  string     `json:"-" db:"password"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// profile maps to the profiles table. All biometric fields are nullable so a
// fresh account still loads; Targets is filled server-side once the profile
// is complete.
type profile struct {
	UserID        int        `json:"user_id"        db:"user_id"`
	Age           *int       `json:"age"            db:"age"`
	Sex           *string    `json:"sex"            db:"sex"`
	WeightKg      *float64   `json:"weight_kg"      db:"weight_kg"`
	HeightCm      *float64   `json:"height_cm"      db:"height_cm"`
	ActivityLevel *string    `json:"activity_level" db:"activity_level"`
	Goal          *string    `json:"goal"           db:"goal"`
	Equation      *string    `json:"equation"       db:"equation"`
	UpdatedAt     *time.Time `json:"updated_at"     db:"updated_at"`

	// Computed, not stored. db:"-" tells RowToStructByName to skip it.
	Targets *healthmetrics.CalorieTargets `json:"targets,omitempty" db:"-"`
}

// biometrics converts the stored profile into engine input. ok is false
// until age, sex, weight and height are all set; activity level, goal and
// equation fall back to the engine defaults when missing.
func (p *profile) biometrics() (healthmetrics.BiometricProfile, bool) {
	if p.Age == nil || p.Sex == nil || p.WeightKg == nil || p.HeightCm == nil {
		return healthmetrics.BiometricProfile{}, false
	}
	bp := healthmetrics.BiometricProfile{
		Age:      *p.Age,
		Sex:      healthmetrics.Sex(*p.Sex),
		WeightKg: *p.WeightKg,
		HeightCm: *p.HeightCm,
	}
	if p.ActivityLevel != nil {
		bp.ActivityLevel = healthmetrics.ActivityLevel(*p.ActivityLevel)
	}
	if p.Goal != nil {
		bp.Goal = healthmetrics.Goal(*p.Goal)
	}
	if p.Equation != nil {
		bp.Equation = healthmetrics.Equation(*p.Equation)
	}
	return bp, true
}

// meal maps to the meals table.
type meal struct {
	ID          int                    `json:"id"          db:"id"`
	UserID      int                    `json:"user_id"     db:"user_id"`
	Date        healthmetrics.DateOnly `json:"date"        db:"date"`
	Name        string                 `json:"name"        db:"name"`
	Description string                 `json:"description" db:"description"`
	MealType    string                 `json:"meal_type"   db:"meal_type"`
	Calories    float64                `json:"calories"    db:"calories"`
	ProteinG    float64                `json:"protein_g"   db:"protein_g"`
	CarbsG      float64                `json:"carbs_g"     db:"carbs_g"`
	FatsG       float64                `json:"fats_g"      db:"fats_g"`
	FoodItems   []string               `json:"food_items"  db:"food_items"`
	Source      string                 `json:"source"      db:"source"`
	CreatedAt   *time.Time             `json:"created_at"  db:"created_at"`
}

func (m meal) record() healthmetrics.MealRecord {
	return healthmetrics.MealRecord{
		Name:        m.Name,
		Description: m.Description,
		Date:        m.Date,
		MealType:    healthmetrics.MealType(m.MealType),
		Calories:    m.Calories,
		ProteinG:    m.ProteinG,
		CarbsG:      m.CarbsG,
		FatsG:       m.FatsG,
		FoodItems:   m.FoodItems,
		Source:      m.Source,
	}
}

// dailySample maps to daily_samples, one row per (user, date).
type dailySample struct {
	ID             int                    `json:"id"              db:"id"`
	UserID         int                    `json:"user_id"         db:"user_id"`
	Date           healthmetrics.DateOnly `json:"date"            db:"date"`
	WeightKg       float64                `json:"weight_kg"       db:"weight_kg"`
	BodyFatPct     float64                `json:"body_fat_pct"    db:"body_fat_pct"`
	Calories       float64                `json:"calories"        db:"calories"`
	ProteinG       float64                `json:"protein_g"       db:"protein_g"`
	CarbsG         float64                `json:"carbs_g"         db:"carbs_g"`
	FatsG          float64                `json:"fats_g"          db:"fats_g"`
	Steps          float64                `json:"steps"           db:"steps"`
	WorkoutMinutes float64                `json:"workout_minutes" db:"workout_minutes"`
	UpdatedAt      *time.Time             `json:"updated_at"      db:"updated_at"`
}

func (s dailySample) sample() healthmetrics.DailySample {
	return healthmetrics.DailySample{
		Date:           s.Date.String(),
		WeightKg:       s.WeightKg,
		BodyFatPct:     s.BodyFatPct,
		Calories:       s.Calories,
		ProteinG:       s.ProteinG,
		CarbsG:         s.CarbsG,
		FatsG:          s.FatsG,
		Steps:          s.Steps,
		WorkoutMinutes: s.WorkoutMinutes,
	}
}

/* ─── Request / response shapes ──────────────────────────────────────── */

// mealRequest is the body for POST /api/meals and /api/meals/preview: the
// form values plus the AI estimate the client received, if any.
type mealRequest struct {
	Draft    healthmetrics.MealDraft          `json:"draft"`
	Estimate *healthmetrics.NutritionEstimate `json:"estimate"`
}

// patchProfileRequest is the body for PATCH /api/profile. Only non-nil fields
// are written.
type patchProfileRequest struct {
	Age           *int     `json:"age"`
	Sex           *string  `json:"sex"`
	WeightKg      *float64 `json:"weight_kg"`
	HeightCm      *float64 `json:"height_cm"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
	Equation      *string  `json:"equation"`
}

// progressResponse is the body for GET /api/progress.
type progressResponse struct {
	Start     string                  `json:"start"`
	End       string                  `json:"end"`
	Window    int                     `json:"window"`
	Dashboard healthmetrics.Dashboard `json:"dashboard"`
}
