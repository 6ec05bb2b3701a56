package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// computeTargets returns BMR, TDEE and goal targets for the posted profile
// without reading or writing anything.
// POST /api/metrics/targets.
func (h *Handler) computeTargets(c *gin.Context) {
	var body healthmetrics.BiometricProfile
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if msg := normalizeBiometrics(&body); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	targets, err := healthmetrics.ComputeTargets(body)
	if err != nil {
		engineError(c, err)
		return
	}
	c.JSON(http.StatusOK, targets)
}

// normalizeBiometrics rewrites the enum fields of a posted profile to their
// canonical names so form spellings like "Male" or "very_active" are not
// mistaken for unknown values. Returns a client-facing message, or "" when valid.
func normalizeBiometrics(p *healthmetrics.BiometricProfile) string {
	sex, ok := healthmetrics.ParseSex(string(p.Sex))
	if !ok {
		return "sex must be one of: male, female, other"
	}
	p.Sex = sex
	if p.ActivityLevel != "" {
		level, ok := healthmetrics.ParseActivityLevel(string(p.ActivityLevel))
		if !ok {
			return "activityLevel must be one of: sedentary, light, moderate, active, veryActive"
		}
		p.ActivityLevel = level
	}
	if p.Goal != "" {
		goal, ok := healthmetrics.ParseGoal(string(p.Goal))
		if !ok {
			return "goal must be one of: loss, extremeLoss, maintenance, gain"
		}
		p.Goal = goal
	}
	eq, ok := healthmetrics.ParseEquation(string(p.Equation))
	if !ok {
		return "equation must be one of: harrisBenedict, mifflinStJeor"
	}
	p.Equation = eq
	return ""
}

// populateTargets fills p.Targets when the profile is complete enough to
// compute them. Leaves it nil otherwise.
func populateTargets(p *profile) {
	bp, ok := p.biometrics()
	if !ok {
		return
	}
	targets, err := healthmetrics.ComputeTargets(bp)
	if err != nil {
		// Stored values that fail validation (e.g. age 0) just mean no targets yet.
		return
	}
	p.Targets = &targets
}

// getProfile returns the authenticated user's profile with computed targets.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		}
		return
	}

	populateTargets(&p)
	c.JSON(http.StatusOK, p)
}

// validate normalizes enum fields in place and rejects values the engine
// would not understand. Returns a client-facing message, or "" when valid.
func (body *patchProfileRequest) validate() string {
	if body.Age != nil && *body.Age <= 0 {
		return "age must be greater than 0"
	}
	if body.WeightKg != nil && *body.WeightKg <= 0 {
		return "weight_kg must be greater than 0"
	}
	if body.HeightCm != nil && *body.HeightCm <= 0 {
		return "height_cm must be greater than 0"
	}
	if body.Sex != nil {
		sex, ok := healthmetrics.ParseSex(*body.Sex)
		if !ok {
			return "sex must be one of: male, female, other"
		}
		*body.Sex = string(sex)
	}
	// An unknown activity level would silently fall back to moderate, so
	// reject it here where the user can still fix it.
	if body.ActivityLevel != nil {
		level, ok := healthmetrics.ParseActivityLevel(*body.ActivityLevel)
		if !ok {
			return "activity_level must be one of: sedentary, light, moderate, active, veryActive"
		}
		*body.ActivityLevel = string(level)
	}
	if body.Goal != nil {
		goal, ok := healthmetrics.ParseGoal(*body.Goal)
		if !ok {
			return "goal must be one of: loss, extremeLoss, maintenance, gain"
		}
		*body.Goal = string(goal)
	}
	if body.Equation != nil {
		eq, ok := healthmetrics.ParseEquation(*body.Equation)
		if !ok {
			return "equation must be one of: harrisBenedict, mifflinStJeor"
		}
		*body.Equation = string(eq)
	}
	return ""
}

// patchProfile updates only the provided profile fields and returns the
// profile with freshly computed targets.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := body.validate(); msg != "" {
		apiError(c, http.StatusBadRequest, msg)
		return
	}

	// Build SET clause dynamically; only update fields the client actually sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}
	set := func(column, arg string, value any) {
		setClauses = append(setClauses, column+" = @"+arg)
		args[arg] = value
	}
	if body.Age != nil {
		set("age", "age", *body.Age)
	}
	if body.Sex != nil {
		set("sex", "sex", *body.Sex)
	}
	if body.WeightKg != nil {
		set("weight_kg", "weightKg", *body.WeightKg)
	}
	if body.HeightCm != nil {
		set("height_cm", "heightCm", *body.HeightCm)
	}
	if body.ActivityLevel != nil {
		set("activity_level", "activityLevel", *body.ActivityLevel)
	}
	if body.Goal != nil {
		set("goal", "goal", *body.Goal)
	}
	if body.Equation != nil {
		set("equation", "equation", *body.Equation)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE profiles SET " +
		strings.Join(setClauses, ", ") +
		", updated_at = now() WHERE user_id = @userID RETURNING *"

	p, err := queryOne[profile](h.db, c, query, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			apiError(c, http.StatusNotFound, "profile not found")
		} else {
			log.Printf("[patchProfile] update failed for user %d: %v", userID, err)
			apiError(c, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	populateTargets(&p)
	c.JSON(http.StatusOK, p)
}
