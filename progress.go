package main

import (
	"net/http"
	"strconv"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// getProgress returns the dashboard series for [start, end]: the smoothed
// weight trend, weekly rollups, macro split and summary stats.
// GET /api/progress?start=YYYY-MM-DD&end=YYYY-MM-DD[&window=N]. Only days with
// a sample contribute; nothing is gap-filled.
func (h *Handler) getProgress(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, ok := dateRange(c)
	if !ok {
		return
	}
	window := healthmetrics.DefaultWindow
	if s := c.Query("window"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			apiError(c, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = n
	}

	rows, err := queryMany[dailySample](h.db, c,
		`SELECT * FROM daily_samples
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress data")
		return
	}
	meals, err := h.fetchMeals(c, userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}

	series := make([]healthmetrics.DailySample, len(rows))
	for i, r := range rows {
		series[i] = r.sample()
	}
	dash, err := healthmetrics.BuildDashboard(series, mealRecords(meals), window)
	if err != nil {
		engineError(c, err)
		return
	}

	c.JSON(http.StatusOK, progressResponse{Start: start, End: end, Window: window, Dashboard: dash})
}

// upsertSample creates or replaces the sample for the given date.
// POST /api/progress. The UNIQUE(user_id, date) constraint means posting the
// same date again overwrites it.
func (h *Handler) upsertSample(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body healthmetrics.DailySample
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	date, err := healthmetrics.ParseDate(body.Date)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.WeightKg < 0 || body.BodyFatPct < 0 || body.Calories < 0 || body.Steps < 0 || body.WorkoutMinutes < 0 {
		apiError(c, http.StatusBadRequest, "sample values must not be negative")
		return
	}

	row, err := queryOne[dailySample](h.db, c,
		`INSERT INTO daily_samples (user_id, date, weight_kg, body_fat_pct, calories,
		                            protein_g, carbs_g, fats_g, steps, workout_minutes)
		 VALUES (@userID, @date, @weightKg, @bodyFatPct, @calories,
		         @proteinG, @carbsG, @fatsG, @steps, @workoutMinutes)
		 ON CONFLICT (user_id, date) DO UPDATE SET
			weight_kg       = EXCLUDED.weight_kg,
			body_fat_pct    = EXCLUDED.body_fat_pct,
			calories        = EXCLUDED.calories,
			protein_g       = EXCLUDED.protein_g,
			carbs_g         = EXCLUDED.carbs_g,
			fats_g          = EXCLUDED.fats_g,
			steps           = EXCLUDED.steps,
			workout_minutes = EXCLUDED.workout_minutes,
			updated_at      = now()
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": date.String(),
			"weightKg": body.WeightKg, "bodyFatPct": body.BodyFatPct,
			"calories": body.Calories, "proteinG": body.ProteinG,
			"carbsG": body.CarbsG, "fatsG": body.FatsG,
			"steps": body.Steps, "workoutMinutes": body.WorkoutMinutes,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to upsert sample")
		return
	}

	c.JSON(http.StatusCreated, row)
}

// deleteSample removes a daily sample by ID.
// DELETE /api/progress/:id. Returns 204 on success, 404 if not found.
func (h *Handler) deleteSample(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM daily_samples WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete sample")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "sample not found")
		return
	}

	c.Status(http.StatusNoContent)
}
