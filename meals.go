package main

import (
	"net/http"
	"time"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// previewMeal merges the draft with the estimate and returns the record
// without storing it, so the form can show what will be saved.
// POST /api/meals/preview.
func (h *Handler) previewMeal(c *gin.Context) {
	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := healthmetrics.MergeMeal(body.Draft, body.Estimate)
	if err != nil {
		engineError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// createMeal merges the draft with the estimate and stores the result.
// POST /api/meals. Defaults the date to today if omitted.
func (h *Handler) createMeal(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body mealRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Draft.Date == "" {
		body.Draft.Date = time.Now().Format(healthmetrics.DateLayout)
	}

	rec, err := healthmetrics.MergeMeal(body.Draft, body.Estimate)
	if err != nil {
		engineError(c, err)
		return
	}

	m, err := queryOne[meal](h.db, c,
		`INSERT INTO meals (user_id, date, name, description, meal_type, calories,
		                    protein_g, carbs_g, fats_g, food_items, source)
		 VALUES (@userID, @date, @name, @description, @mealType, @calories,
		         @proteinG, @carbsG, @fatsG, @foodItems, @source)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": rec.Date.String(), "name": rec.Name,
			"description": rec.Description, "mealType": string(rec.MealType),
			"calories": rec.Calories, "proteinG": rec.ProteinG,
			"carbsG": rec.CarbsG, "fatsG": rec.FatsG,
			"foodItems": rec.FoodItems, "source": rec.Source,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create meal")
		return
	}

	c.JSON(http.StatusCreated, m)
}

// fetchMeals loads the user's meals in [start, end], oldest first.
func (h *Handler) fetchMeals(c *gin.Context, userID int, start, end string) ([]meal, error) {
	return queryMany[meal](h.db, c,
		`SELECT * FROM meals
		 WHERE user_id = @userID AND date >= @start AND date <= @end
		 ORDER BY date ASC, created_at ASC`,
		pgx.NamedArgs{"userID": userID, "start": start, "end": end})
}

// listMeals returns the user's meals within [start, end].
// GET /api/meals?start=YYYY-MM-DD&end=YYYY-MM-DD. Both params required.
func (h *Handler) listMeals(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	meals, err := h.fetchMeals(c, userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	c.JSON(http.StatusOK, meals)
}

// getMacros returns the protein/carbs/fats split over meals in [start, end].
// GET /api/meals/macros?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) getMacros(c *gin.Context) {
	userID := c.GetInt("user_id")
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	meals, err := h.fetchMeals(c, userID, start, end)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch meals")
		return
	}
	c.JSON(http.StatusOK, healthmetrics.AggregateMacros(mealRecords(meals)))
}

func mealRecords(meals []meal) []healthmetrics.MealRecord {
	out := make([]healthmetrics.MealRecord, len(meals))
	for i, m := range meals {
		out[i] = m.record()
	}
	return out
}

// deleteMeal removes a meal. Returns 204 on success, 404 if not found.
// DELETE /api/meals/:id. Ownership is enforced by matching both id and user_id.
func (h *Handler) deleteMeal(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM meals WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete meal")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "meal not found")
		return
	}

	c.Status(http.StatusNoContent)
}
