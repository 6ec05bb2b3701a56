package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, config) for all route handlers.
type Handler struct {
	db            *pgxpool.Pool
	openAIBaseURL string // Base URL for the OpenAI-compatible API (overridable for tests)
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T. Never returns a nil
// slice on success so JSON encodes [] rather than null.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
		return nil, err
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

/* ─── Response helpers ────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// engineError reports a healthmetrics failure. InvalidInput names the bad
// field so it goes back to the client as a 400; anything else is a bug.
func engineError(c *gin.Context, err error) {
	if errors.Is(err, healthmetrics.ErrInvalidInput) {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("[engineError] unexpected error: %v", err)
	apiError(c, http.StatusInternalServerError, "internal error")
}

// dateRange reads the required start/end query params (YYYY-MM-DD).
// Writes a 400 and returns ok=false when either is missing, malformed, or
// start is after end.
func dateRange(c *gin.Context) (start, end string, ok bool) {
	start = c.Query("start")
	end = c.Query("end")
	if start == "" || end == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return "", "", false
	}
	if _, err := time.Parse(healthmetrics.DateLayout, start); err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return "", "", false
	}
	if _, err := time.Parse(healthmetrics.DateLayout, end); err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return "", "", false
	}
	if start > end {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return "", "", false
	}
	return start, end, true
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool from DB_URL and exits on failure.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Simple protocol avoids "cached plan must not change result type" errors
	// from server-side statement caches after a migration.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	log.Println("DB pool ready")
	return pool
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	h.registerStatelessRoutes(api)
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/meals", h.listMeals)
	api.POST("/meals", h.createMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.GET("/meals/macros", h.getMacros)
	api.GET("/progress", h.getProgress)
	api.POST("/progress", h.upsertSample)
	api.DELETE("/progress/:id", h.deleteSample)
}

// registerStatelessRoutes registers the routes that never touch the database.
// Split out so tests can mount them without a pool or auth.
func (h *Handler) registerStatelessRoutes(r gin.IRoutes) {
	r.POST("/metrics/targets", h.computeTargets)
	r.POST("/meals/preview", h.previewMeal)
	r.POST("/meals/estimate", h.estimateMeal)
}
