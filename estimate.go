package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Suhaas-Suran/HealthAI/healthmetrics"
	"github.com/gin-gonic/gin"
)

/* ─── Request types ──────────────────────────────────────────────────── */

// estimateRequest is the body for POST /api/meals/estimate. At least one of
// Description or Image (a data: URL from the photo picker) is required.
type estimateRequest struct {
	Description string `json:"description"`
	Image       string `json:"image"`
}

const nutritionSystemPrompt = `You are a nutrition assistant. Identify the food in the user's description or photo and return a JSON object with:
- "foodItems" (array of strings, each a short food name)
- "calories" (number, total for everything shown or described)
- "proteinG" (number, grams)
- "carbsG" (number, grams)
- "fatsG" (number, grams)
- "mealType" (one of: breakfast, lunch, dinner, snack; omit if unclear)

Use null for any value you cannot estimate. Only return {"error": "unrecognized"} if there is no food at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single chat message. Content is either a string or a
// list of content parts when an image is attached.
type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat map[string]any  `json:"response_format"`
}

// chatCompletion is the subset of the chat completions response we read.
type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// estimateClient bounds each model call. Photo analysis is the slow path.
var estimateClient = &http.Client{Timeout: 30 * time.Second}

// estimateModel is OPENAI_MODEL, or gpt-4o-mini when unset.
func estimateModel() string {
	if m := os.Getenv("OPENAI_MODEL"); m != "" {
		return m
	}
	return "gpt-4o-mini"
}

// requestEstimate asks the model at baseURL for a JSON nutrition reading and
// returns the raw JSON text it produced.
func requestEstimate(ctx context.Context, baseURL string, messages []openAIMessage) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("estimate: OPENAI_API_KEY is empty")
	}

	payload, err := json.Marshal(openAIRequest{
		Model:          estimateModel(),
		Messages:       messages,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("estimate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("estimate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := estimateClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("estimate: call model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("estimate: model status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	var completion chatCompletion
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("estimate: decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("estimate: model returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// userMessage builds the user turn, attaching the image as a content part
// when present.
func userMessage(req estimateRequest) openAIMessage {
	text := strings.TrimSpace(req.Description)
	if req.Image == "" {
		return openAIMessage{Role: "user", Content: text}
	}
	if text == "" {
		text = "Analyze this meal photo."
	}
	return openAIMessage{Role: "user", Content: []openAIContentPart{
		{Type: "text", Text: text},
		{Type: "image_url", ImageURL: &openAIImageURL{URL: req.Image}},
	}}
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// estimateMeal asks the model for a nutrition estimate of a described or
// photographed meal. The result is what the client later sends back as the
// estimate half of POST /api/meals.
// POST /api/meals/estimate.
func (h *Handler) estimateMeal(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" && req.Image == "" {
		apiError(c, http.StatusBadRequest, "description or image is required")
		return
	}
	if req.Image != "" && !strings.HasPrefix(req.Image, "data:image/") && !strings.HasPrefix(req.Image, "https://") {
		apiError(c, http.StatusBadRequest, "image must be a data:image/ or https URL")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: nutritionSystemPrompt},
		userMessage(req),
	}
	content, err := requestEstimate(c.Request.Context(), h.openAIBaseURL, messages)
	if err != nil {
		log.Printf("[estimateMeal] %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[estimateMeal] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var est healthmetrics.NutritionEstimate
	if err := json.Unmarshal([]byte(content), &est); err != nil {
		log.Printf("[estimateMeal] Failed to parse estimate JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	// A meal type outside the enum is dropped rather than passed to the merge.
	est.MealType, _ = healthmetrics.ParseMealType(string(est.MealType))
	if est.FoodItems == nil {
		est.FoodItems = []string{}
	}
	// Nothing usable at all is treated the same as an explicit "unrecognized".
	if len(est.FoodItems) == 0 && !est.Calories.Known {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, est)
}
