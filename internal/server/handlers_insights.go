package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rythu-saathi/backend/internal/assistant"
)

type chatPayload struct {
	Prompt   string `json:"prompt"`
	Context  string `json:"context"`
	Language string `json:"language"`
	Kind     string `json:"kind"`
}

func (h *httpHandler) handleAssistantChat(c *gin.Context) {
	var request chatPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	result, err := h.deps.Assistant.Chat(c.Request.Context(), c.GetString(userIDContextKey), assistant.ChatRequest{
		Prompt:   request.Prompt,
		Context:  request.Context,
		Language: request.Language,
		Kind:     assistant.EntryKind(request.Kind),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type analyzePayload struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
	Kind     string `json:"kind"`
	Language string `json:"language"`
}

func (h *httpHandler) handleAssistantAnalyze(c *gin.Context) {
	var request analyzePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	analysis, err := h.deps.Assistant.AnalyzeImage(c.Request.Context(), c.GetString(userIDContextKey), assistant.AnalyzeRequest{
		ImageBase64: request.Image,
		MimeType:    request.MimeType,
		Kind:        assistant.AnalysisKind(request.Kind),
		Language:    request.Language,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *httpHandler) handleAssistantHistory(c *gin.Context) {
	entries, err := h.deps.Assistant.History(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *httpHandler) handleAssistantClearHistory(c *gin.Context) {
	if err := h.deps.Assistant.ClearHistory(c.Request.Context(), c.GetString(userIDContextKey)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleWeatherFetch(c *gin.Context) {
	location := c.DefaultQuery("location", "Hyderabad")
	language := c.DefaultQuery("language", "en")
	snapshot, err := h.deps.Weather.Fetch(c.Request.Context(), c.GetString(userIDContextKey), location, language)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *httpHandler) handleWeatherCached(c *gin.Context) {
	snapshot, err := h.deps.Weather.Cached(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *httpHandler) handleMarketPrices(c *gin.Context) {
	board := h.deps.Market.Prices(c.Request.Context(), c.Query("state"))
	c.JSON(http.StatusOK, board)
}

func (h *httpHandler) handleSchemesList(c *gin.Context) {
	annotated, err := h.deps.Schemes.List(c.Request.Context(), c.GetString(userIDContextKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schemes": annotated})
}
