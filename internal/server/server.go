package server

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/atelierhq/procura/internal/catalog"
	"github.com/atelierhq/procura/internal/config"
	"github.com/atelierhq/procura/internal/core"
	"github.com/atelierhq/procura/internal/core/extraction"
	"github.com/atelierhq/procura/internal/core/model"
	"github.com/atelierhq/procura/internal/llm"
)

type Server struct {
	Reconciler *core.Reconciler
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Warning: could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}

	// Env vars win over the file, same keys the deploy scripts export.
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}

	store, err := catalog.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open catalog store: %v", err)
	}

	// No provider configured means the AI-assist path is off and quote
	// analysis degrades to manual entry; approval still works.
	var visionClient llm.VisionClient
	if cfg.LLM.Provider != "" {
		visionClient, err = llm.NewClient(context.Background(), cfg.LLM)
		if err != nil {
			log.Fatalf("Failed to initialize LLM client: %v", err)
		}
	} else {
		log.Println("No LLM provider configured, quote extraction disabled")
	}

	return &Server{
		Reconciler: core.NewReconciler(store, visionClient, cfg),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/quotes/:id/analyze", s.AnalyzeQuote)
	r.GET("/quotes/:id/report", s.GetReport)
	r.POST("/quotes/:id/decision", s.ApplyDecision)
	r.POST("/quotes/:id/extras/:resultId/resolve", s.ResolveExtra)

	return r
}

type AnalyzeRequest struct {
	Document struct {
		MIMEType string `json:"mime_type"`
		Data     string `json:"data"` // base64
	} `json:"document"`
	RequestedItems []model.RequestedItem `json:"requested_items"`
}

func (s *Server) AnalyzeQuote(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Document.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Document data is not valid base64"})
		return
	}

	report, err := s.Reconciler.AnalyzeQuote(c.Request.Context(), c.Param("id"), extraction.Document{
		MIMEType: req.Document.MIMEType,
		Data:     data,
	}, req.RequestedItems)
	if err != nil {
		s.renderExtractionError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// renderExtractionError maps the extraction taxonomy onto responses the UI
// turns into its fallback flows.
func (s *Server) renderExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extraction.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "AI-assisted analysis is not available", "fallback": "manual_entry"})
	case errors.Is(err, extraction.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "The analysis service is busy, try again shortly"})
	case errors.Is(err, extraction.ErrUnreadableDocument), errors.Is(err, extraction.ErrMalformedResponse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Could not read the quote document, try a clearer image"})
	default:
		log.Printf("Failed to analyze quote: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to analyze quote"})
	}
}

func (s *Server) GetReport(c *gin.Context) {
	report, err := s.Reconciler.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No analysis found for this quote"})
		return
	}
	c.JSON(http.StatusOK, report)
}

type DecisionRequest struct {
	Decision model.ApprovalDecision `json:"decision"`
	ActorID  string                 `json:"actor_id"`
}

func (s *Server) ApplyDecision(c *gin.Context) {
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !req.Decision.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown decision"})
		return
	}

	result, err := s.Reconciler.ApplyDecision(c.Request.Context(), c.Param("id"), req.Decision, req.ActorID)
	if err != nil {
		log.Printf("Failed to apply decision: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply decision"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type ResolveExtraRequest struct {
	CatalogItemID string `json:"catalog_item_id"` // empty = dismissed
}

func (s *Server) ResolveExtra(c *gin.Context) {
	var req ResolveExtraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := s.Reconciler.ResolveExtra(c.Request.Context(),
		c.Param("id"), c.Param("resultId"), req.CatalogItemID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such match result"})
		return
	}

	c.JSON(http.StatusOK, report)
}
