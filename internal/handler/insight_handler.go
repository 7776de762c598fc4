package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

type InsightHandler struct {
	insight *service.InsightService
}

func NewInsightHandler(insight *service.InsightService) *InsightHandler {
	return &InsightHandler{insight: insight}
}

func (h *InsightHandler) Search(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	query := c.Query("q")
	hits, err := h.insight.Search(c.Request.Context(), id, query, queryInt(c, "top_k", 0))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"job_id": id, "query": query, "results": hits})
}

func (h *InsightHandler) Preview(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	preview, err := h.insight.Preview(c.Request.Context(), id, c.Param("artifact"))
	if err != nil {
		handleError(c, err)
		return
	}
	if c.Query("format") == "json" {
		response.Success(c, preview)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(preview.HTML))
}
