package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Drago-03/Documentation.AI/internal/model"
	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
)

type IndexHandler struct{}

func NewIndexHandler() *IndexHandler {
	return &IndexHandler{}
}

func (h *IndexHandler) Index(c *gin.Context) {
	response.Success(c, gin.H{
		"name":        "Documentation.AI API",
		"version":     model.AnalyzerVersion,
		"description": "AI-powered documentation generator for GitHub repositories",
		"status":      "running",
		"endpoints":   PublicEndpoints,
	})
}
