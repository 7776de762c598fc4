package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Drago-03/Documentation.AI/internal/pkg/errcode"
	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

type AnalysisHandler struct {
	analysis *service.AnalysisService
}

func NewAnalysisHandler(analysis *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysis: analysis}
}

type analyzeRequest struct {
	RepoURL string `json:"repo_url"`
}

func (h *AnalysisHandler) Describe(c *gin.Context) {
	response.Success(c, gin.H{
		"message":         "Repository analysis endpoint",
		"method":          "POST",
		"required_fields": []string{"repo_url"},
		"description":     "Submit a GitHub repository URL to generate AI documentation",
		"example":         gin.H{"repo_url": "https://github.com/owner/repository"},
	})
}

// Analyze runs the whole pipeline before answering.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	if c.ContentType() != gin.MIMEJSON {
		response.Error(c, http.StatusBadRequest, errcode.TypeInvalidRequest, "Request must be JSON")
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.TypeInvalidRequest, "Invalid JSON body")
		return
	}
	res, err := h.analysis.Analyze(c.Request.Context(), req.RepoURL)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{
		"job_id":  res.JobID,
		"status":  res.Status,
		"message": "Documentation generated successfully",
		"repository": gin.H{
			"name":  res.Ref.Repo,
			"owner": res.Ref.Owner,
			"url":   res.RepoURL,
		},
		"download_url": service.DownloadURL(res.JobID),
		"result": gin.H{
			"readme_preview":  res.ReadmePreview(),
			"files_generated": res.Documentation.FileCount(),
			"rag_status":      res.RAG.Status,
			"from_cache":      res.FromCache,
		},
	})
}
