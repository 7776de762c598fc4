package handler

import (
	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Index    *IndexHandler
	Analysis *AnalysisHandler
	Jobs     *JobHandler
	Health   *HealthHandler
	Feedback *FeedbackHandler
	Insight  *InsightHandler
	// AnalyzeLimit guards POST /api/analyze; nil means unlimited.
	AnalyzeLimit gin.HandlerFunc
}

// PublicEndpoints is advertised by the index, health and not-found responses.
var PublicEndpoints = map[string]string{
	"health":     "/api/health",
	"analyze":    "/api/analyze",
	"job_status": "/api/job/<id>",
	"jobs":       "/api/jobs",
	"download":   "/api/download/<id>",
	"feedback":   "/api/job/<id>/feedback",
	"search":     "/api/job/<id>/search",
	"preview":    "/api/job/<id>/preview/<artifact>",
}

func RegisterRoutes(root *gin.RouterGroup, deps RouterDeps) {
	root.GET("/", deps.Index.Index)

	api := root.Group("/api")
	api.GET("/health", deps.Health.Health)
	api.GET("/analyze", deps.Analysis.Describe)
	analyze := []gin.HandlerFunc{deps.Analysis.Analyze}
	if deps.AnalyzeLimit != nil {
		analyze = append([]gin.HandlerFunc{deps.AnalyzeLimit}, analyze...)
	}
	api.POST("/analyze", analyze...)

	api.GET("/jobs", deps.Jobs.List)
	api.GET("/job/:id", deps.Jobs.Get)
	api.GET("/download/:id", deps.Jobs.Download)

	api.POST("/job/:id/feedback", deps.Feedback.Submit)
	api.GET("/job/:id/feedback", deps.Feedback.List)
	api.GET("/job/:id/search", deps.Insight.Search)
	api.GET("/job/:id/preview/*artifact", deps.Insight.Preview)
}
