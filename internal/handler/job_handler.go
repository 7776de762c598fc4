package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

type JobHandler struct {
	jobs *service.JobService
}

func NewJobHandler(jobs *service.JobService) *JobHandler {
	return &JobHandler{jobs: jobs}
}

func (h *JobHandler) Get(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	snap, err := h.jobs.Get(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, snap)
}

func (h *JobHandler) List(c *gin.Context) {
	page, err := h.jobs.List(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "per_page", 0))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, page)
}

func (h *JobHandler) Download(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	archive, err := h.jobs.Download(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	defer archive.Body.Close()
	c.DataFromReader(http.StatusOK, -1, "application/zip", archive.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", archive.Name),
	})
}
