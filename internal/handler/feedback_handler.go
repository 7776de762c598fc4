package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Drago-03/Documentation.AI/internal/pkg/errcode"
	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

type FeedbackHandler struct {
	feedback *service.FeedbackService
}

func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Submit(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	var req service.FeedbackInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.TypeInvalidRequest, "Invalid JSON body")
		return
	}
	fb, err := h.feedback.Submit(c.Request.Context(), id, req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(c *gin.Context) {
	id, ok := parseJobID(c)
	if !ok {
		return
	}
	items, err := h.feedback.List(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"job_id": id, "feedback": items})
}
