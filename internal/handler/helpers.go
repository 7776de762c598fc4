package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/Drago-03/Documentation.AI/internal/github"
	"github.com/Drago-03/Documentation.AI/internal/middleware"
	"github.com/Drago-03/Documentation.AI/internal/pkg/errcode"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
	"github.com/Drago-03/Documentation.AI/internal/pkg/response"
	"github.com/Drago-03/Documentation.AI/internal/service"
)

func parseJobID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusNotFound, errcode.TypeNotFound, "Job not found")
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// handleError maps service errors to status codes. Unexpected errors get an
// error_id that also appears in the log line.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)

	var stageErr *service.StageError
	if errors.As(err, &stageErr) {
		status, errType := http.StatusInternalServerError, stageErr.Type()
		var apiErr *github.APIError
		switch {
		case errors.Is(err, github.ErrRepositoryNotFound):
			status, errType = http.StatusNotFound, errcode.TypeRepositoryNotFound
		case errors.As(err, &apiErr):
			errType = errcode.TypeUpstreamUnavailable
		}
		extra := gin.H{"error_id": stageErr.ErrorID}
		if stageErr.JobID != 0 {
			extra["job_id"] = stageErr.JobID
		}
		response.ErrorWith(c, status, errType, stageErr.Error(), extra)
		return
	}

	switch {
	case appErr.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, errcode.TypeInvalidRequest, err.Error())
	case errors.Is(err, appErr.ErrNotCompleted):
		response.Error(c, http.StatusBadRequest, errcode.TypeNotCompleted, err.Error())
	case appErr.IsNotFound(err):
		response.Error(c, http.StatusNotFound, errcode.TypeNotFound, err.Error())
	case appErr.IsConflict(err):
		response.Error(c, http.StatusConflict, errcode.TypeConflict, err.Error())
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, http.StatusTooManyRequests, errcode.TypeTooMany, err.Error())
	case errors.Is(err, appErr.ErrUnavailable):
		response.Error(c, http.StatusServiceUnavailable, errcode.TypeUnavailable, err.Error())
	case errors.Is(err, appErr.ErrInternal):
		errorID := service.NewErrorID(time.Now())
		logger.Error("request failed", zap.String("error_id", errorID), zap.Error(err))
		response.ErrorWith(c, http.StatusInternalServerError, errcode.TypeInternal, err.Error(), gin.H{"error_id": errorID})
	default:
		errorID := service.NewErrorID(time.Now())
		logger.Error("request failed", zap.String("error_id", errorID), zap.Error(err))
		response.ErrorWith(c, http.StatusInternalServerError, errcode.TypeInternal, "Internal server error", gin.H{"error_id": errorID})
	}
}
