package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Drago-03/Documentation.AI/internal/model"
	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

type FeedbackInput struct {
	Rating                 int    `json:"rating" validate:"min=1,max=5"`
	FeedbackText           string `json:"feedback_text" validate:"max=5000"`
	ImprovementSuggestions string `json:"improvement_suggestions" validate:"max=5000"`
}

type FeedbackService struct {
	jobs      JobStore
	feedback  FeedbackStore
	validator *validator.Validate
	now       func() time.Time
}

func NewFeedbackService(jobs JobStore, feedback FeedbackStore) *FeedbackService {
	return &FeedbackService{jobs: jobs, feedback: feedback, validator: validator.New(), now: time.Now}
}

func (s *FeedbackService) Submit(ctx context.Context, jobID int64, input FeedbackInput) (*model.UserFeedback, error) {
	if err := s.validator.Struct(&input); err != nil {
		if input.Rating < 1 || input.Rating > 5 {
			return nil, appErr.Invalidf("Rating must be between 1 and 5")
		}
		return nil, appErr.Invalidf("Feedback text is too long")
	}
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, wrapJobLookup(jobID, err)
	}
	fb := &model.UserFeedback{
		JobID:                  jobID,
		Rating:                 input.Rating,
		FeedbackText:           strings.TrimSpace(input.FeedbackText),
		ImprovementSuggestions: strings.TrimSpace(input.ImprovementSuggestions),
		Ctime:                  s.now().Unix(),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.NotFoundf("Job %d not found", jobID)
		}
		return nil, err
	}
	return fb, nil
}

func (s *FeedbackService) List(ctx context.Context, jobID int64) ([]model.UserFeedback, error) {
	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		return nil, wrapJobLookup(jobID, err)
	}
	items, err := s.feedback.ListByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.UserFeedback{}
	}
	return items, nil
}
