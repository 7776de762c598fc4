package model

type UserFeedback struct {
	ID                     int64  `json:"id"`
	JobID                  int64  `json:"job_id"`
	Rating                 int    `json:"rating"`
	FeedbackText           string `json:"feedback_text"`
	ImprovementSuggestions string `json:"improvement_suggestions"`
	Ctime                  int64  `json:"created_at"`
}
