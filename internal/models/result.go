package models

// EvaluationResult is the public result schema of a completed run.
type EvaluationResult struct {
	CVMatchRate     float64           `json:"cv_match_rate"`
	CVFeedback      map[string]string `json:"cv_feedback"`
	ProjectScore    float64           `json:"project_score"`
	ProjectFeedback string            `json:"project_feedback"`
	OverallSummary  string            `json:"overall_summary"`
}

type UploadResponse struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type EvaluateRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

type EvaluateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID      string            `json:"id"`
	Status  string            `json:"status"`
	Result  *EvaluationResult `json:"result,omitempty"`
	Message string            `json:"message,omitempty"`
}
