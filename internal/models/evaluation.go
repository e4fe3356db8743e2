package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EvaluationStatus string

const (
	StatusUploaded   EvaluationStatus = "uploaded"
	StatusQueued     EvaluationStatus = "queued"
	StatusProcessing EvaluationStatus = "processing"
	StatusCompleted  EvaluationStatus = "completed"
	StatusFailed     EvaluationStatus = "failed"
)

// Evaluation tracks one candidate submission through the scoring pipeline.
// Result stays nil until the run completes; only the pipeline mutates status.
type Evaluation struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	CVPath       string           `gorm:"type:text" json:"cv_path"`
	ProjectPath  string           `gorm:"type:text" json:"project_path"`
	Status       EvaluationStatus `gorm:"not null;default:'uploaded'" json:"status"`
	Result       *string          `gorm:"type:text" json:"result,omitempty"`
	ErrorMessage *string          `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}
