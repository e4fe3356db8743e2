package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aslammaududy/cv-checker/internal/models"
)

type stubEvalRepo struct {
	evaluations map[uuid.UUID]*models.Evaluation
	statusSet   []models.EvaluationStatus
}

func newStubEvalRepo(evals ...*models.Evaluation) *stubEvalRepo {
	repo := &stubEvalRepo{evaluations: make(map[uuid.UUID]*models.Evaluation)}
	for _, eval := range evals {
		repo.evaluations[eval.ID] = eval
	}
	return repo
}

func (r *stubEvalRepo) Create(eval *models.Evaluation) error {
	r.evaluations[eval.ID] = eval
	return nil
}

func (r *stubEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	eval, ok := r.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluation not found")
	}
	return eval, nil
}

func (r *stubEvalRepo) FindByUserID(userID uuid.UUID) (*models.Evaluation, error) {
	for _, eval := range r.evaluations {
		if eval.UserID == userID {
			return eval, nil
		}
	}
	return nil, fmt.Errorf("evaluation not found")
}

func (r *stubEvalRepo) UpdateFiles(id uuid.UUID, cvPath, projectPath string) error {
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.CVPath = cvPath
	eval.ProjectPath = projectPath
	eval.Status = models.StatusUploaded
	eval.Result = nil
	eval.ErrorMessage = nil
	return nil
}

func (r *stubEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = status
	r.statusSet = append(r.statusSet, status)
	return nil
}

func (r *stubEvalRepo) Complete(id uuid.UUID, resultJSON string) error {
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = models.StatusCompleted
	eval.Result = &resultJSON
	return nil
}

func (r *stubEvalRepo) Fail(id uuid.UUID, errorMsg string) error {
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = models.StatusFailed
	eval.ErrorMessage = &errorMsg
	return nil
}

func (r *stubEvalRepo) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	var pending []models.Evaluation
	for _, eval := range r.evaluations {
		if eval.Status == models.StatusQueued {
			pending = append(pending, *eval)
			if len(pending) == limit {
				break
			}
		}
	}
	return pending, nil
}

type stubWorker struct {
	enqueued []uuid.UUID
}

func (w *stubWorker) Start(_ context.Context) {}

func (w *stubWorker) Stop() {}

func (w *stubWorker) EnqueueJob(evalID uuid.UUID) {
	w.enqueued = append(w.enqueued, evalID)
}
