package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aslammaududy/cv-checker/internal/models"
	"github.com/aslammaududy/cv-checker/internal/repositories"
)

// EvaluatorService sequences the full evaluation pipeline for one record:
// extraction, re-indexing, job-description matching, rubric retrieval,
// evidence filtering, prompt construction and the four scoring stages. It
// owns the queued → processing → completed|failed transitions; the result
// payload is only persisted on success.
type EvaluatorService interface {
	EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error
}

type evaluatorService struct {
	evalRepo    repositories.EvaluationRepository
	extractor   DocumentTextExtractor
	store       VectorStore
	indexer     DocumentIndexer
	matcher     JobDescriptionMatcher
	rubric      RubricRetriever
	evidence    EvidenceFilter
	prompts     *PromptBuilder
	scorer      ScoringEngine
	logger      *zap.Logger
	embedDim    int
	maxAttempts int
	backoff     time.Duration
}

func NewEvaluatorService(
	evalRepo repositories.EvaluationRepository,
	extractor DocumentTextExtractor,
	store VectorStore,
	indexer DocumentIndexer,
	matcher JobDescriptionMatcher,
	rubric RubricRetriever,
	evidence EvidenceFilter,
	scorer ScoringEngine,
	logger *zap.Logger,
	embedDim int,
	maxAttempts int,
	backoff time.Duration,
) EvaluatorService {
	return &evaluatorService{
		evalRepo:    evalRepo,
		extractor:   extractor,
		store:       store,
		indexer:     indexer,
		matcher:     matcher,
		rubric:      rubric,
		evidence:    evidence,
		prompts:     NewPromptBuilder(),
		scorer:      scorer,
		logger:      logger,
		embedDim:    embedDim,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

// evaluationRun is the immutable context of one pipeline run. Everything a
// stage needs travels through here instead of hidden instance state.
type evaluationRun struct {
	evaluationID uuid.UUID
	userID       string
	cvText       string
	projectText  string
}

// EvaluateCandidate implements EvaluatorService.
func (e *evaluatorService) EvaluateCandidate(ctx context.Context, evalID uuid.UUID) error {
	evaluation, err := e.evalRepo.FindByID(evalID)
	if err != nil {
		return fmt.Errorf("failed to load evaluation: %w", err)
	}

	if err := e.evalRepo.UpdateStatus(evalID, models.StatusProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	e.logger.Info("evaluation started",
		zap.String("evaluation_id", evalID.String()),
		zap.String("user_id", evaluation.UserID.String()),
	)

	var result *models.EvaluationResult
	var lastErr error

	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		result, lastErr = e.runPipeline(ctx, evaluation)
		if lastErr == nil {
			break
		}

		if !isTransient(lastErr) {
			break
		}

		e.logger.Warn("pipeline attempt failed",
			zap.String("evaluation_id", evalID.String()),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)

		if attempt == e.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			lastErr = ctx.Err()
		case <-time.After(e.backoff):
			continue
		}
		break
	}

	if lastErr != nil {
		if failErr := e.evalRepo.Fail(evalID, lastErr.Error()); failErr != nil {
			e.logger.Error("failed to mark evaluation failed",
				zap.String("evaluation_id", evalID.String()),
				zap.Error(failErr),
			)
		}
		return fmt.Errorf("evaluation failed: %w", lastErr)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		e.evalRepo.Fail(evalID, err.Error())
		return fmt.Errorf("failed to serialize result: %w", err)
	}

	if err := e.evalRepo.Complete(evalID, string(payload)); err != nil {
		return fmt.Errorf("failed to persist result: %w", err)
	}

	e.logger.Info("evaluation completed", zap.String("evaluation_id", evalID.String()))
	return nil
}

func (e *evaluatorService) runPipeline(ctx context.Context, evaluation *models.Evaluation) (*models.EvaluationResult, error) {
	// Extraction comes first: an unreadable document must abort the run
	// before any embedding work starts.
	cvText, err := e.extractor.Extract(evaluation.CVPath)
	if err != nil {
		return nil, fmt.Errorf("cv extraction: %w", err)
	}

	projectText, err := e.extractor.Extract(evaluation.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("project extraction: %w", err)
	}

	run := evaluationRun{
		evaluationID: evaluation.ID,
		userID:       evaluation.UserID.String(),
		cvText:       cvText,
		projectText:  projectText,
	}

	if err := e.ensureCollections(ctx); err != nil {
		return nil, err
	}

	cvChunks, err := e.indexer.Reindex(ctx, CollectionCV, run.userID, run.cvText)
	if err != nil {
		return nil, fmt.Errorf("cv indexing: %w", err)
	}

	projectChunks, err := e.indexer.Reindex(ctx, CollectionProject, run.userID, run.projectText)
	if err != nil {
		return nil, fmt.Errorf("project indexing: %w", err)
	}

	e.logger.Debug("documents indexed",
		zap.String("evaluation_id", run.evaluationID.String()),
		zap.Int("cv_chunks", cvChunks),
		zap.Int("project_chunks", projectChunks),
	)

	jobDescContext, err := e.matcher.MatchJobDescriptions(ctx, run.userID)
	if err != nil {
		return nil, fmt.Errorf("job description matching: %w", err)
	}

	cvCriteria, err := e.rubric.CriteriaByGroup(ctx, GroupCV)
	if err != nil {
		return nil, fmt.Errorf("cv rubric retrieval: %w", err)
	}

	projectCriteria, err := e.rubric.CriteriaByGroup(ctx, GroupProject)
	if err != nil {
		return nil, fmt.Errorf("project rubric retrieval: %w", err)
	}

	cvEvidence, err := e.evidence.CollectEvidence(ctx, CollectionCV, run.userID, cvCriteria)
	if err != nil {
		return nil, fmt.Errorf("cv evidence: %w", err)
	}

	projectEvidence, err := e.evidence.CollectEvidence(ctx, CollectionProject, run.userID, projectCriteria)
	if err != nil {
		return nil, fmt.Errorf("project evidence: %w", err)
	}

	cvRequest := e.prompts.BuildCVScoringRequest(cvCriteria, jobDescContext, cvEvidence)
	projectRequest := e.prompts.BuildProjectScoringRequest(projectCriteria, projectEvidence)

	cvScore, err := e.scorer.ScoreCV(ctx, cvRequest)
	if err != nil {
		return nil, err
	}

	projectScore, err := e.scorer.ScoreProject(ctx, projectRequest)
	if err != nil {
		return nil, err
	}

	refinedScore, err := e.scorer.RefineProjectScore(ctx, projectCriteria, projectScore)
	if err != nil {
		return nil, err
	}

	result, err := e.scorer.CombineResults(ctx, cvScore, refinedScore)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (e *evaluatorService) ensureCollections(ctx context.Context) error {
	dim := uint64(e.embedDim)
	for _, collection := range []string{CollectionCV, CollectionProject, CollectionJobDesc, CollectionRubric} {
		if err := e.store.EnsureCollection(ctx, collection, dim); err != nil {
			return fmt.Errorf("ensure collection %s: %w", collection, err)
		}
	}
	return nil
}
