package services

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/aslammaududy/cv-checker/internal/models"
)

// CVScore is the structured response of the CV scoring pass.
type CVScore struct {
	CVMatchRate float64           `json:"cv_match_rate"`
	CVFeedback  map[string]string `json:"cv_feedback"`
}

// ProjectScore is the structured response of the project scoring pass and
// its refinement.
type ProjectScore struct {
	ProjectMatchRate float64 `json:"project_match_rate"`
	ProjectFeedback  string  `json:"project_feedback"`
}

// ScoringEngine runs the generative scoring stages: CV scoring, project
// scoring, project-score refinement against rubric weights, and the final
// aggregation. Every response must match the requested shape; a malformed
// payload fails the run, it is never coerced.
type ScoringEngine interface {
	ScoreCV(ctx context.Context, req CVScoringRequest) (*CVScore, error)
	ScoreProject(ctx context.Context, req ProjectScoringRequest) (*ProjectScore, error)
	RefineProjectScore(ctx context.Context, criteria []RubricCriterion, initial *ProjectScore) (*ProjectScore, error)
	CombineResults(ctx context.Context, cv *CVScore, project *ProjectScore) (*models.EvaluationResult, error)
}

type scoringEngine struct {
	generator GenerativeService
	prompts   *PromptBuilder
	logger    *zap.Logger
}

func NewScoringEngine(generator GenerativeService, prompts *PromptBuilder, logger *zap.Logger) ScoringEngine {
	return &scoringEngine{
		generator: generator,
		prompts:   prompts,
		logger:    logger,
	}
}

// ScoreCV implements ScoringEngine.
func (s *scoringEngine) ScoreCV(ctx context.Context, req CVScoringRequest) (*CVScore, error) {
	var score CVScore
	if err := s.generator.GenerateJSON(ctx, cvScoringInstruction, req, &score); err != nil {
		return nil, fmt.Errorf("cv scoring failed: %w", err)
	}

	if score.CVFeedback == nil {
		return nil, fmt.Errorf("%w: cv_feedback missing", ErrGeneration)
	}

	for _, param := range req.Params {
		feedback, ok := score.CVFeedback[param.Parameter]
		if !ok || feedback == "" {
			return nil, fmt.Errorf("%w: no feedback for category %q", ErrGeneration, param.Parameter)
		}
		if containsPlaceholder(feedback) {
			return nil, fmt.Errorf("%w: unreplaced placeholder in feedback for %q", ErrGeneration, param.Parameter)
		}
	}

	s.logger.Debug("cv scored", zap.Float64("cv_match_rate", score.CVMatchRate))

	return &score, nil
}

// ScoreProject implements ScoringEngine.
func (s *scoringEngine) ScoreProject(ctx context.Context, req ProjectScoringRequest) (*ProjectScore, error) {
	var score ProjectScore
	if err := s.generator.GenerateJSON(ctx, projectScoringInstruction, req, &score); err != nil {
		return nil, fmt.Errorf("project scoring failed: %w", err)
	}

	if err := validateProjectScore(&score); err != nil {
		return nil, err
	}

	s.logger.Debug("project scored", zap.Float64("project_match_rate", score.ProjectMatchRate))

	return &score, nil
}

// RefineProjectScore implements ScoringEngine. An unconditioned single score
// tends to ignore per-criterion weighting, so the second pass re-grounds it
// against category, weight and guide.
func (s *scoringEngine) RefineProjectScore(ctx context.Context, criteria []RubricCriterion, initial *ProjectScore) (*ProjectScore, error) {
	req := s.prompts.BuildRefinementRequest(criteria, initial.ProjectMatchRate)

	var refined ProjectScore
	if err := s.generator.GenerateJSON(ctx, refinementInstruction, req, &refined); err != nil {
		return nil, fmt.Errorf("project score refinement failed: %w", err)
	}

	if err := validateProjectScore(&refined); err != nil {
		return nil, err
	}

	s.logger.Debug("project score refined",
		zap.Float64("initial", initial.ProjectMatchRate),
		zap.Float64("refined", refined.ProjectMatchRate),
	)

	return &refined, nil
}

// CombineResults implements ScoringEngine.
func (s *scoringEngine) CombineResults(ctx context.Context, cv *CVScore, project *ProjectScore) (*models.EvaluationResult, error) {
	req := AggregationRequest{CVScore: cv, ProjectScore: project}

	var result models.EvaluationResult
	if err := s.generator.GenerateJSON(ctx, aggregationInstruction, req, &result); err != nil {
		return nil, fmt.Errorf("result aggregation failed: %w", err)
	}

	if result.CVFeedback == nil {
		return nil, fmt.Errorf("%w: cv_feedback missing from aggregate", ErrGeneration)
	}

	if result.OverallSummary == "" {
		return nil, fmt.Errorf("%w: overall_summary missing", ErrGeneration)
	}

	if containsPlaceholder(result.OverallSummary) || containsPlaceholder(result.ProjectFeedback) {
		return nil, fmt.Errorf("%w: unreplaced placeholder in aggregate", ErrGeneration)
	}

	return &result, nil
}

func validateProjectScore(score *ProjectScore) error {
	if score.ProjectFeedback == "" {
		return fmt.Errorf("%w: project_feedback missing", ErrGeneration)
	}
	if containsPlaceholder(score.ProjectFeedback) {
		return fmt.Errorf("%w: unreplaced placeholder in project_feedback", ErrGeneration)
	}
	return nil
}

// Leftover template tokens like {rate} or {feedback} in a response mean the
// model echoed the instruction instead of answering it.
var placeholderPattern = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z_ ]*\}`)

func containsPlaceholder(text string) bool {
	return placeholderPattern.MatchString(text)
}
