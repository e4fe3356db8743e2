package services

// PromptBuilder assembles the structured scoring requests sent to the
// generative model. It is pure data transformation: identical rubric,
// evidence and job-description inputs always produce identical payloads,
// which is what keeps scoring prompts reproducible across retries.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const scoreScaleInstruction = "Score 1-5 using guide times weight"

// CriterionScoringParam carries one rubric criterion plus its supporting
// evidence snippets into a scoring request.
type CriterionScoringParam struct {
	Parameter  string   `json:"parameter"`
	Weight     float64  `json:"weight"`
	RubricDesc string   `json:"rubric_desc"`
	Guide      string   `json:"guide"`
	Snippets   []string `json:"snippets"`
	Scale      string   `json:"scale"`
}

type CVScoringRequest struct {
	JobDescContext [][]string              `json:"jd_context"`
	Params         []CriterionScoringParam `json:"params"`
}

type ProjectScoringRequest struct {
	Params []CriterionScoringParam `json:"params"`
}

type RefinementParam struct {
	Parameter    string  `json:"parameter"`
	Weight       float64 `json:"weight"`
	RubricDesc   string  `json:"rubric_desc"`
	Guide        string  `json:"guide"`
	InitialScore float64 `json:"initial_score"`
}

type RefinementRequest struct {
	Params []RefinementParam `json:"params"`
}

type AggregationRequest struct {
	CVScore      *CVScore      `json:"cv_score"`
	ProjectScore *ProjectScore `json:"project_score"`
}

// BuildCVScoringRequest combines job-description context with the rubric
// criteria and their evidence. Param order follows the criteria slice.
func (pb *PromptBuilder) BuildCVScoringRequest(
	criteria []RubricCriterion,
	jobDescContext [][]string,
	evidence map[string][]string,
) CVScoringRequest {
	return CVScoringRequest{
		JobDescContext: jobDescContext,
		Params:         pb.buildParams(criteria, evidence),
	}
}

// BuildProjectScoringRequest is the project-group counterpart; project
// scoring carries no job-description context.
func (pb *PromptBuilder) BuildProjectScoringRequest(
	criteria []RubricCriterion,
	evidence map[string][]string,
) ProjectScoringRequest {
	return ProjectScoringRequest{
		Params: pb.buildParams(criteria, evidence),
	}
}

// BuildRefinementRequest re-grounds an initial project score against each
// criterion's weight and guide for the second scoring pass.
func (pb *PromptBuilder) BuildRefinementRequest(
	criteria []RubricCriterion,
	initialScore float64,
) RefinementRequest {
	params := make([]RefinementParam, 0, len(criteria))
	for _, criterion := range criteria {
		params = append(params, RefinementParam{
			Parameter:    criterion.Category,
			Weight:       criterion.Weight,
			RubricDesc:   criterion.Description,
			Guide:        criterion.Guide,
			InitialScore: initialScore,
		})
	}

	return RefinementRequest{Params: params}
}

func (pb *PromptBuilder) buildParams(criteria []RubricCriterion, evidence map[string][]string) []CriterionScoringParam {
	params := make([]CriterionScoringParam, 0, len(criteria))
	for _, criterion := range criteria {
		snippets := evidence[criterion.Category]
		if snippets == nil {
			snippets = []string{}
		}

		params = append(params, CriterionScoringParam{
			Parameter:  criterion.Category,
			Weight:     criterion.Weight,
			RubricDesc: criterion.Description,
			Guide:      criterion.Guide,
			Snippets:   snippets,
			Scale:      scoreScaleInstruction,
		})
	}

	return params
}

const cvScoringInstruction = `From the provided JSON generate the result as the following JSON output:
{
  "cv_match_rate": <rate>,
  "cv_feedback": {
    "<parameter name>": "<short concise sentence>"
  }
}
cv_feedback must contain exactly one entry for every parameter in the input, keyed by the parameter's exact name.
For cv_match_rate: multiply your generated score by 0.2 and round it to two decimal places.
Input:`

const projectScoringInstruction = `From the provided JSON generate the result as the following JSON output:
{
  "project_match_rate": <rate>,
  "project_feedback": "<short concise sentences>"
}
Input:`

const refinementInstruction = `From the provided JSON generate the result as the following JSON output:
{
  "project_match_rate": <rate>,
  "project_feedback": "<short concise sentences>"
}
Refine the initial_score of each entry based on its parameter, rubric_desc and guide.
Input:`

const aggregationInstruction = `From the provided JSON combine cv_score and project_score into the following JSON output:
{
  "cv_match_rate": <cv_match_rate>,
  "cv_feedback": { "<category>": "<feedback>" },
  "project_score": <project_match_rate>,
  "project_feedback": "<project_feedback>",
  "overall_summary": "<overall summary>"
}
Carry cv_match_rate, cv_feedback, the refined project score and project_feedback over unchanged.
overall_summary must be 3-5 sentences covering strengths, gaps and recommendations.
Input:`
