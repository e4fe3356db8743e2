package services

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func testCVCriteria() []RubricCriterion {
	return []RubricCriterion{
		{Category: "Technical Skills Match", Description: "Stack alignment.", Guide: "1-5 guide.", Weight: 0.4},
		{Category: "Experience Level", Description: "Delivery track record.", Guide: "1-5 guide.", Weight: 0.25},
		{Category: "Relevant Achievements", Description: "Measurable outcomes.", Guide: "1-5 guide.", Weight: 0.2},
		{Category: "Cultural / Collaboration Fit", Description: "Teamwork signals.", Guide: "1-5 guide.", Weight: 0.15},
	}
}

func TestBuildCVScoringRequestDeterministic(t *testing.T) {
	builder := NewPromptBuilder()
	criteria := testCVCriteria()
	jdContext := [][]string{{"backend technologies", "RESTful APIs"}}
	evidence := map[string][]string{
		"Technical Skills Match": {"built APIs with Node.js"},
		"Experience Level":       {"five years at scale"},
	}

	first, err := json.Marshal(builder.BuildCVScoringRequest(criteria, jdContext, evidence))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	second, err := json.Marshal(builder.BuildCVScoringRequest(criteria, jdContext, evidence))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("identical inputs produced different payloads:\n%s\n%s", first, second)
	}
}

func TestBuildCVScoringRequestPreservesCriteriaOrder(t *testing.T) {
	builder := NewPromptBuilder()

	req := builder.BuildCVScoringRequest(testCVCriteria(), nil, nil)

	expectedWeights := []float64{0.4, 0.25, 0.2, 0.15}
	if len(req.Params) != len(expectedWeights) {
		t.Fatalf("expected %d params, got %d", len(expectedWeights), len(req.Params))
	}
	for i, weight := range expectedWeights {
		if req.Params[i].Weight != weight {
			t.Errorf("param %d: expected weight %v, got %v", i, weight, req.Params[i].Weight)
		}
		if req.Params[i].Scale != scoreScaleInstruction {
			t.Errorf("param %d: missing scale instruction", i)
		}
	}
}

func TestBuildCVScoringRequestMissingEvidenceEmptySlice(t *testing.T) {
	builder := NewPromptBuilder()

	req := builder.BuildCVScoringRequest(testCVCriteria(), nil, map[string][]string{})

	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, param := range req.Params {
		if param.Snippets == nil {
			t.Errorf("%s: expected non-nil snippets", param.Parameter)
		}
	}
	if strings.Contains(string(payload), `"snippets":null`) {
		t.Errorf("payload serializes missing evidence as null: %s", payload)
	}
}

func TestBuildProjectScoringRequestNoJobContext(t *testing.T) {
	builder := NewPromptBuilder()

	req := builder.BuildProjectScoringRequest(testCVCriteria()[:2], nil)

	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(payload), "jd_context") {
		t.Errorf("project scoring payload must not carry job-description context: %s", payload)
	}
}

func TestBuildRefinementRequestCarriesInitialScore(t *testing.T) {
	builder := NewPromptBuilder()
	criteria := testCVCriteria()[:2]

	req := builder.BuildRefinementRequest(criteria, 3.8)

	if len(req.Params) != len(criteria) {
		t.Fatalf("expected %d params, got %d", len(criteria), len(req.Params))
	}
	for i, param := range req.Params {
		if param.InitialScore != 3.8 {
			t.Errorf("param %d: expected initial score 3.8, got %v", i, param.InitialScore)
		}
		if param.Parameter != criteria[i].Category {
			t.Errorf("param %d: expected category %q, got %q", i, criteria[i].Category, param.Parameter)
		}
	}
}
