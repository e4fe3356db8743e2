package services

import (
	"context"
	"fmt"
)

// Rubric groups. Each group is scored independently.
const (
	GroupCV      = "cv"
	GroupProject = "project"
)

// RubricCriterion is one weighted scoring dimension of the seeded rubric.
type RubricCriterion struct {
	Category    string
	Description string
	Guide       string
	Weight      float64
	Vector      []float32
}

// RubricRetriever fetches the rubric criteria of a group. Order is whatever
// the store returns; callers index by category, never by position.
type RubricRetriever interface {
	CriteriaByGroup(ctx context.Context, group string) ([]RubricCriterion, error)
}

type rubricRetriever struct {
	store VectorStore
}

func NewRubricRetriever(store VectorStore) RubricRetriever {
	return &rubricRetriever{store: store}
}

// CriteriaByGroup implements RubricRetriever.
func (r *rubricRetriever) CriteriaByGroup(ctx context.Context, group string) ([]RubricCriterion, error) {
	records, err := r.store.Query(ctx, CollectionRubric, "group", group)
	if err != nil {
		return nil, fmt.Errorf("failed to load rubric group %s: %w", group, err)
	}

	criteria := make([]RubricCriterion, 0, len(records))
	for _, record := range records {
		criteria = append(criteria, RubricCriterion{
			Category:    payloadString(record.Payload, "category"),
			Description: payloadString(record.Payload, "description"),
			Guide:       payloadString(record.Payload, "guide"),
			Weight:      payloadFloat(record.Payload, "weight"),
			Vector:      record.Vector,
		})
	}

	return criteria, nil
}
