package services

import (
	"context"
	"fmt"
)

// EvidenceFilter retrieves, per rubric criterion, the chunks of the
// candidate's own document most similar to the criterion's embedding. Every
// criterion gets an entry in the returned map, an empty list when nothing
// matches, so prompt construction never indexes a missing category.
type EvidenceFilter interface {
	CollectEvidence(ctx context.Context, collection, userID string, criteria []RubricCriterion) (map[string][]string, error)
}

type evidenceFilter struct {
	store VectorStore
}

func NewEvidenceFilter(store VectorStore) EvidenceFilter {
	return &evidenceFilter{store: store}
}

// CollectEvidence implements EvidenceFilter.
func (e *evidenceFilter) CollectEvidence(ctx context.Context, collection, userID string, criteria []RubricCriterion) (map[string][]string, error) {
	evidence := make(map[string][]string, len(criteria))

	for _, criterion := range criteria {
		results, err := e.store.Search(ctx, collection, criterion.Vector, userID, topKResults)
		if err != nil {
			return nil, fmt.Errorf("failed to collect evidence for %s: %w", criterion.Category, err)
		}

		snippets := make([]string, 0, len(results))
		for _, result := range results {
			snippets = append(snippets, payloadString(result.Payload, "content"))
		}

		evidence[criterion.Category] = snippets
	}

	return evidence, nil
}
