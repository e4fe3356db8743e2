package services

import (
	"context"
	"fmt"
)

// topKResults is the retrieval cutoff for job-description matching and
// rubric evidence collection.
const topKResults = 3

// JobDescriptionMatcher retrieves, for every indexed CV chunk of a user, the
// nearest job-description entries. Results aggregate as a list per chunk
// with no dedup or cross-chunk re-ranking.
type JobDescriptionMatcher interface {
	MatchJobDescriptions(ctx context.Context, userID string) ([][]string, error)
}

type jobDescriptionMatcher struct {
	store VectorStore
}

func NewJobDescriptionMatcher(store VectorStore) JobDescriptionMatcher {
	return &jobDescriptionMatcher{store: store}
}

// MatchJobDescriptions implements JobDescriptionMatcher.
func (m *jobDescriptionMatcher) MatchJobDescriptions(ctx context.Context, userID string) ([][]string, error) {
	chunks, err := m.store.Query(ctx, CollectionCV, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv chunks: %w", err)
	}

	matches := make([][]string, 0, len(chunks))
	for _, chunk := range chunks {
		results, err := m.store.Search(ctx, CollectionJobDesc, chunk.Vector, "", topKResults)
		if err != nil {
			return nil, fmt.Errorf("failed to search job descriptions: %w", err)
		}

		descriptions := make([]string, 0, len(results))
		for _, result := range results {
			descriptions = append(descriptions, payloadString(result.Payload, "description"))
		}

		matches = append(matches, descriptions)
	}

	return matches, nil
}
