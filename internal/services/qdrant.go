package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// Collections managed by the pipeline. cv and project hold per-user
// ephemeral chunks, jobdesc and rubric hold seeded reference data. All four
// share the configured embedding dimension.
const (
	CollectionCV      = "cv"
	CollectionProject = "project"
	CollectionJobDesc = "jobdesc"
	CollectionRubric  = "rubric"
)

// Record is one vector store entry. Score is only populated on search
// results; Vector is only populated when the caller asked for vectors.
type Record struct {
	ID      string
	Score   float32
	Payload map[string]any
	Vector  []float32
}

// VectorStore is the collection-scoped contract the pipeline depends on.
// Query filters are simple equality predicates; search ranking is whatever
// the store's distance metric yields, nearest first.
type VectorStore interface {
	EnsureCollection(ctx context.Context, name string, dim uint64) error
	Insert(ctx context.Context, collection string, records []Record) error
	Query(ctx context.Context, collection, field, value string) ([]Record, error)
	Search(ctx context.Context, collection string, vector []float32, userID string, limit int) ([]Record, error)
	Delete(ctx context.Context, collection, id string) error
}

const scrollPageLimit = 1024

type qdrantStore struct {
	client  *qdrant.Client
	timeout time.Duration
}

func NewQdrantStore(urlStr, apiKey string, timeout time.Duration) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC endpoint, port 6334 unless the URL overrides it.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantStore{client: client, timeout: timeout}, nil
}

// EnsureCollection implements VectorStore.
func (q *qdrantStore) EnsureCollection(ctx context.Context, name string, dim uint64) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	exists, err := q.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("%w: failed to check collection %s: %v", ErrVectorStore, name, err)
	}

	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create collection %s: %v", ErrVectorStore, name, err)
	}

	return nil
}

// Insert implements VectorStore.
func (q *qdrantStore) Insert(ctx context.Context, collection string, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, record := range records {
		id := record.ID
		if id == "" {
			id = uuid.NewString()
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(record.Vector...),
			Payload: qdrant.NewValueMap(record.Payload),
		})
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to insert into %s: %v", ErrVectorStore, collection, err)
	}

	return nil
}

// Query implements VectorStore. Returns payloads and vectors for every
// record matching field == value, paging the scroll until exhausted.
func (q *qdrantStore) Query(ctx context.Context, collection, field, value string) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	points, err := scrollAll(scrollPageLimit, func(offset *qdrant.PointId) ([]*qdrant.RetrievedPoint, error) {
		return q.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: collection,
			Filter: &qdrant.Filter{
				Must: []*qdrant.Condition{
					qdrant.NewMatch(field, value),
				},
			},
			Offset:      offset,
			Limit:       qdrant.PtrOf(uint32(scrollPageLimit)),
			WithPayload: qdrant.NewWithPayload(true),
			WithVectors: qdrant.NewWithVectors(true),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", ErrVectorStore, collection, err)
	}

	records := make([]Record, 0, len(points))
	for _, point := range points {
		records = append(records, Record{
			ID:      point.GetId().GetUuid(),
			Payload: payloadToMap(point.GetPayload()),
			Vector:  point.GetVectors().GetVector().GetData(),
		})
	}

	return records, nil
}

// scrollAll pages through a scroll until a short page signals exhaustion.
// The client wrapper does not surface next_page_offset, so each next page
// starts at the last id seen and the duplicate leading point is skipped.
func scrollAll(pageLimit int, fetch func(offset *qdrant.PointId) ([]*qdrant.RetrievedPoint, error)) ([]*qdrant.RetrievedPoint, error) {
	var all []*qdrant.RetrievedPoint
	var offset *qdrant.PointId

	for {
		page, err := fetch(offset)
		if err != nil {
			return nil, err
		}

		for _, point := range page {
			if offset != nil && point.GetId().GetUuid() == offset.GetUuid() {
				continue
			}
			all = append(all, point)
		}

		if len(page) < pageLimit {
			return all, nil
		}
		offset = page[len(page)-1].GetId()
	}
}

// Search implements VectorStore. An empty userID searches the whole
// collection, which is how the shared reference collections are queried.
func (q *qdrantStore) Search(ctx context.Context, collection string, vector []float32, userID string, limit int) ([]Record, error) {
	var filter *qdrant.Filter
	if userID != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user_id", userID),
			},
		}
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to search %s: %v", ErrVectorStore, collection, err)
	}

	records := make([]Record, 0, len(searchResult))
	for _, point := range searchResult {
		records = append(records, Record{
			ID:      point.GetId().GetUuid(),
			Score:   point.GetScore(),
			Payload: payloadToMap(point.GetPayload()),
		})
	}

	return records, nil
}

// Delete implements VectorStore.
func (q *qdrantStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collection,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete %s from %s: %v", ErrVectorStore, id, collection, err)
	}

	return nil
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for key, value := range payload {
		switch kind := value.GetKind().(type) {
		case *qdrant.Value_StringValue:
			result[key] = kind.StringValue
		case *qdrant.Value_DoubleValue:
			result[key] = kind.DoubleValue
		case *qdrant.Value_IntegerValue:
			result[key] = kind.IntegerValue
		case *qdrant.Value_BoolValue:
			result[key] = kind.BoolValue
		}
	}
	return result
}

func payloadString(payload map[string]any, key string) string {
	if value, ok := payload[key].(string); ok {
		return value
	}
	return ""
}

func payloadFloat(payload map[string]any, key string) float64 {
	switch value := payload[key].(type) {
	case float64:
		return value
	case int64:
		return float64(value)
	}
	return 0
}
