package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aslammaududy/cv-checker/internal/models"
)

// fakeVectorStore is an in-memory VectorStore. Search ignores vector
// distance and returns matching records in insertion order, which is enough
// to exercise filtering, limits and the delete-then-insert lifecycle.
type fakeVectorStore struct {
	mu          sync.Mutex
	collections map[string][]Record

	insertErr error
	queryErr  error
	searchErr error
	deleteErr error

	queryCalls int32
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{collections: make(map[string][]Record)}
}

func (f *fakeVectorStore) EnsureCollection(_ context.Context, _ string, _ uint64) error {
	return nil
}

func (f *fakeVectorStore) Insert(_ context.Context, collection string, records []Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, record := range records {
		if record.ID == "" {
			record.ID = uuid.NewString()
		}
		f.collections[collection] = append(f.collections[collection], record)
	}
	return nil
}

func (f *fakeVectorStore) Query(_ context.Context, collection, field, value string) ([]Record, error) {
	atomic.AddInt32(&f.queryCalls, 1)
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Record
	for _, record := range f.collections[collection] {
		if payloadString(record.Payload, field) == value {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeVectorStore) Search(_ context.Context, collection string, _ []float32, userID string, limit int) ([]Record, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Record
	for _, record := range f.collections[collection] {
		if userID != "" && payloadString(record.Payload, "user_id") != userID {
			continue
		}
		out = append(out, record)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeVectorStore) Delete(_ context.Context, collection, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	records := f.collections[collection]
	for i, record := range records {
		if record.ID == id {
			f.collections[collection] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeVectorStore) count(collection string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.collections[collection])
}

// mockEmbedder counts calls atomically since the indexer embeds chunks
// concurrently.
type mockEmbedder struct {
	calls  int32
	err    error
	failOn string
}

func (m *mockEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil && (m.failOn == "" || text == m.failOn) {
		return nil, m.err
	}
	return []float32{0.1, 0.2, 0.3, 0.4}, nil
}

func (m *mockEmbedder) callCount() int {
	return int(atomic.LoadInt32(&m.calls))
}

// stubGenerator resolves generation calls from canned responses keyed by
// instruction, decoding them the same way the real service does.
type stubGenerator struct {
	responses map[string]string
	calls     []string
}

func (s *stubGenerator) GenerateJSON(_ context.Context, instruction string, _ any, out any) error {
	s.calls = append(s.calls, instruction)

	raw, ok := s.responses[instruction]
	if !ok {
		return fmt.Errorf("%w: no stub response", ErrGeneration)
	}

	if err := json.Unmarshal([]byte(extractJSON(raw)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return nil
}

type mockExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (m *mockExtractor) Extract(filePath string) (string, error) {
	if err := m.errs[filePath]; err != nil {
		return "", err
	}
	return m.texts[filePath], nil
}

type mockEvalRepo struct {
	mu          sync.Mutex
	evaluations map[uuid.UUID]*models.Evaluation
	statusLog   []models.EvaluationStatus
}

func newMockEvalRepo(evals ...*models.Evaluation) *mockEvalRepo {
	repo := &mockEvalRepo{evaluations: make(map[uuid.UUID]*models.Evaluation)}
	for _, eval := range evals {
		repo.evaluations[eval.ID] = eval
	}
	return repo
}

func (r *mockEvalRepo) Create(eval *models.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluations[eval.ID] = eval
	return nil
}

func (r *mockEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluation not found")
	}
	copied := *eval
	return &copied, nil
}

func (r *mockEvalRepo) FindByUserID(userID uuid.UUID) (*models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, eval := range r.evaluations {
		if eval.UserID == userID {
			copied := *eval
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("evaluation not found")
}

func (r *mockEvalRepo) UpdateFiles(id uuid.UUID, cvPath, projectPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *mockEvalRepo) UpdateStatus(id uuid.UUID, status models.EvaluationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = status
	r.statusLog = append(r.statusLog, status)
	return nil
}

func (r *mockEvalRepo) Complete(id uuid.UUID, resultJSON string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = models.StatusCompleted
	eval.Result = &resultJSON
	r.statusLog = append(r.statusLog, models.StatusCompleted)
	return nil
}

func (r *mockEvalRepo) Fail(id uuid.UUID, errorMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	eval, ok := r.evaluations[id]
	if !ok {
		return fmt.Errorf("evaluation not found")
	}
	eval.Status = models.StatusFailed
	eval.ErrorMessage = &errorMsg
	r.statusLog = append(r.statusLog, models.StatusFailed)
	return nil
}

func (r *mockEvalRepo) FindPendingJobs(limit int) ([]models.Evaluation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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

func (r *mockEvalRepo) currentStatus(id uuid.UUID) models.EvaluationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evaluations[id].Status
}
