package services

import "errors"

// Failure classes of the evaluation pipeline. Extraction and generation
// failures are permanent: retrying cannot fix an empty document or a model
// that violates the response contract. Everything else, including deadline
// exceedances on provider calls, is treated as transient and retried.
var (
	ErrTextExtraction = errors.New("could not extract text from document")
	ErrEmbedding      = errors.New("embedding service failure")
	ErrVectorStore    = errors.New("vector store failure")
	ErrGeneration     = errors.New("malformed generation output")
)

func isTransient(err error) bool {
	return !errors.Is(err, ErrTextExtraction) && !errors.Is(err, ErrGeneration)
}
