package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/vector"
)

// DefaultTopK is how many retrieved passages ground an answer.
const DefaultTopK = 3

// systemPromptPrefix frames the retrieved passages for the model.
const systemPromptPrefix = `You are a medical assistant. The following context comes from a patient's medical report.
Summarize the patient's full medical history, including chronic conditions, hospitalizations,
diagnoses, and functional impairments. Be concise but comprehensive.`

// Service ties the embedding provider and the vector store together.
type Service struct {
	provider Provider
	store    *vector.Store
	logger   *zap.Logger
	topK     int
}

// NewService creates the retrieval service.
func NewService(provider Provider, store *vector.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		provider: provider,
		store:    store,
		logger:   log,
		topK:     DefaultTopK,
	}
}

// IngestFile extracts text from the PDF at path and indexes it under
// the namespace derived from originalName. Returns the namespace and
// the number of chunks stored.
func (s *Service) IngestFile(ctx context.Context, path, originalName string) (string, int, error) {
	namespace := NamespaceForFile(originalName)
	if namespace == "" {
		return "", 0, fmt.Errorf("cannot derive namespace from %q", originalName)
	}

	text, err := extractPDFText(path)
	if err != nil {
		return namespace, 0, err
	}

	n, err := s.Ingest(ctx, namespace, text)
	return namespace, n, err
}

// Ingest splits text into overlapping chunks, embeds them, and replaces
// any previous content stored under the namespace.
func (s *Service) Ingest(ctx context.Context, namespace, text string) (int, error) {
	if namespace == "" {
		return 0, errors.New("namespace is required")
	}

	chunks := splitText(text, DefaultChunkSize, DefaultChunkOverlap)
	if len(chunks) == 0 {
		return 0, ErrEmptyDocument
	}

	embeddings, err := s.provider.Embed(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("provider returned %d embeddings for %d chunks", len(embeddings), len(chunks))
	}

	// Re-ingesting a document replaces it wholesale so stale chunks
	// from a longer previous version cannot linger.
	if _, err := s.store.DeleteNamespace(ctx, namespace); err != nil {
		return 0, err
	}
	for i, chunk := range chunks {
		err := s.store.Upsert(ctx, vector.Chunk{
			Namespace: namespace,
			Seq:       i,
			Text:      chunk,
		}, embeddings[i])
		if err != nil {
			return i, err
		}
	}

	s.logger.Info("document_ingested",
		zap.String("namespace", namespace),
		zap.Int("chunk_count", len(chunks)),
	)
	return len(chunks), nil
}

// chatPrompt frames plain conversation when no document is loaded.
const chatPrompt = `You are a friendly assistant inside a communication app. The person talking to you
may use short phrases or single words. Reply warmly in one or two short, simple sentences.`

// Chat answers a free-form message without document retrieval.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	return s.provider.Complete(ctx, chatPrompt, message)
}

// Answer retrieves the passages closest to question within namespace
// and asks the model for a grounded reply. It fails fast with
// ErrNoCorpus when the namespace holds no documents, before any
// provider call is made.
func (s *Service) Answer(ctx context.Context, namespace, question string) (string, error) {
	if namespace == "" {
		return "", fmt.Errorf("%w: empty namespace", ErrNoCorpus)
	}
	ok, err := s.store.HasNamespace(ctx, namespace)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoCorpus, namespace)
	}

	queryVecs, err := s.provider.Embed(ctx, []string{question})
	if err != nil {
		return "", err
	}
	if len(queryVecs) != 1 {
		return "", fmt.Errorf("provider returned %d embeddings for query", len(queryVecs))
	}

	matches, err := s.store.Search(ctx, namespace, queryVecs[0], s.topK)
	if err != nil {
		return "", err
	}

	passages := make([]string, len(matches))
	for i, m := range matches {
		passages[i] = m.Text
	}
	system := systemPromptPrefix + "\n\n" + strings.Join(passages, "\n\n")

	answer, err := s.provider.Complete(ctx, system, question)
	if err != nil {
		return "", err
	}

	s.logger.Debug("question_answered",
		zap.String("namespace", namespace),
		zap.Int("passage_count", len(matches)),
		zap.Int("answer_length", len(answer)),
	)
	return answer, nil
}
