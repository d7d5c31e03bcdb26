// Package workers contains the background consumers that drain the job
// queue.
package workers

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/queue"
	"github.com/aditya6114/aac-board/internal/services/rag"
)

// DocumentIngestor indexes an uploaded file under its namespace.
// *rag.Service is the production implementation.
type DocumentIngestor interface {
	IngestFile(ctx context.Context, path, originalName string) (string, int, error)
}

// Ingester extracts, chunks, and embeds uploaded documents from
// ingestion jobs.
type Ingester struct {
	service  DocumentIngestor
	jobQueue queue.JobQueue // For re-enqueueing jobs with delays
	logger   *zap.Logger
}

// NewIngester creates a document ingester.
func NewIngester(service DocumentIngestor, jobQueue queue.JobQueue, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		service:  service,
		jobQueue: jobQueue,
		logger:   logger,
	}
}

// ProcessIngestionJob runs one document through extraction and
// indexing. The spooled file is removed once the document is stored.
func (w *Ingester) ProcessIngestionJob(ctx context.Context, job *queue.Job) error {
	if job.FilePath == "" {
		return fmt.Errorf("file_path is required for ingestion job")
	}

	namespace, chunks, err := w.service.IngestFile(ctx, job.FilePath, job.OriginalName)
	if err != nil {
		return fmt.Errorf("failed to ingest %s: %w", job.OriginalName, err)
	}
	if job.Namespace != "" && namespace != job.Namespace {
		w.logger.Warn("namespace_drift",
			zap.String("expected", job.Namespace),
			zap.String("derived", namespace),
		)
	}

	if err := os.Remove(job.FilePath); err != nil {
		// The document is indexed; a leftover spool file is not fatal.
		w.logger.Warn("spool_cleanup_failed",
			zap.String("path", job.FilePath),
			zap.Error(err),
		)
	}

	w.logger.Info("ingestion_job_done",
		zap.String("job_id", job.ID.String()),
		zap.String("namespace", namespace),
		zap.Int("chunk_count", chunks),
	)
	return nil
}

// ProcessJob processes a job based on its type
func (w *Ingester) ProcessJob(ctx context.Context, msg queue.MessageInterface) error {
	job := msg.GetJob()

	if !job.ShouldProcess() {
		// Not ready; ack so the delayed exchange redelivers later.
		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("ack_failed", zap.Error(ackErr))
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeDocumentIngestion:
		if err := w.ProcessIngestionJob(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type goes straight to the DLQ.
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError retries transient failures with backoff and
// dead-letters the rest.
func (w *Ingester) handleJobError(ctx context.Context, msg queue.MessageInterface, job *queue.Job, err error) error {
	if rag.IsQuotaError(err) {
		// Quota exhaustion will not clear soon; park the job well into
		// the future instead of hammering the provider.
		retryDelay := rag.GetRetryDelay(err, job.RetryCount)
		notBefore := time.Now().Add(retryDelay)

		w.logger.Warn("ingestion_quota_exhausted",
			zap.String("job_id", job.ID.String()),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)

		if w.jobQueue != nil {
			delayed := *job
			delayed.NotBefore = &notBefore
			delayed.RetryCount = job.RetryCount + 1

			if ackErr := msg.Ack(); ackErr != nil {
				w.logger.Warn("ack_failed", zap.Error(ackErr))
			}
			if enqueueErr := w.jobQueue.Enqueue(ctx, &delayed); enqueueErr != nil {
				return fmt.Errorf("quota exhausted, failed to re-enqueue: %w", enqueueErr)
			}
			return nil
		}

		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("quota exhausted (job %s): %w", job.ID, err)
	}

	if rag.IsRateLimitError(err) {
		retryDelay := rag.GetRetryDelay(err, job.RetryCount)

		if job.CanRetry() && w.jobQueue != nil {
			notBefore := time.Now().Add(retryDelay)
			delayed := *job
			delayed.NotBefore = &notBefore
			delayed.RetryCount = job.RetryCount + 1

			if ackErr := msg.Ack(); ackErr != nil {
				w.logger.Warn("ack_failed", zap.Error(ackErr))
			}
			if enqueueErr := w.jobQueue.Enqueue(ctx, &delayed); enqueueErr != nil {
				if nackErr := msg.Nack(true); nackErr != nil {
					w.logger.Warn("nack_failed", zap.Error(nackErr))
				}
				return fmt.Errorf("rate limited, failed to re-enqueue: %w", enqueueErr)
			}
			w.logger.Info("ingestion_rate_limited_requeued",
				zap.String("job_id", job.ID.String()),
				zap.Duration("retry_delay", retryDelay),
			)
			return nil
		}

		if job.CanRetry() {
			job.IncrementRetry()
			if nackErr := msg.Nack(true); nackErr != nil {
				w.logger.Warn("nack_failed", zap.Error(nackErr))
			}
			return fmt.Errorf("rate limited (will retry): %w", err)
		}
	}

	if job.CanRetry() {
		job.IncrementRetry()
		w.logger.Warn("ingestion_job_failed_retrying",
			zap.String("job_id", job.ID.String()),
			zap.Int("retry_count", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Warn("nack_failed", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	w.logger.Error("ingestion_job_dead_lettered",
		zap.String("job_id", job.ID.String()),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Warn("nack_failed", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
