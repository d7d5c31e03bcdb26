package queue

import (
	"time"

	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

// JobTypeDocumentIngestion is a job for chunking and embedding an
// uploaded document.
const JobTypeDocumentIngestion JobType = "document_ingestion"

// Job represents a job in the queue
type Job struct {
	ID           uuid.UUID  `json:"id"`
	Type         JobType    `json:"type"`
	FilePath     string     `json:"file_path"`            // Spooled upload on shared storage
	OriginalName string     `json:"original_name"`        // Client-supplied filename
	Namespace    string     `json:"namespace"`            // Retrieval namespace derived from OriginalName
	NotBefore    *time.Time `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter     *time.Time `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	CreatedAt    time.Time  `json:"created_at"`
	RetryCount   int        `json:"retry_count"`
	MaxRetries   int        `json:"max_retries"`
}

// NewIngestionJob creates a document ingestion job for a spooled upload.
func NewIngestionJob(filePath, originalName, namespace string) *Job {
	return &Job{
		ID:           uuid.New(),
		Type:         JobTypeDocumentIngestion,
		FilePath:     filePath,
		OriginalName: originalName,
		Namespace:    namespace,
		CreatedAt:    time.Now(),
		RetryCount:   0,
		MaxRetries:   3,
	}
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	now := time.Now()
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
