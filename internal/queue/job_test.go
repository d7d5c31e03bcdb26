package queue

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewIngestionJob(t *testing.T) {
	t.Parallel()

	job := NewIngestionJob("uploads/abc123", "Blood Panel.pdf", "Blood_Panel")
	if job.Type != JobTypeDocumentIngestion {
		t.Errorf("type = %q", job.Type)
	}
	if job.FilePath != "uploads/abc123" {
		t.Errorf("file path = %q", job.FilePath)
	}
	if job.OriginalName != "Blood Panel.pdf" {
		t.Errorf("original name = %q", job.OriginalName)
	}
	if job.Namespace != "Blood_Panel" {
		t.Errorf("namespace = %q", job.Namespace)
	}
	if job.RetryCount != 0 || job.MaxRetries != 3 {
		t.Errorf("retries = %d/%d", job.RetryCount, job.MaxRetries)
	}
	if job.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("job id not assigned")
	}
	if !job.ShouldProcess() {
		t.Error("fresh job should be processable")
	}
}

func TestJob_ShouldProcess(t *testing.T) {
	t.Parallel()

	future := time.Now().Add(time.Hour)
	past := time.Now().Add(-time.Hour)

	tests := []struct {
		name      string
		notBefore *time.Time
		notAfter  *time.Time
		want      bool
	}{
		{"no window", nil, nil, true},
		{"not before future", &future, nil, false},
		{"not before past", &past, nil, true},
		{"not after past", nil, &past, false},
		{"not after future", nil, &future, true},
		{"inside window", &past, &future, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			job := NewIngestionJob("f", "f.pdf", "f")
			job.NotBefore = tt.notBefore
			job.NotAfter = tt.notAfter
			if got := job.ShouldProcess(); got != tt.want {
				t.Errorf("ShouldProcess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsExpired(t *testing.T) {
	t.Parallel()

	job := NewIngestionJob("f", "f.pdf", "f")
	if job.IsExpired() {
		t.Error("job without NotAfter is never expired")
	}
	past := time.Now().Add(-time.Minute)
	job.NotAfter = &past
	if !job.IsExpired() {
		t.Error("job past NotAfter should be expired")
	}
}

func TestJob_Retries(t *testing.T) {
	t.Parallel()

	job := NewIngestionJob("f", "f.pdf", "f")
	for i := 0; i < job.MaxRetries; i++ {
		if !job.CanRetry() {
			t.Fatalf("CanRetry() = false at retry %d of %d", i, job.MaxRetries)
		}
		job.IncrementRetry()
	}
	if job.CanRetry() {
		t.Error("CanRetry() = true after max retries")
	}
}

func TestJob_RoundTripsThroughJSON(t *testing.T) {
	t.Parallel()

	job := NewIngestionJob("uploads/xyz", "report.pdf", "report")
	body, err := json.Marshal(job)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Job
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID != job.ID || decoded.Type != job.Type ||
		decoded.FilePath != job.FilePath ||
		decoded.OriginalName != job.OriginalName ||
		decoded.Namespace != job.Namespace ||
		decoded.MaxRetries != job.MaxRetries {
		t.Errorf("round trip changed job: %+v vs %+v", decoded, job)
	}
}
