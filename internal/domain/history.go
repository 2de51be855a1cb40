package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// HistoryRecord captures one finished generation for auditing. The record is
// written after the result is final; in-flight job state never touches
// storage.
type HistoryRecord struct {
	ID           string
	RequestID    string
	Prompt       string
	StyleKey     string
	Quality      string
	Mode         string
	Origin       string
	Seed         uint32
	JobID        string
	ArtifactPath string
	CreatedAt    time.Time
}

// HistoryRepository persists generation records. Implementations must be
// safe for concurrent use.
type HistoryRepository interface {
	Record(ctx context.Context, rec *HistoryRecord) error
	GetByID(ctx context.Context, id string) (*HistoryRecord, error)
}
