package store

import (
	"context"
	"errors"

	"lonelog/internal/delta"
)

var ErrNotFound = errors.New("not found")

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	SaveLog(ctx context.Context, in LogInput) error
	GetLogHashes(ctx context.Context, campaign string) (map[string]string, error)
	RemoveStaleLogs(ctx context.Context, campaign string, currentSourceFiles []string) (int64, error)

	ListLogs(ctx context.Context, campaign string) ([]LogSummary, error)
	ListEntities(ctx context.Context, campaign, entityType string) ([]EntitySummary, error)
	GetEntityDeltas(ctx context.Context, campaign, entityType, name string) ([]delta.EntityDelta, error)
	ListProgress(ctx context.Context, campaign, name string) ([]ProgressRecord, error)
	ListThreads(ctx context.Context, campaign string) ([]ThreadRecord, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
