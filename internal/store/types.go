package store

import "lonelog/internal/delta"

// LogInput is one parsed session log ready to be persisted. Saving it
// replaces everything previously stored for the same campaign and file.
type LogInput struct {
	Campaign   string
	SourceFile string
	SourceHash string
	Title      string
	Session    int
	EntryCount int
	Deltas     delta.Result
}

type LogSummary struct {
	Campaign     string
	SourceFile   string
	SourceHash   string
	Title        string
	Session      int
	EntryCount   int
	LastIngested string
}

type EntitySummary struct {
	Name       string
	EntityType delta.EntityType
	Campaign   string
	Logs       int
	Changes    int
}

type ProgressRecord struct {
	delta.ProgressChange
	Campaign   string
	SourceFile string
	Session    int
}

type ThreadRecord struct {
	delta.ThreadChange
	Campaign   string
	SourceFile string
	Session    int
}
