package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"lonelog/internal/config"
	"lonelog/internal/delta"
	"lonelog/internal/logging"
	"lonelog/internal/parser"
	"lonelog/internal/store"
)

const defaultConcurrency = 4

var logExtensions = []string{".md", ".lonelog"}

// Store is the part of store.Store that ingestion writes through.
type Store interface {
	EnsureSchema(ctx context.Context) error
	GetLogHashes(ctx context.Context, campaign string) (map[string]string, error)
	SaveLog(ctx context.Context, in store.LogInput) error
	RemoveStaleLogs(ctx context.Context, campaign string, currentSourceFiles []string) (int64, error)
}

type Result struct {
	RunID           string
	LogsSaved       int
	FilesSkipped    int
	LogsRemoved     int
	EntityDeltas    int
	ProgressChanges int
	ThreadChanges   int
	Errors          []error
}

type Options struct {
	Full        bool
	Logger      logrus.FieldLogger
	Concurrency int
}

type parsedLog struct {
	path    string
	hash    string
	note    *parser.Note
	deltas  delta.Result
	skipped bool
	err     error
}

func Run(ctx context.Context, cfg *config.ProjectConfig, db Store, options Options) (*Result, error) {
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger := options.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	concurrency := options.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	result := &Result{RunID: uuid.NewString()}
	logger = logger.WithField("run_id", result.RunID)

	for _, campaign := range cfg.Campaigns {
		campaignLogger := logger.WithField("campaign", campaign.Name)

		var existingHashes map[string]string
		if !options.Full {
			var err error
			existingHashes, err = db.GetLogHashes(ctx, campaign.Name)
			if err != nil {
				return nil, fmt.Errorf("get log hashes for %s: %w", campaign.Name, err)
			}
		}

		files, err := walkLogFiles(campaign.Paths, cfg.Exclude)
		if err != nil {
			return nil, fmt.Errorf("walking files for campaign %s: %w", campaign.Name, err)
		}
		campaignLogger.WithField("files", len(files)).Debug("walked campaign")

		parsed, err := parseAll(ctx, files, existingHashes, concurrency)
		if err != nil {
			return nil, err
		}

		for _, p := range parsed {
			fileLogger := campaignLogger.WithField("file", p.path)
			if p.err != nil {
				fileLogger.WithError(p.err).Warn("failed to parse log")
				result.Errors = append(result.Errors, p.err)
				continue
			}
			if p.skipped {
				fileLogger.Debug("unchanged, skipping")
				result.FilesSkipped++
				continue
			}

			input := store.LogInput{
				Campaign:   campaign.Name,
				SourceFile: p.path,
				SourceHash: p.hash,
				Title:      p.note.Title,
				Session:    p.note.Session,
				EntryCount: len(p.note.Entries),
				Deltas:     p.deltas,
			}
			if err := db.SaveLog(ctx, input); err != nil {
				fileLogger.WithError(err).Warn("failed to save log")
				result.Errors = append(result.Errors, fmt.Errorf("saving %s: %w", p.path, err))
				continue
			}

			fileLogger.WithFields(logrus.Fields{
				"entries":  input.EntryCount,
				"entities": len(p.deltas.EntityDeltas),
			}).Info("saved log")
			result.LogsSaved++
			result.EntityDeltas += len(p.deltas.EntityDeltas)
			result.ProgressChanges += len(p.deltas.ProgressChanges)
			result.ThreadChanges += len(p.deltas.ThreadChanges)
		}

		removed, err := db.RemoveStaleLogs(ctx, campaign.Name, files)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("removing stale logs for %s: %w", campaign.Name, err))
			continue
		}
		if removed > 0 {
			campaignLogger.WithField("removed", removed).Info("removed stale logs")
		}
		result.LogsRemoved += int(removed)
	}

	return result, nil
}

// parseAll reads, hashes and decodes files concurrently. Results keep the
// order of files; per-file failures are reported in the slot, not returned.
func parseAll(ctx context.Context, files []string, existingHashes map[string]string, concurrency int) ([]parsedLog, error) {
	parsed := make([]parsedLog, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i] = parseLog(path, existingHashes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parsing logs: %w", err)
	}
	return parsed, nil
}

func parseLog(path string, existingHashes map[string]string) parsedLog {
	p := parsedLog{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		p.err = fmt.Errorf("reading %s: %w", path, err)
		return p
	}
	p.hash = computeHash(data)
	if existing, ok := existingHashes[path]; ok && existing == p.hash {
		p.skipped = true
		return p
	}

	note, err := parser.ParseNote(data)
	if err != nil {
		p.err = fmt.Errorf("parsing %s: %w", path, err)
		return p
	}
	note.SourceFile = path
	p.note = note
	p.deltas = delta.Extract(note.Entries)
	return p
}

func walkLogFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	files := []string{}
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() && isExcluded(path, excluded) {
				return filepath.SkipDir
			}
			if d.IsDir() || !isLogFile(d.Name()) || isExcluded(path, excluded) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isLogFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range logExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
