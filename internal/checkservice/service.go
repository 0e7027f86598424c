// Package checkservice coordinates the document library, the checker,
// the run history and event publishing.
package checkservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/starford/papercheck/internal/apperr"
	"github.com/starford/papercheck/internal/checker"
	"github.com/starford/papercheck/internal/checksum"
	"github.com/starford/papercheck/internal/history"
	"github.com/starford/papercheck/internal/models"
	"github.com/starford/papercheck/internal/storage"
)

// UploadPrefix is prepended to the recorded path of uploaded documents so
// they never collide with library paths.
const UploadPrefix = "upload/"

// Publisher receives every recorded run.
type Publisher interface {
	PublishRun(run models.Run)
}

// Service checks documents and records the outcome.
type Service struct {
	store   storage.Provider
	checker *checker.Checker
	history history.Store
	events  Publisher
	retain  int
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the run event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithRetention keeps only the newest n runs per path. n <= 0 keeps everything.
func WithRetention(n int) Option {
	return func(s *Service) { s.retain = n }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a new check service.
func NewService(store storage.Provider, c *checker.Checker, h history.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		checker: c,
		history: h,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules returns the active format rules.
func (s *Service) Rules() checker.Rules {
	return s.checker.Rules()
}

// Documents lists the library documents.
func (s *Service) Documents(_ context.Context) ([]models.DocumentMetadata, error) {
	return s.store.List("")
}

// CheckDocument checks the library document at rel and records the run.
func (s *Service) CheckDocument(ctx context.Context, rel string) (*models.Run, error) {
	data, err := s.store.Read(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return s.check(ctx, rel, data)
}

// CheckChanged checks the library document at rel unless its bytes match
// the newest recorded run. It returns nil when nothing changed.
func (s *Service) CheckChanged(ctx context.Context, rel string) (*models.Run, error) {
	data, err := s.store.Read(rel)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	runs, _, err := s.history.List(1, 0, rel)
	if err != nil {
		return nil, err
	}
	if len(runs) > 0 && runs[0].Checksum == checksum.Sum(data) {
		return nil, nil
	}
	return s.check(ctx, rel, data)
}

// CheckUpload checks an uploaded document and records it under UploadPrefix.
func (s *Service) CheckUpload(ctx context.Context, name string, data []byte) (*models.Run, error) {
	base := path.Base(name)
	if base == "." || base == "/" {
		base = "document" + storage.DocumentExt
	}
	return s.check(ctx, UploadPrefix+base, data)
}

// CheckFile checks a document outside the library and records the run
// under path as given.
func (s *Service) CheckFile(ctx context.Context, path string) (*models.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return s.record(models.Run{
			ID:        uuid.NewString(),
			Path:      path,
			Report:    models.Report{Path: path, Error: err.Error()},
			CheckedAt: s.now().UTC(),
		})
	}
	return s.check(ctx, path, data)
}

func (s *Service) check(_ context.Context, rel string, data []byte) (*models.Run, error) {
	return s.record(models.Run{
		ID:        uuid.NewString(),
		Path:      rel,
		Checksum:  checksum.Sum(data),
		Report:    s.checker.CheckBytes(rel, data),
		CheckedAt: s.now().UTC(),
	})
}

func (s *Service) record(run models.Run) (*models.Run, error) {
	rel := run.Path
	if err := s.history.Record(run); err != nil {
		return nil, fmt.Errorf("checkservice: record %s: %w", rel, err)
	}
	if s.retain > 0 {
		if _, err := s.history.Prune(s.retain); err != nil {
			s.logger.Warn("prune history failed", slog.String("error", err.Error()))
		}
	}

	s.logger.Info("document checked",
		slog.String("path", rel),
		slog.String("run", run.ID),
		slog.String("outcome", run.Report.Outcome()),
	)
	if s.events != nil {
		s.events.PublishRun(run)
	}
	return &run, nil
}

// Run returns a recorded run by id.
func (s *Service) Run(_ context.Context, id string) (*models.Run, error) {
	return s.history.Get(id)
}

// Runs returns recorded runs newest first, optionally filtered by path.
func (s *Service) Runs(_ context.Context, limit, offset int, rel string) ([]models.Run, int, error) {
	runs, total, err := s.history.List(limit, offset, rel)
	if err != nil {
		return nil, 0, err
	}
	if runs == nil {
		runs = []models.Run{}
	}
	return runs, total, nil
}

// SyncResult summarises a Sync pass.
type SyncResult struct {
	Checked   int `json:"checked"`
	Unchanged int `json:"unchanged"`
	Errors    int `json:"errors"`
}

// Sync checks every library document whose checksum differs from its
// newest recorded run.
func (s *Service) Sync(ctx context.Context) (SyncResult, error) {
	var res SyncResult

	docs, err := s.store.List("")
	if err != nil {
		return res, fmt.Errorf("checkservice: list library: %w", err)
	}
	latest, err := s.history.LatestChecksums()
	if err != nil {
		return res, err
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if latest[doc.Path] == doc.Checksum {
			res.Unchanged++
			continue
		}
		if _, err := s.CheckDocument(ctx, doc.Path); err != nil {
			s.logger.Warn("sync check failed", slog.String("path", doc.Path), slog.String("error", err.Error()))
			res.Errors++
			continue
		}
		res.Checked++
	}

	s.logger.Info("library synced",
		slog.Int("checked", res.Checked),
		slog.Int("unchanged", res.Unchanged),
		slog.Int("errors", res.Errors),
	)
	return res, nil
}
