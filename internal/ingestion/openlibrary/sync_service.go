package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"readhub/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const searchPageSize = 100

// SyncConfig holds the catalog import settings.
type SyncConfig struct {
	Subjects     []string // Open Library subject slugs to import
	PerSubject   int      // works fetched per subject
	Workers      int
	PollInterval time.Duration // re-run cadence, 0 runs once
}

// SyncService imports Open Library works into the book catalog.
type SyncService struct {
	client *Client
	db     *gorm.DB
	cfg    SyncConfig
	log    zerolog.Logger
}

func NewSyncService(cfg SyncConfig, db *gorm.DB, log zerolog.Logger) *SyncService {
	if cfg.PerSubject <= 0 {
		cfg.PerSubject = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 5
	}

	return &SyncService{
		client: NewClient(log),
		db:     db,
		cfg:    cfg,
		log:    log,
	}
}

// SyncState records the outcome of the last run per sync type.
type SyncState struct {
	SyncType      string `gorm:"primaryKey"`
	LastRunAt     *time.Time
	LastSuccessAt *time.Time
	LastCursor    string
	Status        string
	ErrorMessage  string
	UpdatedAt     time.Time
}

func (SyncState) TableName() string {
	return "sync_state"
}

func (s *SyncService) saveSyncState(syncType, status, cursor string, runErr error) {
	now := time.Now()
	state := SyncState{
		SyncType:   syncType,
		LastRunAt:  &now,
		LastCursor: cursor,
		Status:     status,
	}
	if status == "completed" {
		state.LastSuccessAt = &now
	}
	if runErr != nil {
		state.ErrorMessage = runErr.Error()
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "sync_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_run_at", "last_success_at", "last_cursor", "status", "error_message", "updated_at",
		}),
	}).Create(&state).Error
	if err != nil {
		s.log.Warn().Err(err).Str("sync_type", syncType).Msg("failed to record sync state")
	}
}

// RunCatalogSync imports the configured subjects. Each subject becomes a
// category; works already in the catalog are skipped.
func (s *SyncService) RunCatalogSync(ctx context.Context) error {
	s.log.Info().Strs("subjects", s.cfg.Subjects).Int("per_subject", s.cfg.PerSubject).
		Msg("starting catalog sync")
	s.saveSyncState("catalog_sync", "running", "", nil)

	pool := NewWorkerPool(ctx, s.cfg.Workers, s.log)
	pool.Start()

	var created, skipped atomic.Int64
	cursor := ""

	for _, subject := range s.cfg.Subjects {
		if err := s.syncSubject(ctx, subject, pool, &created, &skipped); err != nil {
			pool.Wait()
			s.saveSyncState("catalog_sync", "error", cursor, err)
			return fmt.Errorf("failed to sync subject %q: %w", subject, err)
		}
		cursor = subject
	}

	failed := pool.Wait()
	s.saveSyncState("catalog_sync", "completed", cursor, nil)

	s.log.Info().Int64("created", created.Load()).Int64("skipped", skipped.Load()).
		Int64("failed", failed).Msg("catalog sync finished")
	return nil
}

// syncSubject pages through one subject's search results and queues each
// work for import.
func (s *SyncService) syncSubject(ctx context.Context, subject string, pool *WorkerPool, created, skipped *atomic.Int64) error {
	category := CategoryLabel(subject)

	for offset := 0; offset < s.cfg.PerSubject; offset += searchPageSize {
		limit := min(searchPageSize, s.cfg.PerSubject-offset)

		resp, err := s.client.SearchSubject(ctx, subject, limit, offset)
		if err != nil {
			return err
		}

		s.log.Debug().Str("subject", subject).Int("offset", offset).
			Int("docs", len(resp.Docs)).Msg("fetched search page")

		for _, doc := range resp.Docs {
			doc := doc
			pool.Submit(func(ctx context.Context) error {
				return s.importWork(ctx, doc, category, created, skipped)
			})
		}

		if len(resp.Docs) < limit {
			break
		}
	}

	return nil
}

// importWork stores one work as a catalog book unless an equivalent entry
// already exists.
func (s *SyncService) importWork(ctx context.Context, doc WorkDoc, category string, created, skipped *atomic.Int64) error {
	book, err := ExtractBook(doc, category)
	if err != nil {
		return err
	}

	query := s.db.WithContext(ctx).Model(&models.Book{})
	if book.ISBN != nil {
		query = query.Where("isbn = ? OR (title = ? AND author = ?)", *book.ISBN, book.Title, book.Author)
	} else {
		query = query.Where("title = ? AND author = ?", book.Title, book.Author)
	}

	var existing int64
	if err := query.Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check for %q: %w", book.Title, err)
	}
	if existing > 0 {
		skipped.Add(1)
		return nil
	}

	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		// Two docs in one run can carry the same ISBN; the first insert wins.
		if isUniqueViolation(err) {
			skipped.Add(1)
			return nil
		}
		return fmt.Errorf("failed to store %q: %w", book.Title, err)
	}

	created.Add(1)
	s.log.Debug().Str("title", book.Title).Str("category", category).Msg("imported book")
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// StartPoller re-runs the catalog sync on the configured interval until
// the context is cancelled.
func (s *SyncService) StartPoller(ctx context.Context) {
	if s.cfg.PollInterval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		s.log.Info().Dur("interval", s.cfg.PollInterval).Msg("catalog sync poller started")

		for {
			select {
			case <-ticker.C:
				if err := s.RunCatalogSync(ctx); err != nil {
					s.log.Error().Err(err).Msg("scheduled catalog sync failed")
				}
			case <-ctx.Done():
				s.log.Info().Msg("catalog sync poller stopped")
				return
			}
		}
	}()
}
