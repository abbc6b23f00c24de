package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paper-search/apperr"
	"paper-search/config"
	"paper-search/models"
	"paper-search/storage"
)

// IngestService schreibt Batches von Records transaktional in den Katalog.
type IngestService struct {
	Store    *storage.Store
	Resolver *AuthorResolver
	// SkipExisting überspringt Records, deren Dedup-Schlüssel schon existiert.
	SkipExisting bool
	Logger       *zap.Logger
}

// NewIngestService erstellt den Service anhand der Konfiguration.
func NewIngestService(cfg *config.Config, store *storage.Store, logger *zap.Logger) *IngestService {
	return &IngestService{
		Store:        store,
		Resolver:     NewAuthorResolver(cfg.MatchAuthorORCID),
		SkipExisting: cfg.SkipExistingPapers,
		Logger:       logger,
	}
}

// Ingest speichert alle Records in einer Transaktion und gibt die Zahl
// neu angelegter Papers zurück. Bei einem Fehler wird alles zurückgerollt;
// kein Paper und kein Autor des Batches bleibt bestehen.
func (s *IngestService) Ingest(ctx context.Context, records []models.Record) (int, error) {
	sess, err := s.Store.Begin(ctx)
	if err != nil {
		return 0, err
	}

	created, authors, err := s.stageAll(ctx, sess, records)
	if err != nil {
		if rbErr := sess.Rollback(); rbErr != nil {
			s.Logger.Error("Rollback fehlgeschlagen", zap.Error(rbErr))
		}
		s.Logger.Warn("Batch verworfen", zap.Int("records", len(records)), zap.Error(err))
		return 0, apperr.Persistence("ingest", err)
	}

	if err := sess.Commit(); err != nil {
		return 0, apperr.Persistence("ingest.commit", err)
	}

	for source, n := range created {
		papersIngestedCounter.WithLabelValues(source).Add(float64(n))
	}
	authorsCreatedCounter.Add(float64(authors))

	total := 0
	for _, n := range created {
		total += n
	}
	s.Logger.Info("Batch gespeichert",
		zap.Int("records", len(records)),
		zap.Int("papers_created", total),
		zap.Int("authors_created", authors))
	return total, nil
}

// stageAll gibt die Zahl neuer Papers pro Quelle und die Zahl neuer Autoren zurück.
func (s *IngestService) stageAll(ctx context.Context, sess *storage.Session, records []models.Record) (map[string]int, int, error) {
	created := map[string]int{}
	authorsCreated := 0

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if strings.TrimSpace(rec.Title) == "" {
			return nil, 0, apperr.Validation("ingest", "record %d has no title", i)
		}

		key := PaperKey(rec)
		if s.SkipExisting {
			exists, err := sess.PaperExists(key)
			if err != nil {
				return nil, 0, fmt.Errorf("record %d: %w", i, err)
			}
			if exists {
				s.Logger.Debug("Paper existiert bereits, übersprungen", zap.String("dedup_key", key))
				continue
			}
		}

		paper := buildPaper(Normalize(rec), key)
		linked := map[uint]bool{}
		for _, name := range rec.Authors {
			author, isNew, err := s.Resolver.Resolve(sess, name, rec.AuthorORCIDs[name])
			if err != nil {
				return nil, 0, fmt.Errorf("record %d: author %q: %w", i, name, err)
			}
			if isNew {
				authorsCreated++
			}
			if linked[author.ID] {
				continue
			}
			linked[author.ID] = true
			paper.Authors = append(paper.Authors, author)
		}

		if err := sess.StagePaper(paper); err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		created[rec.Source]++
	}
	return created, authorsCreated, nil
}

func buildPaper(rec models.Record, dedupKey string) *models.Paper {
	return &models.Paper{
		Source:         rec.Source,
		ExternalID:     rec.ExternalID,
		DedupKey:       dedupKey,
		Title:          strings.TrimSpace(rec.Title),
		Abstract:       rec.Abstract,
		CitationCount:  rec.CitationCount,
		AbsURL:         rec.AbsURL,
		PDFURL:         rec.PDFURL,
		WherePublished: rec.Venue,
		PublishedDate:  rec.PublishedDate,
	}
}
