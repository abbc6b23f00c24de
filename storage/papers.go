package storage

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paper-search/apperr"
	"paper-search/models"
)

const exportBatchSize = 500

// likeEscaper maskiert die LIKE-Platzhalter, Escape-Zeichen ist "!".
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// SearchPapers sucht case-insensitiv nach term in Titel oder Abstract.
// Liefert die Seite ab offset sowie die Gesamtzahl der Treffer.
func (s *Store) SearchPapers(ctx context.Context, term string, offset, limit int) ([]models.Paper, int64, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
	query := s.db.WithContext(ctx).Model(&models.Paper{}).
		Where("LOWER(title) LIKE ? ESCAPE '!' OR LOWER(abstract) LIKE ? ESCAPE '!'", pattern, pattern).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var papers []models.Paper
	err := query.Preload("Authors", func(db *gorm.DB) *gorm.DB {
		return db.Order("authors.id")
	}).Preload("Authors.Tags").
		Order("papers.id").
		Offset(offset).
		Limit(limit).
		Find(&papers).Error
	if err != nil {
		return nil, 0, err
	}
	return papers, total, nil
}

// GetPaper lädt ein Paper mit Autoren, Tags und Beiträgen.
func (s *Store) GetPaper(ctx context.Context, id uint) (*models.Paper, error) {
	var paper models.Paper
	err := s.db.WithContext(ctx).
		Preload("Authors.Tags").
		Preload("Contributions").
		First(&paper, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("paper %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

// AddAuthorTag hängt einen Tag an einen bestehenden Autor.
func (s *Store) AddAuthorTag(ctx context.Context, tag *models.AuthorTag) error {
	tag.Tag = strings.TrimSpace(tag.Tag)
	if tag.Tag == "" {
		return apperr.Validation("storage.AddAuthorTag", "tag must not be empty")
	}
	if utf8.RuneCountInString(tag.Tag) > models.MaxTagLength {
		return apperr.Validation("storage.AddAuthorTag", "tag longer than %d characters", models.MaxTagLength)
	}
	if err := s.exists(ctx, &models.Author{}, tag.AuthorID); err != nil {
		return fmt.Errorf("author %d: %w", tag.AuthorID, err)
	}
	return s.db.WithContext(ctx).Create(tag).Error
}

// AddContribution speichert einen Beitrag zu einem bestehenden Paper.
func (s *Store) AddContribution(ctx context.Context, paperID uint, text string) (*models.Contribution, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.Validation("storage.AddContribution", "contribution text must not be empty")
	}
	if err := s.exists(ctx, &models.Paper{}, paperID); err != nil {
		return nil, fmt.Errorf("paper %d: %w", paperID, err)
	}
	c := &models.Contribution{PaperID: paperID, Text: text}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// DeletePaper löscht ein Paper samt Beiträgen und Autor-Verknüpfungen.
// Die Autoren selbst bleiben erhalten.
func (s *Store) DeletePaper(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var paper models.Paper
		if err := tx.First(&paper, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("paper %d: %w", id, ErrNotFound)
			}
			return err
		}
		return tx.Select(clause.Associations).Delete(&paper).Error
	})
}

// DeleteAuthor löscht einen Autor samt Tags und Verknüpfungen; Papers bleiben.
func (s *Store) DeleteAuthor(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author models.Author
		if err := tx.First(&author, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("author %d: %w", id, ErrNotFound)
			}
			return err
		}
		return tx.Select(clause.Associations).Delete(&author).Error
	})
}

func (s *Store) exists(ctx context.Context, model any, id uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// StartIngestRun legt einen neuen Lauf im Status "running" an.
func (s *Store) StartIngestRun(ctx context.Context, provider, query string, count int, params map[string]any) (*models.IngestRun, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	run := &models.IngestRun{
		Provider:       provider,
		Query:          query,
		RequestedCount: count,
		Status:         models.RunRunning,
		Params:         datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// FinishIngestRun schließt einen Lauf ab. runErr == nil bedeutet Erfolg.
func (s *Store) FinishIngestRun(ctx context.Context, run *models.IngestRun, created int, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.PapersCreated = created
	run.Status = models.RunSucceeded
	if runErr != nil {
		run.Status = models.RunFailed
		run.Error = runErr.Error()
	}
	return s.db.WithContext(ctx).Model(run).Updates(map[string]any{
		"finished_at":    run.FinishedAt,
		"papers_created": run.PapersCreated,
		"status":         run.Status,
		"error":          run.Error,
	}).Error
}

// ListIngestRuns gibt die letzten Läufe zurück, neueste zuerst.
func (s *Store) ListIngestRuns(ctx context.Context, limit int) ([]models.IngestRun, error) {
	var runs []models.IngestRun
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

// exportedPaper ist eine Zeile im Export (JSON Lines).
type exportedPaper struct {
	models.Paper
	AuthorNames []string `json:"author_names"`
}

// ExportPapers schreibt alle Papers gzip-komprimiert als JSON Lines nach w.
func (s *Store) ExportPapers(ctx context.Context, w io.Writer) (int, error) {
	gz := gzip.NewWriter(w)
	enc := json.NewEncoder(gz)

	total := 0
	var lastID uint
	for {
		var batch []models.Paper
		err := s.db.WithContext(ctx).
			Preload("Authors").
			Where("id > ?", lastID).
			Order("id").
			Limit(exportBatchSize).
			Find(&batch).Error
		if err != nil {
			return total, err
		}
		if len(batch) == 0 {
			break
		}
		for i := range batch {
			p := batch[i]
			names := p.AuthorNames()
			p.Authors = nil
			if err := enc.Encode(exportedPaper{Paper: p, AuthorNames: names}); err != nil {
				return total, err
			}
			total++
		}
		lastID = batch[len(batch)-1].ID
	}

	if err := gz.Close(); err != nil {
		return total, err
	}
	s.logger.Info("Export abgeschlossen", zap.Int("papers", total))
	return total, nil
}
