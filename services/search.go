package services

import (
	"context"
	"strings"
	"time"

	"paper-search/apperr"
	"paper-search/storage"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SearchQuery beschreibt eine Stichwortsuche.
type SearchQuery struct {
	Q        string `json:"q"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// PaperSummary ist ein Treffer in der Ergebnisliste.
type PaperSummary struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Abstract      string     `json:"abstract,omitempty"`
	Authors       []string   `json:"authors"`
	CitationCount int        `json:"citation_count"`
	PublishedDate *time.Time `json:"published_date,omitempty"`
	Tags          []string   `json:"tags"`
}

// SearchResponse bündelt eine Ergebnisseite.
type SearchResponse struct {
	Query        string         `json:"query"`
	Results      []PaperSummary `json:"results"`
	TotalResults int64          `json:"total_results"`
	Page         int            `json:"page"`
	PageSize     int            `json:"page_size"`
}

type SearchService struct {
	Store *storage.Store
}

func NewSearchService(store *storage.Store) *SearchService {
	return &SearchService{Store: store}
}

// Search findet Papers, deren Titel oder Abstract den Suchtext enthält
// (ohne Groß-/Kleinschreibung), sortiert nach ID. Page bzw. PageSize 0 heißt
// "nicht gesetzt" und wird auf 1 bzw. DefaultPageSize gesetzt.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	term := strings.TrimSpace(q.Q)
	if term == "" {
		return nil, apperr.Validation("search", "query must not be empty")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return nil, apperr.Validation("search", "page must be >= 1, got %d", q.Page)
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return nil, apperr.Validation("search", "page_size must be between 1 and %d, got %d", MaxPageSize, q.PageSize)
	}

	papers, total, err := s.Store.SearchPapers(ctx, term, (q.Page-1)*q.PageSize, q.PageSize)
	if err != nil {
		return nil, err
	}

	resp := &SearchResponse{
		Query:        term,
		Results:      make([]PaperSummary, 0, len(papers)),
		TotalResults: total,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}
	for i := range papers {
		p := &papers[i]
		resp.Results = append(resp.Results, PaperSummary{
			ID:            p.ID,
			Title:         p.Title,
			Abstract:      p.Abstract,
			Authors:       p.AuthorNames(),
			CitationCount: p.CitationCount,
			PublishedDate: p.PublishedDate,
			Tags:          p.Tags(),
		})
	}
	return resp, nil
}
