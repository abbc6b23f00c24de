package arxiv

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"paper-search/apperr"
	"paper-search/config"
	"paper-search/models"
	"paper-search/providers"
)

// NoAbstract ersetzt eine fehlende Zusammenfassung.
const NoAbstract = "No Abstract Available"

var versionSuffix = regexp.MustCompile(`v\d+$`)

// Fetcher kapselt die Logik zur Interaktion mit der arXiv-API.
type Fetcher struct {
	BaseURL string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des arXiv-Fetchers.
func NewFetcher(cfg *config.Config, client *http.Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{BaseURL: cfg.ArxivBaseURL, Client: client, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "arxiv"
}

// Fetch holt bis zu count Einträge der Kategorie. Unbekannte Kategorien
// werden vor jedem Netzwerkzugriff abgelehnt.
func (f *Fetcher) Fetch(ctx context.Context, category string, count int) ([]byte, error) {
	if !IsKnownCategory(category) {
		return nil, apperr.Validation("arxiv.Fetch", "unknown arXiv category %q", category)
	}
	if count < 1 {
		return nil, apperr.Validation("arxiv.Fetch", "count must be positive, got %d", count)
	}

	log := f.Logger.With(zap.String("category", category), zap.Int("count", count))
	log.Info("Rufe arXiv-Kategorie ab")

	params := url.Values{}
	params.Set("search_query", "cat:"+category)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(count))

	body, err := providers.Get(ctx, f.Client, "arxiv.Fetch", f.BaseURL, params)
	if err != nil {
		log.Error("arXiv-Abruf fehlgeschlagen", zap.Error(err))
		return nil, err
	}
	return body, nil
}

// Parse wandelt einen Atom-Feed in Records um.
func (f *Fetcher) Parse(raw []byte) ([]models.Record, error) {
	return Parse(raw)
}

// Parse ist die zustandslose Variante von Fetcher.Parse.
func Parse(raw []byte) ([]models.Record, error) {
	var feed Feed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return nil, apperr.Parse("arxiv.Parse", "invalid atom feed", err)
	}

	records := make([]models.Record, 0, len(feed.Entries))
	for i, entry := range feed.Entries {
		rec, err := parseEntry(entry)
		if err != nil {
			return nil, apperr.Parse("arxiv.Parse", fmt.Sprintf("entry %d", i), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseEntry(e Entry) (models.Record, error) {
	rec := models.Record{Source: "arxiv"}

	if e.Title == nil || strings.TrimSpace(*e.Title) == "" {
		return rec, errors.New("missing title")
	}
	rec.Title = strings.TrimSpace(*e.Title)

	rec.Abstract = NoAbstract
	if e.Summary != nil {
		if summary := strings.TrimSpace(*e.Summary); summary != "" {
			rec.Abstract = summary
		}
	}

	if published := strings.TrimSpace(e.Published); published != "" {
		t, err := parsePublished(published)
		if err != nil {
			return rec, fmt.Errorf("invalid published date %q: %w", published, err)
		}
		rec.PublishedDate = &t
	}

	for _, l := range e.Links {
		if l.Rel == "alternate" && l.Type == "text/html" {
			rec.AbsURL = l.Href
		}
		if l.Rel == "related" && l.Type == "application/pdf" {
			rec.PDFURL = l.Href
		}
	}

	if e.JournalRef != nil {
		rec.Venue = strings.TrimSpace(*e.JournalRef)
	}

	for _, a := range e.Authors {
		rec.AddAuthor(strings.TrimSpace(a.Name))
	}

	rec.ExternalID = arxivID(e.ID)
	rec.DOI = strings.TrimSpace(e.DOI)
	return rec, nil
}

// parsePublished entfernt das abschließende "Z" und liest den Zeitstempel als UTC.
func parsePublished(s string) (time.Time, error) {
	trimmed := strings.TrimSuffix(s, "Z")
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, s)
}

// arxivID extrahiert "2401.00001" aus "http://arxiv.org/abs/2401.00001v2".
func arxivID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.Index(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	return versionSuffix.ReplaceAllString(id, "")
}
