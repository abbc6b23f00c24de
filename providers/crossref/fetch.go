package crossref

import (
	"context"
	"encoding/json"
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
const NoAbstract = "No abstract available"

var (
	// Überschriften wie <jats:title>Abstract</jats:title> fallen samt Text weg.
	jatsTitle = regexp.MustCompile(`(?s)<jats:title[^>]*>.*?</jats:title>`)
	jatsTag   = regexp.MustCompile(`</?jats:[^>]*>`)
)

// Fetcher kapselt die Logik zur Interaktion mit der Crossref-API.
type Fetcher struct {
	BaseURL string
	Mailto  string
	Client  *http.Client
	Logger  *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des Crossref-Fetchers.
func NewFetcher(cfg *config.Config, client *http.Client, logger *zap.Logger) *Fetcher {
	return &Fetcher{BaseURL: cfg.CrossrefBaseURL, Mailto: cfg.CrossrefMailto, Client: client, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "crossref"
}

// Fetch führt eine Freitextsuche mit höchstens count Treffern aus.
func (f *Fetcher) Fetch(ctx context.Context, query string, count int) ([]byte, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Validation("crossref.Fetch", "query must not be empty")
	}
	if count < 1 {
		return nil, apperr.Validation("crossref.Fetch", "count must be positive, got %d", count)
	}

	log := f.Logger.With(zap.String("query", query), zap.Int("count", count))
	log.Info("Starte Crossref-Suche")

	params := url.Values{}
	params.Set("query", query)
	params.Set("rows", strconv.Itoa(count))
	// "polite pool" von Crossref
	if f.Mailto != "" {
		params.Set("mailto", f.Mailto)
	}

	body, err := providers.Get(ctx, f.Client, "crossref.Fetch", f.BaseURL, params)
	if err != nil {
		log.Error("Crossref-Abruf fehlgeschlagen", zap.Error(err))
		return nil, err
	}
	return body, nil
}

// Parse wandelt eine Crossref-Antwort in Records um.
func (f *Fetcher) Parse(raw []byte) ([]models.Record, error) {
	return Parse(raw)
}

// Parse ist die zustandslose Variante von Fetcher.Parse.
func Parse(raw []byte) ([]models.Record, error) {
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, apperr.Parse("crossref.Parse", "invalid json", err)
	}
	if resp.Message == nil || resp.Message.Items == nil {
		return nil, apperr.Parse("crossref.Parse", "missing message.items", nil)
	}

	records := make([]models.Record, 0, len(resp.Message.Items))
	for i, item := range resp.Message.Items {
		rec, err := parseItem(item)
		if err != nil {
			return nil, apperr.Parse("crossref.Parse", fmt.Sprintf("item %d", i), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseItem(item Item) (models.Record, error) {
	rec := models.Record{Source: "crossref", CitationCount: item.IsReferencedByCount}

	if len(item.Title) == 0 || strings.TrimSpace(item.Title[0]) == "" {
		return rec, errors.New("missing title")
	}
	rec.Title = strings.TrimSpace(item.Title[0])

	rec.Abstract = NoAbstract
	if item.Abstract != nil {
		if cleaned := CleanAbstract(*item.Abstract); cleaned != "" {
			rec.Abstract = cleaned
		}
	}

	for _, dp := range []*DateParts{item.PublishedPrint, item.PublishedOnline, item.Issued} {
		if t, ok := dp.date(); ok {
			rec.PublishedDate = &t
			break
		}
	}

	if len(item.ContainerTitle) > 0 {
		rec.Venue = strings.TrimSpace(item.ContainerTitle[0])
	}

	for _, a := range item.Author {
		name := strings.TrimSpace(a.Given + " " + a.Family)
		if name == "" {
			name = strings.TrimSpace(a.Name)
		}
		if name == "" {
			continue
		}
		rec.AddAuthor(name)
		if orcid := normalizeORCID(a.ORCID); orcid != "" {
			if rec.AuthorORCIDs == nil {
				rec.AuthorORCIDs = map[string]string{}
			}
			rec.AuthorORCIDs[name] = orcid
		}
	}

	if doi := strings.TrimSpace(item.DOI); doi != "" {
		rec.DOI = doi
		rec.ExternalID = doi
		rec.AbsURL = "https://doi.org/" + doi
	}
	return rec, nil
}

// CleanAbstract entfernt JATS-Überschriften und alle übrigen JATS-Tags
// und trimmt den Text.
func CleanAbstract(s string) string {
	s = jatsTitle.ReplaceAllString(s, "")
	return strings.TrimSpace(jatsTag.ReplaceAllString(s, ""))
}

// date liest das erste date-parts-Tripel; fehlender Monat/Tag wird mit 1 aufgefüllt.
// Unmögliche Daten wie 2021-02-30 gelten als fehlend.
func (d *DateParts) date() (time.Time, bool) {
	if d == nil || len(d.DateParts) == 0 {
		return time.Time{}, false
	}
	parts := [3]int{0, 1, 1}
	for i, p := range d.DateParts[0] {
		if i >= 3 {
			break
		}
		if p == nil {
			if i == 0 {
				return time.Time{}, false
			}
			break
		}
		parts[i] = *p
	}
	if parts[0] == 0 {
		return time.Time{}, false
	}
	t := time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC)
	if t.Year() != parts[0] || int(t.Month()) != parts[1] || t.Day() != parts[2] {
		return time.Time{}, false
	}
	return t, true
}

// normalizeORCID macht aus "http://orcid.org/0000-0002-1825-0097" die nackte ID.
func normalizeORCID(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
