package models

import (
	"sort"
	"time"
)

// Platzhalter für fehlende Links und Quellen.
const (
	NoURLAvailable    = "No URL available"
	NoSourceAvailable = "No Source available"
)

// Paper repräsentiert eine wissenschaftliche Publikation im Katalog.
type Paper struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Herkunft: Provider-Name und dessen ID (arXiv-ID oder DOI)
	Source     string `json:"source,omitempty" gorm:"index"`
	ExternalID string `json:"external_id,omitempty"`
	DedupKey   string `json:"-" gorm:"index"`

	Title          string     `json:"title" gorm:"type:text;not null;index"`
	Abstract       string     `json:"abstract,omitempty" gorm:"type:text"`
	CitationCount  int        `json:"citation_count" gorm:"not null;default:0"`
	AbsURL         string     `json:"abs_url" gorm:"not null;default:'No URL available'"`
	PDFURL         string     `json:"pdf_url" gorm:"column:pdf_url;not null;default:'No URL available'"`
	WherePublished string     `json:"where_published" gorm:"not null;default:'No Source available'"`
	PublishedDate  *time.Time `json:"published_date,omitempty"`

	Authors       []*Author      `json:"authors,omitempty" gorm:"many2many:paper_author_link;"`
	Contributions []Contribution `json:"contributions,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Paper) TableName() string {
	return "papers"
}

// Tags liefert die Vereinigung aller Tags der Autoren (sortiert, ohne Duplikate).
// Die Autoren müssen samt Tags geladen sein.
func (p *Paper) Tags() []string {
	seen := make(map[string]struct{})
	tags := []string{}
	for _, a := range p.Authors {
		if a == nil {
			continue
		}
		for _, t := range a.Tags {
			if _, ok := seen[t.Tag]; ok {
				continue
			}
			seen[t.Tag] = struct{}{}
			tags = append(tags, t.Tag)
		}
	}
	sort.Strings(tags)
	return tags
}

// AuthorNames gibt die Namen der geladenen Autoren zurück.
func (p *Paper) AuthorNames() []string {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		if a != nil {
			names = append(names, a.Name)
		}
	}
	return names
}

// Contribution ist ein vom Nutzer erfasster Beitrag zu einem Paper.
type Contribution struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	PaperID uint   `json:"paper_id" gorm:"not null;index"`
	Text    string `json:"text" gorm:"type:text;not null"`
}

func (Contribution) TableName() string {
	return "contributions"
}
