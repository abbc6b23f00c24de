package models

import "time"

// Record is the provider-neutral form of one fetched paper. Adapters emit
// it, the normalizer fills placeholders in place and the ingest service
// persists it. Empty strings mean "absent".
type Record struct {
	Source        string
	ExternalID    string
	DOI           string
	Title         string
	Abstract      string
	PublishedDate *time.Time
	AbsURL        string
	PDFURL        string
	Venue         string
	CitationCount int

	// Authors keeps first-seen order without duplicates.
	Authors      []string
	AuthorORCIDs map[string]string
}

// AddAuthor appends name unless it is empty or already present.
func (r *Record) AddAuthor(name string) {
	if name == "" {
		return
	}
	for _, a := range r.Authors {
		if a == name {
			return
		}
	}
	r.Authors = append(r.Authors, name)
}
