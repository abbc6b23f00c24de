package services

import "paper-search/models"

// Normalize ersetzt fehlende Links und Quellen durch Platzhalter. Titel,
// Abstract, Datum und Autoren bleiben unverändert; ein bereits
// normalisierter Record kommt unverändert zurück.
func Normalize(r models.Record) models.Record {
	if r.AbsURL == "" {
		r.AbsURL = models.NoURLAvailable
	}
	if r.PDFURL == "" {
		r.PDFURL = models.NoURLAvailable
	}
	if r.Venue == "" {
		r.Venue = models.NoSourceAvailable
	}
	return r
}

// NormalizeAll normalisiert einen ganzen Batch.
func NormalizeAll(records []models.Record) []models.Record {
	out := make([]models.Record, len(records))
	for i, r := range records {
		out[i] = Normalize(r)
	}
	return out
}
