package providers

import (
	"context"

	"paper-search/models"
)

// Provider ist das Interface, das jede Quelle (z.B. arXiv, Crossref) implementieren muss.
type Provider interface {
	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "arxiv").
	Name() string

	// Fetch führt genau einen HTTP-Abruf für query (Kategorie oder Suchbegriff)
	// mit höchstens count Ergebnissen durch und gibt die Rohantwort zurück.
	Fetch(ctx context.Context, query string, count int) ([]byte, error)

	// Parse dekodiert eine Rohantwort in provider-neutrale Records.
	// Parse hat keine Seiteneffekte.
	Parse(raw []byte) ([]models.Record, error)
}
