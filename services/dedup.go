package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"paper-search/models"
)

var ligatures = strings.NewReplacer(
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬀ", "ff",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬆ", "st",
	"œ", "oe",
	"æ", "ae",
)

// PaperKey bildet den Dedup-Schlüssel eines Records:
//
//	doi:<doi>                  wenn eine DOI bekannt ist
//	<source>:<external id>     sonst, wenn der Provider eine ID liefert
//	title:<titel>|<erstautor>  als Fallback, beides gefaltet
func PaperKey(r models.Record) string {
	if doi := strings.ToLower(strings.TrimSpace(r.DOI)); doi != "" {
		return "doi:" + doi
	}
	if r.Source != "" && r.ExternalID != "" {
		return r.Source + ":" + strings.TrimSpace(r.ExternalID)
	}
	first := ""
	if len(r.Authors) > 0 {
		first = foldText(r.Authors[0])
	}
	return "title:" + foldText(r.Title) + "|" + first
}

// foldText löst Ligaturen auf, entfernt Diakritika, schreibt klein und
// reduziert alles außer Buchstaben und Ziffern auf einzelne Leerzeichen.
func foldText(s string) string {
	s = ligatures.Replace(s)
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}
