package services

import (
	"paper-search/models"
)

// AuthorStore ist der Teil einer Session, den die Autorenauflösung braucht.
// *storage.Session erfüllt das Interface.
type AuthorStore interface {
	FindAuthorByName(name string) (*models.Author, error)
	FindAuthorByORCID(orcid string) (*models.Author, error)
	StageAuthor(a *models.Author) error
}

// AuthorMatcher sucht einen bestehenden Autor; (nil, nil) heißt kein Treffer.
type AuthorMatcher interface {
	Match(store AuthorStore, name, orcid string) (*models.Author, error)
}

// ExactNameMatcher vergleicht nur den exakten Namensstring.
type ExactNameMatcher struct{}

func (ExactNameMatcher) Match(store AuthorStore, name, _ string) (*models.Author, error) {
	return store.FindAuthorByName(name)
}

// ORCIDMatcher vergleicht die ORCID, falls der Provider eine liefert.
type ORCIDMatcher struct{}

func (ORCIDMatcher) Match(store AuthorStore, _, orcid string) (*models.Author, error) {
	if orcid == "" {
		return nil, nil
	}
	return store.FindAuthorByORCID(orcid)
}

// AuthorResolver probiert die Matcher der Reihe nach und legt den Autor
// an, wenn keiner trifft.
type AuthorResolver struct {
	Matchers []AuthorMatcher
	// StoreORCID übernimmt die ORCID beim Anlegen neuer Autoren.
	StoreORCID bool
}

// NewAuthorResolver liefert den Standard-Resolver (nur exakter Name) oder,
// mit matchORCID, exakter Name gefolgt von ORCID.
func NewAuthorResolver(matchORCID bool) *AuthorResolver {
	r := &AuthorResolver{Matchers: []AuthorMatcher{ExactNameMatcher{}}}
	if matchORCID {
		r.Matchers = append(r.Matchers, ORCIDMatcher{})
		r.StoreORCID = true
	}
	return r
}

// Resolve gibt den passenden oder neu gestagten Autor zurück. Der neue
// Autor hat sofort eine ID. created meldet, ob er neu angelegt wurde.
func (r *AuthorResolver) Resolve(store AuthorStore, name, orcid string) (author *models.Author, created bool, err error) {
	for _, m := range r.Matchers {
		author, err = m.Match(store, name, orcid)
		if err != nil {
			return nil, false, err
		}
		if author != nil {
			return author, false, nil
		}
	}

	author = &models.Author{Name: name}
	if r.StoreORCID && orcid != "" {
		author.ORCID = &orcid
	}
	if err := store.StageAuthor(author); err != nil {
		return nil, false, err
	}
	return author, true, nil
}
