package storage

import (
	"errors"

	"gorm.io/gorm"

	"paper-search/models"
)

// ErrSessionClosed wird nach Commit oder Rollback zurückgegeben.
var ErrSessionClosed = errors.New("session already closed")

// Session ist eine Transaktion über mehrere Schreibvorgänge. Gestaged
// Datensätze bekommen sofort ihre ID, sind aber erst nach Commit sichtbar.
// Eine Session gehört genau einem Aufrufer und ist nicht nebenläufig nutzbar.
type Session struct {
	tx     *gorm.DB
	closed bool
}

// FindAuthorByName sucht einen Autor mit exakt diesem Namen.
// Gibt (nil, nil) zurück, wenn keiner existiert.
func (s *Session) FindAuthorByName(name string) (*models.Author, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var author models.Author
	err := s.tx.Where("name = ?", name).Order("id").First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// FindAuthorByORCID sucht einen Autor anhand seiner ORCID.
func (s *Session) FindAuthorByORCID(orcid string) (*models.Author, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	var author models.Author
	err := s.tx.Where("orcid = ?", orcid).First(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// StageAuthor schreibt den Autor in die Transaktion; danach ist a.ID gesetzt.
func (s *Session) StageAuthor(a *models.Author) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.tx.Create(a).Error
}

// StagePaper schreibt das Paper samt Autor-Verknüpfungen. Die Autoren
// müssen bereits gestaged sein.
func (s *Session) StagePaper(p *models.Paper) error {
	if s.closed {
		return ErrSessionClosed
	}
	return s.tx.Omit("Authors.*").Create(p).Error
}

// PaperExists prüft, ob bereits ein Paper mit diesem Dedup-Schlüssel existiert.
func (s *Session) PaperExists(dedupKey string) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}
	var count int64
	err := s.tx.Model(&models.Paper{}).Where("dedup_key = ?", dedupKey).Count(&count).Error
	return count > 0, err
}

func (s *Session) Commit() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	return s.tx.Commit().Error
}

func (s *Session) Rollback() error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	return s.tx.Rollback().Error
}
