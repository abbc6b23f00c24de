package models

import "time"

// MaxTagLength ist die maximale Länge eines Autor-Tags.
const MaxTagLength = 63

// Author ist eine Person, identifiziert über den exakten Namen.
// ORCID ist optional und nur eindeutig, wenn gesetzt.
type Author struct {
	ID    uint    `json:"id" gorm:"primaryKey"`
	Name  string  `json:"name" gorm:"not null;index"`
	ORCID *string `json:"orcid,omitempty" gorm:"column:orcid;uniqueIndex"`

	Papers []*Paper    `json:"-" gorm:"many2many:paper_author_link;"`
	Tags   []AuthorTag `json:"tags,omitempty" gorm:"constraint:OnDelete:CASCADE;"`
}

func (Author) TableName() string {
	return "authors"
}

// AuthorTag ist ein kurzes Label an einem Autor, mit optionaler Herkunft.
type AuthorTag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	AuthorID  uint      `json:"author_id" gorm:"not null;index"`
	Tag       string    `json:"tag" gorm:"size:63;not null"`
	Source    string    `json:"source,omitempty"`
	SourceURL string    `json:"source_url,omitempty"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

func (AuthorTag) TableName() string {
	return "author_tags"
}
