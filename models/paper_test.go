package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaperTagsUnion(t *testing.T) {
	p := Paper{Authors: []*Author{
		{Name: "A", Tags: []AuthorTag{{Tag: "nlp"}, {Tag: "ir"}}},
		{Name: "B", Tags: []AuthorTag{{Tag: "ir"}}},
		nil,
		{Name: "C"},
	}}

	assert.Equal(t, []string{"ir", "nlp"}, p.Tags())
	assert.Equal(t, []string{"A", "B", "C"}, p.AuthorNames())
}

func TestPaperTagsEmpty(t *testing.T) {
	var p Paper
	assert.Empty(t, p.Tags())
}

func TestRecordAddAuthorKeepsOrder(t *testing.T) {
	var r Record
	r.AddAuthor("Jane Doe")
	r.AddAuthor("")
	r.AddAuthor("John Roe")
	r.AddAuthor("Jane Doe")

	assert.Equal(t, []string{"Jane Doe", "John Roe"}, r.Authors)
}
