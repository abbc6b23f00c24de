package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"paper-search/models"
)

func TestPaperKey(t *testing.T) {
	cases := []struct {
		name string
		rec  models.Record
		want string
	}{
		{
			name: "doi wins",
			rec:  models.Record{Source: "arxiv", ExternalID: "2401.00001", DOI: "10.1000/ABC"},
			want: "doi:10.1000/abc",
		},
		{
			name: "external id",
			rec:  models.Record{Source: "arxiv", ExternalID: "2401.00001", Title: "X"},
			want: "arxiv:2401.00001",
		},
		{
			name: "title fallback",
			rec:  models.Record{Title: "  Über  Graph-Netze: ﬁne Tuning! ", Authors: []string{"José Núñez", "B"}},
			want: "title:uber graph netze fine tuning|jose nunez",
		},
		{
			name: "no authors",
			rec:  models.Record{Title: "Solo"},
			want: "title:solo|",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PaperKey(tc.rec))
		})
	}
}

func TestPaperKeySameAcrossSources(t *testing.T) {
	fromArxiv := models.Record{Source: "arxiv", ExternalID: "2401.00001", DOI: "10.1/x"}
	fromCrossref := models.Record{Source: "crossref", ExternalID: "10.1/X", DOI: "10.1/X"}
	assert.Equal(t, PaperKey(fromArxiv), PaperKey(fromCrossref))
}
