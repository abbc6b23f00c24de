package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paper-search/apperr"
	"paper-search/models"
)

func TestSearchReturnsSummariesWithTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := newTestIngestService(store).Ingest(ctx, []models.Record{
		{Source: "arxiv", Title: "Fair Ranking", Abstract: "Exposure in search", Authors: []string{"Jane Doe"}, CitationCount: 4},
		{Source: "arxiv", Title: "Graph Kernels", Abstract: "Nothing about it", Authors: []string{"John Roe"}},
		{Source: "arxiv", Title: "Learning to Rank", Abstract: "A FAIR approach", Authors: []string{"Jane Doe", "John Roe"}},
	})
	require.NoError(t, err)

	var jane models.Author
	require.NoError(t, store.DB().Where("name = ?", "Jane Doe").First(&jane).Error)
	require.NoError(t, store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: jane.ID, Tag: "underrepresented"}))

	resp, err := NewSearchService(store).Search(ctx, SearchQuery{Q: "fair"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, resp.TotalResults)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
	require.Len(t, resp.Results, 2)

	first := resp.Results[0]
	assert.Equal(t, "Fair Ranking", first.Title)
	assert.Equal(t, 4, first.CitationCount)
	assert.Equal(t, []string{"Jane Doe"}, first.Authors)
	assert.Equal(t, []string{"underrepresented"}, first.Tags)

	assert.Equal(t, "Learning to Rank", resp.Results[1].Title)
	assert.ElementsMatch(t, []string{"Jane Doe", "John Roe"}, resp.Results[1].Authors)
}

func TestSearchPagination(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var batch []models.Record
	for _, title := range []string{"Rank 1", "Rank 2", "Rank 3"} {
		batch = append(batch, models.Record{Source: "arxiv", Title: title})
	}
	_, err := newTestIngestService(store).Ingest(ctx, batch)
	require.NoError(t, err)

	resp, err := NewSearchService(store).Search(ctx, SearchQuery{Q: "rank", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, resp.TotalResults)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Rank 3", resp.Results[0].Title)
	assert.NotNil(t, resp.Results[0].Tags)
}

func TestSearchValidation(t *testing.T) {
	svc := NewSearchService(newTestStore(t))
	ctx := context.Background()

	for _, q := range []SearchQuery{
		{Q: "   "},
		{Q: "x", Page: -1},
		{Q: "x", PageSize: 101},
		{Q: "x", PageSize: -5},
		{Q: "x", Page: -1, PageSize: 10},
		{Q: "x", Page: 1, PageSize: 101},
	} {
		_, err := svc.Search(ctx, q)
		assert.ErrorIs(t, err, apperr.ErrValidation, "%+v", q)
	}
}

func TestSearchZeroPagingUsesDefaults(t *testing.T) {
	svc := NewSearchService(newTestStore(t))

	resp, err := svc.Search(context.Background(), SearchQuery{Q: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, DefaultPageSize, resp.PageSize)
}
