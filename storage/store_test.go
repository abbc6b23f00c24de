package storage

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-search/apperr"
	"paper-search/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := New(db, zap.NewNop())
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedPaper legt ein Paper mit den angegebenen Autoren über eine Session an.
func seedPaper(t *testing.T, store *Store, title, abstract string, authors ...string) *models.Paper {
	t.Helper()
	sess, err := store.Begin(context.Background())
	require.NoError(t, err)

	paper := &models.Paper{Title: title, Abstract: abstract}
	for _, name := range authors {
		a, err := sess.FindAuthorByName(name)
		require.NoError(t, err)
		if a == nil {
			a = &models.Author{Name: name}
			require.NoError(t, sess.StageAuthor(a))
		}
		paper.Authors = append(paper.Authors, a)
	}
	require.NoError(t, sess.StagePaper(paper))
	require.NoError(t, sess.Commit())
	return paper
}

func TestSessionCommitMakesRowsVisible(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sess, err := store.Begin(ctx)
	require.NoError(t, err)

	author := &models.Author{Name: "Jane Doe"}
	require.NoError(t, sess.StageAuthor(author))
	assert.NotZero(t, author.ID, "staged author must have an id before commit")

	found, err := sess.FindAuthorByName("Jane Doe")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, author.ID, found.ID)

	paper := &models.Paper{Title: "Test Paper", Authors: []*models.Author{author}}
	require.NoError(t, sess.StagePaper(paper))
	require.NoError(t, sess.Commit())

	got, err := store.GetPaper(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Paper", got.Title)
	assert.Equal(t, models.NoURLAvailable, got.AbsURL)
	assert.Equal(t, models.NoURLAvailable, got.PDFURL)
	assert.Equal(t, models.NoSourceAvailable, got.WherePublished)
	assert.Equal(t, 0, got.CitationCount)
	assert.Equal(t, []string{"Jane Doe"}, got.AuthorNames())
}

func TestSessionRollbackDiscardsEverything(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Begin(context.Background())
	require.NoError(t, err)
	author := &models.Author{Name: "Ghost"}
	require.NoError(t, sess.StageAuthor(author))
	require.NoError(t, sess.StagePaper(&models.Paper{Title: "Never", Authors: []*models.Author{author}}))
	require.NoError(t, sess.Rollback())

	var papers, authors int64
	require.NoError(t, store.DB().Model(&models.Paper{}).Count(&papers).Error)
	require.NoError(t, store.DB().Model(&models.Author{}).Count(&authors).Error)
	assert.Zero(t, papers)
	assert.Zero(t, authors)
}

func TestSessionClosesOnce(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, sess.Commit())

	assert.ErrorIs(t, sess.Commit(), ErrSessionClosed)
	assert.ErrorIs(t, sess.Rollback(), ErrSessionClosed)
	assert.ErrorIs(t, sess.StageAuthor(&models.Author{Name: "late"}), ErrSessionClosed)
}

func TestFindAuthorMissing(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Begin(context.Background())
	require.NoError(t, err)
	defer sess.Rollback()

	a, err := sess.FindAuthorByName("Nobody")
	assert.NoError(t, err)
	assert.Nil(t, a)

	a, err = sess.FindAuthorByORCID("0000-0000-0000-0000")
	assert.NoError(t, err)
	assert.Nil(t, a)
}

func TestPaperExists(t *testing.T) {
	store := newTestStore(t)

	sess, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, sess.StagePaper(&models.Paper{Title: "Keyed", DedupKey: "doi:10.1/x"}))

	ok, err := sess.PaperExists("doi:10.1/x")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sess.PaperExists("doi:10.1/y")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, sess.Commit())
}

func TestSearchPapersCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedPaper(t, store, "Neural Ranking Models", "A survey", "Jane Doe")
	seedPaper(t, store, "Graph Theory", "Notes on neural networks", "John Roe")
	seedPaper(t, store, "Unrelated", "Nothing here", "Jane Doe")

	papers, total, err := store.SearchPapers(ctx, "NEURAL", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, papers, 2)
	assert.Equal(t, "Neural Ranking Models", papers[0].Title)
	assert.Equal(t, []string{"Jane Doe"}, papers[0].AuthorNames())

	page, total, err := store.SearchPapers(ctx, "neural", 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Graph Theory", page[0].Title)
}

func TestSearchPapersMatchesWildcardsLiterally(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedPaper(t, store, "Accuracy of 95% on ImageNet", "", "Jane Doe")
	seedPaper(t, store, "snake_case identifiers", "", "John Roe")
	seedPaper(t, store, "Plain Title", "No wildcards!", "Jane Doe")

	for term, want := range map[string]string{
		"%":  "Accuracy of 95% on ImageNet",
		"_":  "snake_case identifiers",
		"!":  "Plain Title",
		"5%": "Accuracy of 95% on ImageNet",
	} {
		papers, total, err := store.SearchPapers(ctx, term, 0, 10)
		require.NoError(t, err, term)
		assert.EqualValues(t, 1, total, term)
		require.Len(t, papers, 1, term)
		assert.Equal(t, want, papers[0].Title, term)
	}
}

func TestDeletePaperCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	paper := seedPaper(t, store, "To Delete", "", "Jane Doe")
	_, err := store.AddContribution(ctx, paper.ID, "first note")
	require.NoError(t, err)

	require.NoError(t, store.DeletePaper(ctx, paper.ID))

	var contributions, links, authors int64
	require.NoError(t, store.DB().Model(&models.Contribution{}).Count(&contributions).Error)
	require.NoError(t, store.DB().Table("paper_author_link").Count(&links).Error)
	require.NoError(t, store.DB().Model(&models.Author{}).Count(&authors).Error)
	assert.Zero(t, contributions)
	assert.Zero(t, links)
	assert.EqualValues(t, 1, authors, "authors survive paper deletion")

	assert.ErrorIs(t, store.DeletePaper(ctx, paper.ID), ErrNotFound)
}

func TestDeleteAuthorCascadesTags(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	paper := seedPaper(t, store, "Kept", "", "Jane Doe")
	author := paper.Authors[0]
	require.NoError(t, store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: author.ID, Tag: "nlp"}))

	require.NoError(t, store.DeleteAuthor(ctx, author.ID))

	var tags, papers int64
	require.NoError(t, store.DB().Model(&models.AuthorTag{}).Count(&tags).Error)
	require.NoError(t, store.DB().Model(&models.Paper{}).Count(&papers).Error)
	assert.Zero(t, tags)
	assert.EqualValues(t, 1, papers)
}

func TestAddAuthorTagValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	paper := seedPaper(t, store, "Tagged", "", "Jane Doe")
	authorID := paper.Authors[0].ID

	err := store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: authorID, Tag: string(bytes.Repeat([]byte("x"), 64))})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	umlauts := strings.Repeat("ü", models.MaxTagLength)
	require.NoError(t, store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: authorID, Tag: umlauts}))
	err = store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: authorID, Tag: umlauts + "ü"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: authorID, Tag: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: 999, Tag: "ir"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.AddAuthorTag(ctx, &models.AuthorTag{AuthorID: authorID, Tag: "ir", Source: "manual", Verified: true}))
	got, err := store.GetPaper(ctx, paper.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"ir", umlauts}, got.Tags())
}

func TestAddContributionUnknownPaper(t *testing.T) {
	store := newTestStore(t)

	_, err := store.AddContribution(context.Background(), 42, "text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIngestRunLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	run, err := store.StartIngestRun(ctx, "arxiv", "cs.CL", 5, map[string]any{"category": "cs.CL"})
	require.NoError(t, err)
	assert.Equal(t, models.RunRunning, run.Status)

	require.NoError(t, store.FinishIngestRun(ctx, run, 3, nil))

	runs, err := store.ListIngestRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, models.RunSucceeded, runs[0].Status)
	assert.Equal(t, 3, runs[0].PapersCreated)
	assert.NotNil(t, runs[0].FinishedAt)
	assert.JSONEq(t, `{"category":"cs.CL"}`, string(runs[0].Params))
}

func TestExportPapers(t *testing.T) {
	store := newTestStore(t)
	seedPaper(t, store, "One", "", "Jane Doe", "John Roe")
	seedPaper(t, store, "Two", "", "Jane Doe")

	var buf bytes.Buffer
	n, err := store.ExportPapers(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	gz, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	scanner := bufio.NewScanner(gz)

	var lines []map[string]any
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "One", lines[0]["title"])
	assert.Equal(t, []any{"Jane Doe", "John Roe"}, lines[0]["author_names"])
}
