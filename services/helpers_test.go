package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-search/models"
	"paper-search/storage"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := storage.New(db, zap.NewNop())
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestIngestService(store *storage.Store) *IngestService {
	return &IngestService{Store: store, Resolver: NewAuthorResolver(false), Logger: zap.NewNop()}
}

func countRows(t *testing.T, store *storage.Store, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.DB().Model(model).Count(&n).Error)
	return n
}

func countLinks(t *testing.T, store *storage.Store) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.DB().Table("paper_author_link").Count(&n).Error)
	return n
}

func record(source, title string, authors ...string) models.Record {
	r := models.Record{Source: source, Title: title}
	for _, a := range authors {
		r.AddAuthor(a)
	}
	return r
}
