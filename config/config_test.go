package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "academic_search", cfg.DBName)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, 2*time.Second, cfg.FetchDelay)
	assert.False(t, cfg.SkipExistingPapers)
	assert.Equal(t, []string{"cs.CL", "cs.IR"}, cfg.ArxivCategories())
	assert.Empty(t, cfg.CrossrefQueries())
	assert.Equal(t,
		"host=localhost user=postgres password=secret dbname=academic_search port=5432 sslmode=disable",
		cfg.DSN())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("FETCH_DELAY", "500ms")
	t.Setenv("SCHEDULED_CROSSREF_QUERIES", "machine learning; fairness ;")
	t.Setenv("INGEST_SKIP_EXISTING", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DBPort)
	assert.Equal(t, 500*time.Millisecond, cfg.FetchDelay)
	assert.True(t, cfg.SkipExistingPapers)
	assert.Equal(t, []string{"machine learning", "fairness"}, cfg.CrossrefQueries())
}

func TestLoadInvalidPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestBackupEnabled(t *testing.T) {
	cfg := &Config{BackupS3URL: "https://s3.example", BackupS3Bucket: "b", BackupS3Key: "k"}
	assert.False(t, cfg.BackupEnabled())

	cfg.BackupS3Secret = "s"
	assert.True(t, cfg.BackupEnabled())
}
