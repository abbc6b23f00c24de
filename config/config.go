package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"academic_search"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	HTTPPort string `envconfig:"HTTP_PORT" default:"8000"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`

	ArxivBaseURL    string        `envconfig:"ARXIV_BASE_URL" default:"http://export.arxiv.org/api/query"`
	CrossrefBaseURL string        `envconfig:"CROSSREF_BASE_URL" default:"https://api.crossref.org/works"`
	CrossrefMailto  string        `envconfig:"CROSSREF_MAILTO"`
	UserAgent       string        `envconfig:"USER_AGENT" default:"paper-search/1.0"`
	HTTPTimeout     time.Duration `envconfig:"HTTP_TIMEOUT" default:"60s"`
	// Pause zwischen zwei Provider-Abrufen
	FetchDelay time.Duration `envconfig:"FETCH_DELAY" default:"2s"`

	// Ingestion-Verhalten
	SkipExistingPapers bool `envconfig:"INGEST_SKIP_EXISTING" default:"false"`
	MatchAuthorORCID   bool `envconfig:"INGEST_MATCH_ORCID" default:"false"`

	CronSchedule             string `envconfig:"CRON_SCHEDULE" default:"0 0 * * *"`
	ScheduledArxivCategories string `envconfig:"SCHEDULED_ARXIV_CATEGORIES" default:"cs.CL,cs.IR"`
	ScheduledCrossrefQueries string `envconfig:"SCHEDULED_CROSSREF_QUERIES"`
	ScheduledCount           int    `envconfig:"SCHEDULED_COUNT" default:"50"`

	// Backup-Ziel (S3-kompatibel), optional
	BackupS3URL    string `envconfig:"BACKUP_S3_URL"`
	BackupS3Region string `envconfig:"BACKUP_S3_REGION" default:"us-east-1"`
	BackupS3Key    string `envconfig:"BACKUP_S3_KEY"`
	BackupS3Secret string `envconfig:"BACKUP_S3_SECRET"`
	BackupS3Bucket string `envconfig:"BACKUP_S3_BUCKET"`
	KeepBackups    int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// ArxivCategories gibt die geplanten arXiv-Kategorien als Liste zurück.
func (c *Config) ArxivCategories() []string {
	return splitList(c.ScheduledArxivCategories, ",")
}

// CrossrefQueries gibt die geplanten Crossref-Suchbegriffe zurück (Trenner: ";").
func (c *Config) CrossrefQueries() []string {
	return splitList(c.ScheduledCrossrefQueries, ";")
}

// BackupEnabled meldet, ob ein Backup-Ziel vollständig konfiguriert ist.
func (c *Config) BackupEnabled() bool {
	return c.BackupS3URL != "" && c.BackupS3Bucket != "" && c.BackupS3Key != "" && c.BackupS3Secret != ""
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
