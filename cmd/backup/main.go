// Command backup exportiert den Paper-Katalog als gzip-JSONL nach S3 und
// rotiert ältere Snapshots.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"paper-search/config"
	"paper-search/storage"
)

const snapshotPrefix = "papers/"

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	logging.Info("Starte Backup-Prozess...")

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Fehler beim Laden der Konfiguration", zap.Error(err))
	}
	if !cfg.BackupEnabled() {
		logging.Fatal("Backup-Ziel nicht konfiguriert (BACKUP_S3_URL, BACKUP_S3_BUCKET)")
	}

	ctx := context.Background()

	store, err := storage.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Fehler beim Verbinden mit der Datenbank", zap.Error(err))
	}
	defer store.Close()

	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		logging.Fatal("Fehler beim Erstellen des S3-Clients", zap.Error(err))
	}
	backups := &storage.BackupStore{
		Client: s3Client,
		Bucket: cfg.BackupS3Bucket,
		Prefix: snapshotPrefix,
		Logger: logging,
	}

	key, n, err := runBackup(ctx, store, backups, time.Now(), cfg.KeepBackups)
	if err != nil {
		logging.Fatal("Backup fehlgeschlagen", zap.Error(err))
	}
	logging.Info("Backup-Prozess erfolgreich abgeschlossen.",
		zap.String("bucket", cfg.BackupS3Bucket),
		zap.String("key", key),
		zap.Int("papers", n))
}

// runBackup exportiert, lädt hoch und rotiert. Rotationsfehler werden nur
// geloggt.
func runBackup(ctx context.Context, store *storage.Store, backups *storage.BackupStore, now time.Time, keep int) (string, int, error) {
	var buf bytes.Buffer
	n, err := store.ExportPapers(ctx, &buf)
	if err != nil {
		return "", 0, fmt.Errorf("export: %w", err)
	}

	name := fmt.Sprintf("papers-%s.jsonl.gz", now.UTC().Format("2006-01-02T15-04-05Z"))
	key, err := backups.Upload(ctx, name, buf.Bytes())
	if err != nil {
		return "", n, err
	}

	deleted, err := backups.Rotate(ctx, keep)
	if err != nil {
		backups.Logger.Warn("Fehler bei der Rotation alter Backups", zap.Error(err))
		return key, n, nil
	}
	for _, k := range deleted {
		backups.Logger.Info("Altes Backup gelöscht", zap.String("key", k))
	}
	return key, n, nil
}
