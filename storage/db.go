package storage

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"paper-search/apperr"
	"paper-search/config"
	"paper-search/models"
)

// ErrNotFound wird zurückgegeben, wenn ein Datensatz nicht existiert.
var ErrNotFound = errors.New("record not found")

// Store kapselt die Datenbankverbindung. Es gibt keinen globalen Zustand;
// jede Komponente bekommt den Store explizit übergeben.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open verbindet sich mit PostgreSQL anhand der Konfiguration.
func Open(cfg *config.Config, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Successfully connected to database.", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	return New(db, log), nil
}

// New erstellt einen Store auf einer bestehenden gorm-Verbindung (beliebiger Dialekt).
func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, logger: log}
}

// Migrate legt alle Tabellen an bzw. aktualisiert sie.
func (s *Store) Migrate() error {
	s.logger.Info("Running database auto-migration...")
	return s.db.AutoMigrate(
		&models.Author{},
		&models.Paper{},
		&models.Contribution{},
		&models.AuthorTag{},
		&models.IngestRun{},
	)
}

// DB gibt die zugrunde liegende Verbindung zurück.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Begin öffnet eine neue Session (Unit of Work) mit eigener Transaktion.
func (s *Store) Begin(ctx context.Context) (*Session, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperr.Persistence("storage.Begin", tx.Error)
	}
	return &Session{tx: tx}, nil
}
