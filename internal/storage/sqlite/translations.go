// Package sqlite provides SQLite-backed storage for translation history.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/habla-dev/habla/pkg/logger"
)

// TranslationRecord represents a completed translation in the database
type TranslationRecord struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"timestamp"`
	Direction  string    `json:"direction"`
	Original   string    `json:"original"`
	Translated string    `json:"translated"`
	Source     string    `json:"source,omitempty"` // "model" or "dictionary"
}

// TranslationStorage handles storage of translation records
type TranslationStorage struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewTranslationStorage opens (or creates) the database at dbPath and
// prepares the translations table.
func NewTranslationStorage(dbPath string, log *logger.Logger) (*TranslationStorage, error) {
	storageLogger := log.Named("sqlite")

	storageLogger.Info("Initializing SQLite storage",
		logger.String("path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool limits
	db.SetMaxOpenConns(1) // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)

	// Set pragmas for better performance and concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &TranslationStorage{
		db:     db,
		logger: storageLogger,
	}

	if err := storage.initDB(); err != nil {
		db.Close()
		return nil, err
	}

	return storage, nil
}

// initDB initializes the database tables
func (s *TranslationStorage) initDB() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS translations (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			direction TEXT NOT NULL,
			original TEXT NOT NULL,
			translated TEXT NOT NULL,
			source TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create translations table: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_translations_created_at ON translations(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create created_at index: %w", err)
	}

	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_translations_direction ON translations(direction)`)
	if err != nil {
		return fmt.Errorf("failed to create direction index: %w", err)
	}

	return nil
}

// StoreTranslation stores a translation record and returns its generated ID.
func (s *TranslationStorage) StoreTranslation(record *TranslationRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO translations (id, created_at, direction, original, translated, source)
		VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CreatedAt.Format(time.RFC3339),
		record.Direction,
		record.Original,
		record.Translated,
		record.Source,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert translation: %w", err)
	}

	return record.ID, nil
}

// GetRecent returns the most recent translations, newest first.
func (s *TranslationStorage) GetRecent(limit int) ([]*TranslationRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, direction, original, translated, source
		FROM translations
		ORDER BY created_at DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	var records []*TranslationRecord
	for rows.Next() {
		var record TranslationRecord
		var createdAt string
		var source sql.NullString

		if err := rows.Scan(
			&record.ID,
			&createdAt,
			&record.Direction,
			&record.Original,
			&record.Translated,
			&source,
		); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}

		record.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if source.Valid {
			record.Source = source.String
		}

		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate translations: %w", err)
	}

	return records, nil
}

// Close closes the underlying database.
func (s *TranslationStorage) Close() error {
	return s.db.Close()
}
