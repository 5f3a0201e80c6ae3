// Package sqlite provides the SQLite-backed document index.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/caselib/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/caselib/internal/core/domain"
	"github.com/custodia-labs/caselib/internal/core/ports/driven"
)

// Ensure Store implements the index interface.
var _ driven.Index = (*Store)(nil)

// Store is the SQLite-backed document index. Documents are stored as a
// JSON blob plus extracted columns for the sortable and searchable
// fields, so candidate retrieval stays in SQL while the core works with
// fully typed documents.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.caselib/data/index.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".caselib", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "index.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Search returns the candidate entries matching the query predicate.
// Every predicate term must occur in the document's searchable text.
// A closed library yields no candidates for unauthenticated principals.
func (s *Store) Search(ctx context.Context, libraryID string, q *domain.Query, open bool, p domain.Principal) ([]domain.IndexEntry, error) {
	if !open && !p.Authenticated {
		return nil, nil
	}

	query := "SELECT doc FROM documents WHERE library_id = ?"
	args := []any{libraryID}
	for _, term := range strings.Fields(strings.ToLower(q.Predicate)) {
		query += " AND freetext LIKE ?"
		args = append(args, "%"+term+"%")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var entries []domain.IndexEntry
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		var doc domain.Document
		if err := json.Unmarshal([]byte(blob), &doc); err != nil {
			return nil, fmt.Errorf("unmarshaling document: %w", err)
		}
		entries = append(entries, domain.IndexEntry{Document: &doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return entries, nil
}

// Save stores or replaces a document, keyed by library and path.
func (s *Store) Save(ctx context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}

	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshalling document: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, library_id, path, title, author, category, server, pubdate, lmdate, freetext, doc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(library_id, path) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			category = excluded.category,
			server = excluded.server,
			pubdate = excluded.pubdate,
			lmdate = excluded.lmdate,
			freetext = excluded.freetext,
			doc = excluded.doc,
			updated_at = excluded.updated_at
	`, doc.ID, doc.LibraryID, doc.Path, doc.Title, doc.AuthorName, doc.Category,
		doc.Server, doc.PubDate, doc.LMDate, freetext(doc), string(blob), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by library and path.
func (s *Store) Get(ctx context.Context, libraryID, path string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT doc FROM documents WHERE library_id = ? AND path = ?
	`, libraryID, path)

	var blob string
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}
	return &doc, nil
}

// Delete removes a document by library and path.
func (s *Store) Delete(ctx context.Context, libraryID, path string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE library_id = ? AND path = ?
	`, libraryID, path)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// freetext builds the lowercased searchable text for a document.
func freetext(doc *domain.Document) string {
	return strings.ToLower(strings.Join([]string{
		doc.Title, doc.Abstract, doc.AuthorName, doc.Category, doc.Server,
	}, "\n"))
}
