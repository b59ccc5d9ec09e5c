// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists the reviewer roster together with each reviewer's
// aliases and coauthor window, so that conflict checks can run in a later
// process without re-reading the bibliography archive.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/reviewer-conflicts/pkg/types"
)

const (
	dbFile = "coauthors.db"

	// DefaultDataDir is used when no data directory is configured.
	DefaultDataDir = "data"

	// timeLayout has a fixed width so that stored timestamps sort as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNoGraph is returned by Load when no coauthor graph has been saved yet.
var ErrNoGraph = errors.New("no coauthor graph saved; run the coauthors command first")

// RunInfo describes the build that produced a saved graph.
type RunInfo struct {
	ID           string    `json:"id" yaml:"id"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
	Archive      string    `json:"archive" yaml:"archive"`
	CurrentYear  int       `json:"current_year" yaml:"current_year"`
	WindowYears  int       `json:"window_years" yaml:"window_years"`
	Publications int       `json:"publications" yaml:"publications"`
	Profiles     int       `json:"profiles" yaml:"profiles"`
}

// Store manages the coauthor graph SQLite database.
type Store struct {
	db      *sql.DB
	dataDir string
}

// NewStore opens or creates the database at dataDir/coauthors.db and
// creates the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DataDir returns the directory holding the database and exports.
func (s *Store) DataDir() string {
	return s.dataDir
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			archive TEXT,
			current_year INTEGER NOT NULL,
			window_years INTEGER NOT NULL,
			publications INTEGER,
			profiles INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS reviewers (
			key TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			email TEXT,
			orcid TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS aliases (
			reviewer_key TEXT NOT NULL REFERENCES reviewers(key) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			alias TEXT NOT NULL,
			PRIMARY KEY (reviewer_key, alias)
		)`,
		`CREATE TABLE IF NOT EXISTS window_years (
			reviewer_key TEXT NOT NULL REFERENCES reviewers(key) ON DELETE CASCADE,
			year INTEGER NOT NULL,
			PRIMARY KEY (reviewer_key, year)
		)`,
		`CREATE TABLE IF NOT EXISTS coauthors (
			reviewer_key TEXT NOT NULL,
			year INTEGER NOT NULL,
			author TEXT NOT NULL,
			PRIMARY KEY (reviewer_key, year, author),
			FOREIGN KEY (reviewer_key, year) REFERENCES window_years(reviewer_key, year) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_coauthors_author ON coauthors(author)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save replaces the stored graph with reviewers and records run. A missing
// run ID or timestamp is filled in. It returns the stored run.
func (s *Store) Save(ctx context.Context, run RunInfo, reviewers []*types.ReviewerIdentity) (RunInfo, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM coauthors`,
		`DELETE FROM window_years`,
		`DELETE FROM aliases`,
		`DELETE FROM reviewers`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return run, fmt.Errorf("clearing previous graph: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, archive, current_year, window_years, publications, profiles)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Archive,
		run.CurrentYear, run.WindowYears, run.Publications, run.Profiles,
	)
	if err != nil {
		return run, fmt.Errorf("recording run: %w", err)
	}

	for i, r := range reviewers {
		if err := insertReviewer(ctx, tx, i, r); err != nil {
			return run, fmt.Errorf("saving reviewer %s: %w", r.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return run, fmt.Errorf("committing graph: %w", err)
	}
	return run, nil
}

func insertReviewer(ctx context.Context, tx *sql.Tx, position int, r *types.ReviewerIdentity) error {
	key := r.Key()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO reviewers (key, position, name, email, orcid) VALUES (?, ?, ?, ?, ?)`,
		key, position, r.Name, r.Email, r.ORCID,
	); err != nil {
		return err
	}

	for i, alias := range r.Aliases {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO aliases (reviewer_key, position, alias) VALUES (?, ?, ?)`,
			key, i, alias,
		); err != nil {
			return fmt.Errorf("inserting alias: %w", err)
		}
	}

	for _, year := range r.Coauthors.Years() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO window_years (reviewer_key, year) VALUES (?, ?)`, key, year,
		); err != nil {
			return fmt.Errorf("inserting window year: %w", err)
		}
		for _, author := range r.Coauthors.Names(year) {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO coauthors (reviewer_key, year, author) VALUES (?, ?, ?)`,
				key, year, author,
			); err != nil {
				return fmt.Errorf("inserting coauthor: %w", err)
			}
		}
	}
	return nil
}

// LatestRun returns the most recent recorded run, or ErrNoGraph.
func (s *Store) LatestRun(ctx context.Context) (RunInfo, error) {
	var (
		run       RunInfo
		createdAt string
		archive   sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, archive, current_year, window_years, publications, profiles
		 FROM runs ORDER BY created_at DESC LIMIT 1`,
	).Scan(&run.ID, &createdAt, &archive, &run.CurrentYear, &run.WindowYears, &run.Publications, &run.Profiles)
	if errors.Is(err, sql.ErrNoRows) {
		return RunInfo{}, ErrNoGraph
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("reading run: %w", err)
	}
	run.Archive = archive.String
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		run.CreatedAt = t
	}
	return run, nil
}

// Load returns the stored reviewers in roster order, each with aliases and a
// coauthor window holding every stored year key, plus the run that built them.
func (s *Store) Load(ctx context.Context) ([]*types.ReviewerIdentity, RunInfo, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, RunInfo{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, name, email, orcid FROM reviewers ORDER BY position`)
	if err != nil {
		return nil, run, fmt.Errorf("querying reviewers: %w", err)
	}
	defer rows.Close()

	var reviewers []*types.ReviewerIdentity
	byKey := map[string]*types.ReviewerIdentity{}
	for rows.Next() {
		var (
			key          string
			r            types.ReviewerIdentity
			email, orcid sql.NullString
		)
		if err := rows.Scan(&key, &r.Name, &email, &orcid); err != nil {
			return nil, run, fmt.Errorf("scanning reviewer: %w", err)
		}
		r.Email = email.String
		r.ORCID = orcid.String
		r.Coauthors = types.CoauthorWindow{}
		reviewers = append(reviewers, &r)
		byKey[key] = &r
	}
	if err := rows.Err(); err != nil {
		return nil, run, fmt.Errorf("iterating reviewers: %w", err)
	}

	if err := s.loadAliases(ctx, byKey); err != nil {
		return nil, run, err
	}
	if err := s.loadWindows(ctx, byKey); err != nil {
		return nil, run, err
	}
	return reviewers, run, nil
}

func (s *Store) loadAliases(ctx context.Context, byKey map[string]*types.ReviewerIdentity) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reviewer_key, alias FROM aliases ORDER BY reviewer_key, position`)
	if err != nil {
		return fmt.Errorf("querying aliases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, alias string
		if err := rows.Scan(&key, &alias); err != nil {
			return fmt.Errorf("scanning alias: %w", err)
		}
		if r, ok := byKey[key]; ok {
			r.AddAlias(alias)
		}
	}
	return rows.Err()
}

func (s *Store) loadWindows(ctx context.Context, byKey map[string]*types.ReviewerIdentity) error {
	years, err := s.db.QueryContext(ctx, `SELECT reviewer_key, year FROM window_years`)
	if err != nil {
		return fmt.Errorf("querying window years: %w", err)
	}
	defer years.Close()

	for years.Next() {
		var (
			key  string
			year int
		)
		if err := years.Scan(&key, &year); err != nil {
			return fmt.Errorf("scanning window year: %w", err)
		}
		if r, ok := byKey[key]; ok {
			r.Coauthors[year] = map[string]struct{}{}
		}
	}
	if err := years.Err(); err != nil {
		return fmt.Errorf("iterating window years: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT reviewer_key, year, author FROM coauthors`)
	if err != nil {
		return fmt.Errorf("querying coauthors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			key, author string
			year        int
		)
		if err := rows.Scan(&key, &year, &author); err != nil {
			return fmt.Errorf("scanning coauthor: %w", err)
		}
		if r, ok := byKey[key]; ok {
			r.Coauthors.Add(year, author)
		}
	}
	return rows.Err()
}

// CoauthorsOf returns the reviewers whose coauthor set contains author in
// any year, keyed by reviewer key with the matching years in descending order.
func (s *Store) CoauthorsOf(ctx context.Context, author string) (map[string][]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reviewer_key, year FROM coauthors WHERE author = ? ORDER BY reviewer_key, year DESC`, author)
	if err != nil {
		return nil, fmt.Errorf("querying coauthor %q: %w", author, err)
	}
	defer rows.Close()

	out := map[string][]int{}
	for rows.Next() {
		var (
			key  string
			year int
		)
		if err := rows.Scan(&key, &year); err != nil {
			return nil, fmt.Errorf("scanning coauthor row: %w", err)
		}
		out[key] = append(out[key], year)
	}
	return out, rows.Err()
}
