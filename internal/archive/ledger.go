// Package archive keeps the ledger of published issues in SQLite. The
// ledger numbers issues and backs the issues listing.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a date has no ledger entry.
var ErrNotFound = errors.New("issue not found")

// Issue is one ledger row.
type Issue struct {
	Date         string
	Number       int
	Topic        string
	Headline     string
	ActivityType string
	RunID        string
	Captured     bool
	CreatedAt    time.Time
	CompletedAt  time.Time
}

// Label returns the printed issue label.
func (i Issue) Label() string {
	return IssueLabel(i.Number)
}

// IssueLabel formats an issue number. The first issue has its own label.
func IssueLabel(n int) string {
	if n <= 1 {
		return "First Issue"
	}
	return fmt.Sprintf("Issue No. %d", n)
}

// Ledger is the SQLite issue ledger.
type Ledger struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// Open creates or opens the ledger at dbPath.
func Open(dbPath string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := &Ledger{db: db, dbPath: dbPath}
	if err := l.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path returns the database file path.
func (l *Ledger) Path() string {
	return l.dbPath
}

func (l *Ledger) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS issues (
		date TEXT PRIMARY KEY,
		topic TEXT NOT NULL DEFAULT '',
		headline TEXT NOT NULL DEFAULT '',
		activity_type TEXT NOT NULL DEFAULT '',
		run_id TEXT NOT NULL DEFAULT '',
		captured INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		completed_at TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Reserve records date as an issue date, if it is not one already, and
// returns its number: the count of issue dates up to and including date.
func (l *Ledger) Reserve(ctx context.Context, date string) (int, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return 0, fmt.Errorf("invalid issue date %q: %w", date, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO issues (date, created_at) VALUES (?, ?)`,
		date, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, fmt.Errorf("failed to reserve issue %s: %w", date, err)
	}
	return l.number(ctx, date)
}

// Backfill reserves every date in dates. Editions published before the
// ledger existed are counted this way.
func (l *Ledger) Backfill(ctx context.Context, dates []string) error {
	for _, d := range dates {
		if _, err := l.Reserve(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Complete stores the published details of an issue reserved earlier.
func (l *Ledger) Complete(ctx context.Context, issue Issue) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	completed := issue.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	res, err := l.db.ExecContext(ctx, `
		UPDATE issues
		SET topic = ?, headline = ?, activity_type = ?, run_id = ?, captured = ?, completed_at = ?
		WHERE date = ?`,
		issue.Topic, issue.Headline, issue.ActivityType, issue.RunID, boolToInt(issue.Captured),
		completed.UTC().Format(time.RFC3339), issue.Date)
	if err != nil {
		return fmt.Errorf("failed to complete issue %s: %w", issue.Date, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("complete issue %s: %w", issue.Date, ErrNotFound)
	}
	return nil
}

// Get returns the ledger entry for date.
func (l *Ledger) Get(ctx context.Context, date string) (*Issue, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	row := l.db.QueryRowContext(ctx, selectIssue+` WHERE i.date = ?`, date)
	issue, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read issue %s: %w", date, err)
	}
	return issue, nil
}

// List returns up to limit issues, newest first. A limit of zero or less
// returns every issue.
func (l *Ledger) List(ctx context.Context, limit int) ([]Issue, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	query := selectIssue + ` ORDER BY i.date DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, *issue)
	}
	return issues, rows.Err()
}

const selectIssue = `
	SELECT i.date,
		(SELECT COUNT(*) FROM issues p WHERE p.date <= i.date),
		i.topic, i.headline, i.activity_type, i.run_id, i.captured, i.created_at, i.completed_at
	FROM issues i`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanIssue(s scanner) (*Issue, error) {
	var (
		issue              Issue
		captured           int
		created, completed string
	)
	if err := s.Scan(&issue.Date, &issue.Number, &issue.Topic, &issue.Headline,
		&issue.ActivityType, &issue.RunID, &captured, &created, &completed); err != nil {
		return nil, err
	}
	issue.Captured = captured != 0
	issue.CreatedAt = parseTime(created)
	issue.CompletedAt = parseTime(completed)
	return &issue, nil
}

func (l *Ledger) number(ctx context.Context, date string) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issues WHERE date <= ?`, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count issues: %w", err)
	}
	return n, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
