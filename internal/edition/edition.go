// Package edition lays out dated edition directories and runs a complete
// publish: content stages, illustrations, pages, capture, the issue ledger
// and the site index.
package edition

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"kidsnews/internal/record"
)

// DateLayout names edition directories.
const DateLayout = "2006-01-02"

// IndexFile redirects the site root to the latest edition.
const IndexFile = "index.html"

// Edition is one dated output directory.
type Edition struct {
	Date    time.Time
	DocsDir string
}

// New returns the edition of date under docsDir.
func New(docsDir string, date time.Time) Edition {
	return Edition{Date: date, DocsDir: docsDir}
}

// Today returns today's edition in loc.
func Today(docsDir string, loc *time.Location) Edition {
	return New(docsDir, time.Now().In(loc))
}

// Parse returns the edition named by a YYYY-MM-DD date.
func Parse(docsDir, date string, loc *time.Location) (Edition, error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return Edition{}, fmt.Errorf("invalid edition date %q (want YYYY-MM-DD): %w", date, err)
	}
	return New(docsDir, t), nil
}

// Name is the directory name, e.g. 2026-10-15.
func (e Edition) Name() string {
	return e.Date.Format(DateLayout)
}

// Dir is the edition directory.
func (e Edition) Dir() string {
	return filepath.Join(e.DocsDir, e.Name())
}

// DisplayDate is the date printed on the pages.
func (e Edition) DisplayDate() string {
	return e.Date.Format("January 2, 2006")
}

// DayLabel is the weekday used for the topic theme.
func (e Edition) DayLabel() string {
	return e.Date.Weekday().String()
}

// Store returns the record store of the edition.
func (e Edition) Store() *record.FileStore {
	return record.NewFileStore(e.Dir())
}

// Path joins name onto the edition directory.
func (e Edition) Path(name string) string {
	return filepath.Join(e.Dir(), name)
}

// ListDates returns the names of dated edition directories under docsDir,
// oldest first. A missing docsDir has no editions.
func ListDates(docsDir string) ([]string, error) {
	entries, err := os.ReadDir(docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list editions: %w", err)
	}
	var dates []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse(DateLayout, e.Name()); err == nil {
			dates = append(dates, e.Name())
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// CountUpTo returns how many dates are on or before date.
func CountUpTo(dates []string, date string) int {
	n := 0
	for _, d := range dates {
		if d <= date {
			n++
		}
	}
	return n
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="0; url=%[1]s/page1.html">
<title>Redirecting to the latest edition</title>
</head>
<body>
<p><a href="%[1]s/page1.html">Go to the latest edition</a></p>
</body>
</html>
`

// WriteIndex points docsDir/index.html at the edition's first page.
func WriteIndex(e Edition) error {
	data := []byte(fmt.Sprintf(indexTemplate, e.Name()))
	if err := record.WriteFileAtomic(filepath.Join(e.DocsDir, IndexFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}
