package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

const defaultReportsDir = "reports"

// JSONStore writes one JSON file per batch report under <root>/<reports_dir>.
type JSONStore struct {
	rootDir        string
	reportsDirName string
	writeIndex     bool
	now            func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index: <reports_dir>/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.ReportsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultReportsDir
	}

	s := &JSONStore{
		rootDir:        root,
		reportsDirName: dir,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ReportStore = (*JSONStore)(nil)

// Dir is the directory reports are written to.
func (s *JSONStore) Dir() string {
	if filepath.IsAbs(s.reportsDirName) {
		return s.reportsDirName
	}
	return filepath.Join(s.rootDir, s.reportsDirName)
}

func (s *JSONStore) SaveReport(report domain.BatchReport) (string, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := report.StartedAt
	if ts.IsZero() {
		ts = s.now()
		report.StartedAt = ts
	}
	ts = ts.UTC()

	slug := slugify(strings.TrimSuffix(filepath.Base(report.CSVPath), filepath.Ext(report.CSVPath)))
	if slug == "" {
		slug = "batch"
	}
	if short := shortID(report.ID); short != "" {
		slug += "_" + short
	}

	filename := fmt.Sprintf("%s_%s.json", ts.Format("20060102T150405Z"), slug)
	id := strings.TrimSuffix(filename, ".json")
	path := filepath.Join(dir, filename)

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, report)
	}

	return id, nil
}

type indexEntry struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	File      string    `json:"file"`
	CSV       string    `json:"csv"`
	Rows      int       `json:"rows"`
	Failures  int       `json:"failures"`
	Aborted   bool      `json:"aborted"`
	StartedAt time.Time `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir, id, filename string, report domain.BatchReport) error {
	line, err := json.Marshal(indexEntry{
		ID:        id,
		ReportID:  report.ID,
		File:      filename,
		CSV:       report.CSVPath,
		Rows:      len(report.Rows),
		Failures:  report.Failures(),
		Aborted:   report.Aborted(),
		StartedAt: report.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

func shortID(id string) string {
	id = strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return slugify(id)
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
