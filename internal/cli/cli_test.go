package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// --- printRow ---

func TestPrintRow_Failure(t *testing.T) {
	var buf bytes.Buffer
	printRow(&buf, domain.RowResult{
		Row:           3,
		Command:       domain.CommandReplace,
		List:          "staff",
		Outcome:       domain.OutcomeAddEditorsFailed,
		Error:         "[add] add failed rc=1",
		RollbackError: "[restore] restore failed rc=1",
	})

	out := buf.String()
	for _, want := range []string{"FAIL", "row 3 REPLACE staff", "ADD_EDITORS_FAILED", "error: [add]", "rollback error: [restore]"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrintRow_OK(t *testing.T) {
	var buf bytes.Buffer
	printRow(&buf, domain.RowResult{Row: 1, Command: domain.CommandCreate, List: "staff", Outcome: domain.OutcomeOK})
	if strings.Contains(buf.String(), "error") {
		t.Errorf("unexpected error line: %q", buf.String())
	}
}

// --- printReport ---

func TestPrintReport_JSON_ValidOutput(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	report := domain.BatchReport{
		ID:        "r1",
		CSVPath:   "batch.csv",
		StartedAt: now,
		EndedAt:   now.Add(100 * time.Millisecond),
		Rows:      []domain.RowResult{{Row: 1, Command: domain.CommandRemove, List: "x", Outcome: domain.OutcomeSkipped}},
	}
	var buf bytes.Buffer
	if err := printReport(&buf, report, "abc123", "/tmp/sympactl.log", "json"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var payload struct {
		ReportID string             `json:"report_id"`
		Report   domain.BatchReport `json:"report"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if payload.ReportID != "abc123" || len(payload.Report.Rows) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestPrintReport_PrettySummary(t *testing.T) {
	report := domain.BatchReport{
		CSVPath: "batch.csv",
		Rows: []domain.RowResult{
			{Outcome: domain.OutcomeOK},
			{Outcome: domain.OutcomeSkipped},
			{Outcome: domain.OutcomePurgeFailed},
		},
	}
	var buf bytes.Buffer
	if err := printReport(&buf, report, "", "", "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Rows:     3 (ok=1 skipped=1 failed=1)") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "Report:") {
		t.Fatalf("report line must be omitted without an id")
	}
	if strings.Contains(buf.String(), "Log:") {
		t.Fatalf("log line must be omitted without a log file")
	}
}

func TestPrintReport_PrettySummaryWithLog(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, domain.BatchReport{CSVPath: "batch.csv"}, "abc123", "/var/log/sympactl.log", "pretty"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Report:   abc123", "Log:      /var/log/sympactl.log"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in summary:\n%s", want, buf.String())
		}
	}
}

// --- commands ---

// newFixture writes a config whose list manager is a shell script that
// knows two lists: staff and other.
func newFixture(t *testing.T) (dir, configPath string) {
	t.Helper()
	for _, k := range []string{"SYMPACTL_DOMAIN", "SYMPACTL_SYMPA_CMD", "SYMPACTL_LISTDATA_DIR", "SYMPACTL_LISTFILE_DIR"} {
		t.Setenv(k, "")
	}

	dir = t.TempDir()
	script := filepath.Join(dir, "sympa.sh")
	body := "#!/bin/sh\ncase \"$1\" in\n  export_list) printf 'staff\\nother\\n' ;;\n  *) echo \"unexpected $*\" >&2; exit 2 ;;\nesac\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cfg := "sympactl:\n" +
		"  domain: lists.example.org\n" +
		"  sympa_cmd: " + script + "\n" +
		"  paths:\n" +
		"    listdata_dir: " + filepath.Join(dir, "data") + "\n"
	configPath = filepath.Join(dir, "sympactl.yaml")
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir, configPath
}

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	p := filepath.Join(dir, "batch.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBatchCmd_SkipsRowsWithoutSideEffects(t *testing.T) {
	dir, cfg := newFixture(t)
	csvPath := writeCSV(t, dir, "CREATE,staff,Staff list\nremove,ghost,\n")

	out, err := runRoot(t, "--config", cfg, "batch", csvPath)
	if err != nil {
		t.Fatalf("batch failed: %v\n%s", err, out)
	}
	if strings.Count(out, "SKIP") != 2 {
		t.Fatalf("expected two skipped rows:\n%s", out)
	}
	wantLog := "Log:      " + filepath.Join(dir, ".sympactl", "logs", "sympactl.log")
	if !strings.Contains(out, wantLog) {
		t.Fatalf("expected %q in summary:\n%s", wantLog, out)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "reports"))
	if err != nil {
		t.Fatalf("read reports dir: %v", err)
	}
	var reports int
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			reports++
		}
	}
	if reports != 1 {
		t.Fatalf("expected 1 saved report, got %d", reports)
	}
}

func TestBatchCmd_NoSave(t *testing.T) {
	dir, cfg := newFixture(t)
	csvPath := writeCSV(t, dir, "REMOVE,ghost,\n")

	if out, err := runRoot(t, "--config", cfg, "batch", "--no-save", "--format", "json", csvPath); err != nil {
		t.Fatalf("batch failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(dir, "reports")); !os.IsNotExist(err) {
		t.Fatalf("reports dir must not be created with --no-save")
	}
}

func TestBatchCmd_MalformedRowAbortsWithExitError(t *testing.T) {
	dir, cfg := newFixture(t)
	csvPath := writeCSV(t, dir, "REMOVE,ghost,\nDROP,staff,x\nREMOVE,other,\n")

	out, err := runRoot(t, "--config", cfg, "batch", csvPath)
	var ee *exitError
	if !errors.As(err, &ee) {
		t.Fatalf("expected exitError, got %v\n%s", err, out)
	}
	if !strings.Contains(out, "batch aborted") {
		t.Fatalf("expected abort message:\n%s", out)
	}
	if strings.Count(out, "SKIP") != 1 {
		t.Fatalf("only the row before the malformed one should run:\n%s", out)
	}
}

func TestBatchCmd_StrictRejectsBeforeAnyRow(t *testing.T) {
	dir, cfg := newFixture(t)
	csvPath := writeCSV(t, dir, "REMOVE,ghost,\nDROP,staff,x\n")

	out, err := runRoot(t, "--config", cfg, "batch", "--strict", csvPath)
	if !errors.Is(err, domain.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v\n%s", err, out)
	}
	if strings.Contains(out, "SKIP") {
		t.Fatalf("strict mode must not run any row:\n%s", out)
	}
}

func TestBatchCmd_RejectsUnknownFormat(t *testing.T) {
	_, cfg := newFixture(t)
	if _, err := runRoot(t, "--config", cfg, "batch", "--format", "xml", "x.csv"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	good := writeCSV(t, dir, "create,Staff.Team\n\nREMOVE,old,\n")

	out, err := runRoot(t, "validate", good)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "2 row(s)") {
		t.Fatalf("unexpected output %q", out)
	}

	bad := writeCSV(t, dir, "CREATE\n")
	if _, err := runRoot(t, "validate", bad); !errors.Is(err, domain.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", err)
	}
}

func TestListsCmd(t *testing.T) {
	_, cfg := newFixture(t)
	out, err := runRoot(t, "--config", cfg, "lists")
	if err != nil {
		t.Fatalf("lists failed: %v", err)
	}
	if out != "staff\nother\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestManifestCmd(t *testing.T) {
	dir, cfg := newFixture(t)
	if err := os.MkdirAll(filepath.Join(dir, "lists"), 0o755); err != nil {
		t.Fatal(err)
	}
	def := "[owner]\nboss@example.org\n[member]\na@example.org\n"
	if err := os.WriteFile(filepath.Join(dir, "lists", "staff.list"), []byte(def), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "--config", cfg, "manifest", "staff", "--description", "R&D")
	if err != nil {
		t.Fatalf("manifest failed: %v", err)
	}
	for _, want := range []string{"<listname>staff</listname>", "R&amp;D", "boss@example.org"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in manifest:\n%s", want, out)
		}
	}
}

func TestManifestCmd_RejectsPathLikeName(t *testing.T) {
	dir, cfg := newFixture(t)
	if err := os.WriteFile(filepath.Join(dir, "secret.list"), []byte("[member]\na@example.org\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runRoot(t, "--config", cfg, "manifest", "../secret")
	if !domain.IsKind(err, domain.KindInvalidName) {
		t.Fatalf("expected KindInvalidName, got %v", err)
	}
	if strings.Contains(out, "a@example.org") {
		t.Fatalf("manifest must not read files outside the list directory:\n%s", out)
	}
}

func TestLoadApp_ResolvesRelativePaths(t *testing.T) {
	dir, _ := newFixture(t)
	cfgPath := filepath.Join(dir, "relative.yaml")
	body := "sympactl:\n" +
		"  domain: lists.example.org\n" +
		"  paths:\n" +
		"    listdata_dir: data/lists\n" +
		"    listfile_dir: defs\n" +
		"  log:\n" +
		"    max_size_mb: 1\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := loadApp(&rootOptions{configPath: cfgPath})
	if err != nil {
		t.Fatalf("loadApp: %v", err)
	}
	defer app.Close()

	if got, want := app.cfg.Paths.ListDataDir, filepath.Join(dir, "data", "lists"); got != want {
		t.Errorf("listdata dir: expected %s, got %s", want, got)
	}
	if got, want := app.cfg.Paths.ListFileDir, filepath.Join(dir, "defs"); got != want {
		t.Errorf("listfile dir: expected %s, got %s", want, got)
	}
	if app.cfg.Log.MaxSizeMB != 1 {
		t.Errorf("expected log max size 1, got %d", app.cfg.Log.MaxSizeMB)
	}
}

func TestCloseCmd_CommandFailure(t *testing.T) {
	_, cfg := newFixture(t)
	_, err := runRoot(t, "--config", cfg, "close", "staff")
	if !errors.Is(err, domain.ErrCommandFailed) {
		t.Fatalf("expected command failure, got %v", err)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "sympactl ") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInitCmd_ThenValidateExample(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, "init", dir, "--domain", "lists.uni.example")
	if err != nil {
		t.Fatalf("init failed: %v\n%s", err, out)
	}

	out, err = runRoot(t, "validate", filepath.Join(dir, "batch.example.csv"))
	if err != nil {
		t.Fatalf("validate example failed: %v", err)
	}
	if !strings.Contains(out, "3 row(s)") {
		t.Fatalf("unexpected output %q", out)
	}
}
