package domain

import "testing"

func TestParseCommand(t *testing.T) {
	for _, s := range []string{"CREATE", "REPLACE", "REMOVE"} {
		if _, ok := ParseCommand(s); !ok {
			t.Errorf("expected %s to parse", s)
		}
	}
	for _, s := range []string{"create", "DELETE", ""} {
		if _, ok := ParseCommand(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestOutcomeSucceeded(t *testing.T) {
	if !OutcomeOK.Succeeded() || !OutcomeSkipped.Succeeded() {
		t.Fatal("expected OK and SKIPPED to count as success")
	}
	if OutcomeAddEditorsFailed.Succeeded() {
		t.Fatal("expected failure outcome")
	}
}

func TestBatchReportFailures(t *testing.T) {
	r := BatchReport{
		Rows: []RowResult{
			{Outcome: OutcomeOK},
			{Outcome: OutcomeSkipped},
			{Outcome: OutcomePurgeFailed},
			{Outcome: OutcomeBackupFailed},
		},
	}
	if n := r.Failures(); n != 2 {
		t.Fatalf("expected 2 failures, got %d", n)
	}
	if r.Aborted() {
		t.Fatal("expected not aborted")
	}
	r.AbortError = "row 5: invalid CMD"
	if !r.Aborted() {
		t.Fatal("expected aborted")
	}
}
