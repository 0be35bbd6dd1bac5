package domain

import "time"

// Command is the operation tag of a CSV batch row.
type Command string

const (
	CommandCreate  Command = "CREATE"
	CommandReplace Command = "REPLACE"
	CommandRemove  Command = "REMOVE"
)

// ParseCommand accepts an already upper-cased token.
func ParseCommand(s string) (Command, bool) {
	switch Command(s) {
	case CommandCreate, CommandReplace, CommandRemove:
		return Command(s), true
	default:
		return "", false
	}
}

// BatchOperation is one validated CSV row.
type BatchOperation struct {
	Row         int // 1-based line in the CSV file
	Command     Command
	List        string
	Description string
}

// Outcome is the per-row result code reported by the orchestrator.
type Outcome string

const (
	OutcomeOK                  Outcome = "OK"
	OutcomeSkipped             Outcome = "SKIPPED"
	OutcomeListExistsFailed    Outcome = "LIST_EXISTS_FAILED"
	OutcomeListFileNotFound    Outcome = "LISTFILE_NOT_FOUND"
	OutcomeLoadListFileFailed  Outcome = "LOAD_LISTFILE_FAILED"
	OutcomeXMLGenerationFailed Outcome = "XML_GENERATION_FAILED"
	OutcomeXMLTmpFailed        Outcome = "XML_TMP_FAILED"
	OutcomeCreateListFailed    Outcome = "CREATE_LIST_FAILED"
	OutcomeAddOwnersFailed     Outcome = "ADD_OWNERS_FAILED"
	OutcomeAddMembersFailed    Outcome = "ADD_MEMBERS_FAILED"
	OutcomeAddEditorsFailed    Outcome = "ADD_EDITORS_FAILED"
	OutcomeBackupFailed        Outcome = "BACKUP_FAILED"
	OutcomePurgeFailed         Outcome = "PURGE_FAILED"
	OutcomeUnexpectedError     Outcome = "UNEXPECTED_ERROR"
)

// Succeeded is true for OK and SKIPPED.
func (o Outcome) Succeeded() bool {
	return o == OutcomeOK || o == OutcomeSkipped
}

// RowResult is the outcome of one batch row.
type RowResult struct {
	Row     int     `json:"row"`
	Command Command `json:"command"`
	List    string  `json:"list"`
	Outcome Outcome `json:"outcome"`

	// Error is the diagnostic of the step that failed the row.
	Error string `json:"error,omitempty"`
	// RollbackError is set when the compensating purge/restore also failed.
	RollbackError string `json:"rollback_error,omitempty"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// BatchReport is the result of one batch run.
type BatchReport struct {
	ID      string `json:"id"`
	CSVPath string `json:"csv_path"`
	Strict  bool   `json:"strict"`

	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`

	Rows []RowResult `json:"rows"`

	// AbortError is set when a malformed row stopped the run.
	AbortError string `json:"abort_error,omitempty"`
}

// Failures counts rows whose outcome is not a success.
func (r BatchReport) Failures() int {
	n := 0
	for _, row := range r.Rows {
		if !row.Outcome.Succeeded() {
			n++
		}
	}
	return n
}

// Aborted reports whether a malformed row stopped the run.
func (r BatchReport) Aborted() bool {
	return r.AbortError != ""
}
