// Package csvbatch parses CSV batch files (CMD,LISTNAME[,DESCRIPTION], no header).
//
// Two rule sets exist. The orchestrator rules need three columns and the
// strict list identifier pattern; the standalone validator needs two columns
// and accepts any RFC 5322 atom for the list name. Both fail fast: the first
// bad row stops parsing with its 1-based line number.
package csvbatch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

// atomPattern is the RFC 5322 atext set used by the standalone validator.
var atomPattern = regexp.MustCompile("^[A-Za-z0-9!#$%&'*+/=?^_`{|}~.-]+$")

// RowError reports the first malformed row of a batch file.
type RowError struct {
	Row     int
	Content string
	Reason  string
}

func (e *RowError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: %s %q", e.Row, e.Reason, e.Content)
}

func (e *RowError) Is(target error) bool {
	return target == domain.ErrInvalidFormat
}

type rules struct {
	minColumns   int
	validName    func(string) bool
	requiresDesc func(domain.Command) bool
}

var orchestratorRules = rules{
	minColumns: 3,
	validName:  domain.ValidListName,
	requiresDesc: func(c domain.Command) bool {
		return c != domain.CommandRemove
	},
}

var validatorRules = rules{
	minColumns:   2,
	validName:    atomPattern.MatchString,
	requiresDesc: func(domain.Command) bool { return false },
}

// Reader streams batch operations under the orchestrator rules.
type Reader struct {
	csv   *csv.Reader
	rules rules
	err   error
}

func NewReader(r io.Reader) *Reader {
	return newReader(r, orchestratorRules)
}

var _ ports.BatchSource = (*Reader)(nil)

func newReader(r io.Reader, rl rules) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr, rules: rl}
}

// Next returns the next operation, skipping blank rows.
// It returns io.EOF at the end of input. After a *RowError every call
// returns the same error.
func (r *Reader) Next() (domain.BatchOperation, error) {
	if r.err != nil {
		return domain.BatchOperation{}, r.err
	}
	op, err := r.next()
	if err != nil {
		r.err = err
	}
	return op, err
}

func (r *Reader) next() (domain.BatchOperation, error) {
	for {
		rec, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return domain.BatchOperation{}, io.EOF
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return domain.BatchOperation{}, &RowError{Row: pe.Line, Reason: "unreadable row: " + pe.Err.Error()}
			}
			return domain.BatchOperation{}, &domain.OpError{
				Op:   "csvbatch.read",
				Kind: domain.KindExecution,
				Err:  err,
			}
		}

		line, _ := r.csv.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		return r.rules.check(line, rec)
	}
}

func (rl rules) check(line int, rec []string) (domain.BatchOperation, error) {
	if len(rec) < rl.minColumns {
		return domain.BatchOperation{}, &RowError{
			Row:     line,
			Content: strings.Join(rec, ","),
			Reason:  fmt.Sprintf("invalid columns (need at least %d, got %d)", rl.minColumns, len(rec)),
		}
	}

	token := strings.ToUpper(strings.TrimSpace(rec[0]))
	cmd, ok := domain.ParseCommand(token)
	if !ok {
		return domain.BatchOperation{}, &RowError{Row: line, Content: token, Reason: "invalid CMD"}
	}

	name := strings.TrimSpace(rec[1])
	if !rl.validName(name) {
		return domain.BatchOperation{}, &RowError{Row: line, Content: name, Reason: "invalid LISTNAME"}
	}

	op := domain.BatchOperation{Row: line, Command: cmd, List: name}
	if len(rec) > 2 {
		op.Description = strings.TrimSpace(rec[2])
	}
	if op.Description == "" && rl.requiresDesc(cmd) {
		return domain.BatchOperation{}, &RowError{
			Row:     line,
			Content: strings.Join(rec, ","),
			Reason:  fmt.Sprintf("empty DESCRIPTION for %s", cmd),
		}
	}
	return op, nil
}

// ParseAll reads every row under the orchestrator rules before returning.
// Nothing is returned unless the whole file is valid.
func ParseAll(r io.Reader) ([]domain.BatchOperation, error) {
	return readAll(newReader(r, orchestratorRules))
}

// Validate checks a batch file under the standalone validator rules
// (two columns minimum, RFC 5322 atom list names).
func Validate(r io.Reader) ([]domain.BatchOperation, error) {
	return readAll(newReader(r, validatorRules))
}

func readAll(rd *Reader) ([]domain.BatchOperation, error) {
	var ops []domain.BatchOperation
	for {
		op, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return ops, nil
		}
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
