package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

// RunBatch applies CREATE/REPLACE/REMOVE rows one at a time.
// A failing row is recorded and the batch moves on; only a malformed row
// (reported by the source) or a cancelled context stops it.
type RunBatch struct {
	lists     ports.ListManager
	defs      ports.MembershipLoader
	manifests ports.ManifestBuilder
	store     ports.ReportStore

	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	onRow  func(domain.RowResult)
}

type RunBatchOption func(*RunBatch)

func WithLogger(l *slog.Logger) RunBatchOption {
	return func(uc *RunBatch) {
		if l != nil {
			uc.logger = l
		}
	}
}

// WithNow overrides the clock (useful for tests).
func WithNow(now func() time.Time) RunBatchOption {
	return func(uc *RunBatch) { uc.now = now }
}

// WithIDGenerator overrides report ID generation (useful for tests).
func WithIDGenerator(gen func() string) RunBatchOption {
	return func(uc *RunBatch) { uc.newID = gen }
}

// WithRowHook is called after each row completes, before the next one starts.
func WithRowHook(fn func(domain.RowResult)) RunBatchOption {
	return func(uc *RunBatch) { uc.onRow = fn }
}

// NewRunBatch wires the orchestrator. store may be nil to skip persisting the report.
func NewRunBatch(lists ports.ListManager, defs ports.MembershipLoader, manifests ports.ManifestBuilder, store ports.ReportStore, opts ...RunBatchOption) *RunBatch {
	uc := &RunBatch{
		lists:     lists,
		defs:      defs,
		manifests: manifests,
		store:     store,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute drains src and returns the report. The returned error is non-nil
// only when the context is cancelled or the report cannot be saved; row
// failures and malformed rows are part of the report.
func (uc *RunBatch) Execute(ctx context.Context, csvPath string, strict bool, src ports.BatchSource) (domain.BatchReport, string, error) {
	report := domain.BatchReport{
		ID:        uc.newID(),
		CSVPath:   csvPath,
		Strict:    strict,
		StartedAt: uc.now(),
		Rows:      []domain.RowResult{},
	}
	uc.logger.Info("batch.started", "id", report.ID, "csv", csvPath, "strict", strict)

	var runErr error
	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			report.AbortError = err.Error()
			break
		}

		op, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			uc.logger.Error("batch.malformed_row", "err", err)
			report.AbortError = err.Error()
			break
		}

		// A started row always runs to completion.
		res := uc.Row(context.WithoutCancel(ctx), op)
		report.Rows = append(report.Rows, res)
		if uc.onRow != nil {
			uc.onRow(res)
		}
	}

	report.EndedAt = uc.now()
	uc.logger.Info("batch.finished",
		"id", report.ID,
		"rows", len(report.Rows),
		"failures", report.Failures(),
		"aborted", report.Aborted(),
	)

	if runErr != nil {
		return report, "", runErr
	}
	if uc.store == nil {
		return report, "", nil
	}
	id, err := uc.store.SaveReport(report)
	if err != nil {
		return report, "", err
	}
	return report, id, nil
}

// Row runs a single operation. A panic inside the handler is reported as
// UNEXPECTED_ERROR instead of ending the batch.
func (uc *RunBatch) Row(ctx context.Context, op domain.BatchOperation) (res domain.RowResult) {
	res = domain.RowResult{
		Row:       op.Row,
		Command:   op.Command,
		List:      op.List,
		StartedAt: uc.now(),
	}
	log := uc.logger.With("row", op.Row, "command", op.Command, "list", op.List)

	defer func() {
		if r := recover(); r != nil {
			log.Error("batch.row_panic", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			res.Outcome = domain.OutcomeUnexpectedError
			res.Error = fmt.Sprintf("unexpected error: %v", r)
		}
		res.EndedAt = uc.now()
	}()

	var out stepResult
	switch op.Command {
	case domain.CommandCreate:
		out = uc.create(ctx, log, op)
	case domain.CommandReplace:
		out = uc.replace(ctx, log, op)
	case domain.CommandRemove:
		out = uc.remove(ctx, log, op)
	default:
		out = fail(domain.OutcomeUnexpectedError, fmt.Errorf("unsupported command %q", op.Command))
	}

	res.Outcome = out.outcome
	if out.err != nil {
		res.Error = out.err.Error()
	}
	if out.rollbackErr != nil {
		res.RollbackError = out.rollbackErr.Error()
	}

	if out.outcome.Succeeded() {
		log.Info("batch.row_done", "outcome", out.outcome)
	} else {
		log.Error("batch.row_failed", "outcome", out.outcome, "err", out.err, "rollback_err", out.rollbackErr)
	}
	return res
}
