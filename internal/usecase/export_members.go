package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

// AllListsTarget selects every list known to the manager.
const AllListsTarget = "*"

// ExportMembers writes "list,address" rows for the member role.
type ExportMembers struct {
	lists  ports.ListManager
	logger *slog.Logger
}

func NewExportMembers(lists ports.ListManager, logger *slog.Logger) *ExportMembers {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExportMembers{lists: lists, logger: logger}
}

// ExportResult counts what was written.
type ExportResult struct {
	Lists   int
	Rows    int
	Skipped []string
}

// Execute exports target ("" or "*" for every list). A list whose dump fails
// is skipped and reported in Skipped; an unknown target list is an error.
func (uc *ExportMembers) Execute(ctx context.Context, target string, w io.Writer) (ExportResult, error) {
	names, err := uc.targets(ctx, target)
	if err != nil {
		return ExportResult{}, err
	}

	var res ExportResult
	cw := csv.NewWriter(w)
	for _, name := range names {
		emails, err := uc.lists.RoleEmails(ctx, name, domain.RoleMember)
		if err != nil {
			uc.logger.Error("export.list_failed", "list", name, "err", err)
			res.Skipped = append(res.Skipped, name)
			continue
		}
		for _, addr := range emails {
			if err := cw.Write([]string{name, addr}); err != nil {
				return res, err
			}
			res.Rows++
		}
		res.Lists++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return res, err
	}

	uc.logger.Info("export.finished", "lists", res.Lists, "rows", res.Rows, "skipped", len(res.Skipped))
	return res, nil
}

func (uc *ExportMembers) targets(ctx context.Context, target string) ([]string, error) {
	if target == "" || target == AllListsTarget {
		return uc.lists.AllLists(ctx)
	}

	exists, err := uc.lists.ListExists(ctx, target)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &domain.OpError{
			Op:   "usecase.export_members",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("list %q: %w", target, domain.ErrNotFound),
		}
	}
	return []string{target}, nil
}
