package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

type stepResult struct {
	outcome     domain.Outcome
	err         error
	rollbackErr error
}

func ok() stepResult      { return stepResult{outcome: domain.OutcomeOK} }
func skipped() stepResult { return stepResult{outcome: domain.OutcomeSkipped} }

func fail(outcome domain.Outcome, err error) stepResult {
	return stepResult{outcome: outcome, err: err}
}

func addFailure(role domain.Role) domain.Outcome {
	switch role {
	case domain.RoleOwner:
		return domain.OutcomeAddOwnersFailed
	case domain.RoleEditor:
		return domain.OutcomeAddEditorsFailed
	default:
		return domain.OutcomeAddMembersFailed
	}
}

func loadFailure(err error) domain.Outcome {
	if domain.IsKind(err, domain.KindNotFound) || errors.Is(err, domain.ErrNotFound) {
		return domain.OutcomeListFileNotFound
	}
	return domain.OutcomeLoadListFileFailed
}

func (uc *RunBatch) create(ctx context.Context, log *slog.Logger, op domain.BatchOperation) stepResult {
	exists, err := uc.lists.ListExists(ctx, op.List)
	if err != nil {
		return fail(domain.OutcomeListExistsFailed, err)
	}
	if exists {
		log.Info("batch.create_skipped", "reason", "list already exists")
		return skipped()
	}

	spec, err := uc.defs.Load(op.List)
	if err != nil {
		return fail(loadFailure(err), err)
	}

	manifest, err := uc.manifests.Build(op.List, op.Description, spec)
	if err != nil {
		return fail(domain.OutcomeXMLGenerationFailed, err)
	}

	if res, failed := uc.createFromManifest(ctx, log, manifest); failed {
		return res
	}

	// Owners are embedded in the manifest.
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleEditor} {
		addrs := spec.Addresses(role)
		if len(addrs) == 0 {
			continue
		}
		if err := uc.lists.AddRoleAddresses(ctx, op.List, role, addrs); err != nil {
			res := fail(addFailure(role), err)
			if perr := uc.lists.PurgeList(ctx, op.List); perr != nil {
				log.Error("batch.rollback_failed", "action", "purge", "err", perr)
				res.rollbackErr = perr
			} else {
				log.Warn("batch.rolled_back", "action", "purge")
			}
			return res
		}
		log.Debug("batch.role_added", "role", role, "count", len(addrs))
	}
	return ok()
}

func (uc *RunBatch) createFromManifest(ctx context.Context, log *slog.Logger, manifest string) (stepResult, bool) {
	path, cleanup, err := uc.lists.WriteManifest(manifest)
	if err != nil {
		return fail(domain.OutcomeXMLTmpFailed, err), true
	}
	defer cleanup()

	out, err := uc.lists.CreateList(ctx, path)
	if err != nil {
		return fail(domain.OutcomeCreateListFailed, err), true
	}
	log.Debug("batch.list_created", "output", out)
	return stepResult{}, false
}

func (uc *RunBatch) replace(ctx context.Context, log *slog.Logger, op domain.BatchOperation) stepResult {
	exists, err := uc.lists.ListExists(ctx, op.List)
	if err != nil {
		return fail(domain.OutcomeListExistsFailed, err)
	}
	if !exists {
		log.Info("batch.replace_skipped", "reason", "list does not exist")
		return skipped()
	}

	snap, err := uc.lists.Backup(ctx, op.List)
	if err != nil {
		return fail(domain.OutcomeBackupFailed, err)
	}
	defer snap.Discard()
	log.Debug("batch.backup_taken", "snapshot", snap.Path())

	spec, err := uc.defs.Load(op.List)
	if err != nil {
		return fail(loadFailure(err), err)
	}

	// Clearing is best effort; the rebuild below is what gets rolled back.
	for _, role := range []domain.Role{domain.RoleMember, domain.RoleEditor, domain.RoleOwner} {
		if err := uc.lists.RemoveRole(ctx, op.List, role); err != nil {
			log.Warn("batch.remove_role_failed", "role", role, "err", err)
		}
	}

	for _, role := range []domain.Role{domain.RoleOwner, domain.RoleMember, domain.RoleEditor} {
		addrs := spec.Addresses(role)
		if len(addrs) == 0 {
			continue
		}
		if err := uc.lists.AddRoleAddresses(ctx, op.List, role, addrs); err != nil {
			res := fail(addFailure(role), err)
			res.rollbackErr = uc.restore(ctx, log, op.List, snap)
			return res
		}
		log.Debug("batch.role_added", "role", role, "count", len(addrs))
	}
	return ok()
}

func (uc *RunBatch) remove(ctx context.Context, log *slog.Logger, op domain.BatchOperation) stepResult {
	exists, err := uc.lists.ListExists(ctx, op.List)
	if err != nil {
		return fail(domain.OutcomeListExistsFailed, err)
	}
	if !exists {
		log.Info("batch.remove_skipped", "reason", "list does not exist")
		return skipped()
	}

	snap, err := uc.lists.Backup(ctx, op.List)
	if err != nil {
		return fail(domain.OutcomeBackupFailed, err)
	}
	defer snap.Discard()

	if err := uc.lists.PurgeList(ctx, op.List); err != nil {
		res := fail(domain.OutcomePurgeFailed, err)
		res.rollbackErr = uc.restore(ctx, log, op.List, snap)
		return res
	}
	return ok()
}

func (uc *RunBatch) restore(ctx context.Context, log *slog.Logger, name string, snap ports.Snapshot) error {
	if err := uc.lists.Restore(ctx, name, snap); err != nil {
		log.Error("batch.rollback_failed", "action", "restore", "err", err)
		return err
	}
	log.Warn("batch.rolled_back", "action", "restore")
	return nil
}
