package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aalvaropc/sympactl/internal/domain"
	"github.com/aalvaropc/sympactl/internal/ports"
)

// --- fakes shared by the batch and export tests ---

type fakeSnapshot struct {
	list      string
	discarded int
}

func (s *fakeSnapshot) ListName() string { return s.list }
func (s *fakeSnapshot) Path() string     { return "/tmp/snap-" + s.list }
func (s *fakeSnapshot) Discard()         { s.discarded++ }

// fakeLists records every call as "<op>:<list>[:<role>]" and fails the
// calls whose key is present in errs.
type fakeLists struct {
	existing map[string]bool
	members  map[string][]string
	errs     map[string]error
	panicOn  string

	calls     []string
	added     map[string][]string
	snapshots []*fakeSnapshot
	restored  []ports.Snapshot
	cleanups  int
}

var _ ports.ListManager = (*fakeLists)(nil)

func newFakeLists(existing ...string) *fakeLists {
	f := &fakeLists{
		existing: map[string]bool{},
		members:  map[string][]string{},
		errs:     map[string]error{},
		added:    map[string][]string{},
	}
	for _, n := range existing {
		f.existing[n] = true
	}
	return f
}

func (f *fakeLists) record(key string) error {
	f.calls = append(f.calls, key)
	if f.panicOn == key {
		panic("boom: " + key)
	}
	return f.errs[key]
}

func (f *fakeLists) called(key string) bool {
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeLists) ListExists(_ context.Context, name string) (bool, error) {
	if err := f.record("exists:" + name); err != nil {
		return false, err
	}
	return f.existing[name], nil
}

func (f *fakeLists) AllLists(_ context.Context) ([]string, error) {
	if err := f.record("all"); err != nil {
		return nil, err
	}
	var out []string
	for _, n := range []string{"alpha", "beta", "gamma"} {
		if f.existing[n] {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeLists) RoleEmails(_ context.Context, name string, role domain.Role) ([]string, error) {
	if err := f.record(fmt.Sprintf("emails:%s:%s", name, role)); err != nil {
		return nil, err
	}
	return f.members[name], nil
}

func (f *fakeLists) WriteManifest(manifest string) (string, func(), error) {
	if err := f.record("manifest"); err != nil {
		return "", nil, err
	}
	return "/tmp/sympa_create_1.xml", func() { f.cleanups++ }, nil
}

func (f *fakeLists) CreateList(_ context.Context, path string) (string, error) {
	if err := f.record("create:" + path); err != nil {
		return "", err
	}
	return "created", nil
}

func (f *fakeLists) AddRoleAddresses(_ context.Context, name string, role domain.Role, addrs []string) error {
	key := fmt.Sprintf("add:%s:%s", name, role)
	if err := f.record(key); err != nil {
		return err
	}
	f.added[key] = append([]string(nil), addrs...)
	return nil
}

func (f *fakeLists) RemoveRole(_ context.Context, name string, role domain.Role) error {
	return f.record(fmt.Sprintf("del:%s:%s", name, role))
}

func (f *fakeLists) PurgeList(_ context.Context, name string) error {
	return f.record("purge:" + name)
}

func (f *fakeLists) CloseList(_ context.Context, name string) error {
	return f.record("close:" + name)
}

func (f *fakeLists) Backup(_ context.Context, name string) (ports.Snapshot, error) {
	if err := f.record("backup:" + name); err != nil {
		return nil, err
	}
	s := &fakeSnapshot{list: name}
	f.snapshots = append(f.snapshots, s)
	return s, nil
}

func (f *fakeLists) Restore(_ context.Context, name string, snap ports.Snapshot) error {
	if err := f.record("restore:" + name); err != nil {
		return err
	}
	f.restored = append(f.restored, snap)
	return nil
}

type fakeDefs struct {
	specs map[string]domain.MembershipSpec
	err   error
}

func (f fakeDefs) Load(name string) (domain.MembershipSpec, error) {
	if f.err != nil {
		return domain.MembershipSpec{}, f.err
	}
	spec, ok := f.specs[name]
	if !ok {
		return domain.MembershipSpec{}, &domain.OpError{
			Op:   "fake.load",
			Kind: domain.KindNotFound,
			Path: name + ".list",
			Err:  domain.ErrNotFound,
		}
	}
	return spec, nil
}

type fakeBuilder struct{ err error }

func (f fakeBuilder) Build(name, description string, _ domain.MembershipSpec) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "<list>" + name + ":" + description + "</list>", nil
}

type fakeStore struct {
	saved bool
	last  domain.BatchReport
	err   error
}

func (s *fakeStore) SaveReport(report domain.BatchReport) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = true
	s.last = report
	return "report-123", nil
}

// errSource yields ops, then err.
type errSource struct {
	ops []domain.BatchOperation
	err error
	i   int
}

func (s *errSource) Next() (domain.BatchOperation, error) {
	if s.i < len(s.ops) {
		s.i++
		return s.ops[s.i-1], nil
	}
	if s.err != nil {
		return domain.BatchOperation{}, s.err
	}
	return domain.BatchOperation{}, io.EOF
}

var errBoom = errors.New("boom")

func commandErr(sub string) error {
	return &domain.CommandError{Command: sub, ExitCode: 1, Stderr: sub + " failed"}
}
